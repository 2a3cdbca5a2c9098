package canbus

import "errors"

var (
	ErrNotInstalled    = errors.New("canbus: controller not installed")
	ErrBusOff          = errors.New("canbus: bus is in bus-off state")
	ErrOutOfRange      = errors.New("canbus: arbitration id outside custom range")
	ErrInvalidID       = errors.New("canbus: arbitration id exceeds 11 bits")
	ErrPayloadTooLong  = errors.New("canbus: payload longer than 8 bytes")
	ErrTransmitTimeout = errors.New("canbus: transmit enqueue timed out")
)
