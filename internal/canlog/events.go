// Package canlog implements the structured diagnostic-log protocol:
// one LOG frame per event, up to seven LOG_TEXT continuation frames,
// and a local fallback sink for when the bus cannot carry them.
package canlog

import (
	"fmt"
	"strings"
)

// Level is the 4-bit event severity.
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
)

func (l Level) Name() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "?"
	}
}

// ParseLevel maps a config string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "critical":
		return LevelCritical, nil
	default:
		return 0, fmt.Errorf("canlog: unknown level %q", s)
	}
}

// Role is the 4-bit module role carried in the high nibble of byte 0.
// Values match the heartbeat role order.
type Role uint8

const (
	RoleFuel Role = iota
	RoleAmps
	RoleTemp
	RoleSpeed
	RoleBody
	RoleDash
	RoleGPS
)

func (r Role) Name() string {
	switch r {
	case RoleFuel:
		return "FUEL"
	case RoleAmps:
		return "AMPS"
	case RoleTemp:
		return "TEMP"
	case RoleSpeed:
		return "SPEED"
	case RoleBody:
		return "BODY"
	case RoleDash:
		return "DASH"
	case RoleGPS:
		return "GPS"
	default:
		return "?"
	}
}

// Event is an 8-bit event code, namespaced by numeric range.
type Event uint8

const (
	// Boot / init (0x00-0x0F)
	EventBootStart    Event = 0x00
	EventBootComplete Event = 0x01
	EventCanInitOK    Event = 0x02
	EventCanInitFail  Event = 0x03
	EventWifiOK       Event = 0x04
	EventWifiFail     Event = 0x05
	EventBleOK        Event = 0x06
	EventBleFail      Event = 0x07

	// Bus health (0x10-0x1F)
	EventBusError     Event = 0x10
	EventBusOff       Event = 0x11
	EventBusRecovered Event = 0x12
	EventTxFail       Event = 0x13
	EventRxOverflow   Event = 0x14

	// Self-test (0x20-0x2F)
	EventSelfTestStart Event = 0x20
	EventSelfTestPass  Event = 0x21
	EventSelfTestFail  Event = 0x22

	// Sensor / gauge (0x30-0x3F)
	EventSensorOutOfRange Event = 0x30
	EventSensorTimeout    Event = 0x31
	EventServoLimit       Event = 0x32
	EventServoStall       Event = 0x33
	EventStepperHomeOK    Event = 0x34
	EventStepperHomeFail  Event = 0x35

	// Comms (0x40-0x4F)
	EventHeartbeatTimeout Event = 0x40
	EventHeartbeatResumed Event = 0x41
	EventBleConnect       Event = 0x42
	EventBleDisconnect    Event = 0x43
	EventGPSFixAcquired   Event = 0x44
	EventGPSFixLost       Event = 0x45
	EventCanSilence       Event = 0x46

	// Power (0x50-0x5F)
	EventKeyOn      Event = 0x50
	EventKeyOff     Event = 0x51
	EventLowVoltage Event = 0x52
	EventOvertemp   Event = 0x53

	// Display (0x60-0x6F)
	EventDisplayInitOK   Event = 0x60
	EventDisplayInitFail Event = 0x61
	EventEinkRefresh     Event = 0x62
	EventEinkFail        Event = 0x63

	// Generic (0xF0-0xFF)
	EventGenericInfo   Event = 0xF0
	EventGenericWarn   Event = 0xF1
	EventGenericError  Event = 0xF2
	EventWatchdogReset Event = 0xFD
	EventAssertFailed  Event = 0xFE
	EventUnknown       Event = 0xFF
)

var eventNames = map[Event]string{
	EventBootStart:        "BOOT_START",
	EventBootComplete:     "BOOT_COMPLETE",
	EventCanInitOK:        "CAN_INIT_OK",
	EventCanInitFail:      "CAN_INIT_FAIL",
	EventWifiOK:           "WIFI_OK",
	EventWifiFail:         "WIFI_FAIL",
	EventBleOK:            "BLE_OK",
	EventBleFail:          "BLE_FAIL",
	EventBusError:         "BUS_ERROR",
	EventBusOff:           "BUS_OFF",
	EventBusRecovered:     "BUS_RECOVERED",
	EventTxFail:           "TX_FAIL",
	EventRxOverflow:       "RX_OVERFLOW",
	EventSelfTestStart:    "SELF_TEST_START",
	EventSelfTestPass:     "SELF_TEST_PASS",
	EventSelfTestFail:     "SELF_TEST_FAIL",
	EventSensorOutOfRange: "SENSOR_OUT_OF_RANGE",
	EventSensorTimeout:    "SENSOR_TIMEOUT",
	EventServoLimit:       "SERVO_LIMIT",
	EventServoStall:       "SERVO_STALL",
	EventStepperHomeOK:    "STEPPER_HOME_OK",
	EventStepperHomeFail:  "STEPPER_HOME_FAIL",
	EventHeartbeatTimeout: "HEARTBEAT_TIMEOUT",
	EventHeartbeatResumed: "HEARTBEAT_RESUMED",
	EventBleConnect:       "BLE_CONNECT",
	EventBleDisconnect:    "BLE_DISCONNECT",
	EventGPSFixAcquired:   "GPS_FIX_ACQUIRED",
	EventGPSFixLost:       "GPS_FIX_LOST",
	EventCanSilence:       "CAN_SILENCE",
	EventKeyOn:            "KEY_ON",
	EventKeyOff:           "KEY_OFF",
	EventLowVoltage:       "LOW_VOLTAGE",
	EventOvertemp:         "OVERTEMP",
	EventDisplayInitOK:    "DISPLAY_INIT_OK",
	EventDisplayInitFail:  "DISPLAY_INIT_FAIL",
	EventEinkRefresh:      "EINK_REFRESH",
	EventEinkFail:         "EINK_FAIL",
	EventGenericInfo:      "GENERIC_INFO",
	EventGenericWarn:      "GENERIC_WARN",
	EventGenericError:     "GENERIC_ERROR",
	EventWatchdogReset:    "WATCHDOG_RESET",
	EventAssertFailed:     "ASSERT_FAILED",
	EventUnknown:          "UNKNOWN",
}

func (e Event) Name() string {
	if n, ok := eventNames[e]; ok {
		return n
	}
	return "?"
}
