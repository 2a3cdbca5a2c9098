package canlog

import "encoding/binary"

const (
	// TextCharsPerFrame is the ASCII capacity of one LOG_TEXT frame.
	TextCharsPerFrame = 7
	// MaxTextFrames caps a single event's continuation frames. Text
	// beyond TextCharsPerFrame*MaxTextFrames bytes is dropped.
	MaxTextFrames = 7
	// MaxTextLen is the longest text an event can carry on the bus.
	MaxTextLen = TextCharsPerFrame * MaxTextFrames
)

// EventFrame is the decoded fixed part of one LOG (0x731) payload.
type EventFrame struct {
	Role       Role
	Level      Level
	Event      Event
	Context    uint32
	TextFrames uint8
}

// composeEventFrame packs the LOG payload: byte 0 carries role in the
// high nibble and level in the low nibble, the context travels
// big-endian.
func composeEventFrame(role Role, level Level, event Event, context uint32, textFrames uint8) [8]byte {
	var d [8]byte
	d[0] = uint8(role)<<4 | uint8(level)&0x0F
	d[1] = uint8(event)
	binary.BigEndian.PutUint32(d[2:6], context)
	d[6] = 0 // reserved
	d[7] = textFrames
	return d
}

// ParseEventFrame decodes a LOG payload. ok is false for payloads
// shorter than the fixed 8 bytes.
func ParseEventFrame(data []byte) (EventFrame, bool) {
	if len(data) < 8 {
		return EventFrame{}, false
	}
	return EventFrame{
		Role:       Role(data[0] >> 4),
		Level:      Level(data[0] & 0x0F),
		Event:      Event(data[1]),
		Context:    binary.BigEndian.Uint32(data[2:6]),
		TextFrames: data[7],
	}, true
}

// composeTextFrame packs one LOG_TEXT payload: fragment index in byte
// 0, then up to 7 ASCII bytes, zero-padded.
func composeTextFrame(index uint8, chunk string) [8]byte {
	var d [8]byte
	d[0] = index
	copy(d[1:], chunk)
	return d
}

// ParseTextFrame decodes a LOG_TEXT payload into its fragment index and
// text chunk, stopping at the zero padding.
func ParseTextFrame(data []byte) (index uint8, chunk string, ok bool) {
	if len(data) < 8 {
		return 0, "", false
	}
	end := 8
	for i := 1; i < 8; i++ {
		if data[i] == 0 {
			end = i
			break
		}
	}
	return data[0], string(data[1:end]), true
}
