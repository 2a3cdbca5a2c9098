package canlog

import (
	"github.com/rs/zerolog"

	"github.com/mgbdash/dashbus/internal/canbus"
	"github.com/mgbdash/dashbus/internal/canid"
)

// Logger emits structured diagnostic events for one node. Events are
// ephemeral: each Log call either reaches the bus, reaches the fallback
// sink, or is filtered; nothing is buffered or retried.
type Logger struct {
	bus  *canbus.Bus
	role Role
	min  Level
	sink zerolog.Logger
}

// New creates a logger for a role. bus may be nil, which routes every
// event through the fallback sink (useful before transport bring-up).
func New(bus *canbus.Bus, role Role, sink zerolog.Logger) *Logger {
	return &Logger{bus: bus, role: role, min: LevelDebug, sink: sink}
}

// SetMinLevel silently discards events below lv. This is a bandwidth
// control, not an error path: filtered events reach neither the bus nor
// the fallback.
func (l *Logger) SetMinLevel(lv Level) { l.min = lv }

// Log emits an event with no context value and no text.
func (l *Logger) Log(level Level, event Event) {
	l.LogText(level, event, 0, "")
}

// LogContext emits an event with a 32-bit context value.
func (l *Logger) LogContext(level Level, event Event, context uint32) {
	l.LogText(level, event, context, "")
}

// LogText emits an event with context and optional text. Text beyond
// MaxTextLen bytes is truncated without indication; callers accept the
// lossy bound. When the transport is unavailable the same information
// goes to the fallback sink instead, so an event is never lost merely
// because the bus is down, and the logger never blocks on a dead bus.
func (l *Logger) LogText(level Level, event Event, context uint32, text string) {
	if level < l.min {
		return
	}

	if len(text) > MaxTextLen {
		text = text[:MaxTextLen]
	}
	var textFrames uint8
	if len(text) > 0 {
		textFrames = uint8((len(text) + TextCharsPerFrame - 1) / TextCharsPerFrame)
	}

	if l.bus == nil || !l.bus.Available() {
		l.fallback(level, event, context, text)
		return
	}

	payload := composeEventFrame(l.role, level, event, context, textFrames)
	_ = l.bus.TransmitGuarded(canid.Log, payload[:])

	for i := uint8(0); i < textFrames; i++ {
		off := int(i) * TextCharsPerFrame
		end := off + TextCharsPerFrame
		if end > len(text) {
			end = len(text)
		}
		frag := composeTextFrame(i, text[off:end])
		_ = l.bus.TransmitGuarded(canid.LogText, frag[:])
	}
}

// fallback renders the event through the local sink with the same
// information the bus frames would have carried.
func (l *Logger) fallback(level Level, event Event, context uint32, text string) {
	ev := l.sink.WithLevel(zerologLevel(level)).
		Str("role", l.role.Name()).
		Str("level", level.Name()).
		Uint32("ctx", context)
	if text != "" {
		ev = ev.Str("text", text)
	}
	ev.Msg(event.Name())
}

func zerologLevel(level Level) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	case LevelCritical:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
