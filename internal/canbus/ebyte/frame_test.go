package ebyte

import (
	"bytes"
	"testing"

	"github.com/mgbdash/dashbus/internal/canbus"
)

func TestWireRoundTrip(t *testing.T) {
	in := canbus.Frame{ID: 0x1DB, DLC: 8}
	copy(in.Data[:], []byte{0x3C, 0x40, 0x7F, 0xE0, 0x55, 0, 0, 0})

	raw, err := encodeWire(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(raw) != wireSize {
		t.Fatalf("wire size = %d, want %d", len(raw), wireSize)
	}

	out, err := decodeWire(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID != in.ID || out.DLC != in.DLC || !bytes.Equal(out.Data[:], in.Data[:]) {
		t.Fatalf("round trip mismatch: got %+v want %+v", out, in)
	}
}

func TestDecodeWireRejectsBadInput(t *testing.T) {
	if _, err := decodeWire(make([]byte, 5)); err == nil {
		t.Fatal("short buffer must fail")
	}

	raw := make([]byte, wireSize)
	raw[0] = 0x09 // DLC 9
	if _, err := decodeWire(raw); err == nil {
		t.Fatal("DLC over 8 must fail")
	}

	raw[0] = headerExtended | 0x08
	if _, err := decodeWire(raw); err == nil {
		t.Fatal("extended frame must fail")
	}

	raw[0] = headerRemote | 0x00
	if _, err := decodeWire(raw); err == nil {
		t.Fatal("remote frame must fail")
	}
}

func TestEncodeWireIdentifierBigEndian(t *testing.T) {
	raw, err := encodeWire(canbus.Frame{ID: 0x731, DLC: 8})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{0x00, 0x00, 0x00, 0x07, 0x31}
	if !bytes.Equal(raw[:5], want) {
		t.Fatalf("header+id = %x, want %x", raw[:5], want)
	}
}
