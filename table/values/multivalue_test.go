package values

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/libyal/go-libpff-table/internal/format"
)

func putU32(b []byte, off int, v uint32) {
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
	b[off+2] = byte(v >> 16)
	b[off+3] = byte(v >> 24)
}

func TestParseFixedWidthInt32(t *testing.T) {
	raw := []byte{
		0x01, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00,
		0x03, 0x00, 0x00, 0x00,
	}
	mv, err := Parse(format.ValueTypeMultiInt32, raw, 0)
	require.NoError(t, err, "Parse")
	if mv.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", mv.Count())
	}
	for i, want := range []int32{1, 2, 3} {
		got, err := mv.Int32At(i)
		if err != nil {
			t.Fatalf("Int32At(%d): %v", i, err)
		}
		if got != want {
			t.Fatalf("Int32At(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestParseFixedWidthNotAMultiple(t *testing.T) {
	raw := []byte{0x01, 0x00, 0x00} // 3 bytes, not a multiple of 4
	_, err := Parse(format.ValueTypeMultiInt32, raw, 0)
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("Parse() error = %v, want ErrTruncated", err)
	}
}

func TestParseGUIDMultiValue(t *testing.T) {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i)
	}
	mv, err := Parse(format.ValueTypeMultiGUID, raw, 0)
	require.NoError(t, err, "Parse")
	if mv.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", mv.Count())
	}
	g0, err := mv.GUIDAt(0)
	require.NoError(t, err, "GUIDAt(0)")
	if g0 != [16]byte(raw[0:16]) {
		t.Fatalf("GUIDAt(0) = %v, want %v", g0, raw[0:16])
	}
	g1, err := mv.GUIDAt(1)
	require.NoError(t, err, "GUIDAt(1)")
	if g1 != [16]byte(raw[16:32]) {
		t.Fatalf("GUIDAt(1) = %v, want %v", g1, raw[16:32])
	}
}

// buildVariableWidthBlob reproduces spec.md's worked example: three UTF-16
// strings "A", "BB", "CCC".
func buildVariableWidthBlob() []byte {
	// header: count=3, offsets 16, 18, 22
	raw := make([]byte, 16+2+4+6)
	putU32(raw, 0, 3)
	putU32(raw, 4, 16)
	putU32(raw, 8, 18)
	putU32(raw, 12, 22)
	copy(raw[16:], []byte{0x41, 0x00})
	copy(raw[18:], []byte{0x42, 0x00, 0x42, 0x00})
	copy(raw[22:], []byte{0x43, 0x00, 0x43, 0x00, 0x43, 0x00})
	return raw
}

func TestParseVariableWidthStrings(t *testing.T) {
	raw := buildVariableWidthBlob()
	mv, err := Parse(format.ValueTypeMultiStringUnicode, raw, 0)
	require.NoError(t, err, "Parse")
	if mv.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", mv.Count())
	}

	got0, err := mv.At(0)
	require.NoError(t, err, "At(0)")
	if string(got0) != string([]byte{0x41, 0x00}) {
		t.Fatalf("At(0) = %v, want [41 00]", got0)
	}

	// Last item extends to the end of the buffer, not to a synthesized next
	// offset (spec.md §3/§4.10).
	got2, err := mv.At(2)
	require.NoError(t, err, "At(2)")
	want2 := []byte{0x43, 0x00, 0x43, 0x00, 0x43, 0x00}
	if string(got2) != string(want2) {
		t.Fatalf("At(2) = %v, want %v", got2, want2)
	}

	s0, err := mv.UTF8StringAt(0, 0)
	require.NoError(t, err, "UTF8StringAt(0)")
	if s0 != "A" {
		t.Fatalf("UTF8StringAt(0) = %q, want %q", s0, "A")
	}
	s2, err := mv.UTF8StringAt(2, 0)
	require.NoError(t, err, "UTF8StringAt(2)")
	if s2 != "CCC" {
		t.Fatalf("UTF8StringAt(2) = %q, want %q", s2, "CCC")
	}
}

func TestParseVariableWidthOffsetOutOfRange(t *testing.T) {
	raw := make([]byte, 12)
	putU32(raw, 0, 1)
	putU32(raw, 4, 100) // past the end of an 12-byte buffer
	_, err := Parse(format.ValueTypeMultiBinary, raw, 0)
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("Parse() error = %v, want ErrTruncated", err)
	}
}

func TestParseUnsupportedType(t *testing.T) {
	_, err := Parse(format.ValueTypeObject|format.ValueTypeMultiValueFlag, []byte{1, 2, 3, 4}, 0)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("Parse() error = %v, want ErrUnsupportedType", err)
	}
}

func TestAtOutOfRange(t *testing.T) {
	mv, err := Parse(format.ValueTypeMultiInt16, []byte{1, 0, 2, 0}, 0)
	require.NoError(t, err, "Parse")
	_, err = mv.At(5)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("At(5) error = %v, want ErrOutOfRange", err)
	}
}
