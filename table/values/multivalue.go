// Package values decomposes a multi-value record entry's raw bytes into its
// individual items (spec.md §3 "Multi-value", §4.10 "multi_value_*"):
// either a flat array of fixed-width elements with synthesized offsets, or a
// variable-width item list addressed through a leading count-and-offsets
// header.
package values

import (
	"errors"
	"fmt"

	"github.com/libyal/go-libpff-table/internal/codepage"
	"github.com/libyal/go-libpff-table/internal/format"
)

// ErrUnsupportedType marks a value type tag that has no multi-value
// decomposition (every type but the ones spec.md §3 lists).
var ErrUnsupportedType = errors.New("values: unsupported multi-value type")

// ErrTruncated marks multi-value data too short for its own declared shape:
// a fixed-width blob whose length isn't a multiple of the element size, or a
// variable-width blob whose offsets table or an individual offset runs past
// the end of the data.
var ErrTruncated = errors.New("values: truncated multi-value data")

// ErrOutOfRange marks an item index outside [0, Count()).
var ErrOutOfRange = errors.New("values: item index out of range")

// MultiValue is the decomposed view of a multi-value record entry's raw
// bytes (spec.md §3). ValueType is the element's value type with the
// multi-value flag already stripped.
type MultiValue struct {
	ValueType uint16
	Codepage  uint32

	raw     []byte
	offsets []int
	sizes   []int
}

// fixedElementSize reports the per-item byte width of a fixed-width
// multi-value element type, or false if t isn't one.
func fixedElementSize(t uint16) (int, bool) {
	switch t {
	case format.ValueTypeInt16:
		return 2, true
	case format.ValueTypeInt32, format.ValueTypeFloat32:
		return 4, true
	case format.ValueTypeInt64, format.ValueTypeFloat64, format.ValueTypeCurrency,
		format.ValueTypeAppTime, format.ValueTypeFiletime:
		return 8, true
	case format.ValueTypeGUID:
		return 16, true
	}
	return 0, false
}

// isVariableWidthType reports whether t is one of the three element types
// whose items are addressed through a count-and-offsets header rather than
// a synthesized fixed stride.
func isVariableWidthType(t uint16) bool {
	switch t {
	case format.ValueTypeStringASCII, format.ValueTypeStringUnicode, format.ValueTypeBinary:
		return true
	}
	return false
}

// Parse decomposes raw per valueType's multi-value flavor (spec.md §3, §4.10
// "multi_value_*"). valueType may carry the multi-value flag or not; it is
// stripped before dispatch. codepage is only consulted later, by
// UTF8StringAt for STRING_ASCII items.
func Parse(valueType uint16, raw []byte, cp uint32) (*MultiValue, error) {
	base := valueType &^ format.ValueTypeMultiValueFlag

	if size, ok := fixedElementSize(base); ok {
		return parseFixedWidth(base, raw, size, cp)
	}
	if isVariableWidthType(base) {
		return parseVariableWidth(base, raw, cp)
	}
	return nil, fmt.Errorf("%w: %#04x", ErrUnsupportedType, valueType)
}

// parseFixedWidth implements spec.md §4.10's "for fixed-width types, |value_data|
// must be a multiple of the element size; count = quotient, offsets/sizes
// synthesized" rule.
func parseFixedWidth(base uint16, raw []byte, size int, cp uint32) (*MultiValue, error) {
	if len(raw)%size != 0 {
		return nil, fmt.Errorf("%w: data size %d not a multiple of element size %d", ErrTruncated, len(raw), size)
	}
	count := len(raw) / size
	offsets := make([]int, count)
	sizes := make([]int, count)
	for i := 0; i < count; i++ {
		offsets[i] = i * size
		sizes[i] = size
	}
	return &MultiValue{ValueType: base, Codepage: cp, raw: raw, offsets: offsets, sizes: sizes}, nil
}

// parseVariableWidth implements spec.md §3's "u32 count | u32 offsets[count]"
// header: each value_offset[i] addresses raw from its own start (the header
// included), item i's size is offsets[i+1]-offsets[i], and the last item
// extends to the end of raw rather than being bounded by a next offset.
func parseVariableWidth(base uint16, raw []byte, cp uint32) (*MultiValue, error) {
	if len(raw) < format.MultiValueHeaderCountSize {
		return nil, fmt.Errorf("%w: missing item count header", ErrTruncated)
	}
	count := int(format.ReadU32(raw, 0))
	headerSize := format.MultiValueHeaderCountSize + count*format.MultiValueOffsetSize
	if headerSize > len(raw) {
		return nil, fmt.Errorf("%w: offsets table (%d items) runs past data size %d", ErrTruncated, count, len(raw))
	}

	offsets := make([]int, count)
	for i := 0; i < count; i++ {
		off := int(format.ReadU32(raw, format.MultiValueHeaderCountSize+i*format.MultiValueOffsetSize))
		if off > len(raw) {
			return nil, fmt.Errorf("%w: item %d offset %d exceeds data size %d", ErrTruncated, i, off, len(raw))
		}
		offsets[i] = off
	}

	sizes := make([]int, count)
	for i := 0; i < count; i++ {
		var sz int
		if i+1 < count {
			sz = offsets[i+1] - offsets[i]
		} else {
			sz = len(raw) - offsets[i]
		}
		if sz < 0 {
			return nil, fmt.Errorf("%w: item %d has a negative size", ErrTruncated, i)
		}
		sizes[i] = sz
	}
	return &MultiValue{ValueType: base, Codepage: cp, raw: raw, offsets: offsets, sizes: sizes}, nil
}

// Count reports the number of decomposed items.
func (m *MultiValue) Count() int { return len(m.offsets) }

// At returns item i's raw bytes, a view into the original buffer (spec.md §3
// "item data pointer is &value_data[offsets[i]]").
func (m *MultiValue) At(i int) ([]byte, error) {
	if i < 0 || i >= len(m.offsets) {
		return nil, fmt.Errorf("%w: %d (count %d)", ErrOutOfRange, i, len(m.offsets))
	}
	start := m.offsets[i]
	end := start + m.sizes[i]
	return m.raw[start:end], nil
}

// Int32At decodes item i as a 4-byte little-endian integer, grounded on
// libpff_multi_value_get_value_32bit.
func (m *MultiValue) Int32At(i int) (int32, error) {
	b, err := m.At(i)
	if err != nil {
		return 0, err
	}
	if len(b) != 4 {
		return 0, fmt.Errorf("values: item %d is %d bytes, want 4", i, len(b))
	}
	return int32(format.ReadU32(b, 0)), nil
}

// Int64At decodes item i as an 8-byte little-endian integer, grounded on
// libpff_multi_value_get_value_64bit.
func (m *MultiValue) Int64At(i int) (int64, error) {
	b, err := m.At(i)
	if err != nil {
		return 0, err
	}
	if len(b) != 8 {
		return 0, fmt.Errorf("values: item %d is %d bytes, want 8", i, len(b))
	}
	return int64(format.ReadU64(b, 0)), nil
}

// GUIDAt copies item i's 16 raw bytes, grounded on
// libpff_multi_value_get_value_guid.
func (m *MultiValue) GUIDAt(i int) ([16]byte, error) {
	var out [16]byte
	b, err := m.At(i)
	if err != nil {
		return out, err
	}
	if len(b) != 16 {
		return out, fmt.Errorf("values: item %d is %d bytes, want 16", i, len(b))
	}
	copy(out[:], b)
	return out, nil
}

// UTF8StringAt decodes item i to UTF-8, following the same STRING_ASCII
// (codepage-routed) vs. STRING_UNICODE split as RecordEntry.AsUTF8String,
// grounded on libpff_multi_value_get_value_utf8_string. asciiCodepage is
// only consulted for STRING_ASCII elements.
func (m *MultiValue) UTF8StringAt(i int, asciiCodepage int) (string, error) {
	b, err := m.At(i)
	if err != nil {
		return "", err
	}
	switch m.ValueType {
	case format.ValueTypeStringUnicode:
		s, err := codepage.DecodeUnicodeValue(b)
		if err != nil {
			return "", fmt.Errorf("values: decode item %d as STRING_UNICODE: %w", i, err)
		}
		return s, nil
	case format.ValueTypeStringASCII:
		s, err := codepage.DecodeASCIIValue(b, asciiCodepage)
		if err != nil {
			return "", fmt.Errorf("values: decode item %d as STRING_ASCII: %w", i, err)
		}
		return s, nil
	default:
		return "", fmt.Errorf("values: item %d is not a string type (%#04x)", i, m.ValueType)
	}
}
