package table

import (
	"math"

	"github.com/libyal/go-libpff-table/internal/codepage"
	"github.com/libyal/go-libpff-table/internal/format"
	"github.com/libyal/go-libpff-table/table/values"
)

// AsBool decodes a BOOLEAN value (spec.md §4.10).
func (e *RecordEntry) AsBool() (bool, error) {
	if e.ID.ValueType != uint32(format.ValueTypeBoolean) || len(e.Value) != 1 {
		return false, wrap(ErrKindValueMismatch, "value is not a 1-byte BOOLEAN", nil)
	}
	return e.Value[0] != 0, nil
}

// AsU16 decodes an INT16 value.
func (e *RecordEntry) AsU16() (uint16, error) {
	if e.ID.ValueType != uint32(format.ValueTypeInt16) || len(e.Value) != 2 {
		return 0, wrap(ErrKindValueMismatch, "value is not a 2-byte INT16", nil)
	}
	return format.ReadU16(e.Value, 0), nil
}

// AsU32 decodes an INT32 value.
func (e *RecordEntry) AsU32() (uint32, error) {
	if e.ID.ValueType != uint32(format.ValueTypeInt32) || len(e.Value) != 4 {
		return 0, wrap(ErrKindValueMismatch, "value is not a 4-byte INT32", nil)
	}
	return format.ReadU32(e.Value, 0), nil
}

// AsU64 decodes an INT64 value.
func (e *RecordEntry) AsU64() (uint64, error) {
	if e.ID.ValueType != uint32(format.ValueTypeInt64) || len(e.Value) != 8 {
		return 0, wrap(ErrKindValueMismatch, "value is not an 8-byte INT64", nil)
	}
	return format.ReadU64(e.Value, 0), nil
}

// AsFiletime decodes a FILETIME value: a raw 100ns-tick count since the
// Windows epoch, left as the caller's concern to convert to a calendar time
// (spec.md §4.10).
func (e *RecordEntry) AsFiletime() (uint64, error) {
	if e.ID.ValueType != uint32(format.ValueTypeFiletime) || len(e.Value) != 8 {
		return 0, wrap(ErrKindValueMismatch, "value is not an 8-byte FILETIME", nil)
	}
	return format.ReadU64(e.Value, 0), nil
}

// AsFloatingTime decodes an APPTIME (OLE Automation date) value: an 8-byte
// IEEE-754 double counting days since 1899-12-30.
func (e *RecordEntry) AsFloatingTime() (float64, error) {
	if e.ID.ValueType != uint32(format.ValueTypeAppTime) || len(e.Value) != 8 {
		return 0, wrap(ErrKindValueMismatch, "value is not an 8-byte APPTIME", nil)
	}
	return math.Float64frombits(format.ReadU64(e.Value, 0)), nil
}

// AsSize decodes an INT32 or INT64 value as an unsigned size (spec.md
// §4.10: "accepts INT32 or INT64, length 4 or 8").
func (e *RecordEntry) AsSize() (uint64, error) {
	switch {
	case e.ID.ValueType == uint32(format.ValueTypeInt32) && len(e.Value) == 4:
		return uint64(format.ReadU32(e.Value, 0)), nil
	case e.ID.ValueType == uint32(format.ValueTypeInt64) && len(e.Value) == 8:
		return format.ReadU64(e.Value, 0), nil
	default:
		return 0, wrap(ErrKindValueMismatch, "value is not an INT32/INT64 size", nil)
	}
}

// AsFloatingPoint decodes a FLOAT32 or FLOAT64 value, bit-casting through
// the matching-width unsigned integer (spec.md §4.10).
func (e *RecordEntry) AsFloatingPoint() (float64, error) {
	switch {
	case e.ID.ValueType == uint32(format.ValueTypeFloat32) && len(e.Value) == 4:
		return float64(math.Float32frombits(format.ReadU32(e.Value, 0))), nil
	case e.ID.ValueType == uint32(format.ValueTypeFloat64) && len(e.Value) == 8:
		return math.Float64frombits(format.ReadU64(e.Value, 0)), nil
	default:
		return 0, wrap(ErrKindValueMismatch, "value is not a FLOAT32/FLOAT64", nil)
	}
}

// AsGUID decodes a GUID value, copying the 16 raw bytes.
func (e *RecordEntry) AsGUID() ([16]byte, error) {
	var out [16]byte
	if e.ID.ValueType != uint32(format.ValueTypeGUID) || len(e.Value) != 16 {
		return out, wrap(ErrKindValueMismatch, "value is not a 16-byte GUID", nil)
	}
	copy(out[:], e.Value)
	return out, nil
}

// AsObjectIdentifier decodes an OBJECT value's leading 4 LE bytes (spec.md
// §4.10).
func (e *RecordEntry) AsObjectIdentifier() (uint32, error) {
	if e.ID.ValueType != uint32(format.ValueTypeObject) || len(e.Value) != 8 {
		return 0, wrap(ErrKindValueMismatch, "value is not an 8-byte OBJECT", nil)
	}
	return format.ReadU32(e.Value, 0), nil
}

// AsUTF8String decodes a STRING_ASCII or STRING_UNICODE value to UTF-8,
// following the codepage/UTF-16-heuristic routing of spec.md §4.10.
// asciiCodepage is only consulted for STRING_ASCII values.
func (e *RecordEntry) AsUTF8String(asciiCodepage int) (string, error) {
	switch uint16(e.ID.ValueType) {
	case format.ValueTypeStringUnicode:
		s, err := codepage.DecodeUnicodeValue(e.Value)
		if err != nil {
			return "", wrap(ErrKindConversionFailed, "decode STRING_UNICODE", err)
		}
		return s, nil
	case format.ValueTypeStringASCII:
		s, err := codepage.DecodeASCIIValue(e.Value, asciiCodepage)
		if err != nil {
			return "", wrap(ErrKindConversionFailed, "decode STRING_ASCII", err)
		}
		return s, nil
	default:
		return "", wrap(ErrKindValueMismatch, "value is not a string type", nil)
	}
}

// AsUTF16String decodes the value's bytes as UTF-16LE regardless of
// declared value type width, matching as_utf16_string's direct-decode
// contract once the caller already knows the value is textual.
func (e *RecordEntry) AsUTF16String() (string, error) {
	s, err := codepage.DecodeUTF16LE(e.Value)
	if err != nil {
		return "", wrap(ErrKindConversionFailed, "decode as UTF-16LE", err)
	}
	return s, nil
}

// CompareWithUTF8 decodes this entry's string value per the same routing as
// AsUTF8String and compares it with other, returning -1/0/1 as the value
// sorts before, equal to, or after other (spec.md §4.10).
func (e *RecordEntry) CompareWithUTF8(other string, asciiCodepage int) (int, error) {
	isASCII := uint16(e.ID.ValueType) == format.ValueTypeStringASCII
	if !isASCII && uint16(e.ID.ValueType) != format.ValueTypeStringUnicode {
		return 0, wrap(ErrKindValueMismatch, "value is not a string type", nil)
	}
	cmp, err := codepage.Compare(other, e.Value, isASCII, asciiCodepage)
	if err != nil {
		return 0, wrap(ErrKindConversionFailed, "compare string value", err)
	}
	// codepage.Compare orders other against the value; negate for value
	// against other, the order CompareWithUTF16 uses.
	return -cmp, nil
}

// CompareWithUTF16 compares this entry's UTF-16LE-decoded value with other.
func (e *RecordEntry) CompareWithUTF16(other string) (int, error) {
	s, err := e.AsUTF16String()
	if err != nil {
		return 0, err
	}
	switch {
	case s < other:
		return -1, nil
	case s > other:
		return 1, nil
	default:
		return 0, nil
	}
}

// AsMultiValue decomposes a multi-value entry's raw bytes into its
// individual items (spec.md §3, §4.10 "multi_value_*"), via table/values.
// It fails if the entry's ValueType does not carry the multi-value flag.
func (e *RecordEntry) AsMultiValue() (*values.MultiValue, error) {
	if !format.IsMultiValue(uint16(e.ID.ValueType)) {
		return nil, wrap(ErrKindValueMismatch, "value type is not a multi-value", nil)
	}
	mv, err := values.Parse(uint16(e.ID.ValueType), e.Value, e.Codepage)
	if err != nil {
		return nil, wrap(ErrKindUnsupportedValue, "decompose multi-value", err)
	}
	return mv, nil
}

// ValueReader is a clamped byte cursor over a record entry's value bytes
// (spec.md §4.11 "Streamed value reads"): negative offsets fail, reads
// past the end return a short count rather than an error.
type ValueReader struct {
	data []byte
	pos  int64
}

// NewReader opens a streamed cursor over e's value bytes.
func (e *RecordEntry) NewReader() *ValueReader {
	return &ValueReader{data: e.Value}
}

// Read implements io.Reader, returning a short count (not an error) when
// fewer than len(p) bytes remain.
func (r *ValueReader) Read(p []byte) (int, error) {
	if r.pos >= int64(len(r.data)) {
		return 0, nil
	}
	n := copy(p, r.data[r.pos:])
	r.pos += int64(n)
	return n, nil
}

// Seek implements io.Seeker. whence follows io.Seeker conventions; a
// negative resulting offset fails.
func (r *ValueReader) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case 0:
		target = offset
	case 1:
		target = r.pos + offset
	case 2:
		target = int64(len(r.data)) + offset
	default:
		return 0, wrap(ErrKindInvalidArgument, "invalid whence", nil)
	}
	if target < 0 {
		return 0, wrap(ErrKindInvalidArgument, "negative seek position", nil)
	}
	r.pos = target
	return target, nil
}
