package format

import "encoding/binary"

// Little-endian integer encoding for the libpff wire format.
//
// Every multi-byte integer in the format, including GUIDs read as a
// sequence of sub-fields, is little-endian (spec.md §9 Design Notes).

// ReadU16 reads a uint16 at off. Callers must have already bounds-checked.
func ReadU16(b []byte, off int) uint16 { return binary.LittleEndian.Uint16(b[off : off+2]) }

// ReadU32 reads a uint32 at off.
func ReadU32(b []byte, off int) uint32 { return binary.LittleEndian.Uint32(b[off : off+4]) }

// ReadI32 reads an int32 at off.
func ReadI32(b []byte, off int) int32 { return int32(binary.LittleEndian.Uint32(b[off : off+4])) }

// ReadU64 reads a uint64 at off.
func ReadU64(b []byte, off int) uint64 { return binary.LittleEndian.Uint64(b[off : off+8]) }

// CheckedReadU16 reads a uint16 at off, failing with ErrBoundsCheck rather
// than panicking if it would read past len(b).
func CheckedReadU16(b []byte, off int) (uint16, error) {
	if off < 0 || off+2 > len(b) {
		return 0, ErrBoundsCheck
	}
	return ReadU16(b, off), nil
}

// CheckedReadU32 reads a uint32 at off with bounds checking.
func CheckedReadU32(b []byte, off int) (uint32, error) {
	if off < 0 || off+4 > len(b) {
		return 0, ErrBoundsCheck
	}
	return ReadU32(b, off), nil
}

// CheckedReadI32 reads an int32 at off with bounds checking.
func CheckedReadI32(b []byte, off int) (int32, error) {
	if off < 0 || off+4 > len(b) {
		return 0, ErrBoundsCheck
	}
	return ReadI32(b, off), nil
}

// CheckedReadU64 reads a uint64 at off with bounds checking.
func CheckedReadU64(b []byte, off int) (uint64, error) {
	if off < 0 || off+8 > len(b) {
		return 0, ErrBoundsCheck
	}
	return ReadU64(b, off), nil
}

// LEUint reads a 1/2/4/8-byte little-endian unsigned integer from data,
// sized by len(data). Used to decode a BC/TC cell's raw entry_value field
// (spec.md §4.8 step 2), whose width is implied by the column's storage
// size rather than carried explicitly.
func LEUint(data []byte) uint64 {
	switch len(data) {
	case 1:
		return uint64(data[0])
	case 2:
		return uint64(ReadU16(data, 0))
	case 4:
		return uint64(ReadU32(data, 0))
	case 8:
		return ReadU64(data, 0)
	default:
		return 0
	}
}
