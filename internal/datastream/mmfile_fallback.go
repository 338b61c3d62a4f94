//go:build !unix

package datastream

import (
	"fmt"
	"os"
)

// MappedFile is a RawSource reading the whole file into memory when mmap
// isn't available on this platform. Grounded on the teacher's
// internal/mmfile/mmfile_fallback.go and mmfile_windows.go (both reduce to
// os.ReadFile).
type MappedFile struct {
	data []byte
}

// OpenMappedFile reads path entirely into memory.
func OpenMappedFile(path string) (*MappedFile, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return &MappedFile{data: data}, func() error { return nil }, nil
}

// ReadRangeAt implements RawSource.
func (mf *MappedFile) ReadRangeAt(offset int64, size uint32) ([]byte, error) {
	end := offset + int64(size)
	if offset < 0 || end > int64(len(mf.data)) {
		return nil, fmt.Errorf("datastream: range [%d,%d) out of bounds (file size %d)", offset, end, len(mf.data))
	}
	return mf.data[offset:end], nil
}
