//go:build unix

package datastream

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// MappedFile is a RawSource backed by a memory-mapped file, the default
// concrete backing store for a FileBlockSource. Grounded on the teacher's
// internal/mmfile/mmfile_unix.go.
type MappedFile struct {
	data []byte
}

// OpenMappedFile maps path into memory.
func OpenMappedFile(path string) (*MappedFile, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close() // safe before return; mapping keeps pages alive

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := info.Size()
	if size == 0 {
		return &MappedFile{data: []byte{}}, func() error { return nil }, nil
	}
	if size > int64(^uint(0)>>1) {
		return nil, nil, fmt.Errorf("datastream: file too large to map (%d bytes)", size)
	}
	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	mf := &MappedFile{data: data}
	cleanup := func() error {
		if mf.data == nil {
			return nil
		}
		err := syscall.Munmap(mf.data)
		if errors.Is(err, syscall.EINVAL) {
			return nil
		}
		return err
	}
	return mf, cleanup, nil
}

// ReadRangeAt implements RawSource.
func (mf *MappedFile) ReadRangeAt(offset int64, size uint32) ([]byte, error) {
	end := offset + int64(size)
	if offset < 0 || end > int64(len(mf.data)) {
		return nil, fmt.Errorf("datastream: range [%d,%d) out of bounds (file size %d)", offset, end, len(mf.data))
	}
	return mf.data[offset:end], nil
}
