package datastream

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// Decompressor inflates a physical block's still-encrypted-free bytes into
// its uncompressed form (spec.md §4.2, FlagCompressed).
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// NoCompression is the identity Decompressor, used when a file's blocks are
// never compressed.
type NoCompression struct{}

// Decompress implements Decompressor.
func (NoCompression) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

// FlateDecompressor inflates DEFLATE-compressed blocks using
// klauspost/compress/flate, a faster drop-in for compress/flate. The
// on-disk format doesn't mandate a specific algorithm at the table-subsystem
// layer (spec.md §1, collaborator concern); flate is used as the default
// stand-in so FlagCompressed has a real, exercised implementation rather
// than a bare interface.
type FlateDecompressor struct{}

// Decompress implements Decompressor.
func (FlateDecompressor) Decompress(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("datastream: inflate: %w", err)
	}
	return out, nil
}

// FlateCompress deflates data, used by tests to build fixtures that
// FlateDecompressor must reverse.
func FlateCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
