package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"
)

// An OpenError reports a trace file that cannot be opened for reading.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("could not open file for reading: %s", e.Path)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// Compression identifies how a trace file is encoded on disk.
type Compression int

// The supported trace encodings.
const (
	Uncompressed Compression = iota
	LZ4
	Snappy
)

// CompressionOf picks the encoding from the file extension.
func CompressionOf(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lz4":
		return LZ4
	case ".sz", ".snappy":
		return Snappy
	default:
		return Uncompressed
	}
}

type traceFile struct {
	io.Reader
	file *os.File
}

func (f *traceFile) Close() error {
	return f.file.Close()
}

// Open opens a trace file, decompressing it on the fly when its extension
// names a supported compression format.
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	return &traceFile{
		Reader: decompress(file, CompressionOf(path)),
		file:   file,
	}, nil
}

func decompress(r io.Reader, c Compression) io.Reader {
	switch c {
	case LZ4:
		return lz4.NewReader(r)
	case Snappy:
		return snappy.NewReader(r)
	default:
		return r
	}
}
