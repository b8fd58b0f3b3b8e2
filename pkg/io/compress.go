package io

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	gio "io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"tabio/pkg/model"
)

// Compression is a transparent compression layer picked by file suffix.
type Compression struct {
	Ext       string
	NewReader func(r gio.Reader) (gio.ReadCloser, error)
	// NewWriter is nil when the compression can only be read.
	NewWriter func(w gio.Writer) (gio.WriteCloser, error)
}

var compressions = []Compression{
	{
		Ext: ".gz",
		NewReader: func(r gio.Reader) (gio.ReadCloser, error) {
			return gzip.NewReader(r)
		},
		NewWriter: func(w gio.Writer) (gio.WriteCloser, error) {
			return gzip.NewWriter(w), nil
		},
	},
	{
		Ext: ".bz2",
		NewReader: func(r gio.Reader) (gio.ReadCloser, error) {
			return gio.NopCloser(bzip2.NewReader(r)), nil
		},
	},
	{
		Ext: ".xz",
		NewReader: func(r gio.Reader) (gio.ReadCloser, error) {
			xr, err := xz.NewReader(r)
			if err != nil {
				return nil, err
			}
			return gio.NopCloser(xr), nil
		},
		NewWriter: func(w gio.Writer) (gio.WriteCloser, error) {
			return xz.NewWriter(w)
		},
	},
	{
		Ext: ".zst",
		NewReader: func(r gio.Reader) (gio.ReadCloser, error) {
			decoder, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return decoder.IOReadCloser(), nil
		},
		NewWriter: func(w gio.Writer) (gio.WriteCloser, error) {
			return zstd.NewWriter(w)
		},
	},
}

// SplitCompression strips a known compression suffix from path.
func SplitCompression(path string) (string, *Compression) {
	lower := strings.ToLower(path)
	for i := range compressions {
		if strings.HasSuffix(lower, compressions[i].Ext) {
			return path[:len(path)-len(compressions[i].Ext)], &compressions[i]
		}
	}
	return path, nil
}

type stackedCloser struct {
	gio.Reader
	gio.Writer
	closers []gio.Closer
}

// Close closes the layers from the outermost in.
func (s *stackedCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenFile opens path for reading, decompressing it when its suffix names a
// known compression.
func OpenFile(path string) (gio.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	_, c := SplitCompression(path)
	if c == nil {
		return f, nil
	}
	r, err := c.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("error decompressing %s: %w", path, err)
	}
	return &stackedCloser{Reader: r, closers: []gio.Closer{r, f}}, nil
}

// CreateFile creates path for writing, compressing it when its suffix names a
// known compression.
func CreateFile(path string) (gio.WriteCloser, error) {
	_, c := SplitCompression(path)
	if c != nil && c.NewWriter == nil {
		return nil, fmt.Errorf("%w: cannot write %s compressed files", model.ErrUnknownFormat, c.Ext)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating %s: %w", path, err)
	}
	if c == nil {
		return f, nil
	}
	w, err := c.NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("error compressing %s: %w", path, err)
	}
	return &stackedCloser{Writer: w, closers: []gio.Closer{w, f}}, nil
}
