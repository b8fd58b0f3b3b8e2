package io

import (
	"fmt"
	gio "io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"tabio/pkg/model"
)

// LoadFunc reads a table from a stream.
type LoadFunc func(r gio.Reader, opts Options) (*model.Table, []DataError, error)

// SaveFunc writes a table to a stream.
type SaveFunc func(w gio.Writer, t *model.Table, opts Options) error

// Format is a file format identified by its extensions. Formats spread over
// several files implement LoadPath and SavePath instead of Load and Save.
// Any of the functions may be nil when the direction is not supported.
type Format struct {
	Name       string
	Extensions []string

	Load LoadFunc
	Save SaveFunc

	LoadPath func(path string, opts Options) (*model.Table, []DataError, error)
	SavePath func(path string, t *model.Table, opts Options) error
}

// Formats maps file extensions to formats.
type Formats struct {
	formats    []*Format
	extensions map[string]*Format
}

func NewFormats() *Formats {
	return &Formats{extensions: map[string]*Format{}}
}

// DefaultFormats returns a registry holding every built in format.
func DefaultFormats() *Formats {
	f := NewFormats()
	f.Register(Format{Name: "tab", Extensions: []string{".tab", ".tsv"}, Load: LoadTab, Save: withDelimiter('\t', SaveTab)})
	f.Register(Format{Name: "csv", Extensions: []string{".csv", ".txt"}, Load: LoadCSV, Save: withDelimiter(',', SaveTab)})
	f.Register(Format{Name: "arff", Extensions: []string{".arff"}, LoadPath: loadARFFPath, Save: SaveARFF})
	f.Register(Format{Name: "mulan", Extensions: []string{".xml"}, LoadPath: loadMulanPath})
	f.Register(Format{Name: "c4.5", Extensions: []string{".names", ".data"}, LoadPath: loadC45Path, SavePath: saveC45Path})
	f.Register(Format{Name: "libsvm", Extensions: []string{".svm"}, Load: LoadLibSVM, Save: SaveLibSVM})
	f.Register(Format{Name: "R", Extensions: []string{".r"}, Save: SaveR})
	f.Register(Format{Name: "parquet", Extensions: []string{".parquet"}, Load: LoadParquet, Save: SaveParquet})
	f.Register(Format{Name: "xlsx", Extensions: []string{".xlsx"}, Load: LoadXLSX, Save: SaveXLSX})
	return f
}

// Register adds a format. Extensions already taken are reassigned to it.
func (f *Formats) Register(format Format) {
	p := &format
	f.formats = append(f.formats, p)
	for _, ext := range format.Extensions {
		f.extensions[strings.ToLower(ext)] = p
	}
}

// All returns the registered formats in registration order.
func (f *Formats) All() []Format {
	all := make([]Format, len(f.formats))
	for i, p := range f.formats {
		all[i] = *p
	}
	return all
}

// Lookup finds the format of path by its extension, ignoring a compression
// suffix.
func (f *Formats) Lookup(path string) (*Format, error) {
	base, _ := SplitCompression(path)
	ext := strings.ToLower(filepath.Ext(base))
	format, ok := f.extensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownFormat, ext)
	}
	return format, nil
}

// Load reads the table stored at path. A table without a name is named after
// the file.
func (f *Formats) Load(path string, opts Options) (*model.Table, []DataError, error) {
	format, err := f.Lookup(path)
	if err != nil {
		return nil, nil, err
	}

	var (
		t    *model.Table
		errs []DataError
	)
	switch {
	case format.LoadPath != nil:
		t, errs, err = format.LoadPath(path, opts)
	case format.Load != nil:
		var r gio.ReadCloser
		if r, err = OpenFile(path); err != nil {
			return nil, nil, err
		}
		defer r.Close()
		t, errs, err = format.Load(r, opts)
	default:
		return nil, nil, fmt.Errorf("%w: %s files cannot be read", model.ErrUnknownFormat, format.Name)
	}
	if err != nil {
		return nil, errs, fmt.Errorf("error loading %s: %w", path, err)
	}
	if t.Name == "" {
		t.Name = tableName(path)
	}
	log.Debug().Str("path", path).Str("format", format.Name).Int("rows", t.Len()).Msg("Loaded table")
	return t, errs, nil
}

// Save writes t to path in the format given by its extension.
func (f *Formats) Save(path string, t *model.Table, opts Options) error {
	format, err := f.Lookup(path)
	if err != nil {
		return err
	}
	switch {
	case format.SavePath != nil:
		err = format.SavePath(path, t, opts)
	case format.Save != nil:
		err = saveFile(path, func(w gio.Writer) error { return format.Save(w, t, opts) })
	default:
		return fmt.Errorf("%w: %s files cannot be written", model.ErrUnknownFormat, format.Name)
	}
	if err != nil {
		return fmt.Errorf("error saving %s: %w", path, err)
	}
	log.Debug().Str("path", path).Str("format", format.Name).Int("rows", t.Len()).Msg("Saved table")
	return nil
}

func saveFile(path string, save func(w gio.Writer) error) error {
	w, err := CreateFile(path)
	if err != nil {
		return err
	}
	if err := save(w); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func tableName(path string) string {
	base, _ := SplitCompression(filepath.Base(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// stem returns path without its compression suffix and extension.
func stem(path string) (string, string) {
	base, c := SplitCompression(path)
	suffix := ""
	if c != nil {
		suffix = c.Ext
	}
	return strings.TrimSuffix(base, filepath.Ext(base)), suffix
}

func withDelimiter(delimiter rune, save SaveFunc) SaveFunc {
	return func(w gio.Writer, t *model.Table, opts Options) error {
		if opts.Delimiter == 0 {
			opts.Delimiter = delimiter
		}
		return save(w, t, opts)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func loadARFF(path string, opts Options) (*model.Table, []DataError, error) {
	r, err := OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()
	return LoadARFF(r, opts)
}

// loadARFFPath reads an ARFF file, taking multi-label names from a Mulan XML
// file next to it.
func loadARFFPath(path string, opts Options) (*model.Table, []DataError, error) {
	base, _ := stem(path)
	if xmlPath := base + ".xml"; len(opts.MultiLabels) == 0 && exists(xmlPath) {
		labels, err := readMulanFile(xmlPath)
		if err != nil {
			return nil, nil, err
		}
		opts.MultiLabels = labels
	}
	return loadARFF(path, opts)
}

// loadMulanPath reads a Mulan dataset named by its XML label file.
func loadMulanPath(path string, opts Options) (*model.Table, []DataError, error) {
	base, _ := stem(path)
	arffPath := base + ".arff"
	if !exists(arffPath) {
		return nil, nil, fmt.Errorf("%w: %s", model.ErrNotFound, arffPath)
	}
	labels, err := readMulanFile(path)
	if err != nil {
		return nil, nil, err
	}
	opts.MultiLabels = labels
	return loadARFF(arffPath, opts)
}

func readMulanFile(path string) ([]string, error) {
	r, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ReadMulanLabels(r)
}

func loadC45Path(path string, opts Options) (*model.Table, []DataError, error) {
	base, suffix := stem(path)
	names, err := OpenFile(base + ".names" + suffix)
	if err != nil {
		return nil, nil, err
	}
	defer names.Close()
	data, err := OpenFile(base + ".data" + suffix)
	if err != nil {
		return nil, nil, err
	}
	defer data.Close()
	return LoadC45(names, data, opts)
}

func saveC45Path(path string, t *model.Table, opts Options) error {
	base, suffix := stem(path)
	names, err := CreateFile(base + ".names" + suffix)
	if err != nil {
		return err
	}
	data, err := CreateFile(base + ".data" + suffix)
	if err != nil {
		_ = names.Close()
		return err
	}
	err = SaveC45(names, data, t, opts)
	for _, c := range []gio.Closer{names, data} {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
