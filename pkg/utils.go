package pkg

import (
	"github.com/rs/zerolog/log"

	"tabio/pkg/io"
	"tabio/pkg/model"
)

func printDataErrors(errors []io.DataError) {
	for _, err := range errors {
		log.Error().Msgf("Error parsing data at line %d: %s", err.Line, err.Error)
	}
}

// Session bundles what every command needs to locate, read and write tables.
type Session struct {
	Formats *io.Formats
	Paths   *io.SearchPaths
	Options io.Options
}

// NewSession creates a session. Unless opts carries a registry, all loads of
// the session share a new one.
func NewSession(opts io.Options, paths *io.SearchPaths) (*Session, error) {
	if paths == nil {
		paths = io.NewSearchPaths()
	}
	if opts.Registry == nil {
		registry, err := model.NewRegistry(model.DefaultRegistrySize)
		if err != nil {
			return nil, err
		}
		opts.Registry = registry
	}
	return &Session{Formats: io.DefaultFormats(), Paths: paths, Options: opts}, nil
}

// Load finds name on the search paths and reads it.
func (s *Session) Load(name string) (*model.Table, error) {
	path, err := s.Paths.Find(name)
	if err != nil {
		return nil, err
	}
	t, dataErrors, err := s.Formats.Load(path, s.Options)
	printDataErrors(dataErrors)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Session) Save(path string, t *model.Table) error {
	return s.Formats.Save(path, t, s.Options)
}
