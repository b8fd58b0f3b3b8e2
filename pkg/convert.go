package pkg

import (
	"github.com/rs/zerolog/log"
)

// Convert reads input and writes it to output, each in the format given by its
// extension.
func (s *Session) Convert(input, output string) error {
	t, err := s.Load(input)
	if err != nil {
		return err
	}
	if err := s.Save(output, t); err != nil {
		return err
	}
	log.Info().Str("input", input).Str("output", output).Int("rows", t.Len()).Msg("Converted")
	return nil
}
