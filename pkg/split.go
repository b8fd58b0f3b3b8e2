package pkg

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/rs/zerolog/log"

	"tabio/pkg/model"
)

// Split randomly divides the rows of input into a train and a test file. ratio
// is the share of rows going to the train file.
func (s *Session) Split(input, trainFile, testFile string, ratio float64, seed int64) error {
	if ratio < 0 || ratio > 1 {
		return fmt.Errorf("split ratio %.3f is not between 0 and 1", ratio)
	}
	t, err := s.Load(input)
	if err != nil {
		return err
	}

	trainSize := int(math.Round(ratio * float64(t.Len())))
	data := model.NewDataSet(t, 0, rand.New(rand.NewSource(seed)))
	splits := data.RandomSplit(trainSize, t.Len()-trainSize)

	for i, path := range []string{trainFile, testFile} {
		if err := s.Save(path, splits[i].Rows()); err != nil {
			return err
		}
	}
	log.Info().Int("train", splits[0].Size()).Int("test", splits[1].Size()).Msg("Split data")
	return nil
}
