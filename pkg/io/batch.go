package io

import (
	"fmt"

	"github.com/nlpodyssey/spago/pkg/mat"

	"tabio/pkg/model"
)

// DataBatch holds rows of a table in the shape learners consume them.
type DataBatch struct {
	// Features contain the continuous attributes of each row
	Features []mat.Matrix

	// CategoricalFeatures contain the value indexes of the discrete attributes
	CategoricalFeatures [][]int

	// Targets contain the index or value of the class
	Targets []float64
}

func (d *DataBatch) Size() int {
	return len(d.Targets)
}

// Batches splits the rows of t into batches of at most batchSize rows. Rows
// with a missing or unknown value are skipped and reported.
func Batches(t *model.Table, batchSize int) ([]DataBatch, []DataError, error) {
	if t.Domain.ClassVar == nil {
		return nil, nil, fmt.Errorf("cannot build batches: %w", model.ErrMissingClass)
	}
	if batchSize <= 0 {
		batchSize = t.Len()
	}

	continuous, categorical := model.NewColumnMap(), model.NewColumnMap()
	for i, v := range t.Domain.Attributes {
		switch v.Kind {
		case model.Continuous:
			continuous.Append(i)
		case model.Discrete:
			categorical.Append(i)
		}
	}

	var errors []DataError
	var result []DataBatch
	currentBatch := DataBatch{}
	for row := 0; row < t.Len(); row++ {
		target, err := parseTarget(t.Domain.ClassVar, t.Y[row])
		if err != nil {
			errors = warn(errors, newDataError(row+1, model.ErrInvalidValue, "%s", err))
			continue
		}

		features := mat.NewEmptyVecDense(continuous.Size())
		if err := parseContinuousFeatures(t, row, continuous, features); err != nil {
			errors = warn(errors, newDataError(row+1, model.ErrInvalidValue, "%s", err))
			continue
		}

		categoricalFeatures, err := parseCategoricalFeatures(t, row, categorical)
		if err != nil {
			errors = warn(errors, newDataError(row+1, model.ErrInvalidValue, "%s", err))
			continue
		}

		currentBatch.Targets = append(currentBatch.Targets, target)
		currentBatch.Features = append(currentBatch.Features, features)
		currentBatch.CategoricalFeatures = append(currentBatch.CategoricalFeatures, categoricalFeatures)

		if len(currentBatch.Targets) == batchSize {
			result = append(result, currentBatch)
			currentBatch = DataBatch{}
		}
	}

	if len(currentBatch.Targets) > 0 {
		result = append(result, currentBatch)
	}
	return result, errors, nil
}

func parseTarget(class *model.Variable, value model.Value) (float64, error) {
	switch {
	case value.Missing:
		return 0, fmt.Errorf("missing class value")
	case class.Kind == model.Discrete && value.Index < 0:
		return 0, fmt.Errorf("unknown class value %s", value.Raw)
	case class.Kind == model.Discrete:
		return float64(value.Index), nil
	case class.Kind == model.Continuous:
		return value.Float, nil
	default:
		return 0, fmt.Errorf("class %s is %s", class.Name, class.Kind)
	}
}

func parseContinuousFeatures(t *model.Table, row int, columns model.ColumnMap, features *mat.Dense) error {
	for index, column := range columns.IndexToColumn {
		value := t.X[row][column]
		if value.Missing {
			return fmt.Errorf("missing value for feature %s", t.Domain.Attributes[column].Name)
		}
		features.Set(index, 0, value.Float)
	}
	return nil
}

func parseCategoricalFeatures(t *model.Table, row int, columns model.ColumnMap) ([]int, error) {
	categoricalFeatures := make([]int, 0, columns.Size())
	for _, column := range columns.IndexToColumn {
		value := t.X[row][column]
		if value.Missing || value.Index < 0 {
			return nil, fmt.Errorf("unknown value %s for categorical attribute %s", value, t.Domain.Attributes[column].Name)
		}
		categoricalFeatures = append(categoricalFeatures, value.Index)
	}
	return categoricalFeatures, nil
}
