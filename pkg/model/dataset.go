package model

import (
	"math/rand"
)

// DataSet iterates over the rows of a table in batches.
type DataSet struct {
	Table        *Table
	BatchSize    int
	Rand         *rand.Rand
	dataIndices  []int
	currentOrder []int
	currentIndex int
}

type DatasetOrder int

const (
	OriginalOrder DatasetOrder = iota
	RandomOrder
)

func NewDataSet(table *Table, batchSize int, rnd *rand.Rand) *DataSet {
	dataIndices := make([]int, table.Len())
	for i := range dataIndices {
		dataIndices[i] = i
	}
	return newDataSetSplit(table, batchSize, rnd, dataIndices)
}

func newDataSetSplit(table *Table, batchSize int, rnd *rand.Rand, indices []int) *DataSet {
	if batchSize <= 0 {
		batchSize = len(indices)
	}
	ds := &DataSet{Table: table, BatchSize: batchSize, Rand: rnd, dataIndices: indices}
	ds.ResetOrder(OriginalOrder)
	return ds
}

func (d *DataSet) ResetOrder(order DatasetOrder) {
	if d.currentOrder == nil {
		d.currentOrder = make([]int, len(d.dataIndices))
	}
	switch order {
	case OriginalOrder:
		copy(d.currentOrder, d.dataIndices)
	case RandomOrder:
		ind := d.Rand.Perm(len(d.currentOrder))
		for i := range ind {
			d.currentOrder[i] = d.dataIndices[ind[i]]
		}
	}

	d.currentIndex = 0
}

// Next returns the next batch of rows as a table, or nil once the data set is exhausted.
func (d *DataSet) Next() *Table {
	if d.currentIndex >= len(d.currentOrder) {
		return nil
	}
	end := d.currentIndex + d.BatchSize
	if end > len(d.currentOrder) {
		end = len(d.currentOrder)
	}
	batch := d.Table.Subset(d.currentOrder[d.currentIndex:end])
	d.currentIndex = end
	return batch
}

func (d *DataSet) Size() int {
	return len(d.dataIndices)
}

// Rows returns the rows of the data set, in current order, as one table.
func (d *DataSet) Rows() *Table {
	return d.Table.Subset(d.currentOrder)
}

// RandomSplit shuffles the rows and cuts them into data sets of the given sizes.
func (d *DataSet) RandomSplit(sizes ...int) []*DataSet {
	indices := make([]int, len(d.dataIndices))
	copy(indices, d.dataIndices)
	d.Rand.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	splits := make([]*DataSet, len(sizes))
	idx := 0
	for i := range sizes {
		splitIndices := make([]int, sizes[i])
		copy(splitIndices, indices[idx:idx+sizes[i]])
		idx += sizes[i]
		splits[i] = newDataSetSplit(d.Table, d.BatchSize, d.Rand, splitIndices)
	}
	return splits
}
