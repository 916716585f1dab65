package dataset

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intSeq(n int) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{strconv.Itoa(i), strconv.Itoa(i * 10)}
	}
	return rows
}

func TestTrainTestSplitSizes(t *testing.T) {
	ds, err := FromRecords([]string{"x", "y"}, intSeq(10))
	require.NoError(t, err)

	train, test, err := TrainTestSplit(ds, 0.3, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, train.NRows())
	assert.Equal(t, 3, test.NRows())
	assert.Equal(t, ds.NCols(), train.NCols())
}

func TestTrainTestSplitPreservesRowPairing(t *testing.T) {
	ds, err := FromRecords([]string{"x", "y"}, intSeq(20))
	require.NoError(t, err)

	train, test, err := TrainTestSplit(ds, 0.25, 3)
	require.NoError(t, err)

	for _, part := range []*Dataset{train, test} {
		x, err := part.Column("x")
		require.NoError(t, err)
		y, err := part.Column("y")
		require.NoError(t, err)
		for i := range x.Floats {
			assert.Equal(t, x.Floats[i]*10, y.Floats[i], "rows must move whole")
		}
	}
}

func TestTrainTestSplitDeterministic(t *testing.T) {
	ds, err := FromRecords([]string{"x", "y"}, intSeq(12))
	require.NoError(t, err)

	_, test1, err := TrainTestSplit(ds, 0.5, 99)
	require.NoError(t, err)
	_, test2, err := TrainTestSplit(ds, 0.5, 99)
	require.NoError(t, err)

	x1, _ := test1.Column("x")
	x2, _ := test2.Column("x")
	assert.Equal(t, x1.Floats, x2.Floats)
}

func TestTrainTestSplitBadRatio(t *testing.T) {
	ds, err := FromRecords([]string{"x", "y"}, intSeq(5))
	require.NoError(t, err)

	for _, ratio := range []float64{0, 1, -0.2, 1.5} {
		_, _, err := TrainTestSplit(ds, ratio, 1)
		assert.Error(t, err, "ratio %v", ratio)
	}
}
