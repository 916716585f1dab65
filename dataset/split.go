package dataset

import (
	"math/rand"

	"github.com/sugiyama-h/tabkit/pkg/errors"
)

// TrainTestSplit shuffles the dataset rows with the given seed and splits
// them into train and test subsets. testRatio is the fraction of rows
// assigned to the test set and must lie in (0, 1). Row pairing with the
// label column is preserved because rows are moved whole.
func TrainTestSplit(ds *Dataset, testRatio float64, seed int64) (train, test *Dataset, err error) {
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, errors.NewValidationError("testRatio", "must be in (0, 1)", testRatio)
	}
	n := ds.NRows()
	if n < 2 {
		return nil, nil, errors.NewModelError("dataset.TrainTestSplit", "need at least 2 rows", errors.ErrEmptyData)
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)

	nTest := int(float64(n) * testRatio)
	if nTest == 0 {
		nTest = 1
	}
	if nTest == n {
		nTest = n - 1
	}

	test = ds.subset(perm[:nTest])
	train = ds.subset(perm[nTest:])
	return train, test, nil
}

// Shuffle returns a copy of the dataset with rows permuted under the given
// seed.
func Shuffle(ds *Dataset, seed int64) *Dataset {
	rng := rand.New(rand.NewSource(seed))
	return ds.subset(rng.Perm(ds.NRows()))
}
