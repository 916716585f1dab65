package dataset

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"github.com/sugiyama-h/tabkit/pkg/errors"
)

// Option configures CSV ingestion.
type Option func(*loadConfig)

type loadConfig struct {
	comma         rune
	labelColumn   string
	missingTokens map[string]bool
}

func defaultLoadConfig() loadConfig {
	return loadConfig{
		comma: ',',
		missingTokens: map[string]bool{
			"": true, "NA": true, "NaN": true, "nan": true, "null": true,
		},
	}
}

// WithComma sets the field delimiter.
func WithComma(c rune) Option {
	return func(cfg *loadConfig) { cfg.comma = c }
}

// WithLabelColumn designates a column as the label at load time.
func WithLabelColumn(name string) Option {
	return func(cfg *loadConfig) { cfg.labelColumn = name }
}

// WithMissingTokens replaces the set of cell values treated as missing.
// The default set is "", "NA", "NaN", "nan", "null".
func WithMissingTokens(tokens ...string) Option {
	return func(cfg *loadConfig) {
		cfg.missingTokens = make(map[string]bool, len(tokens))
		for _, t := range tokens {
			cfg.missingTokens[t] = true
		}
	}
}

// LoadCSV reads a headered CSV export into a Dataset. Column types are
// inferred: a column whose every non-missing cell parses as a float becomes
// Numeric, anything else Categorical. A missing file is an error
// (errors.ErrFileNotFound); a malformed row is an error rather than being
// silently dropped.
func LoadCSV(path string, opts ...Option) (*Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrFileNotFound, "dataset.LoadCSV: %s", path)
		}
		return nil, errors.Wrap(err, "dataset.LoadCSV")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "dataset.LoadCSV")
	}
	defer f.Close()

	cfg := defaultLoadConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	r := csv.NewReader(f)
	r.Comma = cfg.comma
	// FieldsPerRecord defaults to the header width, so ragged rows fail
	// instead of loading skewed.
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "dataset.LoadCSV: malformed input")
	}
	if len(records) < 2 {
		return nil, errors.NewModelError("dataset.LoadCSV", "no data rows", errors.ErrEmptyData)
	}

	return fromRecords(records[0], records[1:], cfg)
}

// FromRecords builds a Dataset from an already-parsed header and rows,
// using the same type inference and missing-token handling as LoadCSV.
func FromRecords(header []string, rows [][]string, opts ...Option) (*Dataset, error) {
	cfg := defaultLoadConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(header) == 0 || len(rows) == 0 {
		return nil, errors.NewModelError("dataset.FromRecords", "no data", errors.ErrEmptyData)
	}
	return fromRecords(header, rows, cfg)
}

func fromRecords(header []string, rows [][]string, cfg loadConfig) (*Dataset, error) {
	nCols := len(header)
	for _, row := range rows {
		if len(row) != nCols {
			return nil, errors.NewDimensionError("dataset.LoadCSV", nCols, len(row), 1)
		}
	}

	cols := make([]Column, 0, nCols)
	for j := 0; j < nCols; j++ {
		cells := make([]string, len(rows))
		for i, row := range rows {
			cells[i] = row[j]
		}
		cols = append(cols, inferColumn(header[j], cells, cfg.missingTokens))
	}

	ds, err := New(cols...)
	if err != nil {
		return nil, err
	}
	if cfg.labelColumn != "" {
		if err := ds.SetLabel(cfg.labelColumn); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// inferColumn types a raw string column. Numeric wins only when every
// non-missing cell parses, so id-like mixed columns stay categorical.
func inferColumn(name string, cells []string, missing map[string]bool) Column {
	floats := make([]float64, len(cells))
	numeric := true
	nonMissing := 0
	for i, cell := range cells {
		if missing[cell] {
			floats[i] = math.NaN()
			continue
		}
		nonMissing++
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			numeric = false
			break
		}
		floats[i] = v
	}

	if numeric && nonMissing > 0 {
		return Column{Name: name, Type: Numeric, Floats: floats}
	}

	strs := make([]string, len(cells))
	for i, cell := range cells {
		if missing[cell] {
			strs[i] = ""
			continue
		}
		strs[i] = cell
	}
	return Column{Name: name, Type: Categorical, Strings: strs}
}
