// Package dataset holds the in-memory tabular data model for an analysis
// run: typed columns, missing cells, an optional label column, and the
// conversions into gonum matrices the estimators consume.
package dataset

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sugiyama-h/tabkit/pkg/errors"
)

// ColumnType distinguishes numeric from categorical columns.
type ColumnType int

const (
	// Numeric columns hold float64 cells; missing cells are NaN.
	Numeric ColumnType = iota
	// Categorical columns hold string cells; missing cells are "".
	Categorical
)

func (t ColumnType) String() string {
	if t == Numeric {
		return "numeric"
	}
	return "categorical"
}

// Column is a single typed column. Exactly one of Floats or Strings is
// populated, matching Type.
type Column struct {
	Name    string
	Type    ColumnType
	Floats  []float64
	Strings []string
}

// Len returns the number of cells in the column.
func (c *Column) Len() int {
	if c.Type == Numeric {
		return len(c.Floats)
	}
	return len(c.Strings)
}

// Missing returns the number of missing cells.
func (c *Column) Missing() int {
	n := 0
	if c.Type == Numeric {
		for _, v := range c.Floats {
			if math.IsNaN(v) {
				n++
			}
		}
		return n
	}
	for _, v := range c.Strings {
		if v == "" {
			n++
		}
	}
	return n
}

func (c *Column) clone() Column {
	out := Column{Name: c.Name, Type: c.Type}
	if c.Type == Numeric {
		out.Floats = append([]float64(nil), c.Floats...)
	} else {
		out.Strings = append([]string(nil), c.Strings...)
	}
	return out
}

// Dataset is an in-memory table of typed columns. All columns have the same
// length. A Dataset lives for one analysis run; it has no persistence.
type Dataset struct {
	cols      []Column
	byName    map[string]int
	nRows     int
	labelName string
}

// New assembles a Dataset from typed columns. All columns must share the
// same length and names must be unique.
func New(cols ...Column) (*Dataset, error) {
	if len(cols) == 0 {
		return nil, errors.NewModelError("dataset.New", "no columns", errors.ErrEmptyData)
	}
	ds := &Dataset{byName: make(map[string]int, len(cols)), nRows: cols[0].Len()}
	for _, c := range cols {
		if c.Len() != ds.nRows {
			return nil, errors.NewDimensionError("dataset.New", ds.nRows, c.Len(), 0)
		}
		if _, dup := ds.byName[c.Name]; dup {
			return nil, errors.NewValidationError("columns", "duplicate column name", c.Name)
		}
		ds.byName[c.Name] = len(ds.cols)
		ds.cols = append(ds.cols, c)
	}
	return ds, nil
}

// Clone deep-copies the dataset, mirroring the copy-on-ingest behavior of
// FromRecords for already-materialized data.
func (ds *Dataset) Clone() *Dataset {
	out := &Dataset{
		byName:    make(map[string]int, len(ds.cols)),
		nRows:     ds.nRows,
		labelName: ds.labelName,
	}
	for _, c := range ds.cols {
		out.byName[c.Name] = len(out.cols)
		out.cols = append(out.cols, c.clone())
	}
	return out
}

// NRows returns the number of records.
func (ds *Dataset) NRows() int { return ds.nRows }

// NCols returns the number of columns, including any label column.
func (ds *Dataset) NCols() int { return len(ds.cols) }

// ColumnNames returns column names in table order.
func (ds *Dataset) ColumnNames() []string {
	names := make([]string, len(ds.cols))
	for i, c := range ds.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column.
func (ds *Dataset) Column(name string) (*Column, error) {
	i, ok := ds.byName[name]
	if !ok {
		return nil, errors.NewValidationError("name", "no such column", name)
	}
	return &ds.cols[i], nil
}

// HasColumn reports whether the named column exists.
func (ds *Dataset) HasColumn(name string) bool {
	_, ok := ds.byName[name]
	return ok
}

// DropColumn removes the named column in place.
func (ds *Dataset) DropColumn(name string) error {
	i, ok := ds.byName[name]
	if !ok {
		return errors.NewValidationError("name", "no such column", name)
	}
	ds.cols = append(ds.cols[:i], ds.cols[i+1:]...)
	ds.byName = make(map[string]int, len(ds.cols))
	for j, c := range ds.cols {
		ds.byName[c.Name] = j
	}
	if ds.labelName == name {
		ds.labelName = ""
	}
	return nil
}

// Select returns a new Dataset holding only the named columns, in the given
// order. The label column designation is kept when it is among the names.
func (ds *Dataset) Select(names ...string) (*Dataset, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		c, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c.clone())
	}
	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	if ds.labelName != "" && out.HasColumn(ds.labelName) {
		out.labelName = ds.labelName
	}
	return out, nil
}

// SetLabel designates the named column as the label.
func (ds *Dataset) SetLabel(name string) error {
	if !ds.HasColumn(name) {
		return errors.NewValidationError("label", "no such column", name)
	}
	ds.labelName = name
	return nil
}

// LabelName returns the designated label column name, or "".
func (ds *Dataset) LabelName() string { return ds.labelName }

// Labels returns the label column as a float vector. Categorical labels are
// not coerced; designate a numeric column or encode first.
func (ds *Dataset) Labels() (*mat.VecDense, error) {
	if ds.labelName == "" {
		return nil, errors.NewValueError("Dataset.Labels", "no label column designated")
	}
	c, err := ds.Column(ds.labelName)
	if err != nil {
		return nil, err
	}
	if c.Type != Numeric {
		return nil, errors.NewValueError("Dataset.Labels", "label column is categorical; encode it first")
	}
	return mat.NewVecDense(len(c.Floats), append([]float64(nil), c.Floats...)), nil
}

// NumericColumns returns the names of numeric columns, excluding the label.
func (ds *Dataset) NumericColumns() []string {
	var names []string
	for _, c := range ds.cols {
		if c.Type == Numeric && c.Name != ds.labelName {
			names = append(names, c.Name)
		}
	}
	return names
}

// CategoricalColumns returns the names of categorical columns.
func (ds *Dataset) CategoricalColumns() []string {
	var names []string
	for _, c := range ds.cols {
		if c.Type == Categorical {
			names = append(names, c.Name)
		}
	}
	return names
}

// NumericMatrix assembles the numeric feature columns (label excluded) into
// a dense row-major matrix. Missing cells pass through as NaN so imputers
// can find them.
func (ds *Dataset) NumericMatrix() (*mat.Dense, []string, error) {
	names := ds.NumericColumns()
	if len(names) == 0 {
		return nil, nil, errors.NewModelError("Dataset.NumericMatrix", "no numeric columns", errors.ErrEmptyData)
	}
	X := mat.NewDense(ds.nRows, len(names), nil)
	for j, name := range names {
		c := ds.cols[ds.byName[name]]
		for i, v := range c.Floats {
			X.Set(i, j, v)
		}
	}
	return X, names, nil
}

// CategoricalRecords assembles the named categorical columns into the
// row-major string table the encoders consume. With no names, all
// categorical columns are used in table order.
func (ds *Dataset) CategoricalRecords(names ...string) ([][]string, error) {
	if len(names) == 0 {
		names = ds.CategoricalColumns()
	}
	if len(names) == 0 {
		return nil, errors.NewModelError("Dataset.CategoricalRecords", "no categorical columns", errors.ErrEmptyData)
	}
	cols := make([]*Column, len(names))
	for j, name := range names {
		c, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		if c.Type != Categorical {
			return nil, errors.NewValueError("Dataset.CategoricalRecords", "column "+name+" is numeric")
		}
		cols[j] = c
	}
	rows := make([][]string, ds.nRows)
	for i := range rows {
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = c.Strings[i]
		}
		rows[i] = row
	}
	return rows, nil
}

// MissingCount returns the total number of missing cells across columns.
func (ds *Dataset) MissingCount() int {
	n := 0
	for i := range ds.cols {
		n += ds.cols[i].Missing()
	}
	return n
}

// subset returns a new Dataset containing the given row indices, in order.
func (ds *Dataset) subset(idx []int) *Dataset {
	out := &Dataset{
		byName:    make(map[string]int, len(ds.cols)),
		nRows:     len(idx),
		labelName: ds.labelName,
	}
	for _, c := range ds.cols {
		nc := Column{Name: c.Name, Type: c.Type}
		if c.Type == Numeric {
			nc.Floats = make([]float64, len(idx))
			for k, i := range idx {
				nc.Floats[k] = c.Floats[i]
			}
		} else {
			nc.Strings = make([]string, len(idx))
			for k, i := range idx {
				nc.Strings[k] = c.Strings[i]
			}
		}
		out.byName[nc.Name] = len(out.cols)
		out.cols = append(out.cols, nc)
	}
	return out
}
