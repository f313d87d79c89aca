// pkg/model/dataset.go
package model

import (
	"fmt"
	"strings"
)

// Kind is the semantic kind of a column
type Kind int

const (
	// KindText holds free-form string values
	KindText Kind = iota
	// KindNumeric holds values that all parse as numbers
	KindNumeric
	// KindDate is a text column whose name marks it as date-like
	KindDate
	// KindEmail is a text column whose name marks it as email-like
	KindEmail
)

// String returns a string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumeric:
		return "numeric"
	case KindDate:
		return "date"
	case KindEmail:
		return "email"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Cell is a single dataset value. Valid is false for nulls.
type Cell struct {
	String string
	Valid  bool
}

// Null returns a null cell
func Null() Cell {
	return Cell{}
}

// Value returns a non-null cell holding s
func Value(s string) Cell {
	return Cell{String: s, Valid: true}
}

// Column is a named sequence of cells with a storage kind.
// Kind is either KindNumeric or KindText; date and email roles are
// derived from the name by SemanticKind.
type Column struct {
	Name  string
	Kind  Kind
	Cells []Cell
}

// NewColumn creates a column from its name, kind and cells
func NewColumn(name string, kind Kind, cells ...Cell) *Column {
	return &Column{Name: name, Kind: kind, Cells: cells}
}

// IsNumeric reports whether the column stores numbers
func (c *Column) IsNumeric() bool {
	return c.Kind == KindNumeric
}

// IsText reports whether the column stores strings
func (c *Column) IsText() bool {
	return c.Kind != KindNumeric
}

// IsDateLike checks the column name for "date" (case-insensitive)
func (c *Column) IsDateLike() bool {
	return contains(c.Name, "date")
}

// IsEmailLike checks the column name for "email" (case-insensitive)
func (c *Column) IsEmailLike() bool {
	return contains(c.Name, "email")
}

// SemanticKind returns the kind a reader of the column would assign it
func (c *Column) SemanticKind() Kind {
	if c.IsNumeric() {
		return KindNumeric
	}
	switch {
	case c.IsEmailLike():
		return KindEmail
	case c.IsDateLike():
		return KindDate
	default:
		return KindText
	}
}

// NullCount returns the number of null cells
func (c *Column) NullCount() int {
	n := 0
	for _, cell := range c.Cells {
		if !cell.Valid {
			n++
		}
	}
	return n
}

// Len returns the number of cells
func (c *Column) Len() int {
	return len(c.Cells)
}

func (c *Column) clone() *Column {
	cells := make([]Cell, len(c.Cells))
	copy(cells, c.Cells)
	return &Column{Name: c.Name, Kind: c.Kind, Cells: cells}
}

// Dataset is an ordered set of equal-length columns.
// RowIDs carries the original 0-based index of every row so that rows keep
// their identity when earlier steps remove rows.
type Dataset struct {
	Columns []*Column
	RowIDs  []int

	index map[string]int
}

// NewDataset builds a dataset and assigns row ids 0..n-1
func NewDataset(columns ...*Column) (*Dataset, error) {
	rows := 0
	if len(columns) > 0 {
		rows = columns[0].Len()
	}
	for _, col := range columns {
		if col == nil {
			return nil, fmt.Errorf("column cannot be nil")
		}
		if col.Len() != rows {
			return nil, fmt.Errorf("column %q has %d cells, expected %d", col.Name, col.Len(), rows)
		}
	}

	ids := make([]int, rows)
	for i := range ids {
		ids[i] = i
	}

	ds := &Dataset{Columns: columns, RowIDs: ids}
	ds.Reindex()
	return ds, nil
}

// Reindex rebuilds the name lookup. A later column with the same name
// shadows an earlier one.
func (d *Dataset) Reindex() {
	d.index = make(map[string]int, len(d.Columns))
	for i, col := range d.Columns {
		d.index[col.Name] = i
	}
}

// RowCount returns the number of rows
func (d *Dataset) RowCount() int {
	return len(d.RowIDs)
}

// ColumnCount returns the number of columns
func (d *Dataset) ColumnCount() int {
	return len(d.Columns)
}

// Column returns the column with the given name, or nil
func (d *Dataset) Column(name string) *Column {
	if d.index == nil {
		d.Reindex()
	}
	i, ok := d.index[name]
	if !ok {
		return nil
	}
	return d.Columns[i]
}

// ColumnNames returns column names in order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		names[i] = col.Name
	}
	return names
}

// Rename changes the name of the column at position i
func (d *Dataset) Rename(i int, name string) {
	d.Columns[i].Name = name
	d.Reindex()
}

// Row returns the cells of row i in column order
func (d *Dataset) Row(i int) []Cell {
	row := make([]Cell, len(d.Columns))
	for j, col := range d.Columns {
		row[j] = col.Cells[i]
	}
	return row
}

// NullCount returns the number of null cells across all columns
func (d *Dataset) NullCount() int {
	n := 0
	for _, col := range d.Columns {
		n += col.NullCount()
	}
	return n
}

// KeepRows retains the rows for which keep returns true and returns the
// number of rows removed. Row ids of retained rows are unchanged.
func (d *Dataset) KeepRows(keep func(row int) bool) int {
	kept := make([]int, 0, d.RowCount())
	for i := 0; i < d.RowCount(); i++ {
		if keep(i) {
			kept = append(kept, i)
		}
	}
	removed := d.RowCount() - len(kept)
	if removed == 0 {
		return 0
	}

	for _, col := range d.Columns {
		cells := make([]Cell, len(kept))
		for j, i := range kept {
			cells[j] = col.Cells[i]
		}
		col.Cells = cells
	}
	ids := make([]int, len(kept))
	for j, i := range kept {
		ids[j] = d.RowIDs[i]
	}
	d.RowIDs = ids
	return removed
}

// Clone returns a deep copy of the dataset
func (d *Dataset) Clone() *Dataset {
	cols := make([]*Column, len(d.Columns))
	for i, col := range d.Columns {
		cols[i] = col.clone()
	}
	ids := make([]int, len(d.RowIDs))
	copy(ids, d.RowIDs)

	clone := &Dataset{Columns: cols, RowIDs: ids}
	clone.Reindex()
	return clone
}

// Equal compares names, kinds and cells. Row ids are not compared.
func (d *Dataset) Equal(other *Dataset) bool {
	if other == nil || d.ColumnCount() != other.ColumnCount() || d.RowCount() != other.RowCount() {
		return false
	}
	for i, col := range d.Columns {
		oc := other.Columns[i]
		if col.Name != oc.Name || col.Kind != oc.Kind {
			return false
		}
		for j := range col.Cells {
			if col.Cells[j] != oc.Cells[j] {
				return false
			}
		}
	}
	return true
}

func contains(s, substr string) bool {
	return strings.Contains(
		strings.ToLower(s),
		strings.ToLower(substr),
	)
}
