// Package sheet abstracts workbook access for the import/export engine.
// The production implementation is backed by excelize; tests use the
// in-memory implementation.
package sheet

// Format is the cell formatting the engine reads and writes: hierarchy
// indentation plus the bold/italic markers used for folder and step rows.
type Format struct {
	Bold   bool
	Italic bool
	Indent int
}

// Worksheet is one sheet of an open workbook. Rows and columns are
// 1-based. Reading an empty cell returns nil; writing nil clears a cell.
//
// Implementations may defer persistence errors to Workbook.Save (the
// excelize adapter keeps a sticky error), so Value and SetValue do not
// return errors themselves.
type Worksheet interface {
	Name() string
	Value(row, col int) any
	SetValue(row, col int, v any)
	Format(row, col int) Format
	SetFormat(row, col int, f Format)

	// Rows and Cols return the used-range extents.
	Rows() int
	Cols() int
}

// Range is the area a defined name refers to.
type Range struct {
	Sheet    string
	FirstRow int
	LastRow  int
	FirstCol int
	LastCol  int
}

// Workbook is an open workbook with named ranges.
type Workbook interface {
	Worksheet(name string) (Worksheet, error)
	NamedRange(name string) (Range, bool)
	Save() error
}
