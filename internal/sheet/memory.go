package sheet

import "fmt"

// MemoryWorkbook is an in-memory Workbook used by tests and by dry
// operations that never touch disk.
type MemoryWorkbook struct {
	sheets map[string]*MemoryWorksheet
	names  map[string]Range
	order  []string
}

// NewMemoryWorkbook creates an empty in-memory workbook.
func NewMemoryWorkbook() *MemoryWorkbook {
	return &MemoryWorkbook{
		sheets: make(map[string]*MemoryWorksheet),
		names:  make(map[string]Range),
	}
}

// AddSheet creates (or returns the existing) sheet with the given name.
func (b *MemoryWorkbook) AddSheet(name string) *MemoryWorksheet {
	if ws, ok := b.sheets[name]; ok {
		return ws
	}
	ws := &MemoryWorksheet{
		name:    name,
		cells:   make(map[cellRef]any),
		formats: make(map[cellRef]Format),
	}
	b.sheets[name] = ws
	b.order = append(b.order, name)
	return ws
}

// DefineName registers a named range.
func (b *MemoryWorkbook) DefineName(name string, r Range) {
	b.names[name] = r
}

// Worksheet returns the named sheet, or an error if it does not exist.
func (b *MemoryWorkbook) Worksheet(name string) (Worksheet, error) {
	ws, ok := b.sheets[name]
	if !ok {
		return nil, fmt.Errorf("worksheet %q not found", name)
	}
	return ws, nil
}

// NamedRange resolves a defined name.
func (b *MemoryWorkbook) NamedRange(name string) (Range, bool) {
	r, ok := b.names[name]
	return r, ok
}

// Save is a no-op for the in-memory workbook.
func (b *MemoryWorkbook) Save() error { return nil }

// MemoryWorksheet is the in-memory Worksheet.
type MemoryWorksheet struct {
	name    string
	cells   map[cellRef]any
	formats map[cellRef]Format
	maxRow  int
	maxCol  int
}

func (s *MemoryWorksheet) Name() string { return s.name }

func (s *MemoryWorksheet) Value(row, col int) any {
	return s.cells[cellRef{row, col}]
}

func (s *MemoryWorksheet) SetValue(row, col int, v any) {
	ref := cellRef{row, col}
	if v == nil {
		delete(s.cells, ref)
		return
	}
	s.cells[ref] = v
	s.grow(row, col)
}

func (s *MemoryWorksheet) Format(row, col int) Format {
	return s.formats[cellRef{row, col}]
}

func (s *MemoryWorksheet) SetFormat(row, col int, f Format) {
	s.formats[cellRef{row, col}] = f
	s.grow(row, col)
}

func (s *MemoryWorksheet) Rows() int { return s.maxRow }
func (s *MemoryWorksheet) Cols() int { return s.maxCol }

func (s *MemoryWorksheet) grow(row, col int) {
	if row > s.maxRow {
		s.maxRow = row
	}
	if col > s.maxCol {
		s.maxCol = col
	}
}
