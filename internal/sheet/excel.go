package sheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelWorkbook is the excelize-backed Workbook. Cell access errors are
// sticky: the first one is remembered and reported from Save.
type ExcelWorkbook struct {
	file *excelize.File
	path string
	err  error

	// formats are applied to the file at Save so repeated per-cell
	// style edits do not create one style entry per call.
	formats map[string]map[cellRef]Format
}

type cellRef struct {
	row, col int
}

// OpenWorkbook opens an existing .xlsx workbook.
func OpenWorkbook(path string) (*ExcelWorkbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	return &ExcelWorkbook{
		file:    f,
		path:    path,
		formats: make(map[string]map[cellRef]Format),
	}, nil
}

// Worksheet returns the named sheet, or an error if it does not exist.
func (w *ExcelWorkbook) Worksheet(name string) (Worksheet, error) {
	idx, err := w.file.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("worksheet %q not found in %s", name, w.path)
	}
	return &excelWorksheet{book: w, name: name}, nil
}

// NamedRange resolves a workbook defined name to its range.
func (w *ExcelWorkbook) NamedRange(name string) (Range, bool) {
	for _, dn := range w.file.GetDefinedName() {
		if !strings.EqualFold(dn.Name, name) {
			continue
		}
		r, err := parseRefersTo(dn.RefersTo)
		if err != nil {
			continue
		}
		return r, true
	}
	return Range{}, false
}

// Save applies pending formats and writes the workbook back to disk.
// Any sticky cell access error from earlier operations is returned
// instead of saving.
func (w *ExcelWorkbook) Save() error {
	if w.err != nil {
		return fmt.Errorf("workbook %s had a cell access failure: %w", w.path, w.err)
	}
	for sheetName, cells := range w.formats {
		for ref, format := range cells {
			styleID, err := w.file.NewStyle(&excelize.Style{
				Font: &excelize.Font{Bold: format.Bold, Italic: format.Italic},
				Alignment: &excelize.Alignment{
					Horizontal: "left",
					Indent:     format.Indent,
				},
			})
			if err != nil {
				return fmt.Errorf("building cell style: %w", err)
			}
			cell, _ := excelize.CoordinatesToCellName(ref.col, ref.row)
			if err := w.file.SetCellStyle(sheetName, cell, cell, styleID); err != nil {
				return fmt.Errorf("applying cell style: %w", err)
			}
		}
	}
	if err := w.file.Save(); err != nil {
		return fmt.Errorf("saving workbook %s: %w", w.path, err)
	}
	return nil
}

// Close releases the underlying file.
func (w *ExcelWorkbook) Close() error {
	return w.file.Close()
}

func (w *ExcelWorkbook) recordErr(err error) {
	if err != nil && w.err == nil {
		w.err = err
	}
}

type excelWorksheet struct {
	book *ExcelWorkbook
	name string
}

func (s *excelWorksheet) Name() string { return s.name }

// Value returns the raw cell value: an empty cell is nil, everything
// else is the raw string representation (numbers and date serials
// included — the converter parses leniently from strings).
func (s *excelWorksheet) Value(row, col int) any {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		s.book.recordErr(err)
		return nil
	}
	v, err := s.book.file.GetCellValue(s.name, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		s.book.recordErr(err)
		return nil
	}
	if v == "" {
		return nil
	}
	return v
}

func (s *excelWorksheet) SetValue(row, col int, v any) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		s.book.recordErr(err)
		return
	}
	s.book.recordErr(s.book.file.SetCellValue(s.name, cell, v))
}

func (s *excelWorksheet) Format(row, col int) Format {
	if cells, ok := s.book.formats[s.name]; ok {
		if f, ok := cells[cellRef{row, col}]; ok {
			return f
		}
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		s.book.recordErr(err)
		return Format{}
	}
	styleID, err := s.book.file.GetCellStyle(s.name, cell)
	if err != nil {
		s.book.recordErr(err)
		return Format{}
	}
	style, err := s.book.file.GetStyle(styleID)
	if err != nil || style == nil {
		return Format{}
	}
	var f Format
	if style.Font != nil {
		f.Bold = style.Font.Bold
		f.Italic = style.Font.Italic
	}
	if style.Alignment != nil {
		f.Indent = style.Alignment.Indent
	}
	return f
}

func (s *excelWorksheet) SetFormat(row, col int, f Format) {
	cells, ok := s.book.formats[s.name]
	if !ok {
		cells = make(map[cellRef]Format)
		s.book.formats[s.name] = cells
	}
	cells[cellRef{row, col}] = f
}

func (s *excelWorksheet) Rows() int {
	rows, err := s.book.file.GetRows(s.name, excelize.Options{RawCellValue: true})
	if err != nil {
		s.book.recordErr(err)
		return 0
	}
	return len(rows)
}

func (s *excelWorksheet) Cols() int {
	rows, err := s.book.file.GetRows(s.name, excelize.Options{RawCellValue: true})
	if err != nil {
		s.book.recordErr(err)
		return 0
	}
	max := 0
	for _, row := range rows {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

// parseRefersTo parses a defined-name reference like
// "Lookups!$A$2:$B$5" (or a single cell "Lookups!$A$2").
func parseRefersTo(ref string) (Range, error) {
	ref = strings.TrimPrefix(ref, "=")
	sheetName, area, ok := strings.Cut(ref, "!")
	if !ok {
		return Range{}, fmt.Errorf("reference %q has no sheet qualifier", ref)
	}
	sheetName = strings.Trim(sheetName, "'")

	first, last, ok := strings.Cut(area, ":")
	if !ok {
		last = first
	}
	fc, fr, err := parseCellRef(first)
	if err != nil {
		return Range{}, err
	}
	lc, lr, err := parseCellRef(last)
	if err != nil {
		return Range{}, err
	}
	return Range{Sheet: sheetName, FirstRow: fr, LastRow: lr, FirstCol: fc, LastCol: lc}, nil
}

func parseCellRef(ref string) (col, row int, err error) {
	ref = strings.ReplaceAll(ref, "$", "")
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A'+1)
		i++
	}
	if i == 0 || i == len(ref) {
		return 0, 0, fmt.Errorf("malformed cell reference %q", ref)
	}
	row, err = strconv.Atoi(ref[i:])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed cell reference %q", ref)
	}
	return col, row, nil
}
