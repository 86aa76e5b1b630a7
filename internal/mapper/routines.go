package mapper

import (
	"context"
	"fmt"
	"strings"

	"github.com/dt-pm-tools/sheet-sync/internal/remote"
	"github.com/dt-pm-tools/sheet-sync/internal/sheet"
)

// Row-level helpers shared by the per-artifact import/export routines.

// fieldCell returns the raw cell for a named field, or nil when the
// column is not mapped.
func (op *operation) fieldCell(row int, name string) any {
	col, ok := op.fieldCols[name]
	if !ok {
		return nil
	}
	return op.ws.Value(row, col)
}

// fieldText renders a named field's cell as trimmed text.
func (op *operation) fieldText(row int, name string) string {
	return strings.TrimSpace(asString(op.fieldCell(row, name)))
}

func (op *operation) setFieldCell(row int, name string, v any) {
	if col, ok := op.fieldCols[name]; ok {
		op.ws.SetValue(row, col, v)
	}
}

// keyName returns the semantic name of the sheet's primary id column.
func (s artifactSheet) keyName() string {
	for _, def := range s.defs {
		if def.kind == kindKey {
			return def.name
		}
	}
	return ""
}

// keyID reads the primary id cell of a row: nil means the row has not
// been exported yet.
func (op *operation) keyID(row int) (*int, error) {
	raw := op.fieldCell(row, op.spec.keyName())
	if isEmptyCell(raw) {
		return nil, nil
	}
	id, err := parseCellInt(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op.spec.keyName(), err)
	}
	return &id, nil
}

// writeKey writes a freshly assigned id back into the row's key cell.
func (op *operation) writeKey(row int, id *int) {
	if id != nil {
		op.setFieldCell(row, op.spec.keyName(), *id)
	}
}

// nameCol is the column carrying the artifact name, used as the anchor
// for indent and bold formatting.
func (op *operation) nameCol() int {
	if col, ok := op.fieldCols["Name"]; ok {
		return col
	}
	return 1
}

// setIndent applies hierarchy formatting to a row's name cell.
func (op *operation) setIndent(row, level int, bold bool) {
	op.ws.SetFormat(row, op.nameCol(), sheet.Format{Indent: level, Bold: bold})
}

// setStepFormat italicizes a step row's description cell, visually
// tying it to the case or run row above.
func (op *operation) setStepFormat(row int) {
	if col, ok := op.fieldCols["StepDescription"]; ok {
		op.ws.SetFormat(row, col, sheet.Format{Italic: true})
	}
}

// indentOf reads a row's hierarchy level back from its name cell format.
func (op *operation) indentOf(row int) int {
	return op.ws.Format(row, op.nameCol()).Indent
}

// addComment posts the row's Comment cell (if mapped and non-empty)
// against the exported artifact. Comments are write-only side effects:
// they are never read back on import.
func (op *operation) addComment(ctx context.Context, row int, id *int) error {
	if id == nil {
		return nil
	}
	text := op.fieldText(row, "Comment")
	if text == "" {
		return nil
	}
	return op.im.svc.CommentAdd(ctx, op.spec.artifact, *id, text)
}

// clearComment blanks the Comment cell after the comment is posted so a
// re-export does not duplicate it.
func (op *operation) clearComment(row int) {
	op.setFieldCell(row, "Comment", nil)
}

// rowBlank reports whether the row is past the end of the data: an
// empty Name cell is the sentinel, whatever the key cell holds. Rows
// below the sentinel are never touched.
func (op *operation) rowBlank(row int) bool {
	return isEmptyCell(op.fieldCell(row, "Name"))
}

// lastDataRow walks down from row 3 to the first blank row.
func (op *operation) lastDataRow() int {
	row := firstDataRow
	limit := op.ws.Rows()
	for row <= limit && !op.rowBlank(row) {
		row++
	}
	return row - 1
}

// exportCustomProps reads the row's CUS-NN cells onto the record's
// sparse custom property list, when the sheet carries custom columns.
func (op *operation) exportCustomProps(row int, dst *[]remote.CustomProperty) error {
	if len(op.customCols) == 0 {
		return nil
	}
	props, err := op.readCustomProps(row)
	if err != nil {
		return err
	}
	if props != nil {
		*dst = props
	}
	return nil
}
