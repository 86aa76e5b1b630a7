package mapper

import (
	"context"

	"github.com/dt-pm-tools/sheet-sync/internal/remote"
)

// ImportRequirements replaces the Requirements sheet's data rows with
// the project's requirement tree, one row per requirement in hierarchy
// order. Indent formatting mirrors the tree; summary rows are bold.
func (im *Importer) ImportRequirements(ctx context.Context) error {
	op, err := im.newOperation(ctx, requirementSheet)
	if err != nil {
		return err
	}
	op.clearDataRows()

	row := firstDataRow
	prevRow, prevLevel := 0, 0
	start := 1
	for {
		if err := checkCancel(ctx); err != nil {
			return err
		}
		page, err := im.svc.RequirementsRetrieve(ctx, start, im.opts.PageSize)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			break
		}
		for i := range page {
			rec := &page[i]
			writeRow(op, row, rec, requirementBind)
			op.writeCustomProps(row, rec.CustomProperties)
			op.setIndent(row, rec.IndentLevel, false)
			// A deeper row makes its predecessor a summary row.
			if prevRow > 0 && rec.IndentLevel > prevLevel {
				op.setIndent(prevRow, prevLevel, true)
			}
			prevRow, prevLevel = row, rec.IndentLevel
			row++
			im.report("Importing requirements", row-firstDataRow, 0)
		}
		start += len(page)
	}
	return op.finalize("import")
}

// ExportRequirements walks the Requirements sheet top to bottom,
// creating rows without an id and updating rows that have one. New rows
// are parented under the most recent shallower row; assigned ids are
// written back into the key column.
func (im *Importer) ExportRequirements(ctx context.Context) error {
	op, err := im.newOperation(ctx, requirementSheet)
	if err != nil {
		return err
	}

	tracker := newIndentTracker()
	last := op.lastDataRow()
	for row := firstDataRow; row <= last; row++ {
		if err := checkCancel(ctx); err != nil {
			return err
		}
		im.report("Exporting requirements", row-firstDataRow+1, last-firstDataRow+1)

		id, err := op.keyID(row)
		if err != nil {
			op.rowFailed(row, err)
			continue
		}
		level := op.indentOf(row)

		if id != nil {
			existing, err := im.svc.RequirementRetrieveByID(ctx, *id)
			if err != nil {
				op.rowFailed(row, err)
				continue
			}
			if err := readRow(op, row, existing, requirementBind); err != nil {
				op.rowFailed(row, err)
				continue
			}
			if err := op.exportCustomProps(row, &existing.CustomProperties); err != nil {
				op.rowFailed(row, err)
				continue
			}
			if err := im.svc.RequirementUpdate(ctx, existing); err != nil {
				op.rowFailed(row, err)
				continue
			}
			tracker.saw(level, *id)
			if err := op.addComment(ctx, row, id); err != nil {
				op.rowFailed(row, err)
				continue
			}
			op.clearComment(row)
			continue
		}

		rec := &remote.Requirement{IndentLevel: level}
		if err := readRow(op, row, rec, requirementBind); err != nil {
			op.rowFailed(row, err)
			continue
		}
		if err := op.exportCustomProps(row, &rec.CustomProperties); err != nil {
			op.rowFailed(row, err)
			continue
		}
		created, err := im.svc.RequirementCreate(ctx, rec, tracker.parentFor(level))
		if err != nil {
			op.rowFailed(row, err)
			continue
		}
		op.writeKey(row, created.ID)
		if created.ID != nil {
			tracker.saw(level, *created.ID)
		}
		if err := op.addComment(ctx, row, created.ID); err != nil {
			op.rowFailed(row, err)
			continue
		}
		op.clearComment(row)
	}
	return op.finalize("export")
}
