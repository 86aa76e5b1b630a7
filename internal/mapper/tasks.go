package mapper

import (
	"context"

	"github.com/dt-pm-tools/sheet-sync/internal/remote"
)

// ImportTasks replaces the Tasks sheet's data rows with the project's
// tasks, one page at a time.
func (im *Importer) ImportTasks(ctx context.Context) error {
	op, err := im.newOperation(ctx, taskSheet)
	if err != nil {
		return err
	}
	op.clearDataRows()

	row := firstDataRow
	start := 1
	for {
		if err := checkCancel(ctx); err != nil {
			return err
		}
		page, err := im.svc.TasksRetrieve(ctx, start, im.opts.PageSize)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			break
		}
		for i := range page {
			rec := &page[i]
			writeRow(op, row, rec, taskBind)
			op.writeCustomProps(row, rec.CustomProperties)
			row++
			im.report("Importing tasks", row-firstDataRow, 0)
		}
		start += len(page)
	}
	return op.finalize("import")
}

// ExportTasks walks the Tasks sheet, creating rows without an id and
// updating rows that have one.
func (im *Importer) ExportTasks(ctx context.Context) error {
	op, err := im.newOperation(ctx, taskSheet)
	if err != nil {
		return err
	}

	last := op.lastDataRow()
	for row := firstDataRow; row <= last; row++ {
		if err := checkCancel(ctx); err != nil {
			return err
		}
		im.report("Exporting tasks", row-firstDataRow+1, last-firstDataRow+1)

		id, err := op.keyID(row)
		if err != nil {
			op.rowFailed(row, err)
			continue
		}

		if id != nil {
			existing, err := im.svc.TaskRetrieveByID(ctx, *id)
			if err != nil {
				op.rowFailed(row, err)
				continue
			}
			if err := readRow(op, row, existing, taskBind); err != nil {
				op.rowFailed(row, err)
				continue
			}
			if err := op.exportCustomProps(row, &existing.CustomProperties); err != nil {
				op.rowFailed(row, err)
				continue
			}
			if err := im.svc.TaskUpdate(ctx, existing); err != nil {
				op.rowFailed(row, err)
				continue
			}
			if err := op.addComment(ctx, row, id); err != nil {
				op.rowFailed(row, err)
				continue
			}
			op.clearComment(row)
			continue
		}

		rec := &remote.Task{}
		if err := readRow(op, row, rec, taskBind); err != nil {
			op.rowFailed(row, err)
			continue
		}
		if err := op.exportCustomProps(row, &rec.CustomProperties); err != nil {
			op.rowFailed(row, err)
			continue
		}
		created, err := im.svc.TaskCreate(ctx, rec)
		if err != nil {
			op.rowFailed(row, err)
			continue
		}
		op.writeKey(row, created.ID)
		if err := op.addComment(ctx, row, created.ID); err != nil {
			op.rowFailed(row, err)
			continue
		}
		op.clearComment(row)
	}
	return op.finalize("export")
}
