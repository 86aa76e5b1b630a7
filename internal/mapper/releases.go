package mapper

import (
	"context"

	"github.com/dt-pm-tools/sheet-sync/internal/remote"
)

// ImportReleases replaces the Releases sheet's data rows with the
// project's release tree in hierarchy order.
func (im *Importer) ImportReleases(ctx context.Context) error {
	op, err := im.newOperation(ctx, releaseSheet)
	if err != nil {
		return err
	}
	op.clearDataRows()

	all, err := im.svc.ReleasesRetrieve(ctx)
	if err != nil {
		return err
	}

	row := firstDataRow
	for i := range all {
		if err := checkCancel(ctx); err != nil {
			return err
		}
		rec := &all[i]
		writeRow(op, row, rec, releaseBind)
		op.writeCustomProps(row, rec.CustomProperties)
		summary := i+1 < len(all) && all[i+1].IndentLevel > rec.IndentLevel
		op.setIndent(row, rec.IndentLevel, summary)
		row++
		im.report("Importing releases", i+1, len(all))
	}
	return op.finalize("import")
}

// ExportReleases walks the Releases sheet, creating rows without an id
// under the most recent shallower row and updating rows that have one.
func (im *Importer) ExportReleases(ctx context.Context) error {
	op, err := im.newOperation(ctx, releaseSheet)
	if err != nil {
		return err
	}

	tracker := newIndentTracker()
	last := op.lastDataRow()
	for row := firstDataRow; row <= last; row++ {
		if err := checkCancel(ctx); err != nil {
			return err
		}
		im.report("Exporting releases", row-firstDataRow+1, last-firstDataRow+1)

		id, err := op.keyID(row)
		if err != nil {
			op.rowFailed(row, err)
			continue
		}
		level := op.indentOf(row)

		if id != nil {
			existing, err := im.svc.ReleaseRetrieveByID(ctx, *id)
			if err != nil {
				op.rowFailed(row, err)
				continue
			}
			if err := readRow(op, row, existing, releaseBind); err != nil {
				op.rowFailed(row, err)
				continue
			}
			if err := op.exportCustomProps(row, &existing.CustomProperties); err != nil {
				op.rowFailed(row, err)
				continue
			}
			if err := im.svc.ReleaseUpdate(ctx, existing); err != nil {
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

		rec := &remote.Release{IndentLevel: level}
		if err := readRow(op, row, rec, releaseBind); err != nil {
			op.rowFailed(row, err)
			continue
		}
		if err := op.exportCustomProps(row, &rec.CustomProperties); err != nil {
			op.rowFailed(row, err)
			continue
		}
		created, err := im.svc.ReleaseCreate(ctx, rec, tracker.parentFor(level))
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
