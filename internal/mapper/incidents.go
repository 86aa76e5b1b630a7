package mapper

import (
	"context"

	"github.com/dt-pm-tools/sheet-sync/internal/remote"
)

// ImportIncidents replaces the Incidents sheet's data rows with the
// project's incidents, one page at a time.
func (im *Importer) ImportIncidents(ctx context.Context) error {
	op, err := im.newOperation(ctx, incidentSheet)
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
		page, err := im.svc.IncidentsRetrieve(ctx, start, im.opts.PageSize)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			break
		}
		for i := range page {
			rec := &page[i]
			writeRow(op, row, rec, incidentBind)
			op.writeCustomProps(row, rec.CustomProperties)
			row++
			im.report("Importing incidents", row-firstDataRow, 0)
		}
		start += len(page)
	}
	return op.finalize("import")
}

// ExportIncidents walks the Incidents sheet, creating rows without an
// id and updating rows that have one. A non-empty Resolution cell is
// posted as a comment against the incident and then cleared.
func (im *Importer) ExportIncidents(ctx context.Context) error {
	op, err := im.newOperation(ctx, incidentSheet)
	if err != nil {
		return err
	}

	last := op.lastDataRow()
	for row := firstDataRow; row <= last; row++ {
		if err := checkCancel(ctx); err != nil {
			return err
		}
		im.report("Exporting incidents", row-firstDataRow+1, last-firstDataRow+1)

		id, err := op.keyID(row)
		if err != nil {
			op.rowFailed(row, err)
			continue
		}

		if id != nil {
			existing, err := im.svc.IncidentRetrieveByID(ctx, *id)
			if err != nil {
				op.rowFailed(row, err)
				continue
			}
			if err := readRow(op, row, existing, incidentBind); err != nil {
				op.rowFailed(row, err)
				continue
			}
			if err := op.exportCustomProps(row, &existing.CustomProperties); err != nil {
				op.rowFailed(row, err)
				continue
			}
			if err := im.svc.IncidentUpdate(ctx, existing); err != nil {
				op.rowFailed(row, err)
				continue
			}
			if err := op.addResolution(ctx, row, id); err != nil {
				op.rowFailed(row, err)
			}
			continue
		}

		rec := &remote.Incident{}
		if err := readRow(op, row, rec, incidentBind); err != nil {
			op.rowFailed(row, err)
			continue
		}
		if err := op.exportCustomProps(row, &rec.CustomProperties); err != nil {
			op.rowFailed(row, err)
			continue
		}
		created, err := im.svc.IncidentCreate(ctx, rec)
		if err != nil {
			op.rowFailed(row, err)
			continue
		}
		op.writeKey(row, created.ID)
		if err := op.addResolution(ctx, row, created.ID); err != nil {
			op.rowFailed(row, err)
		}
	}
	return op.finalize("export")
}

// addResolution posts the Resolution cell as a comment and blanks it so
// a re-export does not post it again.
func (op *operation) addResolution(ctx context.Context, row int, id *int) error {
	if id == nil {
		return nil
	}
	text := op.fieldText(row, "Resolution")
	if text == "" {
		return nil
	}
	if err := op.im.svc.CommentAdd(ctx, remote.ArtifactIncident, *id, text); err != nil {
		return err
	}
	op.setFieldCell(row, "Resolution", nil)
	return nil
}
