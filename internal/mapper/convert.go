package mapper

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dt-pm-tools/sheet-sync/internal/remote"
)

// skipAssign is returned by fieldValue when the cell value must not be
// assigned (writing it would truncate longer pre-existing remote data).
type skipAssign struct{}

// cellValue converts a typed record field into a spreadsheet cell value
// (import direction). The bool result reports truncation.
func (op *operation) cellValue(def fieldDef, v any) (any, bool) {
	switch def.kind {
	case kindKey, kindInt:
		if p, ok := v.(*int); ok && p != nil {
			return *p, false
		}
		return nil, false
	case kindFloat:
		if p, ok := v.(*float64); ok && p != nil {
			return *p, false
		}
		return nil, false
	case kindText:
		s, _ := v.(string)
		if s == "" {
			return nil, false
		}
		return s, false
	case kindLongText:
		s, _ := v.(string)
		if op.im.opts.StripRichText {
			s = StripRichText(s)
		}
		s, truncated := truncateText(s)
		if s == "" {
			return nil, truncated
		}
		return s, truncated
	case kindBool:
		if b, _ := v.(bool); b {
			return "Y", false
		}
		return "N", false
	case kindDate:
		if p, ok := v.(*time.Time); ok && p != nil {
			return p.In(time.Local), false
		}
		return nil, false
	case kindLookup:
		p, ok := v.(*int)
		if !ok || p == nil {
			return nil, false
		}
		if label, found := op.lookups[def.lookup].Label(*p); found {
			return label, false
		}
		// Unmapped id: leave the raw id in the cell.
		return *p, false
	case kindComponent:
		p, ok := v.(*int)
		if !ok || p == nil {
			return nil, false
		}
		return op.componentDisplay(*p), false
	case kindComponents:
		ids, _ := v.([]int)
		if len(ids) == 0 {
			return nil, false
		}
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = op.componentDisplay(id)
		}
		return strings.Join(names, ", "), false
	case kindReleaseVersion:
		p, ok := v.(*int)
		if !ok || p == nil {
			return nil, false
		}
		if version, found := op.releaseVersion(*p); found {
			return version, false
		}
		return *p, false
	case kindIDList:
		ids, _ := v.([]int)
		if len(ids) == 0 {
			return nil, false
		}
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = strconv.Itoa(id)
		}
		return strings.Join(parts, ","), false
	default:
		return nil, false
	}
}

// fieldValue converts a spreadsheet cell value into the typed value for
// a record field (export direction). The returned value has the
// concrete type documented on the field kind; skipAssign{} means the
// field must be left untouched. existing is the current remote value,
// consulted by the long-text truncation guard.
func (op *operation) fieldValue(def fieldDef, raw, existing any) (any, error) {
	if isEmptyCell(raw) {
		return op.emptyFieldValue(def), nil
	}

	switch def.kind {
	case kindKey, kindInt:
		n, err := parseCellInt(raw)
		if err != nil {
			return nil, err
		}
		return &n, nil
	case kindFloat:
		f, err := parseCellFloat(raw)
		if err != nil {
			return nil, err
		}
		return &f, nil
	case kindText:
		return stripControlChars(asString(raw)), nil
	case kindLongText:
		s := stripControlChars(asString(raw))
		if prior, ok := existing.(string); ok && len(prior) > maxCellLength {
			if capped, _ := truncateText(prior); s == capped {
				return skipAssign{}, nil
			}
		}
		return s, nil
	case kindBool:
		return parseCellBool(raw), nil
	case kindDate:
		t, err := parseCellDate(raw)
		if err != nil {
			return nil, err
		}
		return t, nil
	case kindLookup:
		if n, err := parseCellInt(raw); err == nil {
			return &n, nil
		}
		if id, found := op.lookups[def.lookup].ID(asString(raw)); found {
			return &id, nil
		}
		return op.emptyFieldValue(def), nil
	case kindComponent:
		name := strings.TrimSpace(asString(raw))
		id, found := op.componentID(name)
		if !found {
			return nil, fmt.Errorf("unknown component %q", name)
		}
		return &id, nil
	case kindComponents:
		var ids []int
		for _, part := range strings.Split(asString(raw), ",") {
			name := strings.TrimSpace(part)
			if name == "" {
				continue
			}
			id, found := op.componentID(name)
			if !found {
				return nil, fmt.Errorf("unknown component %q", name)
			}
			ids = append(ids, id)
		}
		return ids, nil
	case kindReleaseVersion:
		version := strings.TrimSpace(asString(raw))
		if id, found := op.releaseIDForVersion(version); found {
			return &id, nil
		}
		return (*int)(nil), nil
	case kindIDList:
		var ids []int
		for _, part := range strings.Split(asString(raw), ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("id list entry %q is not a number", part)
			}
			ids = append(ids, n)
		}
		return ids, nil
	default:
		return skipAssign{}, nil
	}
}

// emptyFieldValue is the typed value assigned for an empty cell:
// nullable fields become nil, non-nullable lookups fall back to the
// documented default id.
func (op *operation) emptyFieldValue(def fieldDef) any {
	switch def.kind {
	case kindLookup:
		if def.defaultID > 0 {
			id := def.defaultID
			return &id
		}
		return (*int)(nil)
	case kindText, kindLongText:
		return ""
	case kindBool:
		return false
	case kindKey, kindInt, kindComponent, kindReleaseVersion:
		return (*int)(nil)
	case kindFloat:
		return (*float64)(nil)
	case kindDate:
		return (*time.Time)(nil)
	case kindComponents, kindIDList:
		return []int(nil)
	default:
		return skipAssign{}
	}
}

// writeRow maps one record into the cells of one row (import direction).
func writeRow[T any](op *operation, row int, rec *T, binds map[string]binding[T]) {
	for _, def := range op.spec.defs {
		col, mapped := op.fieldCols[def.name]
		if !mapped {
			continue
		}
		bind, bound := binds[def.name]
		if !bound {
			continue
		}
		cell, truncated := op.cellValue(def, bind.get(rec))
		if truncated {
			op.markTruncated(row)
		}
		op.ws.SetValue(row, col, cell)
	}
}

// readRow assigns the cells of one row onto a record (export direction).
// The key column is left to the caller, which resolves insert vs update
// before the row is read.
func readRow[T any](op *operation, row int, rec *T, binds map[string]binding[T]) error {
	for _, def := range op.spec.defs {
		if def.kind == kindKey {
			continue
		}
		col, mapped := op.fieldCols[def.name]
		if !mapped {
			continue
		}
		bind, bound := binds[def.name]
		if !bound {
			continue
		}
		v, err := op.fieldValue(def, op.ws.Value(row, col), bind.get(rec))
		if err != nil {
			return fmt.Errorf("%s: %w", def.label, err)
		}
		if _, skip := v.(skipAssign); skip {
			continue
		}
		bind.set(rec, v)
	}
	return nil
}

// writeCustomProps writes an artifact's sparse custom properties into
// their mapped CUS-NN columns (import direction).
func (op *operation) writeCustomProps(row int, props []remote.CustomProperty) {
	for _, def := range op.customDefs {
		col, mapped := op.customCols[def.PropertyNumber]
		if !mapped {
			continue
		}
		prop := findCustomProp(props, def.PropertyNumber)
		if prop == nil {
			op.ws.SetValue(row, col, nil)
			continue
		}
		cell, truncated := op.customCellValue(def, prop)
		if truncated {
			op.markTruncated(row)
		}
		op.ws.SetValue(row, col, cell)
	}
}

// readCustomProps collects the mapped CUS-NN cells of one row into a
// sparse custom property list (export direction). Empty cells produce
// no entry.
func (op *operation) readCustomProps(row int) ([]remote.CustomProperty, error) {
	var props []remote.CustomProperty
	for _, def := range op.customDefs {
		col, mapped := op.customCols[def.PropertyNumber]
		if !mapped {
			continue
		}
		raw := op.ws.Value(row, col)
		if isEmptyCell(raw) {
			continue
		}
		prop, err := op.customFieldValue(def, raw)
		if err != nil {
			return nil, fmt.Errorf("CUS-%02d: %w", def.PropertyNumber, err)
		}
		if prop != nil {
			props = append(props, *prop)
		}
	}
	return props, nil
}

// customCellValue converts one typed custom property to a cell value,
// dispatched by the declared type tag.
func (op *operation) customCellValue(def remote.CustomPropertyDefinition, p *remote.CustomProperty) (any, bool) {
	switch def.Type {
	case remote.CustomText:
		if p.StringValue == nil {
			return nil, false
		}
		s := *p.StringValue
		if op.im.opts.StripRichText {
			s = StripRichText(s)
		}
		return nonEmpty(truncateText(s))
	case remote.CustomInteger, remote.CustomUser:
		if p.IntegerValue == nil {
			return nil, false
		}
		return *p.IntegerValue, false
	case remote.CustomDecimal:
		if p.DecimalValue == nil {
			return nil, false
		}
		return *p.DecimalValue, false
	case remote.CustomBoolean:
		if p.BooleanValue == nil {
			return nil, false
		}
		if *p.BooleanValue {
			return "Y", false
		}
		return "N", false
	case remote.CustomDate:
		if p.DateValue == nil {
			return nil, false
		}
		return p.DateValue.In(time.Local), false
	case remote.CustomList:
		if p.IntegerValue == nil {
			return nil, false
		}
		if label, ok := listValueLabel(def, *p.IntegerValue); ok {
			return label, false
		}
		return *p.IntegerValue, false
	case remote.CustomMultiList:
		if len(p.IntegerListValue) == 0 {
			return nil, false
		}
		parts := make([]string, len(p.IntegerListValue))
		for i, id := range p.IntegerListValue {
			if label, ok := listValueLabel(def, id); ok {
				parts[i] = label
			} else {
				parts[i] = strconv.Itoa(id)
			}
		}
		return strings.Join(parts, ", "), false
	default:
		return nil, false
	}
}

// customFieldValue converts one cell into a typed custom property,
// dispatched by the declared type tag.
func (op *operation) customFieldValue(def remote.CustomPropertyDefinition, raw any) (*remote.CustomProperty, error) {
	prop := &remote.CustomProperty{PropertyNumber: def.PropertyNumber, Type: def.Type}
	switch def.Type {
	case remote.CustomText:
		s := stripControlChars(asString(raw))
		prop.StringValue = &s
	case remote.CustomInteger, remote.CustomUser:
		n, err := parseCellInt(raw)
		if err != nil {
			return nil, err
		}
		prop.IntegerValue = &n
	case remote.CustomDecimal:
		f, err := parseCellFloat(raw)
		if err != nil {
			return nil, err
		}
		prop.DecimalValue = &f
	case remote.CustomBoolean:
		b := parseCellBool(raw)
		prop.BooleanValue = &b
	case remote.CustomDate:
		t, err := parseCellDate(raw)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, nil
		}
		prop.DateValue = t
	case remote.CustomList:
		id, ok := listValueID(def, asString(raw))
		if !ok {
			return nil, fmt.Errorf("value %q is not in list %q", asString(raw), def.Name)
		}
		prop.IntegerValue = &id
	case remote.CustomMultiList:
		for _, part := range strings.Split(asString(raw), ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, ok := listValueID(def, part)
			if !ok {
				return nil, fmt.Errorf("value %q is not in list %q", part, def.Name)
			}
			prop.IntegerListValue = append(prop.IntegerListValue, id)
		}
	default:
		return nil, nil
	}
	return prop, nil
}

func findCustomProp(props []remote.CustomProperty, number int) *remote.CustomProperty {
	for i := range props {
		if props[i].PropertyNumber == number {
			return &props[i]
		}
	}
	return nil
}

func listValueLabel(def remote.CustomPropertyDefinition, id int) (string, bool) {
	for _, lv := range def.ListValues {
		if lv.ID == id {
			return lv.Name, true
		}
	}
	return "", false
}

func listValueID(def remote.CustomPropertyDefinition, label string) (int, bool) {
	label = strings.TrimSpace(label)
	for _, lv := range def.ListValues {
		if strings.EqualFold(lv.Name, label) {
			return lv.ID, true
		}
	}
	return 0, false
}

// componentDisplay renders a component id as its name, falling back to
// the raw id.
func (op *operation) componentDisplay(id int) string {
	for _, c := range op.components {
		if c.ID == id {
			return c.Name
		}
	}
	return strconv.Itoa(id)
}

func (op *operation) componentID(name string) (int, bool) {
	for _, c := range op.components {
		if strings.EqualFold(strings.TrimSpace(c.Name), name) {
			return c.ID, true
		}
	}
	return 0, false
}

func (op *operation) releaseVersion(id int) (string, bool) {
	for _, r := range op.releases {
		if r.ID != nil && *r.ID == id {
			return r.VersionNumber, true
		}
	}
	return "", false
}

// releaseIDForVersion resolves a "Release Version" cell by exact-trim
// match against the pre-fetched release list.
func (op *operation) releaseIDForVersion(version string) (int, bool) {
	for _, r := range op.releases {
		if r.ID != nil && strings.TrimSpace(r.VersionNumber) == version {
			return *r.ID, true
		}
	}
	return 0, false
}

// --- cell parsing helpers ---

func isEmptyCell(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// asString renders any cell value as a string.
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		if t {
			return "Y"
		}
		return "N"
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprint(t)
	}
}

// truncateText caps s at maxCellLength characters.
func truncateText(s string) (string, bool) {
	runes := []rune(s)
	if len(runes) <= maxCellLength {
		return s, false
	}
	return string(runes[:maxCellLength]), true
}

func nonEmpty(s string, truncated bool) (any, bool) {
	if s == "" {
		return nil, truncated
	}
	return s, truncated
}

// parseCellInt parses an integer from native or string representations.
func parseCellInt(v any) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		return int(t), nil
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.Atoi(s); err == nil {
			return n, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), nil
		}
		return 0, fmt.Errorf("%q is not a number", t)
	default:
		return 0, fmt.Errorf("cell value %v is not a number", v)
	}
}

func parseCellFloat(v any) (float64, error) {
	switch t := v.(type) {
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case float64:
		return t, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", t)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cell value %v is not a number", v)
	}
}

// parseCellBool treats Y/Yes/True/1 (any case) as true; everything else
// is false.
func parseCellBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "y", "yes", "true", "1":
			return true
		}
		return false
	case int:
		return t != 0
	case float64:
		return t != 0
	default:
		return false
	}
}

// excelEpoch is the base of Excel date serial numbers.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.Local)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"1/2/2006",
	"2-Jan-2006",
	time.RFC3339,
}

// parseCellDate parses a date from native time values, Excel serial
// numbers (typed or string), or the common date string layouts.
func parseCellDate(v any) (*time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return &t, nil
	case float64:
		d := serialToTime(t)
		return &d, nil
	case int:
		d := serialToTime(float64(t))
		return &d, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, nil
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return &parsed, nil
			}
		}
		if serial, err := strconv.ParseFloat(s, 64); err == nil {
			d := serialToTime(serial)
			return &d, nil
		}
		return nil, fmt.Errorf("%q is not a date", t)
	default:
		return nil, fmt.Errorf("cell value %v is not a date", v)
	}
}

func serialToTime(serial float64) time.Time {
	return excelEpoch.Add(time.Duration(serial * float64(24*time.Hour)))
}
