package mapper

import (
	"fmt"
	"time"

	"github.com/dt-pm-tools/sheet-sync/internal/remote"
)

// fieldKind drives the bidirectional conversion of one column.
type fieldKind int

const (
	kindKey            fieldKind = iota // primary id column (*int)
	kindText                            // string, control chars stripped on export
	kindLongText                        // string, markup-stripped and truncated
	kindInt                             // *int
	kindFloat                           // *float64
	kindBool                            // bool, rendered "Y"/"N"
	kindDate                            // *time.Time
	kindLookup                          // *int resolved through a named-range lookup
	kindComponent                       // *int rendered as a component name
	kindComponents                      // []int rendered as comma-joined component names
	kindReleaseVersion                  // *int rendered as a release version number
	kindIDList                          // []int rendered as comma-joined ids
)

// fieldDef declares one column of an artifact sheet.
type fieldDef struct {
	label     string    // header cell text, matched case-insensitively after trim
	name      string    // semantic field name
	kind      fieldKind
	lookup    string // named range, kindLookup only
	defaultID int    // fallback id for non-nullable lookups; 0 means nullable
	required  bool
}

// binding connects a semantic field name to its accessor on the typed
// record. The any values follow the kind's documented concrete type.
type binding[T any] struct {
	get func(*T) any
	set func(*T, any)
}

// artifactSheet declares one artifact kind's worksheet contract.
type artifactSheet struct {
	artifact    remote.ArtifactType
	sheetName   string
	defs        []fieldDef
	customProps bool
}

// declaredCols bounds the header scan: the declared fields plus the
// custom-property slots plus the trailing error column.
func (s artifactSheet) declaredCols() int {
	return len(s.defs) + maxCustomProperties + 1
}

// Documented fallback ids for non-nullable lookup fields. An export row
// whose label does not resolve always receives the fallback; the field
// is never left unset.
const (
	defaultRequirementStatusID = 1 // Requested
	defaultIncidentTypeID      = 1 // Incident
	defaultIncidentStatusID    = 1 // New
	defaultTaskStatusID        = 1 // Not Started
	defaultExecutionStatusID   = 3 // Not Run
)

var requirementSheet = artifactSheet{
	artifact:    remote.ArtifactRequirement,
	sheetName:   "Requirements",
	customProps: true,
	defs: []fieldDef{
		{label: "Req #", name: "RequirementID", kind: kindKey, required: true},
		{label: "Requirement Name", name: "Name", kind: kindText, required: true},
		{label: "Requirement Description", name: "Description", kind: kindLongText},
		{label: "Release Version", name: "ReleaseID", kind: kindReleaseVersion},
		{label: "Importance", name: "ImportanceID", kind: kindLookup, lookup: "Req_Importance"},
		{label: "Status", name: "StatusID", kind: kindLookup, lookup: "Req_Status", defaultID: defaultRequirementStatusID},
		{label: "Estimate", name: "EstimatePoints", kind: kindFloat},
		{label: "Author ID", name: "AuthorID", kind: kindInt},
		{label: "Owner ID", name: "OwnerID", kind: kindInt},
		{label: "Component", name: "ComponentID", kind: kindComponent},
		{label: "Comment", name: "Comment", kind: kindText},
	},
}

var requirementBind = map[string]binding[remote.Requirement]{
	"RequirementID":  {get: func(r *remote.Requirement) any { return r.ID }, set: func(r *remote.Requirement, v any) { r.ID = v.(*int) }},
	"Name":           {get: func(r *remote.Requirement) any { return r.Name }, set: func(r *remote.Requirement, v any) { r.Name = v.(string) }},
	"Description":    {get: func(r *remote.Requirement) any { return r.Description }, set: func(r *remote.Requirement, v any) { r.Description = v.(string) }},
	"ReleaseID":      {get: func(r *remote.Requirement) any { return r.ReleaseID }, set: func(r *remote.Requirement, v any) { r.ReleaseID = v.(*int) }},
	"ImportanceID":   {get: func(r *remote.Requirement) any { return r.ImportanceID }, set: func(r *remote.Requirement, v any) { r.ImportanceID = v.(*int) }},
	"StatusID":       {get: func(r *remote.Requirement) any { return r.StatusID }, set: func(r *remote.Requirement, v any) { r.StatusID = v.(*int) }},
	"EstimatePoints": {get: func(r *remote.Requirement) any { return r.EstimatePoints }, set: func(r *remote.Requirement, v any) { r.EstimatePoints = v.(*float64) }},
	"AuthorID":       {get: func(r *remote.Requirement) any { return r.AuthorID }, set: func(r *remote.Requirement, v any) { r.AuthorID = v.(*int) }},
	"OwnerID":        {get: func(r *remote.Requirement) any { return r.OwnerID }, set: func(r *remote.Requirement, v any) { r.OwnerID = v.(*int) }},
	"ComponentID":    {get: func(r *remote.Requirement) any { return r.ComponentID }, set: func(r *remote.Requirement, v any) { r.ComponentID = v.(*int) }},
}

var releaseSheet = artifactSheet{
	artifact:    remote.ArtifactRelease,
	sheetName:   "Releases",
	customProps: true,
	defs: []fieldDef{
		{label: "Rel #", name: "ReleaseID", kind: kindKey, required: true},
		{label: "Release Name", name: "Name", kind: kindText, required: true},
		{label: "Release Description", name: "Description", kind: kindLongText},
		{label: "Version Number", name: "VersionNumber", kind: kindText, required: true},
		{label: "Active", name: "Active", kind: kindBool},
		{label: "Iteration", name: "Iteration", kind: kindBool},
		{label: "Start Date", name: "StartDate", kind: kindDate},
		{label: "End Date", name: "EndDate", kind: kindDate},
		{label: "# Resources", name: "ResourceCount", kind: kindInt},
		{label: "Comment", name: "Comment", kind: kindText},
	},
}

var releaseBind = map[string]binding[remote.Release]{
	"ReleaseID":     {get: func(r *remote.Release) any { return r.ID }, set: func(r *remote.Release, v any) { r.ID = v.(*int) }},
	"Name":          {get: func(r *remote.Release) any { return r.Name }, set: func(r *remote.Release, v any) { r.Name = v.(string) }},
	"Description":   {get: func(r *remote.Release) any { return r.Description }, set: func(r *remote.Release, v any) { r.Description = v.(string) }},
	"VersionNumber": {get: func(r *remote.Release) any { return r.VersionNumber }, set: func(r *remote.Release, v any) { r.VersionNumber = v.(string) }},
	"Active":        {get: func(r *remote.Release) any { return r.Active }, set: func(r *remote.Release, v any) { r.Active = v.(bool) }},
	"Iteration":     {get: func(r *remote.Release) any { return r.Iteration }, set: func(r *remote.Release, v any) { r.Iteration = v.(bool) }},
	"StartDate":     {get: func(r *remote.Release) any { return r.StartDate }, set: func(r *remote.Release, v any) { r.StartDate = v.(*time.Time) }},
	"EndDate":       {get: func(r *remote.Release) any { return r.EndDate }, set: func(r *remote.Release, v any) { r.EndDate = v.(*time.Time) }},
	"ResourceCount": {get: func(r *remote.Release) any { return r.ResourceCount }, set: func(r *remote.Release, v any) { r.ResourceCount = v.(*int) }},
}

// rowTypeFolder and rowTypeStep discriminate the rows of the multi-type
// test case sheet; a plain (empty) row type is a test case.
const (
	rowTypeFolder = "FOLDER"
	rowTypeStep   = ">TestStep"
)

var testCaseSheet = artifactSheet{
	artifact:    remote.ArtifactTestCase,
	sheetName:   "Test Cases",
	customProps: true,
	defs: []fieldDef{
		{label: "Row Type", name: "RowType", kind: kindText, required: true},
		{label: "Test #", name: "TestCaseID", kind: kindKey, required: true},
		{label: "Test Case Name", name: "Name", kind: kindText, required: true},
		{label: "Test Case Description", name: "Description", kind: kindLongText},
		{label: "Priority", name: "PriorityID", kind: kindLookup, lookup: "TC_Priority"},
		{label: "Owner ID", name: "OwnerID", kind: kindInt},
		{label: "Test Step Description", name: "StepDescription", kind: kindLongText},
		{label: "Expected Result", name: "ExpectedResult", kind: kindLongText},
		{label: "Sample Data", name: "SampleData", kind: kindLongText},
	},
}

var testCaseBind = map[string]binding[remote.TestCase]{
	"TestCaseID":  {get: func(r *remote.TestCase) any { return r.ID }, set: func(r *remote.TestCase, v any) { r.ID = v.(*int) }},
	"Name":        {get: func(r *remote.TestCase) any { return r.Name }, set: func(r *remote.TestCase, v any) { r.Name = v.(string) }},
	"Description": {get: func(r *remote.TestCase) any { return r.Description }, set: func(r *remote.TestCase, v any) { r.Description = v.(string) }},
	"PriorityID":  {get: func(r *remote.TestCase) any { return r.PriorityID }, set: func(r *remote.TestCase, v any) { r.PriorityID = v.(*int) }},
	"OwnerID":     {get: func(r *remote.TestCase) any { return r.OwnerID }, set: func(r *remote.TestCase, v any) { r.OwnerID = v.(*int) }},
}

var testSetSheet = artifactSheet{
	artifact:    remote.ArtifactTestSet,
	sheetName:   "Test Sets",
	customProps: true,
	defs: []fieldDef{
		{label: "Set #", name: "TestSetID", kind: kindKey, required: true},
		{label: "Test Set Name", name: "Name", kind: kindText, required: true},
		{label: "Test Set Description", name: "Description", kind: kindLongText},
		{label: "Folder", name: "Folder", kind: kindBool},
		{label: "Release Version", name: "ReleaseID", kind: kindReleaseVersion},
		{label: "Owner ID", name: "OwnerID", kind: kindInt},
		{label: "Test Case Ids", name: "TestCaseIDs", kind: kindIDList},
	},
}

var testSetBind = map[string]binding[remote.TestSet]{
	"TestSetID":   {get: func(r *remote.TestSet) any { return r.ID }, set: func(r *remote.TestSet, v any) { r.ID = v.(*int) }},
	"Name":        {get: func(r *remote.TestSet) any { return r.Name }, set: func(r *remote.TestSet, v any) { r.Name = v.(string) }},
	"Description": {get: func(r *remote.TestSet) any { return r.Description }, set: func(r *remote.TestSet, v any) { r.Description = v.(string) }},
	"ReleaseID":   {get: func(r *remote.TestSet) any { return r.ReleaseID }, set: func(r *remote.TestSet, v any) { r.ReleaseID = v.(*int) }},
	"OwnerID":     {get: func(r *remote.TestSet) any { return r.OwnerID }, set: func(r *remote.TestSet, v any) { r.OwnerID = v.(*int) }},
	"TestCaseIDs": {get: func(r *remote.TestSet) any { return r.TestCaseIDs }, set: func(r *remote.TestSet, v any) { r.TestCaseIDs = v.([]int) }},
}

var testRunSheet = artifactSheet{
	artifact:  remote.ArtifactTestRun,
	sheetName: "Test Runs",
	defs: []fieldDef{
		{label: "Row Type", name: "RowType", kind: kindText, required: true},
		{label: "Test #", name: "TestCaseID", kind: kindInt, required: true},
		{label: "Test Case Name", name: "Name", kind: kindText},
		{label: "Release Version", name: "ReleaseID", kind: kindReleaseVersion},
		{label: "Execution Status", name: "ExecutionStatusID", kind: kindLookup, lookup: "TestRun_Status", defaultID: defaultExecutionStatusID},
		{label: "Run Date", name: "RunDate", kind: kindDate},
		{label: "Test Step Description", name: "StepDescription", kind: kindLongText},
		{label: "Expected Result", name: "ExpectedResult", kind: kindLongText},
		{label: "Actual Result", name: "ActualResult", kind: kindLongText},
	},
}

var incidentSheet = artifactSheet{
	artifact:    remote.ArtifactIncident,
	sheetName:   "Incidents",
	customProps: true,
	defs: []fieldDef{
		{label: "Inc #", name: "IncidentID", kind: kindKey, required: true},
		{label: "Incident Name", name: "Name", kind: kindText, required: true},
		{label: "Incident Description", name: "Description", kind: kindLongText},
		{label: "Type", name: "TypeID", kind: kindLookup, lookup: "Inc_Type", defaultID: defaultIncidentTypeID},
		{label: "Status", name: "StatusID", kind: kindLookup, lookup: "Inc_Status", defaultID: defaultIncidentStatusID},
		{label: "Priority", name: "PriorityID", kind: kindLookup, lookup: "Inc_Priority"},
		{label: "Severity", name: "SeverityID", kind: kindLookup, lookup: "Inc_Severity"},
		{label: "Opened By ID", name: "OpenerID", kind: kindInt},
		{label: "Owner ID", name: "OwnerID", kind: kindInt},
		{label: "Detected Release", name: "DetectedReleaseID", kind: kindReleaseVersion},
		{label: "Resolved Release", name: "ResolvedReleaseID", kind: kindReleaseVersion},
		{label: "Component(s)", name: "ComponentIDs", kind: kindComponents},
		{label: "Creation Date", name: "CreationDate", kind: kindDate},
		{label: "Closed Date", name: "ClosedDate", kind: kindDate},
		{label: "Resolution", name: "Resolution", kind: kindText},
	},
}

var incidentBind = map[string]binding[remote.Incident]{
	"IncidentID":        {get: func(r *remote.Incident) any { return r.ID }, set: func(r *remote.Incident, v any) { r.ID = v.(*int) }},
	"Name":              {get: func(r *remote.Incident) any { return r.Name }, set: func(r *remote.Incident, v any) { r.Name = v.(string) }},
	"Description":       {get: func(r *remote.Incident) any { return r.Description }, set: func(r *remote.Incident, v any) { r.Description = v.(string) }},
	"TypeID":            {get: func(r *remote.Incident) any { return r.TypeID }, set: func(r *remote.Incident, v any) { r.TypeID = v.(*int) }},
	"StatusID":          {get: func(r *remote.Incident) any { return r.StatusID }, set: func(r *remote.Incident, v any) { r.StatusID = v.(*int) }},
	"PriorityID":        {get: func(r *remote.Incident) any { return r.PriorityID }, set: func(r *remote.Incident, v any) { r.PriorityID = v.(*int) }},
	"SeverityID":        {get: func(r *remote.Incident) any { return r.SeverityID }, set: func(r *remote.Incident, v any) { r.SeverityID = v.(*int) }},
	"OpenerID":          {get: func(r *remote.Incident) any { return r.OpenerID }, set: func(r *remote.Incident, v any) { r.OpenerID = v.(*int) }},
	"OwnerID":           {get: func(r *remote.Incident) any { return r.OwnerID }, set: func(r *remote.Incident, v any) { r.OwnerID = v.(*int) }},
	"DetectedReleaseID": {get: func(r *remote.Incident) any { return r.DetectedReleaseID }, set: func(r *remote.Incident, v any) { r.DetectedReleaseID = v.(*int) }},
	"ResolvedReleaseID": {get: func(r *remote.Incident) any { return r.ResolvedReleaseID }, set: func(r *remote.Incident, v any) { r.ResolvedReleaseID = v.(*int) }},
	"ComponentIDs":      {get: func(r *remote.Incident) any { return r.ComponentIDs }, set: func(r *remote.Incident, v any) { r.ComponentIDs = v.([]int) }},
	"CreationDate":      {get: func(r *remote.Incident) any { return r.CreationDate }, set: func(r *remote.Incident, v any) { r.CreationDate = v.(*time.Time) }},
	"ClosedDate":        {get: func(r *remote.Incident) any { return r.ClosedDate }, set: func(r *remote.Incident, v any) { r.ClosedDate = v.(*time.Time) }},
}

var taskSheet = artifactSheet{
	artifact:    remote.ArtifactTask,
	sheetName:   "Tasks",
	customProps: true,
	defs: []fieldDef{
		{label: "Task #", name: "TaskID", kind: kindKey, required: true},
		{label: "Task Name", name: "Name", kind: kindText, required: true},
		{label: "Task Description", name: "Description", kind: kindLongText},
		{label: "Status", name: "StatusID", kind: kindLookup, lookup: "Task_Status", defaultID: defaultTaskStatusID},
		{label: "Priority", name: "PriorityID", kind: kindLookup, lookup: "Task_Priority"},
		{label: "Req #", name: "RequirementID", kind: kindInt},
		{label: "Release Version", name: "ReleaseID", kind: kindReleaseVersion},
		{label: "Owner ID", name: "OwnerID", kind: kindInt},
		{label: "Start Date", name: "StartDate", kind: kindDate},
		{label: "End Date", name: "EndDate", kind: kindDate},
		{label: "% Complete", name: "CompletionPercent", kind: kindInt},
		{label: "Comment", name: "Comment", kind: kindText},
	},
}

var taskBind = map[string]binding[remote.Task]{
	"TaskID":            {get: func(r *remote.Task) any { return r.ID }, set: func(r *remote.Task, v any) { r.ID = v.(*int) }},
	"Name":              {get: func(r *remote.Task) any { return r.Name }, set: func(r *remote.Task, v any) { r.Name = v.(string) }},
	"Description":       {get: func(r *remote.Task) any { return r.Description }, set: func(r *remote.Task, v any) { r.Description = v.(string) }},
	"StatusID":          {get: func(r *remote.Task) any { return r.StatusID }, set: func(r *remote.Task, v any) { r.StatusID = v.(*int) }},
	"PriorityID":        {get: func(r *remote.Task) any { return r.PriorityID }, set: func(r *remote.Task, v any) { r.PriorityID = v.(*int) }},
	"RequirementID":     {get: func(r *remote.Task) any { return r.RequirementID }, set: func(r *remote.Task, v any) { r.RequirementID = v.(*int) }},
	"ReleaseID":         {get: func(r *remote.Task) any { return r.ReleaseID }, set: func(r *remote.Task, v any) { r.ReleaseID = v.(*int) }},
	"OwnerID":           {get: func(r *remote.Task) any { return r.OwnerID }, set: func(r *remote.Task, v any) { r.OwnerID = v.(*int) }},
	"StartDate":         {get: func(r *remote.Task) any { return r.StartDate }, set: func(r *remote.Task, v any) { r.StartDate = v.(*time.Time) }},
	"EndDate":           {get: func(r *remote.Task) any { return r.EndDate }, set: func(r *remote.Task, v any) { r.EndDate = v.(*time.Time) }},
	"CompletionPercent": {get: func(r *remote.Task) any { return r.CompletionPercent }, set: func(r *remote.Task, v any) { r.CompletionPercent = v.(*int) }},
}

var customListValueSheet = artifactSheet{
	artifact:  remote.ArtifactCustomListValue,
	sheetName: "Custom Values",
	defs: []fieldDef{
		{label: "Value #", name: "ValueID", kind: kindKey, required: true},
		{label: "List #", name: "ListID", kind: kindInt, required: true},
		{label: "Value Name", name: "Name", kind: kindText, required: true},
		{label: "Active", name: "Active", kind: kindBool},
	},
}

var customListValueBind = map[string]binding[remote.CustomListValue]{
	"ValueID": {get: func(r *remote.CustomListValue) any { return r.ID }, set: func(r *remote.CustomListValue, v any) { r.ID = v.(*int) }},
	"ListID": {
		get: func(r *remote.CustomListValue) any { id := r.ListID; return &id },
		set: func(r *remote.CustomListValue, v any) {
			if p := v.(*int); p != nil {
				r.ListID = *p
			}
		},
	},
	"Name":   {get: func(r *remote.CustomListValue) any { return r.Name }, set: func(r *remote.CustomListValue, v any) { r.Name = v.(string) }},
	"Active": {get: func(r *remote.CustomListValue) any { return r.Active }, set: func(r *remote.CustomListValue, v any) { r.Active = v.(bool) }},
}

// sheetFor returns the sheet contract for an artifact kind.
func sheetFor(artifact remote.ArtifactType) (artifactSheet, error) {
	switch artifact {
	case remote.ArtifactRequirement:
		return requirementSheet, nil
	case remote.ArtifactRelease:
		return releaseSheet, nil
	case remote.ArtifactTestCase:
		return testCaseSheet, nil
	case remote.ArtifactTestSet:
		return testSetSheet, nil
	case remote.ArtifactTestRun:
		return testRunSheet, nil
	case remote.ArtifactIncident:
		return incidentSheet, nil
	case remote.ArtifactTask:
		return taskSheet, nil
	case remote.ArtifactCustomListValue:
		return customListValueSheet, nil
	default:
		return artifactSheet{}, fmt.Errorf("unknown artifact type %q", artifact)
	}
}
