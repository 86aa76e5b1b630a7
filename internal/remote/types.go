// Package remote provides the typed client for the artifact-management
// service: one record struct per artifact kind and one method per
// service operation, all carried over the SOAP transport.
package remote

import "time"

// ArtifactType identifies one kind of managed artifact.
type ArtifactType string

// Artifact kinds known to the service.
const (
	ArtifactRequirement     ArtifactType = "Requirement"
	ArtifactRelease         ArtifactType = "Release"
	ArtifactTestCase        ArtifactType = "TestCase"
	ArtifactTestSet         ArtifactType = "TestSet"
	ArtifactTestRun         ArtifactType = "TestRun"
	ArtifactIncident        ArtifactType = "Incident"
	ArtifactTask            ArtifactType = "Task"
	ArtifactCustomListValue ArtifactType = "CustomListValue"
)

// CustomPropertyType is the declared type tag of a custom property.
type CustomPropertyType int

// Custom property type tags.
const (
	CustomText CustomPropertyType = iota + 1
	CustomInteger
	CustomDecimal
	CustomBoolean
	CustomDate
	CustomList
	CustomMultiList
	CustomUser
)

// CustomProperty is one (property number, typed value) pair attached to
// an artifact. Exactly one value field is set, matching Type.
type CustomProperty struct {
	PropertyNumber   int                `xml:"PropertyNumber"`
	Type             CustomPropertyType `xml:"Type"`
	StringValue      *string            `xml:"StringValue,omitempty"`
	IntegerValue     *int               `xml:"IntegerValue,omitempty"`
	DecimalValue     *float64           `xml:"DecimalValue,omitempty"`
	BooleanValue     *bool              `xml:"BooleanValue,omitempty"`
	DateValue        *time.Time         `xml:"DateValue,omitempty"`
	IntegerListValue []int              `xml:"IntegerListValue>int,omitempty"`
}

// CustomPropertyDefinition describes one custom-property slot configured
// for a project and artifact kind. ListValues is populated for List and
// MultiList properties.
type CustomPropertyDefinition struct {
	PropertyNumber int                `xml:"PropertyNumber"`
	Type           CustomPropertyType `xml:"Type"`
	Name           string             `xml:"Name"`
	ListValues     []ListValue        `xml:"ListValues>ListValue"`
}

// ListValue is one selectable value of a list custom property.
type ListValue struct {
	ID   int    `xml:"Id"`
	Name string `xml:"Name"`
}

// Requirement is a product requirement. Hierarchy is expressed by
// IndentLevel on retrieve and by the parent id on create.
type Requirement struct {
	ID               *int             `xml:"RequirementId"`
	IndentLevel      int              `xml:"IndentLevel"`
	Name             string           `xml:"Name"`
	Description      string           `xml:"Description"`
	StatusID         *int             `xml:"StatusId"`
	ImportanceID     *int             `xml:"ImportanceId"`
	ReleaseID        *int             `xml:"ReleaseId"`
	AuthorID         *int             `xml:"AuthorId"`
	OwnerID          *int             `xml:"OwnerId"`
	ComponentID      *int             `xml:"ComponentId"`
	EstimatePoints   *float64         `xml:"EstimatePoints"`
	CustomProperties []CustomProperty `xml:"CustomProperties>CustomProperty"`
}

// Release is a release or iteration. Iteration releases cannot contain
// child releases.
type Release struct {
	ID               *int             `xml:"ReleaseId"`
	IndentLevel      int              `xml:"IndentLevel"`
	Name             string           `xml:"Name"`
	Description      string           `xml:"Description"`
	VersionNumber    string           `xml:"VersionNumber"`
	Active           bool             `xml:"Active"`
	Iteration        bool             `xml:"Iteration"`
	StartDate        *time.Time       `xml:"StartDate"`
	EndDate          *time.Time       `xml:"EndDate"`
	ResourceCount    *int             `xml:"ResourceCount"`
	CustomProperties []CustomProperty `xml:"CustomProperties>CustomProperty"`
}

// TestCaseFolder groups test cases. Folders nest via IndentLevel on
// retrieve and the parent id on create.
type TestCaseFolder struct {
	ID          *int   `xml:"TestCaseFolderId"`
	IndentLevel int    `xml:"IndentLevel"`
	Name        string `xml:"Name"`
	Description string `xml:"Description"`
}

// TestCase is a test case with its ordered steps.
type TestCase struct {
	ID               *int             `xml:"TestCaseId"`
	FolderID         *int             `xml:"TestCaseFolderId"`
	Name             string           `xml:"Name"`
	Description      string           `xml:"Description"`
	PriorityID       *int             `xml:"PriorityId"`
	OwnerID          *int             `xml:"OwnerId"`
	Steps            []TestStep       `xml:"TestSteps>TestStep"`
	CustomProperties []CustomProperty `xml:"CustomProperties>CustomProperty"`
}

// TestStep is one step of a test case.
type TestStep struct {
	ID             *int   `xml:"TestStepId"`
	Position       int    `xml:"Position"`
	Description    string `xml:"Description"`
	ExpectedResult string `xml:"ExpectedResult"`
	SampleData     string `xml:"SampleData"`
}

// TestSetFolder groups test sets.
type TestSetFolder struct {
	ID          *int   `xml:"TestSetFolderId"`
	IndentLevel int    `xml:"IndentLevel"`
	Name        string `xml:"Name"`
	Description string `xml:"Description"`
}

// TestSet is an ordered collection of test cases planned for execution.
type TestSet struct {
	ID               *int             `xml:"TestSetId"`
	FolderID         *int             `xml:"TestSetFolderId"`
	Name             string           `xml:"Name"`
	Description      string           `xml:"Description"`
	ReleaseID        *int             `xml:"ReleaseId"`
	OwnerID          *int             `xml:"OwnerId"`
	TestCaseIDs      []int            `xml:"TestCaseIds>int"`
	CustomProperties []CustomProperty `xml:"CustomProperties>CustomProperty"`
}

// TestRun records one execution of a test case.
type TestRun struct {
	ID                *int          `xml:"TestRunId"`
	TestCaseID        int           `xml:"TestCaseId"`
	ReleaseID         *int          `xml:"ReleaseId"`
	ExecutionStatusID int           `xml:"ExecutionStatusId"`
	RunDate           time.Time     `xml:"RunDate"`
	RunnerName        string        `xml:"RunnerName"`
	Steps             []TestRunStep `xml:"TestRunSteps>TestRunStep"`
}

// TestRunStep is the per-step outcome of a test run.
type TestRunStep struct {
	TestStepID        *int   `xml:"TestStepId"`
	Description       string `xml:"Description"`
	ExpectedResult    string `xml:"ExpectedResult"`
	ActualResult      string `xml:"ActualResult"`
	ExecutionStatusID int    `xml:"ExecutionStatusId"`
}

// Incident is a defect/enhancement/risk record.
type Incident struct {
	ID                *int             `xml:"IncidentId"`
	Name              string           `xml:"Name"`
	Description       string           `xml:"Description"`
	TypeID            *int             `xml:"IncidentTypeId"`
	StatusID          *int             `xml:"IncidentStatusId"`
	PriorityID        *int             `xml:"PriorityId"`
	SeverityID        *int             `xml:"SeverityId"`
	OpenerID          *int             `xml:"OpenerId"`
	OwnerID           *int             `xml:"OwnerId"`
	DetectedReleaseID *int             `xml:"DetectedReleaseId"`
	ResolvedReleaseID *int             `xml:"ResolvedReleaseId"`
	ComponentIDs      []int            `xml:"ComponentIds>int"`
	CreationDate      *time.Time       `xml:"CreationDate"`
	ClosedDate        *time.Time       `xml:"ClosedDate"`
	CustomProperties  []CustomProperty `xml:"CustomProperties>CustomProperty"`
}

// Task is a project task, optionally linked to a requirement and release.
type Task struct {
	ID                *int             `xml:"TaskId"`
	Name              string           `xml:"Name"`
	Description       string           `xml:"Description"`
	StatusID          *int             `xml:"TaskStatusId"`
	PriorityID        *int             `xml:"TaskPriorityId"`
	RequirementID     *int             `xml:"RequirementId"`
	ReleaseID         *int             `xml:"ReleaseId"`
	OwnerID           *int             `xml:"OwnerId"`
	StartDate         *time.Time       `xml:"StartDate"`
	EndDate           *time.Time       `xml:"EndDate"`
	CompletionPercent *int             `xml:"CompletionPercent"`
	CustomProperties  []CustomProperty `xml:"CustomProperties>CustomProperty"`
}

// CustomListValue is one value of a project custom list.
type CustomListValue struct {
	ID     *int   `xml:"CustomPropertyValueId"`
	ListID int    `xml:"CustomPropertyListId"`
	Name   string `xml:"Name"`
	Active bool   `xml:"Active"`
}

// ProjectCustomList is a project custom list with its values.
type ProjectCustomList struct {
	ID     int               `xml:"CustomPropertyListId"`
	Name   string            `xml:"Name"`
	Values []CustomListValue `xml:"Values>CustomListValue"`
}

// Component is a project component, referenced by name from sheets.
type Component struct {
	ID   int    `xml:"ComponentId"`
	Name string `xml:"Name"`
}
