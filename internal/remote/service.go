package remote

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/dt-pm-tools/sheet-sync/internal/soap"
)

// serviceNS is the XML namespace of the artifact service contract.
const serviceNS = "http://schemas.dt-pm-tools.io/artifact-service/v5.0/"

// Service is the set of remote operations the import/export engine
// depends on. *Client implements it; tests substitute an in-memory fake.
type Service interface {
	RequirementsRetrieve(ctx context.Context, start, count int) ([]Requirement, error)
	RequirementRetrieveByID(ctx context.Context, id int) (*Requirement, error)
	RequirementCreate(ctx context.Context, req *Requirement, parentID *int) (*Requirement, error)
	RequirementUpdate(ctx context.Context, req *Requirement) error

	ReleasesRetrieve(ctx context.Context) ([]Release, error)
	ReleaseRetrieveByID(ctx context.Context, id int) (*Release, error)
	ReleaseCreate(ctx context.Context, rel *Release, parentID *int) (*Release, error)
	ReleaseUpdate(ctx context.Context, rel *Release) error

	TestCaseFoldersRetrieve(ctx context.Context) ([]TestCaseFolder, error)
	TestCaseFolderCreate(ctx context.Context, folder *TestCaseFolder, parentID *int) (*TestCaseFolder, error)
	TestCasesRetrieveByFolder(ctx context.Context, folderID *int) ([]TestCase, error)
	TestCaseRetrieveByID(ctx context.Context, id int) (*TestCase, error)
	TestCaseCreate(ctx context.Context, tc *TestCase) (*TestCase, error)
	TestCaseUpdate(ctx context.Context, tc *TestCase) error

	TestSetFoldersRetrieve(ctx context.Context) ([]TestSetFolder, error)
	TestSetFolderCreate(ctx context.Context, folder *TestSetFolder, parentID *int) (*TestSetFolder, error)
	TestSetsRetrieveByFolder(ctx context.Context, folderID *int) ([]TestSet, error)
	TestSetRetrieveByID(ctx context.Context, id int) (*TestSet, error)
	TestSetCreate(ctx context.Context, ts *TestSet) (*TestSet, error)
	TestSetUpdate(ctx context.Context, ts *TestSet) error
	TestSetAddTestCase(ctx context.Context, setID, caseID int) error

	TestRunsRetrieve(ctx context.Context, start, count int) ([]TestRun, error)
	TestRunRecord(ctx context.Context, run *TestRun) (*TestRun, error)

	IncidentsRetrieve(ctx context.Context, start, count int) ([]Incident, error)
	IncidentRetrieveByID(ctx context.Context, id int) (*Incident, error)
	IncidentCreate(ctx context.Context, in *Incident) (*Incident, error)
	IncidentUpdate(ctx context.Context, in *Incident) error

	TasksRetrieve(ctx context.Context, start, count int) ([]Task, error)
	TaskRetrieveByID(ctx context.Context, id int) (*Task, error)
	TaskCreate(ctx context.Context, task *Task) (*Task, error)
	TaskUpdate(ctx context.Context, task *Task) error

	CommentAdd(ctx context.Context, artifact ArtifactType, artifactID int, text string) error

	CustomListsRetrieve(ctx context.Context) ([]ProjectCustomList, error)
	CustomListValueCreate(ctx context.Context, value *CustomListValue) (*CustomListValue, error)

	CustomProperties(ctx context.Context, artifact ArtifactType) ([]CustomPropertyDefinition, error)
	ComponentsRetrieve(ctx context.Context) ([]Component, error)
}

// Client is the SOAP-backed implementation of Service, plus the session
// operations (authenticate, connect-to-project) the engine itself does
// not need.
type Client struct {
	soap *soap.Client
}

// NewClient creates a client for the server at baseURL. The service
// endpoint path is appended if not already present.
func NewClient(baseURL string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	const endpointPath = "/services/v5_0/soap.svc"
	if !strings.HasSuffix(strings.ToLower(baseURL), endpointPath) {
		baseURL += endpointPath
	}
	return &Client{soap: soap.NewClient(baseURL)}
}

func (c *Client) call(ctx context.Context, operation string, req, resp any) error {
	return c.soap.Call(ctx, serviceNS+operation, req, resp)
}

// opName builds the xml.Name of a request element in the service namespace.
func opName(operation string) xml.Name {
	return xml.Name{Space: serviceNS, Local: operation}
}

// Authenticate establishes the server session for the given user.
// The session is carried by cookie on subsequent calls.
func (c *Client) Authenticate(ctx context.Context, username, password string) error {
	req := struct {
		XMLName  xml.Name
		Username string `xml:"userName"`
		Password string `xml:"password"`
	}{XMLName: opName("Connection_Authenticate"), Username: username, Password: password}
	var resp struct {
		Result bool `xml:"Connection_AuthenticateResult"`
	}
	if err := c.call(ctx, "Connection_Authenticate", req, &resp); err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}
	if !resp.Result {
		return fmt.Errorf("authentication rejected for user %q", username)
	}
	return nil
}

// ConnectProject scopes the session to one project. All artifact
// operations require a connected project.
func (c *Client) ConnectProject(ctx context.Context, projectID int) error {
	req := struct {
		XMLName   xml.Name
		ProjectID int `xml:"projectId"`
	}{XMLName: opName("Connection_ConnectToProject"), ProjectID: projectID}
	var resp struct {
		Result bool `xml:"Connection_ConnectToProjectResult"`
	}
	if err := c.call(ctx, "Connection_ConnectToProject", req, &resp); err != nil {
		return fmt.Errorf("connecting to project %d: %w", projectID, err)
	}
	if !resp.Result {
		return fmt.Errorf("project %d refused connection (check membership)", projectID)
	}
	return nil
}

// Disconnect ends the server session.
func (c *Client) Disconnect(ctx context.Context) error {
	req := struct {
		XMLName xml.Name
	}{XMLName: opName("Connection_Disconnect")}
	return c.call(ctx, "Connection_Disconnect", req, nil)
}

// pagedRequest is the request body shared by the flat paged retrievals.
type pagedRequest struct {
	XMLName xml.Name
	Start   int `xml:"startingRow"`
	Count   int `xml:"numberOfRows"`
}

// byIDRequest is the request body shared by the retrieve-by-id calls.
type byIDRequest struct {
	XMLName xml.Name
	ID      int `xml:"artifactId"`
}

// RequirementsRetrieve returns one page of requirements in hierarchy order.
func (c *Client) RequirementsRetrieve(ctx context.Context, start, count int) ([]Requirement, error) {
	req := pagedRequest{XMLName: opName("Requirement_Retrieve"), Start: start, Count: count}
	var resp struct {
		Results []Requirement `xml:"Requirement_RetrieveResult>Requirement"`
	}
	if err := c.call(ctx, "Requirement_Retrieve", req, &resp); err != nil {
		return nil, fmt.Errorf("retrieving requirements: %w", err)
	}
	return resp.Results, nil
}

// RequirementRetrieveByID fetches a single requirement.
func (c *Client) RequirementRetrieveByID(ctx context.Context, id int) (*Requirement, error) {
	req := byIDRequest{XMLName: opName("Requirement_RetrieveById"), ID: id}
	var resp struct {
		Result Requirement `xml:"Requirement_RetrieveByIdResult"`
	}
	if err := c.call(ctx, "Requirement_RetrieveById", req, &resp); err != nil {
		return nil, fmt.Errorf("retrieving requirement %d: %w", id, err)
	}
	return &resp.Result, nil
}

// RequirementCreate inserts a requirement under parentID (nil for root).
func (c *Client) RequirementCreate(ctx context.Context, r *Requirement, parentID *int) (*Requirement, error) {
	req := struct {
		XMLName     xml.Name
		Requirement *Requirement `xml:"requirement"`
		ParentID    *int         `xml:"parentRequirementId"`
	}{XMLName: opName("Requirement_Create"), Requirement: r, ParentID: parentID}
	var resp struct {
		Result Requirement `xml:"Requirement_CreateResult"`
	}
	if err := c.call(ctx, "Requirement_Create", req, &resp); err != nil {
		return nil, fmt.Errorf("creating requirement %q: %w", r.Name, err)
	}
	return &resp.Result, nil
}

// RequirementUpdate saves changes to an existing requirement.
func (c *Client) RequirementUpdate(ctx context.Context, r *Requirement) error {
	req := struct {
		XMLName     xml.Name
		Requirement *Requirement `xml:"requirement"`
	}{XMLName: opName("Requirement_Update"), Requirement: r}
	if err := c.call(ctx, "Requirement_Update", req, nil); err != nil {
		return fmt.Errorf("updating requirement: %w", err)
	}
	return nil
}

// ReleasesRetrieve returns all releases in hierarchy order.
func (c *Client) ReleasesRetrieve(ctx context.Context) ([]Release, error) {
	req := struct {
		XMLName xml.Name
		Active  bool `xml:"activeOnly"`
	}{XMLName: opName("Release_Retrieve"), Active: false}
	var resp struct {
		Results []Release `xml:"Release_RetrieveResult>Release"`
	}
	if err := c.call(ctx, "Release_Retrieve", req, &resp); err != nil {
		return nil, fmt.Errorf("retrieving releases: %w", err)
	}
	return resp.Results, nil
}

// ReleaseRetrieveByID fetches a single release.
func (c *Client) ReleaseRetrieveByID(ctx context.Context, id int) (*Release, error) {
	req := byIDRequest{XMLName: opName("Release_RetrieveById"), ID: id}
	var resp struct {
		Result Release `xml:"Release_RetrieveByIdResult"`
	}
	if err := c.call(ctx, "Release_RetrieveById", req, &resp); err != nil {
		return nil, fmt.Errorf("retrieving release %d: %w", id, err)
	}
	return &resp.Result, nil
}

// ReleaseCreate inserts a release under parentID (nil for root).
func (c *Client) ReleaseCreate(ctx context.Context, r *Release, parentID *int) (*Release, error) {
	req := struct {
		XMLName  xml.Name
		Release  *Release `xml:"release"`
		ParentID *int     `xml:"parentReleaseId"`
	}{XMLName: opName("Release_Create"), Release: r, ParentID: parentID}
	var resp struct {
		Result Release `xml:"Release_CreateResult"`
	}
	if err := c.call(ctx, "Release_Create", req, &resp); err != nil {
		return nil, fmt.Errorf("creating release %q: %w", r.Name, err)
	}
	return &resp.Result, nil
}

// ReleaseUpdate saves changes to an existing release.
func (c *Client) ReleaseUpdate(ctx context.Context, r *Release) error {
	req := struct {
		XMLName xml.Name
		Release *Release `xml:"release"`
	}{XMLName: opName("Release_Update"), Release: r}
	if err := c.call(ctx, "Release_Update", req, nil); err != nil {
		return fmt.Errorf("updating release: %w", err)
	}
	return nil
}

// TestCaseFoldersRetrieve returns all test case folders in hierarchy order.
func (c *Client) TestCaseFoldersRetrieve(ctx context.Context) ([]TestCaseFolder, error) {
	req := struct{ XMLName xml.Name }{XMLName: opName("TestCase_RetrieveFolders")}
	var resp struct {
		Results []TestCaseFolder `xml:"TestCase_RetrieveFoldersResult>TestCaseFolder"`
	}
	if err := c.call(ctx, "TestCase_RetrieveFolders", req, &resp); err != nil {
		return nil, fmt.Errorf("retrieving test case folders: %w", err)
	}
	return resp.Results, nil
}

// TestCaseFolderCreate inserts a test case folder under parentID.
func (c *Client) TestCaseFolderCreate(ctx context.Context, f *TestCaseFolder, parentID *int) (*TestCaseFolder, error) {
	req := struct {
		XMLName  xml.Name
		Folder   *TestCaseFolder `xml:"testCaseFolder"`
		ParentID *int            `xml:"parentFolderId"`
	}{XMLName: opName("TestCase_CreateFolder"), Folder: f, ParentID: parentID}
	var resp struct {
		Result TestCaseFolder `xml:"TestCase_CreateFolderResult"`
	}
	if err := c.call(ctx, "TestCase_CreateFolder", req, &resp); err != nil {
		return nil, fmt.Errorf("creating test case folder %q: %w", f.Name, err)
	}
	return &resp.Result, nil
}

// TestCasesRetrieveByFolder returns the direct test cases of a folder
// (nil folderID for root-level cases).
func (c *Client) TestCasesRetrieveByFolder(ctx context.Context, folderID *int) ([]TestCase, error) {
	req := struct {
		XMLName  xml.Name
		FolderID *int `xml:"testCaseFolderId"`
	}{XMLName: opName("TestCase_RetrieveByFolder"), FolderID: folderID}
	var resp struct {
		Results []TestCase `xml:"TestCase_RetrieveByFolderResult>TestCase"`
	}
	if err := c.call(ctx, "TestCase_RetrieveByFolder", req, &resp); err != nil {
		return nil, fmt.Errorf("retrieving test cases by folder: %w", err)
	}
	return resp.Results, nil
}

// TestCaseRetrieveByID fetches a single test case with its steps.
func (c *Client) TestCaseRetrieveByID(ctx context.Context, id int) (*TestCase, error) {
	req := byIDRequest{XMLName: opName("TestCase_RetrieveById"), ID: id}
	var resp struct {
		Result TestCase `xml:"TestCase_RetrieveByIdResult"`
	}
	if err := c.call(ctx, "TestCase_RetrieveById", req, &resp); err != nil {
		return nil, fmt.Errorf("retrieving test case %d: %w", id, err)
	}
	return &resp.Result, nil
}

// TestCaseCreate inserts a test case (with steps) into its folder.
func (c *Client) TestCaseCreate(ctx context.Context, tc *TestCase) (*TestCase, error) {
	req := struct {
		XMLName  xml.Name
		TestCase *TestCase `xml:"testCase"`
	}{XMLName: opName("TestCase_Create"), TestCase: tc}
	var resp struct {
		Result TestCase `xml:"TestCase_CreateResult"`
	}
	if err := c.call(ctx, "TestCase_Create", req, &resp); err != nil {
		return nil, fmt.Errorf("creating test case %q: %w", tc.Name, err)
	}
	return &resp.Result, nil
}

// TestCaseUpdate saves changes to an existing test case and its steps.
func (c *Client) TestCaseUpdate(ctx context.Context, tc *TestCase) error {
	req := struct {
		XMLName  xml.Name
		TestCase *TestCase `xml:"testCase"`
	}{XMLName: opName("TestCase_Update"), TestCase: tc}
	if err := c.call(ctx, "TestCase_Update", req, nil); err != nil {
		return fmt.Errorf("updating test case: %w", err)
	}
	return nil
}

// TestSetFoldersRetrieve returns all test set folders in hierarchy order.
func (c *Client) TestSetFoldersRetrieve(ctx context.Context) ([]TestSetFolder, error) {
	req := struct{ XMLName xml.Name }{XMLName: opName("TestSet_RetrieveFolders")}
	var resp struct {
		Results []TestSetFolder `xml:"TestSet_RetrieveFoldersResult>TestSetFolder"`
	}
	if err := c.call(ctx, "TestSet_RetrieveFolders", req, &resp); err != nil {
		return nil, fmt.Errorf("retrieving test set folders: %w", err)
	}
	return resp.Results, nil
}

// TestSetFolderCreate inserts a test set folder under parentID.
func (c *Client) TestSetFolderCreate(ctx context.Context, f *TestSetFolder, parentID *int) (*TestSetFolder, error) {
	req := struct {
		XMLName  xml.Name
		Folder   *TestSetFolder `xml:"testSetFolder"`
		ParentID *int           `xml:"parentFolderId"`
	}{XMLName: opName("TestSet_CreateFolder"), Folder: f, ParentID: parentID}
	var resp struct {
		Result TestSetFolder `xml:"TestSet_CreateFolderResult"`
	}
	if err := c.call(ctx, "TestSet_CreateFolder", req, &resp); err != nil {
		return nil, fmt.Errorf("creating test set folder %q: %w", f.Name, err)
	}
	return &resp.Result, nil
}

// TestSetsRetrieveByFolder returns the direct test sets of a folder.
func (c *Client) TestSetsRetrieveByFolder(ctx context.Context, folderID *int) ([]TestSet, error) {
	req := struct {
		XMLName  xml.Name
		FolderID *int `xml:"testSetFolderId"`
	}{XMLName: opName("TestSet_RetrieveByFolder"), FolderID: folderID}
	var resp struct {
		Results []TestSet `xml:"TestSet_RetrieveByFolderResult>TestSet"`
	}
	if err := c.call(ctx, "TestSet_RetrieveByFolder", req, &resp); err != nil {
		return nil, fmt.Errorf("retrieving test sets by folder: %w", err)
	}
	return resp.Results, nil
}

// TestSetRetrieveByID fetches a single test set.
func (c *Client) TestSetRetrieveByID(ctx context.Context, id int) (*TestSet, error) {
	req := byIDRequest{XMLName: opName("TestSet_RetrieveById"), ID: id}
	var resp struct {
		Result TestSet `xml:"TestSet_RetrieveByIdResult"`
	}
	if err := c.call(ctx, "TestSet_RetrieveById", req, &resp); err != nil {
		return nil, fmt.Errorf("retrieving test set %d: %w", id, err)
	}
	return &resp.Result, nil
}

// TestSetCreate inserts a test set into its folder.
func (c *Client) TestSetCreate(ctx context.Context, ts *TestSet) (*TestSet, error) {
	req := struct {
		XMLName xml.Name
		TestSet *TestSet `xml:"testSet"`
	}{XMLName: opName("TestSet_Create"), TestSet: ts}
	var resp struct {
		Result TestSet `xml:"TestSet_CreateResult"`
	}
	if err := c.call(ctx, "TestSet_Create", req, &resp); err != nil {
		return nil, fmt.Errorf("creating test set %q: %w", ts.Name, err)
	}
	return &resp.Result, nil
}

// TestSetUpdate saves changes to an existing test set.
func (c *Client) TestSetUpdate(ctx context.Context, ts *TestSet) error {
	req := struct {
		XMLName xml.Name
		TestSet *TestSet `xml:"testSet"`
	}{XMLName: opName("TestSet_Update"), TestSet: ts}
	if err := c.call(ctx, "TestSet_Update", req, nil); err != nil {
		return fmt.Errorf("updating test set: %w", err)
	}
	return nil
}

// TestSetAddTestCase maps a test case into a test set.
func (c *Client) TestSetAddTestCase(ctx context.Context, setID, caseID int) error {
	req := struct {
		XMLName xml.Name
		SetID   int `xml:"testSetId"`
		CaseID  int `xml:"testCaseId"`
	}{XMLName: opName("TestSet_AddTestMapping"), SetID: setID, CaseID: caseID}
	if err := c.call(ctx, "TestSet_AddTestMapping", req, nil); err != nil {
		return fmt.Errorf("mapping test case %d into set %d: %w", caseID, setID, err)
	}
	return nil
}

// TestRunsRetrieve returns one page of recorded test runs.
func (c *Client) TestRunsRetrieve(ctx context.Context, start, count int) ([]TestRun, error) {
	req := pagedRequest{XMLName: opName("TestRun_Retrieve"), Start: start, Count: count}
	var resp struct {
		Results []TestRun `xml:"TestRun_RetrieveResult>TestRun"`
	}
	if err := c.call(ctx, "TestRun_Retrieve", req, &resp); err != nil {
		return nil, fmt.Errorf("retrieving test runs: %w", err)
	}
	return resp.Results, nil
}

// TestRunRecord records one executed test run with its step results.
func (c *Client) TestRunRecord(ctx context.Context, run *TestRun) (*TestRun, error) {
	req := struct {
		XMLName xml.Name
		TestRun *TestRun `xml:"testRun"`
	}{XMLName: opName("TestRun_RecordAutomated"), TestRun: run}
	var resp struct {
		Result TestRun `xml:"TestRun_RecordAutomatedResult"`
	}
	if err := c.call(ctx, "TestRun_RecordAutomated", req, &resp); err != nil {
		return nil, fmt.Errorf("recording test run for case %d: %w", run.TestCaseID, err)
	}
	return &resp.Result, nil
}

// IncidentsRetrieve returns one page of incidents.
func (c *Client) IncidentsRetrieve(ctx context.Context, start, count int) ([]Incident, error) {
	req := pagedRequest{XMLName: opName("Incident_Retrieve"), Start: start, Count: count}
	var resp struct {
		Results []Incident `xml:"Incident_RetrieveResult>Incident"`
	}
	if err := c.call(ctx, "Incident_Retrieve", req, &resp); err != nil {
		return nil, fmt.Errorf("retrieving incidents: %w", err)
	}
	return resp.Results, nil
}

// IncidentRetrieveByID fetches a single incident.
func (c *Client) IncidentRetrieveByID(ctx context.Context, id int) (*Incident, error) {
	req := byIDRequest{XMLName: opName("Incident_RetrieveById"), ID: id}
	var resp struct {
		Result Incident `xml:"Incident_RetrieveByIdResult"`
	}
	if err := c.call(ctx, "Incident_RetrieveById", req, &resp); err != nil {
		return nil, fmt.Errorf("retrieving incident %d: %w", id, err)
	}
	return &resp.Result, nil
}

// IncidentCreate inserts a new incident.
func (c *Client) IncidentCreate(ctx context.Context, in *Incident) (*Incident, error) {
	req := struct {
		XMLName  xml.Name
		Incident *Incident `xml:"incident"`
	}{XMLName: opName("Incident_Create"), Incident: in}
	var resp struct {
		Result Incident `xml:"Incident_CreateResult"`
	}
	if err := c.call(ctx, "Incident_Create", req, &resp); err != nil {
		return nil, fmt.Errorf("creating incident %q: %w", in.Name, err)
	}
	return &resp.Result, nil
}

// IncidentUpdate saves changes to an existing incident.
func (c *Client) IncidentUpdate(ctx context.Context, in *Incident) error {
	req := struct {
		XMLName  xml.Name
		Incident *Incident `xml:"incident"`
	}{XMLName: opName("Incident_Update"), Incident: in}
	if err := c.call(ctx, "Incident_Update", req, nil); err != nil {
		return fmt.Errorf("updating incident: %w", err)
	}
	return nil
}

// TasksRetrieve returns one page of tasks.
func (c *Client) TasksRetrieve(ctx context.Context, start, count int) ([]Task, error) {
	req := pagedRequest{XMLName: opName("Task_Retrieve"), Start: start, Count: count}
	var resp struct {
		Results []Task `xml:"Task_RetrieveResult>Task"`
	}
	if err := c.call(ctx, "Task_Retrieve", req, &resp); err != nil {
		return nil, fmt.Errorf("retrieving tasks: %w", err)
	}
	return resp.Results, nil
}

// TaskRetrieveByID fetches a single task.
func (c *Client) TaskRetrieveByID(ctx context.Context, id int) (*Task, error) {
	req := byIDRequest{XMLName: opName("Task_RetrieveById"), ID: id}
	var resp struct {
		Result Task `xml:"Task_RetrieveByIdResult"`
	}
	if err := c.call(ctx, "Task_RetrieveById", req, &resp); err != nil {
		return nil, fmt.Errorf("retrieving task %d: %w", id, err)
	}
	return &resp.Result, nil
}

// TaskCreate inserts a new task.
func (c *Client) TaskCreate(ctx context.Context, t *Task) (*Task, error) {
	req := struct {
		XMLName xml.Name
		Task    *Task `xml:"task"`
	}{XMLName: opName("Task_Create"), Task: t}
	var resp struct {
		Result Task `xml:"Task_CreateResult"`
	}
	if err := c.call(ctx, "Task_Create", req, &resp); err != nil {
		return nil, fmt.Errorf("creating task %q: %w", t.Name, err)
	}
	return &resp.Result, nil
}

// TaskUpdate saves changes to an existing task.
func (c *Client) TaskUpdate(ctx context.Context, t *Task) error {
	req := struct {
		XMLName xml.Name
		Task    *Task `xml:"task"`
	}{XMLName: opName("Task_Update"), Task: t}
	if err := c.call(ctx, "Task_Update", req, nil); err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}

// CommentAdd posts a comment against an artifact.
func (c *Client) CommentAdd(ctx context.Context, artifact ArtifactType, artifactID int, text string) error {
	req := struct {
		XMLName    xml.Name
		Artifact   ArtifactType `xml:"artifactType"`
		ArtifactID int          `xml:"artifactId"`
		Text       string       `xml:"text"`
	}{XMLName: opName("Comment_Add"), Artifact: artifact, ArtifactID: artifactID, Text: text}
	if err := c.call(ctx, "Comment_Add", req, nil); err != nil {
		return fmt.Errorf("adding comment to %s %d: %w", artifact, artifactID, err)
	}
	return nil
}

// CustomListsRetrieve returns the project's custom lists with values.
func (c *Client) CustomListsRetrieve(ctx context.Context) ([]ProjectCustomList, error) {
	req := struct{ XMLName xml.Name }{XMLName: opName("CustomProperty_RetrieveCustomLists")}
	var resp struct {
		Results []ProjectCustomList `xml:"CustomProperty_RetrieveCustomListsResult>CustomList"`
	}
	if err := c.call(ctx, "CustomProperty_RetrieveCustomLists", req, &resp); err != nil {
		return nil, fmt.Errorf("retrieving custom lists: %w", err)
	}
	return resp.Results, nil
}

// CustomListValueCreate adds a value to a project custom list.
func (c *Client) CustomListValueCreate(ctx context.Context, v *CustomListValue) (*CustomListValue, error) {
	req := struct {
		XMLName xml.Name
		Value   *CustomListValue `xml:"customListValue"`
	}{XMLName: opName("CustomProperty_AddCustomListValue"), Value: v}
	var resp struct {
		Result CustomListValue `xml:"CustomProperty_AddCustomListValueResult"`
	}
	if err := c.call(ctx, "CustomProperty_AddCustomListValue", req, &resp); err != nil {
		return nil, fmt.Errorf("adding custom list value %q: %w", v.Name, err)
	}
	return &resp.Result, nil
}

// CustomProperties returns the custom-property definitions configured
// for the given artifact kind in the connected project.
func (c *Client) CustomProperties(ctx context.Context, artifact ArtifactType) ([]CustomPropertyDefinition, error) {
	req := struct {
		XMLName  xml.Name
		Artifact ArtifactType `xml:"artifactType"`
	}{XMLName: opName("CustomProperty_RetrieveForArtifactType"), Artifact: artifact}
	var resp struct {
		Results []CustomPropertyDefinition `xml:"CustomProperty_RetrieveForArtifactTypeResult>CustomPropertyDefinition"`
	}
	if err := c.call(ctx, "CustomProperty_RetrieveForArtifactType", req, &resp); err != nil {
		return nil, fmt.Errorf("retrieving custom properties for %s: %w", artifact, err)
	}
	return resp.Results, nil
}

// ComponentsRetrieve returns the project's components.
func (c *Client) ComponentsRetrieve(ctx context.Context) ([]Component, error) {
	req := struct {
		XMLName xml.Name
		Active  bool `xml:"activeOnly"`
	}{XMLName: opName("Component_Retrieve"), Active: true}
	var resp struct {
		Results []Component `xml:"Component_RetrieveResult>Component"`
	}
	if err := c.call(ctx, "Component_Retrieve", req, &resp); err != nil {
		return nil, fmt.Errorf("retrieving components: %w", err)
	}
	return resp.Results, nil
}

var _ Service = (*Client)(nil)
