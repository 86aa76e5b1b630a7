package mapper

import (
	"context"
	"fmt"
	"sync"

	"github.com/dt-pm-tools/sheet-sync/internal/remote"
)

// fakeService is an in-memory remote.Service for routine tests. Create
// assigns ids from a counter; retrievals return copies so tests can
// mutate freely.
type fakeService struct {
	mu     sync.Mutex
	nextID int

	requirements []remote.Requirement
	reqParents   map[int]*int

	releases []remote.Release

	tcFolders []remote.TestCaseFolder
	testCases []remote.TestCase

	tsFolders []remote.TestSetFolder
	testSets  []remote.TestSet

	testRuns  []remote.TestRun
	incidents []remote.Incident
	tasks     []remote.Task

	customLists []remote.ProjectCustomList
	customDefs  map[remote.ArtifactType][]remote.CustomPropertyDefinition
	components  []remote.Component

	comments []fakeComment

	// failOn makes one named operation fail, for per-row error tests.
	failOn string
}

type fakeComment struct {
	artifact remote.ArtifactType
	id       int
	text     string
}

func newFakeService() *fakeService {
	return &fakeService{
		nextID:     100,
		reqParents: make(map[int]*int),
		customDefs: make(map[remote.ArtifactType][]remote.CustomPropertyDefinition),
	}
}

func (f *fakeService) newID() *int {
	f.nextID++
	id := f.nextID
	return &id
}

func (f *fakeService) fail(op string) error {
	if f.failOn == op {
		return fmt.Errorf("%s rejected by server", op)
	}
	return nil
}

func page[T any](items []T, start, count int) []T {
	if start < 1 {
		start = 1
	}
	lo := start - 1
	if lo >= len(items) {
		return nil
	}
	hi := lo + count
	if hi > len(items) {
		hi = len(items)
	}
	return append([]T(nil), items[lo:hi]...)
}

func (f *fakeService) RequirementsRetrieve(ctx context.Context, start, count int) ([]remote.Requirement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(f.requirements, start, count), nil
}

func (f *fakeService) RequirementRetrieveByID(ctx context.Context, id int) (*remote.Requirement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.requirements {
		if r := f.requirements[i]; r.ID != nil && *r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("requirement %d not found", id)
}

func (f *fakeService) RequirementCreate(ctx context.Context, r *remote.Requirement, parentID *int) (*remote.Requirement, error) {
	if err := f.fail("RequirementCreate"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *r
	cp.ID = f.newID()
	f.requirements = append(f.requirements, cp)
	f.reqParents[*cp.ID] = parentID
	return &cp, nil
}

func (f *fakeService) RequirementUpdate(ctx context.Context, r *remote.Requirement) error {
	if err := f.fail("RequirementUpdate"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.requirements {
		if old := f.requirements[i]; old.ID != nil && r.ID != nil && *old.ID == *r.ID {
			f.requirements[i] = *r
			return nil
		}
	}
	return fmt.Errorf("requirement not found")
}

func (f *fakeService) ReleasesRetrieve(ctx context.Context) ([]remote.Release, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]remote.Release(nil), f.releases...), nil
}

func (f *fakeService) ReleaseRetrieveByID(ctx context.Context, id int) (*remote.Release, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.releases {
		if r := f.releases[i]; r.ID != nil && *r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("release %d not found", id)
}

func (f *fakeService) ReleaseCreate(ctx context.Context, r *remote.Release, parentID *int) (*remote.Release, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *r
	cp.ID = f.newID()
	f.releases = append(f.releases, cp)
	return &cp, nil
}

func (f *fakeService) ReleaseUpdate(ctx context.Context, r *remote.Release) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.releases {
		if old := f.releases[i]; old.ID != nil && r.ID != nil && *old.ID == *r.ID {
			f.releases[i] = *r
			return nil
		}
	}
	return fmt.Errorf("release not found")
}

func (f *fakeService) TestCaseFoldersRetrieve(ctx context.Context) ([]remote.TestCaseFolder, error) {
	return append([]remote.TestCaseFolder(nil), f.tcFolders...), nil
}

func (f *fakeService) TestCaseFolderCreate(ctx context.Context, folder *remote.TestCaseFolder, parentID *int) (*remote.TestCaseFolder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *folder
	cp.ID = f.newID()
	f.tcFolders = append(f.tcFolders, cp)
	return &cp, nil
}

func (f *fakeService) TestCasesRetrieveByFolder(ctx context.Context, folderID *int) ([]remote.TestCase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []remote.TestCase
	for _, tc := range f.testCases {
		switch {
		case folderID == nil && tc.FolderID == nil:
			out = append(out, tc)
		case folderID != nil && tc.FolderID != nil && *folderID == *tc.FolderID:
			out = append(out, tc)
		}
	}
	return out, nil
}

func (f *fakeService) TestCaseRetrieveByID(ctx context.Context, id int) (*remote.TestCase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.testCases {
		if tc := f.testCases[i]; tc.ID != nil && *tc.ID == id {
			cp := tc
			cp.Steps = append([]remote.TestStep(nil), tc.Steps...)
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("test case %d not found", id)
}

func (f *fakeService) TestCaseCreate(ctx context.Context, tc *remote.TestCase) (*remote.TestCase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *tc
	cp.ID = f.newID()
	cp.Steps = append([]remote.TestStep(nil), tc.Steps...)
	for i := range cp.Steps {
		cp.Steps[i].ID = f.newID()
	}
	f.testCases = append(f.testCases, cp)
	return &cp, nil
}

func (f *fakeService) TestCaseUpdate(ctx context.Context, tc *remote.TestCase) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.testCases {
		if old := f.testCases[i]; old.ID != nil && tc.ID != nil && *old.ID == *tc.ID {
			f.testCases[i] = *tc
			return nil
		}
	}
	return fmt.Errorf("test case not found")
}

func (f *fakeService) TestSetFoldersRetrieve(ctx context.Context) ([]remote.TestSetFolder, error) {
	return append([]remote.TestSetFolder(nil), f.tsFolders...), nil
}

func (f *fakeService) TestSetFolderCreate(ctx context.Context, folder *remote.TestSetFolder, parentID *int) (*remote.TestSetFolder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *folder
	cp.ID = f.newID()
	f.tsFolders = append(f.tsFolders, cp)
	return &cp, nil
}

func (f *fakeService) TestSetsRetrieveByFolder(ctx context.Context, folderID *int) ([]remote.TestSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []remote.TestSet
	for _, ts := range f.testSets {
		switch {
		case folderID == nil && ts.FolderID == nil:
			out = append(out, ts)
		case folderID != nil && ts.FolderID != nil && *folderID == *ts.FolderID:
			out = append(out, ts)
		}
	}
	return out, nil
}

func (f *fakeService) TestSetRetrieveByID(ctx context.Context, id int) (*remote.TestSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.testSets {
		if ts := f.testSets[i]; ts.ID != nil && *ts.ID == id {
			cp := ts
			cp.TestCaseIDs = append([]int(nil), ts.TestCaseIDs...)
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("test set %d not found", id)
}

func (f *fakeService) TestSetCreate(ctx context.Context, ts *remote.TestSet) (*remote.TestSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *ts
	cp.ID = f.newID()
	f.testSets = append(f.testSets, cp)
	return &cp, nil
}

func (f *fakeService) TestSetUpdate(ctx context.Context, ts *remote.TestSet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.testSets {
		if old := f.testSets[i]; old.ID != nil && ts.ID != nil && *old.ID == *ts.ID {
			f.testSets[i] = *ts
			return nil
		}
	}
	return fmt.Errorf("test set not found")
}

func (f *fakeService) TestSetAddTestCase(ctx context.Context, setID, caseID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.testSets {
		if ts := &f.testSets[i]; ts.ID != nil && *ts.ID == setID {
			ts.TestCaseIDs = append(ts.TestCaseIDs, caseID)
			return nil
		}
	}
	return fmt.Errorf("test set %d not found", setID)
}

func (f *fakeService) TestRunsRetrieve(ctx context.Context, start, count int) ([]remote.TestRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(f.testRuns, start, count), nil
}

func (f *fakeService) TestRunRecord(ctx context.Context, run *remote.TestRun) (*remote.TestRun, error) {
	if err := f.fail("TestRunRecord"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *run
	cp.ID = f.newID()
	f.testRuns = append(f.testRuns, cp)
	return &cp, nil
}

func (f *fakeService) IncidentsRetrieve(ctx context.Context, start, count int) ([]remote.Incident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(f.incidents, start, count), nil
}

func (f *fakeService) IncidentRetrieveByID(ctx context.Context, id int) (*remote.Incident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.incidents {
		if in := f.incidents[i]; in.ID != nil && *in.ID == id {
			cp := in
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("incident %d not found", id)
}

func (f *fakeService) IncidentCreate(ctx context.Context, in *remote.Incident) (*remote.Incident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *in
	cp.ID = f.newID()
	f.incidents = append(f.incidents, cp)
	return &cp, nil
}

func (f *fakeService) IncidentUpdate(ctx context.Context, in *remote.Incident) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.incidents {
		if old := f.incidents[i]; old.ID != nil && in.ID != nil && *old.ID == *in.ID {
			f.incidents[i] = *in
			return nil
		}
	}
	return fmt.Errorf("incident not found")
}

func (f *fakeService) TasksRetrieve(ctx context.Context, start, count int) ([]remote.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(f.tasks, start, count), nil
}

func (f *fakeService) TaskRetrieveByID(ctx context.Context, id int) (*remote.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if t := f.tasks[i]; t.ID != nil && *t.ID == id {
			cp := t
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("task %d not found", id)
}

func (f *fakeService) TaskCreate(ctx context.Context, t *remote.Task) (*remote.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *t
	cp.ID = f.newID()
	f.tasks = append(f.tasks, cp)
	return &cp, nil
}

func (f *fakeService) TaskUpdate(ctx context.Context, t *remote.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if old := f.tasks[i]; old.ID != nil && t.ID != nil && *old.ID == *t.ID {
			f.tasks[i] = *t
			return nil
		}
	}
	return fmt.Errorf("task not found")
}

func (f *fakeService) CommentAdd(ctx context.Context, artifact remote.ArtifactType, artifactID int, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comments = append(f.comments, fakeComment{artifact: artifact, id: artifactID, text: text})
	return nil
}

func (f *fakeService) CustomListsRetrieve(ctx context.Context) ([]remote.ProjectCustomList, error) {
	return append([]remote.ProjectCustomList(nil), f.customLists...), nil
}

func (f *fakeService) CustomListValueCreate(ctx context.Context, v *remote.CustomListValue) (*remote.CustomListValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *v
	cp.ID = f.newID()
	for i := range f.customLists {
		if f.customLists[i].ID == cp.ListID {
			f.customLists[i].Values = append(f.customLists[i].Values, cp)
		}
	}
	return &cp, nil
}

func (f *fakeService) CustomProperties(ctx context.Context, artifact remote.ArtifactType) ([]remote.CustomPropertyDefinition, error) {
	return f.customDefs[artifact], nil
}

func (f *fakeService) ComponentsRetrieve(ctx context.Context) ([]remote.Component, error) {
	return append([]remote.Component(nil), f.components...), nil
}

var _ remote.Service = (*fakeService)(nil)
