package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/domain/interfaces"
	"github.com/positonic/exponential-sync/pkg/domain/model"
	"github.com/positonic/exponential-sync/pkg/domain/types"
	"github.com/positonic/exponential-sync/pkg/usecase"
)

// fakeProvider is an in-memory ProviderClient for engine tests.
type fakeProvider struct {
	mu      sync.Mutex
	records map[string]*model.ExternalRecord
	nextID  int

	failCreateTitles map[string]bool
	failListCalls    int
	connErr          error

	createCalls  int
	updateCalls  int
	archiveCalls int
	archivedIDs  []string

	// listStarted/listRelease, when set, let a test hold a run open in
	// the middle of its scope listing.
	listStarted chan struct{}
	listRelease chan struct{}
}

var _ interfaces.ProviderClient = &fakeProvider{}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		records:          make(map[string]*model.ExternalRecord),
		failCreateTitles: make(map[string]bool),
	}
}

func (f *fakeProvider) addRecord(id, title string, properties map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if properties == nil {
		properties = map[string]any{}
	}
	f.records[id] = &model.ExternalRecord{ID: id, Title: title, Properties: properties}
}

func (f *fakeProvider) removeRecord(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, id)
}

func (f *fakeProvider) record(id string) *model.ExternalRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[id]
}

func (f *fakeProvider) ListRecords(ctx context.Context, scopeID string, filter *model.RecordFilter) ([]*model.ExternalRecord, error) {
	if f.listStarted != nil {
		f.listStarted <- struct{}{}
		<-f.listRelease
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failListCalls > 0 {
		f.failListCalls--
		return nil, goerr.New("listing unavailable")
	}

	ids := make([]string, 0, len(f.records))
	for id := range f.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]*model.ExternalRecord, 0, len(ids))
	for _, id := range ids {
		record := f.records[id]
		if filter != nil && filter.ExternalProjectID != "" &&
			record.Property("Project ID") != filter.ExternalProjectID {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (f *fakeProvider) CreateRecord(ctx context.Context, scopeID string, title string, properties map[string]any) (*model.ExternalRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	if f.failCreateTitles[title] {
		return nil, goerr.New("create rejected", goerr.V("title", title))
	}

	f.nextID++
	record := &model.ExternalRecord{
		ID:         fmt.Sprintf("ext-%d", f.nextID),
		Title:      title,
		Properties: properties,
	}
	f.records[record.ID] = record
	return record, nil
}

func (f *fakeProvider) UpdateRecord(ctx context.Context, externalID string, properties map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updateCalls++
	record, ok := f.records[externalID]
	if !ok {
		return goerr.New("record not found", goerr.V("id", externalID))
	}
	for name, value := range properties {
		record.Properties[name] = value
		if title, ok := value.(model.Title); ok {
			record.Title = string(title)
		}
	}
	return nil
}

func (f *fakeProvider) ArchiveRecord(ctx context.Context, externalID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.archiveCalls++
	if _, ok := f.records[externalID]; !ok {
		return goerr.New("record not found", goerr.V("id", externalID))
	}
	delete(f.records, externalID)
	f.archivedIDs = append(f.archivedIDs, externalID)
	return nil
}

func (f *fakeProvider) TestConnection(ctx context.Context) error {
	return f.connErr
}

// factoryFor adapts a fake provider into a client factory.
func factoryFor(fake *fakeProvider) usecase.ClientFactory {
	return func(p types.Provider, token, scopeID, projectProperty string) (interfaces.ProviderClient, error) {
		return fake, nil
	}
}

func testWorkflow() *model.Workflow {
	return &model.Workflow{
		ID:        "wf-1",
		Name:      "Notion sync",
		Provider:  types.ProviderNotion,
		Direction: types.SyncDirectionBidirectional,
		ScopeID:   "db-1",
	}
}
