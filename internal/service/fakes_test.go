package service

import (
	"context"
	"sync"

	"pyqbank/internal/model"
	"pyqbank/internal/repository"
)

// fakeStrategy returns canned pages and records the request it received.
type fakeStrategy struct {
	questions []*model.Question
	total     int64
	err       error
	gotReq    model.SearchRequest
	calls     int
}

func (f *fakeStrategy) Search(_ context.Context, req model.SearchRequest) ([]*model.Question, int64, error) {
	f.gotReq = req
	f.calls++
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.questions, f.total, nil
}

// fakeQuestionRepo embeds the interface so tests only override what they use;
// calling anything else panics, which is the point.
type fakeQuestionRepo struct {
	repository.QuestionRepo

	mu      sync.Mutex
	store   map[string]*model.Question
	created []*model.Question

	insertManyFn func(qs []*model.Question) (int, []repository.BulkWriteFailure, error)
	statsFn      func() (*model.Statistics, error)
	optionsFn    func() (*model.FilterOptions, error)

	viewIncs chan string
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{
		store:    map[string]*model.Question{},
		viewIncs: make(chan string, 8),
	}
}

func (f *fakeQuestionRepo) Create(_ context.Context, q *model.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if q.QuestionID == "" {
		q.QuestionID = model.NewQuestionID()
	}
	q.IsActive = true
	q.SearchableText = q.ComputeSearchableText()
	q.HasAnswer = q.Explanation != ""
	f.store[q.QuestionID] = q
	f.created = append(f.created, q)
	return nil
}

func (f *fakeQuestionRepo) GetByQuestionID(_ context.Context, id string) (*model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store[id], nil
}

func (f *fakeQuestionRepo) Replace(_ context.Context, q *model.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store[q.QuestionID] = q
	return nil
}

func (f *fakeQuestionRepo) IncrementViewCount(_ context.Context, id string) error {
	f.viewIncs <- id
	return nil
}

func (f *fakeQuestionRepo) InsertMany(_ context.Context, qs []*model.Question) (int, []repository.BulkWriteFailure, error) {
	if f.insertManyFn != nil {
		return f.insertManyFn(qs)
	}
	return len(qs), nil, nil
}

func (f *fakeQuestionRepo) FilterOptions(_ context.Context) (*model.FilterOptions, error) {
	return f.optionsFn()
}

func (f *fakeQuestionRepo) Statistics(_ context.Context) (*model.Statistics, error) {
	return f.statsFn()
}

// fakeSubjectRepo serves a fixed active-subject vocabulary.
type fakeSubjectRepo struct {
	repository.SubjectRepo
	names []string
}

func (f *fakeSubjectRepo) ActiveNames(_ context.Context) ([]string, error) {
	return f.names, nil
}

// memStaging is an in-memory stand-in for the Redis staging area.
type memStaging struct {
	mu      sync.Mutex
	batches map[string][]*model.Question
}

func newMemStaging() *memStaging {
	return &memStaging{batches: map[string][]*model.Question{}}
}

func (m *memStaging) Put(_ context.Context, name string, rows []*model.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches[name] = rows
	return nil
}

func (m *memStaging) Get(_ context.Context, name string) ([]*model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batches[name], nil
}

func (m *memStaging) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.batches, name)
	return nil
}

// memFacetCache records invalidations and serves preloaded values.
type memFacetCache struct {
	mu           sync.Mutex
	opts         *model.FilterOptions
	stats        *model.Statistics
	invalidated  int
	setOptsCalls int
}

func (m *memFacetCache) GetFilterOptions(_ context.Context) (*model.FilterOptions, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opts, nil
}

func (m *memFacetCache) SetFilterOptions(_ context.Context, opts *model.FilterOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts = opts
	m.setOptsCalls++
	return nil
}

func (m *memFacetCache) GetStatistics(_ context.Context) (*model.Statistics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats, nil
}

func (m *memFacetCache) SetStatistics(_ context.Context, stats *model.Statistics) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = stats
	return nil
}

func (m *memFacetCache) Invalidate(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts = nil
	m.stats = nil
	m.invalidated++
	return nil
}

func (m *memFacetCache) invalidations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invalidated
}
