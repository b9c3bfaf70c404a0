package company

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakePersons struct {
	ids map[string]struct{}
	err error
}

func newFakePersons(ids ...string) *fakePersons {
	p := &fakePersons{ids: make(map[string]struct{})}
	for _, id := range ids {
		p.ids[id] = struct{}{}
	}
	return p
}

func (p *fakePersons) ExistsByNationalID(_ context.Context, id string) (bool, error) {
	if p.err != nil {
		return false, p.err
	}
	_, ok := p.ids[id]
	return ok, nil
}

// fakeRepo は PostgreSQL の一意制約と外部キーを模倣するインメモリ実装です。
type fakeRepo struct {
	persons   *fakePersons
	companies map[string]*Company
	order     []string

	findErr   error
	insertErr error
	updateErr error
	inserts   int
	updates   int
}

func newFakeRepo(persons *fakePersons) *fakeRepo {
	return &fakeRepo{persons: persons, companies: make(map[string]*Company)}
}

func (r *fakeRepo) FindByCode(_ context.Context, code string) (*Company, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	c, ok := r.companies[code]
	if !ok {
		return nil, ErrCompanyNotFound
	}
	clone := cloneCompany(c)
	clone.Divisions = nil
	return clone, nil
}

func (r *fakeRepo) FindByCodeWithDivisions(_ context.Context, code string) (*Company, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	c, ok := r.companies[code]
	if !ok {
		return nil, ErrCompanyNotFound
	}
	clone := cloneCompany(c)
	if clone.Divisions == nil {
		clone.Divisions = []Division{}
	}
	return clone, nil
}

func (r *fakeRepo) FindByDirector(_ context.Context, directorID, excludeCode string) (*Company, error) {
	for _, code := range r.order {
		c := r.companies[code]
		if c.DirectorID == directorID && c.Code != excludeCode {
			return cloneCompany(c), nil
		}
	}
	return nil, ErrCompanyNotFound
}

func (r *fakeRepo) checkConstraints(c *Company) error {
	if c.DirectorID == "" {
		return nil
	}
	if _, ok := r.persons.ids[c.DirectorID]; !ok {
		return ErrDirectorNotFound
	}
	for _, other := range r.companies {
		if other.Code != c.Code && other.DirectorID == c.DirectorID {
			return ErrDirectorAlreadyAssigned
		}
	}
	return nil
}

func (r *fakeRepo) Insert(_ context.Context, c *Company) (*Company, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	if _, ok := r.companies[c.Code]; ok {
		return nil, ErrCodeAlreadyExists
	}
	if err := r.checkConstraints(c); err != nil {
		return nil, err
	}
	clone := cloneCompany(c)
	clone.ID = uuid.NewString()
	r.companies[clone.Code] = clone
	r.order = append(r.order, clone.Code)
	r.inserts++
	return cloneCompany(clone), nil
}

func (r *fakeRepo) Update(_ context.Context, c *Company) (*Company, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	current, ok := r.companies[c.Code]
	if !ok {
		return nil, ErrCompanyNotFound
	}
	if err := r.checkConstraints(c); err != nil {
		return nil, err
	}
	clone := cloneCompany(c)
	if clone.Divisions == nil {
		clone.Divisions = cloneDivisions(current.Divisions)
	}
	r.companies[c.Code] = clone
	r.updates++
	return cloneCompany(clone), nil
}

func (r *fakeRepo) Delete(_ context.Context, code string) (bool, error) {
	if _, ok := r.companies[code]; !ok {
		return false, nil
	}
	delete(r.companies, code)
	for i, existing := range r.order {
		if existing == code {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (r *fakeRepo) List(_ context.Context, filter ListCompaniesFilter) ([]*Company, string, error) {
	var filtered []*Company
	for _, code := range r.order {
		c := r.companies[code]
		if filter.CodePrefix != "" && !strings.HasPrefix(c.Code, filter.CodePrefix) {
			continue
		}
		if filter.WithDirector != nil && c.HasDirector() != *filter.WithDirector {
			continue
		}
		filtered = append(filtered, cloneCompany(c))
	}

	if filter.Offset > len(filtered) {
		return []*Company{}, "", nil
	}

	end := filter.Offset + filter.Limit
	if end > len(filtered) {
		end = len(filtered)
	}

	var nextToken string
	if end < len(filtered) {
		nextToken = strconv.Itoa(end)
	}

	return filtered[filter.Offset:end], nextToken, nil
}

func cloneCompany(c *Company) *Company {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Divisions = cloneDivisions(c.Divisions)
	return &clone
}

// spyTx は各トランザクションで fn が返したエラーを記録します。
type spyTx struct {
	readWrite []error
	readOnly  int
}

func (s *spyTx) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	s.readOnly++
	return fn(ctx)
}

func (s *spyTx) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	err := fn(ctx)
	s.readWrite = append(s.readWrite, err)
	return err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var errStoreDown = errors.New("connection refused")
