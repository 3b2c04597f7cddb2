package employee

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/ovaphlow/pitchfork/service-admin-go/internal/employee/entity"
	employeerepo "github.com/ovaphlow/pitchfork/service-admin-go/internal/employee/repo"
)

// memStore is an in-memory Store with the same not-found and duplicate
// semantics as the postgres repo.
type memStore struct {
	mu   sync.Mutex
	rows map[int64]entity.Employee
	err  error // returned by every call when set
}

func newMemStore(seed ...entity.Employee) *memStore {
	s := &memStore{rows: map[int64]entity.Employee{}}
	for _, e := range seed {
		s.rows[e.ID] = e
	}
	return s
}

func (s *memStore) Create(_ context.Context, e *entity.Employee) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	for _, row := range s.rows {
		if row.Username == e.Username {
			return 0, employeerepo.ErrDuplicate
		}
	}
	s.rows[e.ID] = *e
	return 1, nil
}

func (s *memStore) GetByUsername(_ context.Context, username string) (*entity.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, row := range s.rows {
		if row.Username == username {
			e := row
			return &e, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *memStore) GetByID(_ context.Context, id int64) (*entity.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	row, ok := s.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &row, nil
}

func (s *memStore) Page(_ context.Context, name string, limit, offset int) ([]entity.Employee, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, 0, s.err
	}
	all := []entity.Employee{}
	for _, row := range s.rows {
		if name == "" || strings.Contains(row.Name, name) {
			all = append(all, row)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return []entity.Employee{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (s *memStore) UpdatePassword(_ context.Context, id int64, digest string, updateUser int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	row, ok := s.rows[id]
	if !ok {
		return 0, nil
	}
	row.Password = digest
	row.UpdateUser = updateUser
	s.rows[id] = row
	return 1, nil
}

func (s *memStore) UpdateStatus(_ context.Context, id int64, status int, updateUser int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	row, ok := s.rows[id]
	if !ok {
		return 0, nil
	}
	row.Status = status
	row.UpdateUser = updateUser
	s.rows[id] = row
	return 1, nil
}

func (s *memStore) Update(_ context.Context, e *entity.Employee) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	row, ok := s.rows[e.ID]
	if !ok {
		return 0, nil
	}
	if e.Name != "" {
		row.Name = e.Name
	}
	if e.Phone != "" {
		row.Phone = e.Phone
	}
	if e.Role != "" {
		row.Role = e.Role
	}
	row.UpdateUser = e.UpdateUser
	s.rows[e.ID] = row
	return 1, nil
}
