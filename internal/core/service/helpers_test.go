package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/projecthub/account-entry/internal/core/domain"
)

type scheduledJob struct {
	key   string
	delay time.Duration
	fn    func()
}

// manualScheduler holds jobs until the test runs them.
type manualScheduler struct {
	mu   sync.Mutex
	jobs []scheduledJob
}

func (m *manualScheduler) Schedule(key string, delay time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, scheduledJob{key: key, delay: delay, fn: fn})
}

func (m *manualScheduler) Pending() []scheduledJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]scheduledJob(nil), m.jobs...)
}

func (m *manualScheduler) RunAll() {
	m.mu.Lock()
	jobs := m.jobs
	m.jobs = nil
	m.mu.Unlock()
	for _, j := range jobs {
		j.fn()
	}
}

type putCall struct {
	key    string
	value  []byte
	ctxErr error
}

type stubStore struct {
	mu     sync.Mutex
	puts   []putCall
	putErr error
}

func (s *stubStore) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.puts = append(s.puts, putCall{key: key, value: append([]byte(nil), value...), ctxErr: ctx.Err()})
	return nil
}

func (s *stubStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.puts) - 1; i >= 0; i-- {
		if s.puts[i].key == key {
			return s.puts[i].value, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (s *stubStore) Ping(context.Context) error { return nil }

func (s *stubStore) Puts() []putCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]putCall(nil), s.puts...)
}

func fillValid(t *testing.T, f *SignupForm) {
	t.Helper()
	values := map[domain.Field]string{
		domain.FieldName:            "Jane",
		domain.FieldEmail:           "jane@x.edu",
		domain.FieldPassword:        "secret1",
		domain.FieldConfirmPassword: "secret1",
		domain.FieldStudentID:       "S100",
		domain.FieldDepartment:      "Computer Science",
	}
	for field, value := range values {
		if err := f.SetField(field, value); err != nil {
			t.Fatalf("set %s: %v", field, err)
		}
	}
	f.SelectRole(domain.RoleStudent)
}

var fixedNow = time.Date(2026, 10, 14, 9, 30, 0, 123456789, time.UTC)
