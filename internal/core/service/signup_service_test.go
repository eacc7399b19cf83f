package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/projecthub/account-entry/internal/core/domain"
)

type recordingListener struct {
	mu      sync.Mutex
	records []domain.AccountRecord
}

func (l *recordingListener) AccountCreated(_ context.Context, r domain.AccountRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, r)
}

func (l *recordingListener) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

func newTestSignupService(store *stubStore, sched *manualScheduler, listener *recordingListener) *SignupService {
	cfg := SignupServiceConfig{
		Store:     store,
		Scheduler: sched,
		StoreKey:  "user",
		Delay:     time.Second,
	}
	if listener != nil {
		cfg.Listener = listener
	}
	return NewSignupService(cfg, zerolog.Nop())
}

func validFieldSet() domain.FieldSet {
	return domain.FieldSet{
		Name:            "Jane",
		Email:           "jane@x.edu",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Role:            domain.RoleStudent,
		StudentID:       "S100",
		Department:      "Computer Science",
	}
}

func TestSignupService_FormLifecycle(t *testing.T) {
	store, sched, listener := &stubStore{}, &manualScheduler{}, &recordingListener{}
	svc := newTestSignupService(store, sched, listener)

	snap := svc.NewForm()
	if snap.ID == "" {
		t.Fatalf("expected form id")
	}
	if snap.Fields.Role != domain.RoleStudent {
		t.Fatalf("expected default role")
	}

	out, err := svc.Submit(context.Background(), snap.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Accepted || len(out.Errors) == 0 {
		t.Fatalf("empty form must be rejected")
	}

	fields := validFieldSet()
	for _, f := range []domain.Field{domain.FieldName, domain.FieldEmail, domain.FieldPassword, domain.FieldConfirmPassword, domain.FieldStudentID, domain.FieldDepartment} {
		if _, err := svc.SetField(snap.ID, f, fields.Get(f)); err != nil {
			t.Fatalf("set %s: %v", f, err)
		}
	}
	if _, err := svc.SelectRole(snap.ID, domain.RoleStudent); err != nil {
		t.Fatalf("select role: %v", err)
	}

	current, err := svc.Snapshot(snap.ID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(current.Errors) != 0 {
		t.Fatalf("edits should have cleared all errors, got %v", current.Errors)
	}

	out, err = svc.Submit(context.Background(), snap.ID)
	if err != nil || !out.Accepted {
		t.Fatalf("expected acceptance: %+v %v", out, err)
	}
	if current, _ = svc.Snapshot(snap.ID); !current.Submitting {
		t.Fatalf("expected submitting")
	}

	sched.RunAll()

	current, _ = svc.Snapshot(snap.ID)
	if current.Submitting || current.Account == nil {
		t.Fatalf("expected committed form, got %+v", current)
	}
	if listener.Count() != 1 {
		t.Fatalf("expected listener call")
	}
	if len(store.Puts()) != 1 || store.Puts()[0].key != "user" {
		t.Fatalf("expected one write under user")
	}

	svc.Discard(snap.ID)
	if _, err := svc.Snapshot(snap.ID); !errors.Is(err, domain.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound after discard, got %v", err)
	}
}

func TestSignupService_Errors(t *testing.T) {
	svc := newTestSignupService(&stubStore{}, &manualScheduler{}, nil)
	id := svc.NewForm().ID

	if _, err := svc.Snapshot("missing"); !errors.Is(err, domain.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
	if _, err := svc.SetField(id, "nickname", "x"); !errors.Is(err, domain.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if _, err := svc.SetField(id, domain.FieldRole, "guest"); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := svc.SelectRole(id, "guest"); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := svc.Submit(context.Background(), "missing"); !errors.Is(err, domain.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
}

func TestSignupService_RegisterSuccess(t *testing.T) {
	store, sched := &stubStore{}, &manualScheduler{}
	svc := newTestSignupService(store, sched, nil)

	type result struct {
		record *domain.AccountRecord
		err    error
	}
	done := make(chan result, 1)
	go func() {
		r, err := svc.Register(context.Background(), validFieldSet())
		done <- result{r, err}
	}()

	deadline := time.After(2 * time.Second)
	for len(sched.Pending()) == 0 {
		select {
		case <-deadline:
			t.Fatalf("commit never scheduled")
		case <-time.After(time.Millisecond):
		}
	}
	sched.RunAll()

	res := <-done
	if res.err != nil {
		t.Fatalf("register: %v", res.err)
	}
	if res.record.Name != "Jane" || res.record.StudentID != "S100" {
		t.Fatalf("unexpected record %+v", res.record)
	}
	if len(store.Puts()) != 1 {
		t.Fatalf("expected one write")
	}
}

func TestSignupService_RegisterValidation(t *testing.T) {
	svc := newTestSignupService(&stubStore{}, &manualScheduler{}, nil)

	fields := validFieldSet()
	fields.Email = "bad"
	_, err := svc.Register(context.Background(), fields)

	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if !verrs.Has(domain.FieldEmail, domain.RuleInvalidFormat) {
		t.Fatalf("expected invalid email, got %v", verrs)
	}

	fields.Role = "guest"
	if _, err := svc.Register(context.Background(), fields); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestSignupService_RegisterContextDone(t *testing.T) {
	store, sched := &stubStore{}, &manualScheduler{}
	svc := newTestSignupService(store, sched, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := svc.Register(ctx, validFieldSet()); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	// The commit was still scheduled and completes on its own.
	sched.RunAll()
	if len(store.Puts()) != 1 {
		t.Fatalf("commit must complete after the caller gave up")
	}
}

func TestSignupService_RegisterCommitFailure(t *testing.T) {
	store, sched := &stubStore{putErr: errors.New("down")}, &manualScheduler{}
	svc := newTestSignupService(store, sched, nil)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Register(context.Background(), validFieldSet())
		done <- err
	}()
	for len(sched.Pending()) == 0 {
		time.Sleep(time.Millisecond)
	}
	sched.RunAll()

	if err := <-done; !errors.Is(err, domain.ErrCommitFailed) {
		t.Fatalf("expected ErrCommitFailed, got %v", err)
	}
}

func TestSignupService_SetFieldRoleIsNormalised(t *testing.T) {
	sched := &manualScheduler{}
	svc := newTestSignupService(&stubStore{}, sched, nil)
	id := svc.NewForm().ID

	fields := validFieldSet()
	for _, f := range []domain.Field{domain.FieldName, domain.FieldEmail, domain.FieldPassword, domain.FieldConfirmPassword, domain.FieldDepartment} {
		if _, err := svc.SetField(id, f, fields.Get(f)); err != nil {
			t.Fatalf("set %s: %v", f, err)
		}
	}

	snap, err := svc.SetField(id, domain.FieldRole, " Student ")
	if err != nil {
		t.Fatalf("set role: %v", err)
	}
	if snap.Fields.Role != domain.RoleStudent {
		t.Fatalf("expected role %q, got %q", domain.RoleStudent, snap.Fields.Role)
	}

	out, err := svc.Submit(context.Background(), id)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Accepted {
		t.Fatalf("student without a student id must be rejected")
	}
	if !out.Errors.Has(domain.FieldStudentID, domain.RuleRequired) {
		t.Fatalf("expected studentId required, got %v", out.Errors)
	}
	if n := len(sched.Pending()); n != 0 {
		t.Fatalf("nothing should be scheduled, got %d", n)
	}

	if snap, err = svc.SetField(id, domain.FieldRole, "ADMIN"); err != nil || snap.Fields.Role != domain.RoleAdmin {
		t.Fatalf("expected admin, got %q (%v)", snap.Fields.Role, err)
	}
}
