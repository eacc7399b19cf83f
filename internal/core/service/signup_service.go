package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/projecthub/account-entry/internal/pkg/metrics"
	"github.com/projecthub/account-entry/internal/core/domain"
	"github.com/projecthub/account-entry/internal/core/ports"
	"github.com/projecthub/account-entry/internal/core/validation"
)

// SignupServiceConfig carries what every form created by the service shares.
type SignupServiceConfig struct {
	Store     ports.AccountStore
	Scheduler ports.CommitScheduler
	StoreKey  string
	Delay     time.Duration
	// Listener is optional; it is told about every created account.
	Listener ports.SignupListener
}

// SignupService keeps server-side sign-up forms keyed by id.
type SignupService struct {
	cfg       SignupServiceConfig
	validator *validation.Validator
	log       zerolog.Logger

	mu    sync.Mutex
	forms map[string]*SignupForm
}

func NewSignupService(cfg SignupServiceConfig, log zerolog.Logger) *SignupService {
	return &SignupService{
		cfg:       cfg,
		validator: validation.New(),
		log:       log,
		forms:     make(map[string]*SignupForm),
	}
}

// NewForm opens a form session and returns its initial state.
func (s *SignupService) NewForm() ports.FormSnapshot {
	form := s.newForm(uuid.NewString())

	s.mu.Lock()
	s.forms[form.ID()] = form
	s.mu.Unlock()
	metrics.OpenForms.Inc()

	return form.Snapshot()
}

// Snapshot returns the state of form id.
func (s *SignupService) Snapshot(id string) (ports.FormSnapshot, error) {
	form, err := s.form(id)
	if err != nil {
		return ports.FormSnapshot{}, err
	}
	return form.Snapshot(), nil
}

// SetField applies a field-change event. Role values are normalised and
// checked here since the form itself stores whatever it is given.
func (s *SignupService) SetField(id string, field domain.Field, value string) (ports.FormSnapshot, error) {
	if !field.Valid() {
		return ports.FormSnapshot{}, domain.ErrUnknownField
	}
	if field == domain.FieldRole {
		role, err := domain.ParseRole(value)
		if err != nil {
			return ports.FormSnapshot{}, err
		}
		value = string(role)
	}

	form, err := s.form(id)
	if err != nil {
		return ports.FormSnapshot{}, err
	}
	if err := form.SetField(field, value); err != nil {
		return ports.FormSnapshot{}, err
	}
	return form.Snapshot(), nil
}

// SelectRole applies a role-select event.
func (s *SignupService) SelectRole(id string, role domain.Role) (ports.FormSnapshot, error) {
	if !role.Valid() {
		return ports.FormSnapshot{}, domain.ErrInvalidRole
	}
	form, err := s.form(id)
	if err != nil {
		return ports.FormSnapshot{}, err
	}
	form.SelectRole(role)
	return form.Snapshot(), nil
}

// Submit validates form id and schedules its commit when valid.
func (s *SignupService) Submit(ctx context.Context, id string) (ports.SubmitOutcome, error) {
	form, err := s.form(id)
	if err != nil {
		return ports.SubmitOutcome{}, err
	}
	res, err := s.submit(ctx, form)
	if err != nil {
		return ports.SubmitOutcome{}, err
	}
	return ports.SubmitOutcome{Errors: res.Errors, Accepted: res.Accepted()}, nil
}

// Discard closes form id. Pending commits still run.
func (s *SignupService) Discard(id string) {
	s.mu.Lock()
	_, ok := s.forms[id]
	delete(s.forms, id)
	s.mu.Unlock()
	if ok {
		metrics.OpenForms.Dec()
	}
}

// Register fills a private form with fields, submits it and waits for the
// commit. Validation failures come back as domain.ValidationErrors. If ctx
// ends first the commit still completes in the background.
func (s *SignupService) Register(ctx context.Context, fields domain.FieldSet) (*domain.AccountRecord, error) {
	if !fields.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	form := s.newForm(uuid.NewString())
	for _, field := range domain.SignupFields {
		if field == domain.FieldRole {
			continue
		}
		if err := form.SetField(field, fields.Get(field)); err != nil {
			return nil, err
		}
	}
	form.SelectRole(fields.Role)

	res, err := s.submit(ctx, form)
	if err != nil {
		return nil, err
	}
	if !res.Accepted() {
		return nil, res.Errors
	}

	select {
	case out := <-res.Committed:
		if out.Err != nil {
			return nil, out.Err
		}
		return out.Record, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *SignupService) submit(ctx context.Context, form *SignupForm) (SubmitResult, error) {
	res, err := form.Submit(ctx)
	if err != nil {
		metrics.SignupSubmissionsTotal.WithLabelValues("in_flight").Inc()
		return SubmitResult{}, err
	}
	if !res.Accepted() {
		metrics.SignupSubmissionsTotal.WithLabelValues("invalid").Inc()
		for _, fe := range res.Errors {
			metrics.SignupValidationFailuresTotal.WithLabelValues(string(fe.Field), string(fe.Rule)).Inc()
		}
		s.log.Debug().Str("form_id", form.ID()).Int("errors", len(res.Errors)).Msg("sign-up rejected")
		return res, nil
	}
	metrics.SignupSubmissionsTotal.WithLabelValues("accepted").Inc()
	return res, nil
}

func (s *SignupService) form(id string) (*SignupForm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	form, ok := s.forms[id]
	if !ok {
		return nil, domain.ErrFormNotFound
	}
	return form, nil
}

func (s *SignupService) newForm(id string) *SignupForm {
	return NewSignupForm(id, SignupFormConfig{
		Store:     s.cfg.Store,
		Scheduler: s.cfg.Scheduler,
		Validator: s.validator,
		StoreKey:  s.cfg.StoreKey,
		Delay:     s.cfg.Delay,
		Logger:    s.log,
		OnSignup:  s.accountCreated,
		OnCommit:  observeCommit,
	})
}

func (s *SignupService) accountCreated(record domain.AccountRecord) {
	metrics.AccountsCreatedTotal.WithLabelValues(string(record.Role)).Inc()
	if s.cfg.Listener != nil {
		s.cfg.Listener.AccountCreated(context.Background(), record)
	}
}

func observeCommit(res CommitResult) {
	result := "ok"
	if res.Err != nil {
		result = "error"
		metrics.CommitErrorsTotal.Inc()
	}
	metrics.CommitDuration.WithLabelValues(result).Observe(res.Elapsed.Seconds())
}
