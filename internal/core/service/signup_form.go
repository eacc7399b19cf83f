package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/projecthub/account-entry/internal/core/domain"
	"github.com/projecthub/account-entry/internal/core/ports"
	"github.com/projecthub/account-entry/internal/core/validation"
)

const (
	// DefaultStoreKey is the slot the created account is written to.
	DefaultStoreKey = "user"
	// DefaultCommitDelay models the round trip of a real sign-up request.
	DefaultCommitDelay = time.Second

	commitFailedMessage = "Unable to create account, please try again"
)

// SignupFormConfig wires a SignupForm to its collaborators. Store is
// required. Zero values elsewhere fall back to defaults, except Delay: zero
// commits on the next scheduler turn and a negative value selects
// DefaultCommitDelay.
type SignupFormConfig struct {
	Store     ports.AccountStore
	Scheduler ports.CommitScheduler
	Validator *validation.Validator
	StoreKey  string
	Delay     time.Duration
	NewID     func() string
	Now       func() time.Time
	Logger    zerolog.Logger

	// OnSignup is invoked once per successful commit, outside the form lock.
	OnSignup func(domain.AccountRecord)
	// OnError is invoked when the commit could not be persisted.
	OnError func(error)
	// OnCommit observes every finished commit, after OnSignup or OnError.
	OnCommit func(CommitResult)
}

// CommitResult is delivered once the scheduled commit has run.
type CommitResult struct {
	Record *domain.AccountRecord
	Err    error
	// Elapsed runs from the accepted submit to the end of the commit.
	Elapsed time.Duration
}

// SubmitResult is what Submit returns synchronously.
type SubmitResult struct {
	// Errors holds the validation failures; when non-empty nothing was scheduled.
	Errors domain.ValidationErrors
	// Committed receives exactly one value when the commit finishes. It is nil
	// when validation failed.
	Committed <-chan CommitResult
}

// Accepted reports whether the commit was scheduled.
func (r SubmitResult) Accepted() bool {
	return r.Committed != nil
}

// SignupForm owns the state of one sign-up form: field values, per-field
// errors and the in-flight flag.
type SignupForm struct {
	id  string
	cfg SignupFormConfig

	mu         sync.Mutex
	fields     domain.FieldSet
	errs       domain.ErrorSet
	submitting bool
	formError  string
	account    *domain.AccountRecord
}

// NewSignupForm returns an empty form with the default role selected.
func NewSignupForm(id string, cfg SignupFormConfig) *SignupForm {
	if cfg.Scheduler == nil {
		cfg.Scheduler = afterFuncScheduler{}
	}
	if cfg.Validator == nil {
		cfg.Validator = validation.New()
	}
	if cfg.StoreKey == "" {
		cfg.StoreKey = DefaultStoreKey
	}
	if cfg.Delay < 0 {
		cfg.Delay = DefaultCommitDelay
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &SignupForm{
		id:     id,
		cfg:    cfg,
		fields: domain.NewFieldSet(),
		errs:   domain.ErrorSet{},
	}
}

// ID returns the form identifier.
func (f *SignupForm) ID() string {
	return f.id
}

// SetField stores value and clears the error of that field, if any.
func (f *SignupForm) SetField(field domain.Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fields.Set(field, value); err != nil {
		return err
	}
	if f.errs.Has(field) {
		f.errs.Clear(field)
	}
	return nil
}

// SelectRole switches the role. Unlike SetField it leaves the errors alone.
func (f *SignupForm) SelectRole(role domain.Role) {
	f.mu.Lock()
	f.fields.Role = role
	f.mu.Unlock()
}

// Fields returns a copy of the current values.
func (f *SignupForm) Fields() domain.FieldSet {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// Errors returns a copy of the current per-field errors.
func (f *SignupForm) Errors() domain.ErrorSet {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs.Clone()
}

// Submitting reports whether a submission is in flight.
func (f *SignupForm) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Snapshot returns the complete render state.
func (f *SignupForm) Snapshot() ports.FormSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return ports.FormSnapshot{
		ID:         f.id,
		Fields:     f.fields,
		Errors:     f.errs.Clone(),
		Submitting: f.submitting,
		FormError:  f.formError,
		Account:    f.account,
	}
}

// Submit validates the current values. On failure the errors are stored and
// returned immediately. On success the commit is scheduled after the
// configured delay; it reads the fields as they are when it runs and is never
// cancelled, so ctx only contributes its values to the store call.
func (f *SignupForm) Submit(ctx context.Context) (SubmitResult, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return SubmitResult{}, domain.ErrSubmissionInFlight
	}
	f.submitting = true
	f.errs = domain.ErrorSet{}
	f.formError = ""

	if verrs := f.cfg.Validator.Validate(f.fields); len(verrs) > 0 {
		f.errs = verrs.ErrorSet()
		f.submitting = false
		f.mu.Unlock()
		return SubmitResult{Errors: verrs}, nil
	}
	f.mu.Unlock()

	done := make(chan CommitResult, 1)
	commitCtx := context.WithoutCancel(ctx)
	start := f.cfg.Now()
	f.cfg.Scheduler.Schedule(f.id, f.cfg.Delay, func() {
		res := f.commit(commitCtx)
		res.Elapsed = f.cfg.Now().Sub(start)
		if f.cfg.OnCommit != nil {
			f.cfg.OnCommit(res)
		}
		done <- res
		close(done)
	})
	return SubmitResult{Committed: done}, nil
}

func (f *SignupForm) commit(ctx context.Context) CommitResult {
	f.mu.Lock()
	record := domain.NewAccountRecord(f.cfg.NewID(), f.fields, f.cfg.Now())
	f.mu.Unlock()

	err := f.persist(ctx, record)

	f.mu.Lock()
	f.submitting = false
	if err != nil {
		f.formError = commitFailedMessage
	} else {
		f.account = &record
	}
	f.mu.Unlock()

	if err != nil {
		f.cfg.Logger.Error().Err(err).Str("form_id", f.id).Msg("account commit failed")
		if f.cfg.OnError != nil {
			f.cfg.OnError(err)
		}
		return CommitResult{Err: err}
	}

	f.cfg.Logger.Info().
		Str("form_id", f.id).
		Str("account_id", record.ID).
		Str("role", string(record.Role)).
		Msg("account created")

	if f.cfg.OnSignup != nil {
		f.cfg.OnSignup(record)
	}
	return CommitResult{Record: &record}
}

func (f *SignupForm) persist(ctx context.Context, record domain.AccountRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: encode record: %w", domain.ErrCommitFailed, err)
	}
	if err := f.cfg.Store.Put(ctx, f.cfg.StoreKey, payload); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCommitFailed, err)
	}
	return nil
}

// afterFuncScheduler runs each job on its own timer goroutine.
type afterFuncScheduler struct{}

func (afterFuncScheduler) Schedule(_ string, delay time.Duration, fn func()) {
	time.AfterFunc(delay, fn)
}
