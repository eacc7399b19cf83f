package ports

import (
	"context"

	"github.com/projecthub/account-entry/internal/core/domain"
)

// SignupListener receives every account created through the sign-up flow.
type SignupListener interface {
	AccountCreated(ctx context.Context, record domain.AccountRecord)
}

// FormSnapshot is the read-only view of a sign-up form handed to renderers.
type FormSnapshot struct {
	ID         string
	Fields     domain.FieldSet
	Errors     domain.ErrorSet
	Submitting bool
	// FormError is set when the commit step failed; it is not tied to a field.
	FormError string
	// Account is the record created by the last successful commit.
	Account *domain.AccountRecord
}

// SubmitOutcome describes what happened to a submit request.
type SubmitOutcome struct {
	// Errors is non-empty when validation failed and nothing was scheduled.
	Errors domain.ValidationErrors
	// Accepted is true when the commit has been scheduled.
	Accepted bool
}

// SignupService is the use-case boundary used by the HTTP layer.
type SignupService interface {
	NewForm() FormSnapshot
	Snapshot(id string) (FormSnapshot, error)
	SetField(id string, field domain.Field, value string) (FormSnapshot, error)
	SelectRole(id string, role domain.Role) (FormSnapshot, error)
	Submit(ctx context.Context, id string) (SubmitOutcome, error)
	Discard(id string)
	// Register runs a whole submission for fields and waits for the commit.
	Register(ctx context.Context, fields domain.FieldSet) (*domain.AccountRecord, error)
}
