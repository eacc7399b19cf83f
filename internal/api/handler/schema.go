package handler

import (
	"github.com/projecthub/account-entry/internal/core/domain"
	"github.com/projecthub/account-entry/internal/core/ports"
)

// errorResponse is the standard error envelope returned on 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// validationErrorResponse is returned with 422 when a submission fails validation.
type validationErrorResponse struct {
	Error  string                 `json:"error"`
	Errors map[string]string      `json:"errors"`
	Rules  map[string]domain.Rule `json:"rules"`
}

// --- Request types ---

// fieldRequest carries one field edit. Any value is accepted; the request
// body limit of the router is the only bound.
type fieldRequest struct {
	Value string `json:"value"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required,oneof=student admin"`
}

// signupRequest carries a whole sign-up form. Content rules are applied by
// the sign-up validator, so only shape is checked here.
type signupRequest struct {
	Name            string `json:"name"            validate:"max=256"`
	Email           string `json:"email"           validate:"max=256"`
	Password        string `json:"password"        validate:"max=256"`
	ConfirmPassword string `json:"confirmPassword" validate:"max=256"`
	Role            string `json:"role"            validate:"omitempty,oneof=student admin"`
	StudentID       string `json:"studentId"       validate:"max=64"`
	Department      string `json:"department"      validate:"max=128"`
}

func (r signupRequest) fieldSet() domain.FieldSet {
	fields := domain.NewFieldSet()
	fields.Name = r.Name
	fields.Email = r.Email
	fields.Password = r.Password
	fields.ConfirmPassword = r.ConfirmPassword
	fields.StudentID = r.StudentID
	fields.Department = r.Department
	if r.Role != "" {
		fields.Role = domain.Role(r.Role)
	}
	return fields
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role" validate:"omitempty,oneof=student admin"`
}

// --- Response types ---

// formFields mirrors domain.FieldSet without the password values.
type formFields struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	StudentID          string `json:"studentId"`
	Department         string `json:"department"`
	PasswordSet        bool   `json:"passwordSet"`
	ConfirmPasswordSet bool   `json:"confirmPasswordSet"`
}

type formResponse struct {
	ID         string                `json:"id"`
	Fields     formFields            `json:"fields"`
	Errors     map[string]string     `json:"errors"`
	Submitting bool                  `json:"submitting"`
	FormError  string                `json:"formError,omitempty"`
	Account    *domain.AccountRecord `json:"account,omitempty"`
}

type departmentsResponse struct {
	Departments []string `json:"departments"`
}

func toFormResponse(s ports.FormSnapshot) formResponse {
	return formResponse{
		ID: s.ID,
		Fields: formFields{
			Name:               s.Fields.Name,
			Email:              s.Fields.Email,
			Role:               string(s.Fields.Role),
			StudentID:          s.Fields.StudentID,
			Department:         s.Fields.Department,
			PasswordSet:        s.Fields.Password != "",
			ConfirmPasswordSet: s.Fields.ConfirmPassword != "",
		},
		Errors:     errorMap(s.Errors),
		Submitting: s.Submitting,
		FormError:  s.FormError,
		Account:    s.Account,
	}
}

func errorMap(set domain.ErrorSet) map[string]string {
	out := make(map[string]string, len(set))
	for f, msg := range set {
		if msg != "" {
			out[string(f)] = msg
		}
	}
	return out
}

// NewValidationErrorResponse renders ve as the 422 body.
func NewValidationErrorResponse(ve domain.ValidationErrors) any {
	rules := make(map[string]domain.Rule, len(ve))
	for f, r := range ve.Rules() {
		rules[string(f)] = r
	}
	return validationErrorResponse{
		Error:  "validation failed",
		Errors: errorMap(ve.ErrorSet()),
		Rules:  rules,
	}
}
