package domain

import (
	"errors"
	"strings"
)

var (
	ErrSubmissionInFlight = errors.New("submission already in progress")
	ErrCommitFailed       = errors.New("account commit failed")
	ErrFormNotFound       = errors.New("form not found")
	ErrAccountNotFound    = errors.New("account not found")
	ErrUnknownField       = errors.New("unknown field")
	ErrInvalidRole        = errors.New("invalid role")
	ErrStoreUnavailable   = errors.New("account store unavailable")
)

// Rule identifies which validation rule a field failed.
type Rule string

const (
	RuleRequired      Rule = "required"
	RuleInvalidFormat Rule = "invalid_format"
	RuleTooShort      Rule = "too_short"
	RuleMismatch      Rule = "mismatch"
)

// FieldError is a single validation failure.
type FieldError struct {
	Field   Field  `json:"field"`
	Rule    Rule   `json:"rule"`
	Message string `json:"message"`
}

// ValidationErrors collects every failure of one submit attempt.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, string(fe.Field)+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// ErrorSet flattens the failures to one message per field.
func (v ValidationErrors) ErrorSet() ErrorSet {
	out := make(ErrorSet, len(v))
	for _, fe := range v {
		out[fe.Field] = fe.Message
	}
	return out
}

// Rules maps each failed field to the rule it broke.
func (v ValidationErrors) Rules() map[Field]Rule {
	out := make(map[Field]Rule, len(v))
	for _, fe := range v {
		out[fe.Field] = fe.Rule
	}
	return out
}

// Has reports whether field failed rule.
func (v ValidationErrors) Has(field Field, rule Rule) bool {
	for _, fe := range v {
		if fe.Field == field && fe.Rule == rule {
			return true
		}
	}
	return false
}
