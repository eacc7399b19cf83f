// Package validation holds the sign-up submission rules.
//
// Field rules are go-playground/validator tags on signupInput. Rules that only
// apply to some roles live in a rule set keyed by role and are evaluated by a
// struct-level validation, so every role goes through the same code path.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"

	"github.com/projecthub/account-entry/internal/core/domain"
)

// MinPasswordLength is the shortest accepted password, in UTF-16 code units,
// so a character outside the BMP counts twice.
const MinPasswordLength = 6

// emailPattern is a structural check only: something@something.something.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

type signupInput struct {
	Name            string      `json:"name"            validate:"notblank"`
	Email           string      `json:"email"           validate:"notblank,looseemail"`
	Password        string      `json:"password"        validate:"required,utf16min=6"`
	ConfirmPassword string      `json:"confirmPassword" validate:"eqfield=Password"`
	Role            domain.Role `json:"role"`
	StudentID       string      `json:"studentId"`
	Department      string      `json:"department"      validate:"notblank"`
}

// roleRule is a rule that only applies to the roles it is registered under.
type roleRule struct {
	field       domain.Field
	structField string
	tag         string
	value       func(in signupInput) string
}

var roleRules = map[domain.Role][]roleRule{
	domain.RoleStudent: {
		{
			field:       domain.FieldStudentID,
			structField: "StudentID",
			tag:         "notblank",
			value:       func(in signupInput) string { return in.StudentID },
		},
	},
	domain.RoleAdmin: nil,
}

var roleChecks = map[string]func(string) bool{
	"notblank": notBlank,
}

// tagRules maps validator tags to the rule codes surfaced to callers.
var tagRules = map[string]domain.Rule{
	"notblank":   domain.RuleRequired,
	"required":   domain.RuleRequired,
	"looseemail": domain.RuleInvalidFormat,
	"utf16min":   domain.RuleTooShort,
	"eqfield":    domain.RuleMismatch,
}

var messages = map[domain.Field]map[domain.Rule]string{
	domain.FieldName: {
		domain.RuleRequired: "Name is required",
	},
	domain.FieldEmail: {
		domain.RuleRequired:      "Email is required",
		domain.RuleInvalidFormat: "Email is invalid",
	},
	domain.FieldPassword: {
		domain.RuleRequired: "Password is required",
		domain.RuleTooShort: "Password must be at least 6 characters",
	},
	domain.FieldConfirmPassword: {
		domain.RuleMismatch: "Passwords do not match",
	},
	domain.FieldStudentID: {
		domain.RuleRequired: "Student ID is required",
	},
	domain.FieldDepartment: {
		domain.RuleRequired: "Department is required",
	},
}

// Validator checks a sign-up FieldSet. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator with the custom tags and role rule sets registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return notBlank(fl.Field().String())
	})
	_ = v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("utf16min", func(fl validator.FieldLevel) bool {
		min, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return UTF16Len(fl.Field().String()) >= min
	})
	v.RegisterStructValidation(validateRoleRules, signupInput{})
	return &Validator{v: v}
}

// Validate runs every rule against fields and returns all failures, one per
// field. A nil result means the form is valid.
func (val *Validator) Validate(fields domain.FieldSet) domain.ValidationErrors {
	in := signupInput{
		Name:            fields.Name,
		Email:           fields.Email,
		Password:        fields.Password,
		ConfirmPassword: fields.ConfirmPassword,
		Role:            fields.Role,
		StudentID:       fields.StudentID,
		Department:      fields.Department,
	}

	err := val.v.Struct(in)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		// InvalidValidationError only happens for non-struct input.
		panic(err)
	}

	out := make(domain.ValidationErrors, 0, len(ve))
	seen := make(map[domain.Field]bool, len(ve))
	for _, fe := range ve {
		field := domain.Field(fe.Field())
		if seen[field] {
			continue
		}
		seen[field] = true
		rule := ruleFor(fe.Tag())
		out = append(out, domain.FieldError{
			Field:   field,
			Rule:    rule,
			Message: Message(field, rule),
		})
	}
	return out
}

// Message returns the user-facing text for a failed rule.
func Message(field domain.Field, rule domain.Rule) string {
	if msg, ok := messages[field][rule]; ok {
		return msg
	}
	return string(field) + " is invalid"
}

func validateRoleRules(sl validator.StructLevel) {
	in := sl.Current().Interface().(signupInput)
	for _, r := range roleRules[in.Role] {
		value := r.value(in)
		if check, ok := roleChecks[r.tag]; ok && !check(value) {
			sl.ReportError(value, string(r.field), r.structField, r.tag, "")
		}
	}
}

func ruleFor(tag string) domain.Rule {
	if rule, ok := tagRules[tag]; ok {
		return rule
	}
	return domain.RuleRequired
}

// UTF16Len returns the length of s in UTF-16 code units.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

func notBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}
