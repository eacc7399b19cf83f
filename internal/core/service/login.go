package service

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/projecthub/account-entry/internal/pkg/metrics"
	"github.com/projecthub/account-entry/internal/core/domain"
)

// demoAccounts is the fixed sign-in table: any credentials resolve to the
// account of the selected role.
var demoAccounts = map[domain.Role]domain.AccountRecord{
	domain.RoleAdmin:   {ID: "1", Name: "Dr. Smith", Email: "admin@university.edu", Role: domain.RoleAdmin},
	domain.RoleStudent: {ID: "2", Name: "John Doe", Email: "student@university.edu", Role: domain.RoleStudent},
}

// LoginService resolves sign-in attempts against demoAccounts.
type LoginService struct {
	log zerolog.Logger
}

func NewLoginService(log zerolog.Logger) *LoginService {
	return &LoginService{log: log}
}

// Authenticate returns the demo account for role when both email and
// password are non-empty. Otherwise the attempt is ignored and ok is false.
func (s *LoginService) Authenticate(email, password string, role domain.Role) (domain.AccountRecord, bool) {
	if email == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues(string(role), "ignored").Inc()
		return domain.AccountRecord{}, false
	}
	record, ok := demoAccounts[role]
	if !ok {
		metrics.LoginsTotal.WithLabelValues(string(role), "ignored").Inc()
		return domain.AccountRecord{}, false
	}
	metrics.LoginsTotal.WithLabelValues(string(role), "ok").Inc()
	s.log.Info().Str("role", string(role)).Str("account_id", record.ID).Msg("demo sign-in")
	return record, true
}

// LoginForm is the sign-in counterpart of SignupForm: three fields, no
// validation messages and an immediate result.
type LoginForm struct {
	svc     *LoginService
	onLogin func(domain.AccountRecord)

	mu       sync.Mutex
	email    string
	password string
	role     domain.Role
}

// NewLoginForm returns an empty sign-in form with the default role selected.
func NewLoginForm(svc *LoginService, onLogin func(domain.AccountRecord)) *LoginForm {
	return &LoginForm{svc: svc, onLogin: onLogin, role: domain.DefaultRole}
}

// SetField accepts email and password; other fields return ErrUnknownField.
func (f *LoginForm) SetField(field domain.Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch field {
	case domain.FieldEmail:
		f.email = value
	case domain.FieldPassword:
		f.password = value
	default:
		return domain.ErrUnknownField
	}
	return nil
}

// SelectRole switches the role used to pick the demo account.
func (f *LoginForm) SelectRole(role domain.Role) {
	f.mu.Lock()
	f.role = role
	f.mu.Unlock()
}

// Role returns the selected role.
func (f *LoginForm) Role() domain.Role {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.role
}

// Submit signs in and calls onLogin with the resolved account. Empty fields
// make it a silent no-op.
func (f *LoginForm) Submit() (domain.AccountRecord, bool) {
	f.mu.Lock()
	email, password, role := f.email, f.password, f.role
	f.mu.Unlock()

	record, ok := f.svc.Authenticate(email, password, role)
	if ok && f.onLogin != nil {
		f.onLogin(record)
	}
	return record, ok
}
