package service

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/projecthub/account-entry/internal/core/domain"
)

func TestLoginService_Authenticate(t *testing.T) {
	svc := NewLoginService(zerolog.Nop())

	cases := []struct {
		name     string
		email    string
		password string
		role     domain.Role
		wantOK   bool
		wantName string
	}{
		{"admin", "anyone@x.edu", "pw", domain.RoleAdmin, true, "Dr. Smith"},
		{"student", "anyone@x.edu", "pw", domain.RoleStudent, true, "John Doe"},
		{"missing email", "", "pw", domain.RoleStudent, false, ""},
		{"missing password", "a@b.co", "", domain.RoleAdmin, false, ""},
		{"unknown role", "a@b.co", "pw", domain.Role("guest"), false, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record, ok := svc.Authenticate(tc.email, tc.password, tc.role)
			if ok != tc.wantOK {
				t.Fatalf("expected ok=%v, got %v", tc.wantOK, ok)
			}
			if record.Name != tc.wantName {
				t.Fatalf("expected %q, got %q", tc.wantName, record.Name)
			}
			if ok && record.Role != tc.role {
				t.Fatalf("expected role %s, got %s", tc.role, record.Role)
			}
		})
	}
}

func TestLoginForm_Submit(t *testing.T) {
	var logins []domain.AccountRecord
	form := NewLoginForm(NewLoginService(zerolog.Nop()), func(r domain.AccountRecord) {
		logins = append(logins, r)
	})

	if form.Role() != domain.RoleStudent {
		t.Fatalf("expected default role student, got %s", form.Role())
	}

	// Empty fields: silent no-op.
	if _, ok := form.Submit(); ok {
		t.Fatalf("expected no-op on empty form")
	}
	if len(logins) != 0 {
		t.Fatalf("onLogin must not fire on no-op")
	}

	_ = form.SetField(domain.FieldEmail, "someone@x.edu")
	_ = form.SetField(domain.FieldPassword, "whatever")
	form.SelectRole(domain.RoleAdmin)

	record, ok := form.Submit()
	if !ok {
		t.Fatalf("expected sign-in")
	}
	if record.ID != "1" || record.Email != "admin@university.edu" {
		t.Fatalf("unexpected record %+v", record)
	}
	if len(logins) != 1 {
		t.Fatalf("expected one onLogin call, got %d", len(logins))
	}
}

func TestLoginForm_SetFieldUnknown(t *testing.T) {
	form := NewLoginForm(NewLoginService(zerolog.Nop()), nil)
	if err := form.SetField(domain.FieldDepartment, "x"); err != domain.ErrUnknownField {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}
