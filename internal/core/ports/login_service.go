package ports

import "github.com/projecthub/account-entry/internal/core/domain"

// LoginService resolves sign-in attempts. ok is false when the attempt was
// ignored (missing email or password).
type LoginService interface {
	Authenticate(email, password string, role domain.Role) (record domain.AccountRecord, ok bool)
}
