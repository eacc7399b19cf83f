package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/projecthub/account-entry/internal/core/domain"
	"github.com/projecthub/account-entry/internal/core/ports"
)

type stubSignupService struct {
	newFormFn    func() ports.FormSnapshot
	snapshotFn   func(id string) (ports.FormSnapshot, error)
	setFieldFn   func(id string, field domain.Field, value string) (ports.FormSnapshot, error)
	selectRoleFn func(id string, role domain.Role) (ports.FormSnapshot, error)
	submitFn     func(ctx context.Context, id string) (ports.SubmitOutcome, error)
	registerFn   func(ctx context.Context, fields domain.FieldSet) (*domain.AccountRecord, error)
	discarded    []string
}

func (s *stubSignupService) NewForm() ports.FormSnapshot { return s.newFormFn() }

func (s *stubSignupService) Snapshot(id string) (ports.FormSnapshot, error) {
	return s.snapshotFn(id)
}

func (s *stubSignupService) SetField(id string, field domain.Field, value string) (ports.FormSnapshot, error) {
	return s.setFieldFn(id, field, value)
}

func (s *stubSignupService) SelectRole(id string, role domain.Role) (ports.FormSnapshot, error) {
	return s.selectRoleFn(id, role)
}

func (s *stubSignupService) Submit(ctx context.Context, id string) (ports.SubmitOutcome, error) {
	return s.submitFn(ctx, id)
}

func (s *stubSignupService) Discard(id string) { s.discarded = append(s.discarded, id) }

func (s *stubSignupService) Register(ctx context.Context, fields domain.FieldSet) (*domain.AccountRecord, error) {
	return s.registerFn(ctx, fields)
}

type stubLoginService struct {
	authenticateFn func(email, password string, role domain.Role) (domain.AccountRecord, bool)
}

func (s *stubLoginService) Authenticate(email, password string, role domain.Role) (domain.AccountRecord, bool) {
	return s.authenticateFn(email, password, role)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

// newContext builds an echo context for method/target with an optional JSON
// body. Path params are set from names and values in order.
func newContext(method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if len(params) > 0 {
		names := make([]string, 0, len(params)/2)
		values := make([]string, 0, len(params)/2)
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	return c, rec
}

func sampleSnapshot(id string) ports.FormSnapshot {
	fields := domain.NewFieldSet()
	fields.Name = "Jane"
	fields.Password = "secret1"
	return ports.FormSnapshot{
		ID:     id,
		Fields: fields,
		Errors: domain.ErrorSet{domain.FieldEmail: "Email is required"},
	}
}
