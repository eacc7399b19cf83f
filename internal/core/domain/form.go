package domain

// Field names a single input of the sign-up or sign-in forms.
type Field string

const (
	FieldName            Field = "name"
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirmPassword"
	FieldRole            Field = "role"
	FieldStudentID       Field = "studentId"
	FieldDepartment      Field = "department"
)

// SignupFields lists every field of the sign-up form in display order.
var SignupFields = []Field{
	FieldName,
	FieldEmail,
	FieldRole,
	FieldStudentID,
	FieldDepartment,
	FieldPassword,
	FieldConfirmPassword,
}

// Valid reports whether f is a known sign-up field.
func (f Field) Valid() bool {
	for _, known := range SignupFields {
		if known == f {
			return true
		}
	}
	return false
}

// FieldSet holds the current values of the sign-up form.
type FieldSet struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            Role   `json:"role"`
	StudentID       string `json:"studentId"`
	Department      string `json:"department"`
}

// NewFieldSet returns an empty form with the default role selected.
func NewFieldSet() FieldSet {
	return FieldSet{Role: DefaultRole}
}

// Get returns the value of f, or "" for an unknown field.
func (fs FieldSet) Get(f Field) string {
	switch f {
	case FieldName:
		return fs.Name
	case FieldEmail:
		return fs.Email
	case FieldPassword:
		return fs.Password
	case FieldConfirmPassword:
		return fs.ConfirmPassword
	case FieldRole:
		return string(fs.Role)
	case FieldStudentID:
		return fs.StudentID
	case FieldDepartment:
		return fs.Department
	}
	return ""
}

// Set assigns value to f. Role values are stored verbatim; validity of the
// role is enforced where it enters the system.
func (fs *FieldSet) Set(f Field, value string) error {
	switch f {
	case FieldName:
		fs.Name = value
	case FieldEmail:
		fs.Email = value
	case FieldPassword:
		fs.Password = value
	case FieldConfirmPassword:
		fs.ConfirmPassword = value
	case FieldRole:
		fs.Role = Role(value)
	case FieldStudentID:
		fs.StudentID = value
	case FieldDepartment:
		fs.Department = value
	default:
		return ErrUnknownField
	}
	return nil
}

// ErrorSet maps a field to its current validation message.
// A missing or empty entry means the field has no error.
type ErrorSet map[Field]string

// Has reports whether f currently carries a message.
func (e ErrorSet) Has(f Field) bool {
	return e[f] != ""
}

// Clear removes the message for f.
func (e ErrorSet) Clear(f Field) {
	delete(e, f)
}

// Clone returns an independent copy; nil stays nil.
func (e ErrorSet) Clone() ErrorSet {
	if e == nil {
		return nil
	}
	out := make(ErrorSet, len(e))
	for k, v := range e {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
