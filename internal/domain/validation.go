package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrValidation is matched by every validation failure raised locally,
// before any network call is made.
var ErrValidation = errors.New("validation failed")

// ErrNoSelection is returned when a push is requested with no clients selected.
var ErrNoSelection = fmt.Errorf("%w: no clients selected", ErrValidation)

// Field length limits applied by the create and push forms.
const (
	NameMinLength    = 2
	NameMaxLength    = 100
	EmailMaxLength   = 150
	PhoneMaxLength   = 20
	CompanyMaxLength = 200
	TitleMaxLength   = 100
	MessageMaxLength = 500
)

// Field error codes, stable across locales.
const (
	CodeRequired  = "required"
	CodeMinLength = "min_length"
	CodeMaxLength = "max_length"
	CodeEmail     = "email"
	CodePhone     = "phone"
	CodeStatus    = "status"
)

// FieldError describes one invalid field. Limit is set for length codes.
type FieldError struct {
	Field  string
	Code   string
	Limit  int
	Reason string
}

// ValidationError aggregates field errors. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) true for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Has reports whether the given field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

type validator struct {
	fields []FieldError
}

func (v *validator) add(field, code string, limit int, reason string) {
	v.fields = append(v.fields, FieldError{Field: field, Code: code, Limit: limit, Reason: reason})
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}

func (v *validator) required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		v.add(field, CodeRequired, 0, "is required")
		return false
	}
	return true
}

func (v *validator) maxLength(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		v.add(field, CodeMaxLength, max, fmt.Sprintf("must be at most %d characters", max))
	}
}

// Draft holds the fields of a client to be created.
type Draft struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Status  Status `json:"status,omitempty"`
}

// Normalize trims every field and applies the default status.
func (d Draft) Normalize() Draft {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Company = strings.TrimSpace(d.Company)
	if d.Status == "" {
		d.Status = DefaultStatus
	}
	return d
}

// Validate checks the minimal invariant every client must satisfy: a non-empty name
// and, when set, a known status.
func (d Draft) Validate() error {
	v := &validator{}
	v.required("name", d.Name)
	if d.Status != "" && !d.Status.IsValid() {
		v.add("status", CodeStatus, 0, "must be one of active, inactive, pending")
	}
	return v.err()
}

// ValidateForm applies the full set of create-form rules on top of Validate.
func (d Draft) ValidateForm() error {
	d = d.Normalize()
	v := &validator{}
	if v.required("name", d.Name) {
		if utf8.RuneCountInString(d.Name) < NameMinLength {
			v.add("name", CodeMinLength, NameMinLength, fmt.Sprintf("must be at least %d characters", NameMinLength))
		}
		v.maxLength("name", d.Name, NameMaxLength)
	}
	if d.Email != "" {
		if !IsValidEmail(d.Email) {
			v.add("email", CodeEmail, 0, "is not a valid email address")
		}
		v.maxLength("email", d.Email, EmailMaxLength)
	}
	if d.Phone != "" {
		v.maxLength("phone", d.Phone, PhoneMaxLength)
		if !IsValidPhone(d.Phone) {
			v.add("phone", CodePhone, 0, "is not a valid phone number")
		}
	}
	v.maxLength("company", d.Company, CompanyMaxLength)
	if !d.Status.IsValid() {
		v.add("status", CodeStatus, 0, "must be one of active, inactive, pending")
	}
	return v.err()
}

// IsValidEmail reports whether value is a bare email address.
func IsValidEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	if err != nil {
		return false
	}
	return addr.Address == value && addr.Name == ""
}

var (
	phoneStrip    = regexp.MustCompile(`[^+\d]`)
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\+7[0-9]{10}$`),
		regexp.MustCompile(`^8[0-9]{10}$`),
		regexp.MustCompile(`^7[0-9]{10}$`),
		regexp.MustCompile(`^\+7\s?\(?[0-9]{3}\)?[\s-]?[0-9]{3}[\s-]?[0-9]{2}[\s-]?[0-9]{2}$`),
	}
)

// IsValidPhone accepts Russian numbers either as typed or with punctuation removed.
func IsValidPhone(value string) bool {
	value = strings.TrimSpace(value)
	clean := phoneStrip.ReplaceAllString(value, "")
	if len(strings.ReplaceAll(clean, "+", "")) < 7 {
		return false
	}
	for _, p := range phonePatterns {
		if p.MatchString(value) || p.MatchString(clean) {
			return true
		}
	}
	return false
}

// ValidatePush checks the title and message of a push notification.
func ValidatePush(title, message string) error {
	v := &validator{}
	if v.required("title", title) {
		v.maxLength("title", title, TitleMaxLength)
	}
	if v.required("message", message) {
		v.maxLength("message", message, MessageMaxLength)
	}
	return v.err()
}

// ValidateCredentials checks the login form.
func ValidateCredentials(login, password string) error {
	v := &validator{}
	for _, f := range []struct{ name, value string }{{"login", login}, {"password", password}} {
		if v.required(f.name, f.value) && utf8.RuneCountInString(f.value) < 3 {
			v.add(f.name, CodeMinLength, 3, "must be at least 3 characters")
		}
	}
	return v.err()
}
