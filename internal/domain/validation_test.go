package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftValidate(t *testing.T) {
	assert.NoError(t, Draft{Name: "Ann"}.Validate())

	err := Draft{Name: "   "}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("name"))

	err = Draft{Name: "Ann", Status: "archived"}.Validate()
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("status"))
}

func TestDraftValidateForm(t *testing.T) {
	tests := []struct {
		name      string
		draft     Draft
		badFields []string
	}{
		{"minimal", Draft{Name: "Ann"}, nil},
		{"full", Draft{Name: "Мария Петрова", Email: "maria@example.com", Phone: "+7 909 234-56-78", Company: "ИП", Status: StatusPending}, nil},
		{"short name", Draft{Name: "A"}, []string{"name"}},
		{"long name", Draft{Name: strings.Repeat("x", 101)}, []string{"name"}},
		{"bad email", Draft{Name: "Ann", Email: "not-an-email"}, []string{"email"}},
		{"email with display name", Draft{Name: "Ann", Email: "Ann <ann@example.com>"}, []string{"email"}},
		{"bad phone", Draft{Name: "Ann", Phone: "12345"}, []string{"phone"}},
		{"long company", Draft{Name: "Ann", Company: strings.Repeat("c", 201)}, []string{"company"}},
		{"bad status", Draft{Name: "Ann", Status: "gone"}, []string{"status"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.ValidateForm()
			if len(tt.badFields) == 0 {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			for _, f := range tt.badFields {
				assert.True(t, verr.Has(f), "expected %s to be invalid: %v", f, err)
			}
		})
	}
}

func TestDraftNormalize(t *testing.T) {
	d := Draft{Name: "  Ann ", Email: " a@b.co ", Phone: " ", Company: "\tACME\n"}.Normalize()
	assert.Equal(t, Draft{Name: "Ann", Email: "a@b.co", Phone: "", Company: "ACME", Status: StatusActive}, d)
}

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"+79091234567", true},
		{"89091234567", true},
		{"79091234567", true},
		{"+7 909 123-45-67", true},
		{"+7 (909) 123-45-67", true},
		{"+1 555 0100", false},
		{"123", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidPhone(tt.phone))
		})
	}
}

func TestValidatePush(t *testing.T) {
	assert.NoError(t, ValidatePush("Hello", "World"))

	var verr *ValidationError
	require.ErrorAs(t, ValidatePush("", "World"), &verr)
	assert.True(t, verr.Has("title"))

	require.ErrorAs(t, ValidatePush("Hi", strings.Repeat("m", 501)), &verr)
	assert.True(t, verr.Has("message"))
	assert.False(t, verr.Has("title"))
}

func TestValidateCredentials(t *testing.T) {
	assert.NoError(t, ValidateCredentials("admin", "secret"))

	var verr *ValidationError
	require.ErrorAs(t, ValidateCredentials("ad", ""), &verr)
	assert.True(t, verr.Has("login"))
	assert.True(t, verr.Has("password"))
}

func TestErrNoSelectionIsValidation(t *testing.T) {
	assert.True(t, errors.Is(ErrNoSelection, ErrValidation))
}
