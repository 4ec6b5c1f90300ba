package validators_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nieomylnieja/govyform/pkg/validators"
)

type upperLocalizer struct{}

func (upperLocalizer) Localize(message string) string { return "!" + message }

func TestValidators(t *testing.T) {
	str := func(s string) *string { return &s }
	checked := true
	tests := map[string]struct {
		Validator validators.Validator
		Valid     []any
		Invalid   []any
		Message   string
	}{
		"Required": {
			Validator: validators.Required(),
			Valid:     []any{"x", " x ", str("y"), 1, true, 0, false, []string{"a"}},
			Invalid:   []any{nil, "", "   ", (*string)(nil), (*int)(nil), []string{}, map[string]any{}},
			Message:   "Required",
		},
		"IsEmail": {
			Validator: validators.IsEmail(),
			Valid:     []any{nil, "", "john@example.com", "a.b@sub.example.org"},
			Invalid:   []any{"john", "john@", "@example.com"},
			Message:   "Not a valid Email Address",
		},
		"IsNumber": {
			Validator: validators.IsNumber(),
			Valid:     []any{"", "1", "-1.5", "1e3", "0.25"},
			Invalid:   []any{"abc", "1a", "1.2.3"},
			Message:   "Not a valid number",
		},
		"IsInteger": {
			Validator: validators.IsInteger(),
			Valid:     []any{"", "1", "-12", "4.0"},
			Invalid:   []any{"1.5", "x"},
			Message:   "Not a valid integer",
		},
		"IsURL": {
			Validator: validators.IsURL(),
			Valid:     []any{"", "example.com", "https://www.example.com/path?q=1", "http://foo.io"},
			Invalid:   []any{"not a url", "http://", "example"},
			Message:   "Not a valid URL",
		},
		"MinLength": {
			Validator: validators.MinLength(3),
			Valid:     []any{"abc", "abcd", str("abc")},
			Invalid:   []any{"", nil, "a", "ab"},
			Message:   "Must be at least 3 characters",
		},
		"IsChecked": {
			Validator: validators.IsChecked(),
			Valid:     []any{true, &checked},
			Invalid:   []any{false, nil, (*bool)(nil), "true"},
			Message:   "Must be checked",
		},
		"Matches": {
			Validator: validators.Matches(regexp.MustCompile(`^[a-z]+$`), "Lowercase only"),
			Valid:     []any{"", "abc"},
			Invalid:   []any{"ABC", "a1"},
			Message:   "Lowercase only",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			for _, v := range tc.Valid {
				assert.Empty(t, tc.Validator.Validate(v, nil, nil), "value: %#v", v)
			}
			for _, v := range tc.Invalid {
				assert.Equal(t, tc.Message, tc.Validator.Validate(v, nil, nil), "value: %#v", v)
			}
			assert.NotEmpty(t, tc.Validator.Description())
		})
	}
}

func TestValidator_Localizer(t *testing.T) {
	assert.Equal(t, "!Required", validators.Required().Validate("", nil, upperLocalizer{}))
	assert.Equal(t, "", validators.Required().Validate("x", nil, upperLocalizer{}))
	assert.Equal(t, "Required", validators.Required().Validate("", nil, "not a localizer"))
}

func TestStringValidators_RejectOtherTypes(t *testing.T) {
	assert.Equal(t, "expected a string, got int", validators.IsEmail().Validate(1, nil, nil))
}
