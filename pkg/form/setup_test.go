package form_test

import (
	"bytes"
	"log/slog"
	"reflect"
	"testing"

	"github.com/nobl9/govy/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nieomylnieja/govyform/internal/testmodels"
	"github.com/nieomylnieja/govyform/pkg/form"
	"github.com/nieomylnieja/govyform/pkg/validators"
)

func TestNew_SetupDefects(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	p, err := form.New(func(s *form.Setup[modelE]) {
		s.Field("missing", "Missing")
		s.Field("hey", "Hey")
		s.Field("hey", "Hey again")
		s.Field("hey", "Hey", nil)
		s.Form("b", "B", nil)
		s.Form("b", "B", formC)
		s.FormArray("b", "B", formB)
		s.FormMap("cs", "Cs", formC)
		s.FieldWith("hey", "Hey", nil)
	}, form.WithLogger(logger))

	assert.Nil(t, p)
	var setupErr *form.SetupError
	require.ErrorAs(t, err, &setupErr)
	assert.Equal(t, "modelE", setupErr.Type.Name)
	require.Len(t, setupErr.Defects, 8)
	assert.Contains(t, setupErr.Defects[0], `field "missing" not found`)
	assert.Contains(t, setupErr.Defects[1], `field "hey" declared more than once`)
	assert.Contains(t, setupErr.Defects[2], `field "hey" declared more than once`)
	assert.Contains(t, setupErr.Defects[3], `nested projection of "b" is nil`)
	assert.Contains(t, setupErr.Defects[4], `cannot hold`)
	assert.Contains(t, setupErr.Defects[5], `is not a slice`)
	assert.Contains(t, setupErr.Defects[6], `is not a string keyed map`)
	assert.Contains(t, setupErr.Defects[7], `field "hey" declared more than once`)
	assert.Contains(t, logs.String(), "invalid form field")
}

func TestNew_NilValidator(t *testing.T) {
	_, err := form.New(func(s *form.Setup[modelA]) {
		s.Field("field1", "Field 1", validators.Required(), nil)
	}, form.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	var setupErr *form.SetupError
	require.ErrorAs(t, err, &setupErr)
	assert.Equal(t, []string{`validator 1 of "field1" is nil`}, setupErr.Defects)
}

func TestNew_NonStructModel(t *testing.T) {
	_, err := form.New[string](nil, form.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	var setupErr *form.SetupError
	require.ErrorAs(t, err, &setupErr)
	assert.Equal(t, []string{"model type must be a struct"}, setupErr.Defects)
}

func TestMustNew_Panics(t *testing.T) {
	assert.Panics(t, func() {
		form.MustNew(func(s *form.Setup[modelA]) {
			s.Field("nope", "Nope")
		}, form.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	})
}

func TestProjection_Fields(t *testing.T) {
	p := form.MustNew(func(s *form.Setup[testmodels.Account]) {
		s.Field("email", "Email", validators.Required(), validators.IsEmail())
		s.FieldWith("confirm", "Confirm", func(b *form.ValidatorBuilder[testmodels.Account]) {
			b.EqualTo("password", "")
		})
		s.FormArray("contacts", "Contacts", form.MustNew(func(s *form.Setup[testmodels.Contact]) {
			s.Field("name", "Name")
		}))
	}, form.WithName("signup"))

	assert.Equal(t, "signup", p.Name())
	assert.Equal(t, reflect.TypeOf(testmodels.Account{}), p.ModelType())

	descriptors := p.Fields()
	require.Len(t, descriptors, 3)
	assert.Equal(t, form.Descriptor{
		Key:        "email",
		Label:      "Email",
		Kind:       form.KindScalar,
		Type:       reflect.TypeOf(""),
		Validators: []string{"value is required", "must be a valid email address"},
	}, descriptors[0])
	assert.Equal(t, form.KindScalar, descriptors[1].Kind)
	assert.Len(t, descriptors[1].Validators, 1)
	assert.Equal(t, form.KindFormArray, descriptors[2].Kind)
	assert.Equal(t, reflect.TypeOf(testmodels.Contact{}), descriptors[2].Child.ModelType())
}

func TestKind_String(t *testing.T) {
	for kind, expected := range map[form.Kind]string{
		form.KindScalar:    "scalar",
		form.KindForm:      "form",
		form.KindFormArray: "formArray",
		form.KindFormMap:   "formMap",
		form.Kind(42):      "unknown",
	} {
		assert.Equal(t, expected, kind.String())
	}
}

func TestRule(t *testing.T) {
	v := form.Rule(rules.StringNotEmpty())
	assert.Equal(t, "", v.Validate("x", nil, nil))
	assert.NotEmpty(t, v.Validate("", nil, nil))
	assert.NotEmpty(t, v.Validate(nil, nil, nil))
	assert.Equal(t, "expected string value, got int", v.Validate(1, nil, nil))
}
