package formdoc

import (
	"testing"

	js "github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema(t *testing.T) {
	schema := Schema(accountForm)
	require.NotNil(t, schema)
	assert.Equal(t, "Account", schema.Title)
	assert.Equal(t, "object", schema.Type)

	property := func(t *testing.T, s *js.Schema, key string) *js.Schema {
		t.Helper()
		require.NotNil(t, s)
		require.NotNil(t, s.Properties)
		prop, ok := s.Properties.Get(key)
		require.True(t, ok, key)
		return prop
	}

	email := property(t, schema, "email")
	assert.Equal(t, "Email", email.Title)
	assert.Equal(t, "value is required, then must be a valid email address", email.Description)

	password := property(t, schema, "password")
	assert.Equal(t, "Password", password.Title)
	assert.Empty(t, password.Description)

	website := property(t, schema, "website")
	assert.Empty(t, website.Title, "undeclared fields are left as reflected")

	street := property(t, property(t, schema, "address"), "street")
	assert.Equal(t, "Street", street.Title)

	contacts := property(t, schema, "contacts")
	assert.Equal(t, "Contacts", contacts.Title)
	assert.Equal(t, "Name", property(t, contacts.Items, "name").Title)

	settings := property(t, schema, "settings")
	assert.Equal(t, "Cadence", property(t, settings.AdditionalProperties, "cadence").Title)

	_, found := schema.Properties.Get("internal")
	assert.False(t, found)
}
