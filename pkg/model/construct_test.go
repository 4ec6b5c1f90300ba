package model

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shape struct {
	Kind   string  `json:"kind"`
	Radius float64 `json:"radius,omitempty"`
	Side   float64 `json:"side,omitempty"`
}

type drawing struct {
	Name    string         `json:"name"`
	Meta    map[string]any `json:"meta"`
	Main    *shape         `json:"main"`
	Extra   any            `json:"extra"`
	Parent  string         `json:"-"`
	Created string         `json:"created"`
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, Register[branch](r,
		One[leaf]("leaf"),
		Many[leaf]("leaves"),
		Keyed[leaf]("byName"),
	))
	return r
}

func TestRegistry_Instantiate(t *testing.T) {
	r := newTestRegistry(t)

	t.Run("builds nested associations", func(t *testing.T) {
		data := map[string]any{
			"name":   "root",
			"leaf":   map[string]any{"value": "one"},
			"leaves": []any{map[string]any{"value": "a"}, map[string]any{"value": "b"}},
			"byName": map[string]any{"x": map[string]any{"value": "X"}, "y": nil},
			"ignore": "me",
		}
		b, err := CreateFrom[branch](r, data)
		require.NoError(t, err)

		expected := &branch{
			Name:   "root",
			Leaf:   &leaf{Value: "one"},
			Leaves: []leaf{{Value: "a"}, {Value: "b"}},
			ByName: map[string]*leaf{"x": {Value: "X"}, "y": nil},
		}
		if diff := cmp.Diff(expected, b); diff != "" {
			t.Errorf("unexpected model (-want +got):\n%s", diff)
		}
	})

	t.Run("nil data initializes empty collections", func(t *testing.T) {
		b, err := CreateFrom[branch](r, nil)
		require.NoError(t, err)
		assert.Nil(t, b.Leaf)
		assert.NotNil(t, b.Leaves)
		assert.Empty(t, b.Leaves)
		assert.NotNil(t, b.ByName)
		assert.Empty(t, b.ByName)
	})

	t.Run("absent association sources", func(t *testing.T) {
		b, err := CreateFrom[branch](r, map[string]any{"name": "x", "leaf": nil})
		require.NoError(t, err)
		assert.Nil(t, b.Leaf)
		assert.Equal(t, []leaf{}, b.Leaves)
		assert.Equal(t, map[string]*leaf{}, b.ByName)
	})

	t.Run("does not alias associated data", func(t *testing.T) {
		leafData := map[string]any{"value": "one"}
		b, err := CreateFrom[branch](r, map[string]any{"leaf": leafData})
		require.NoError(t, err)
		b.Leaf.Value = "changed"
		assert.Equal(t, "one", leafData["value"])
	})

	t.Run("aliases plain reference fields", func(t *testing.T) {
		meta := map[string]any{"a": 1}
		d, err := CreateFrom[drawing](r, map[string]any{"meta": meta})
		require.NoError(t, err)
		d.Meta["b"] = 2
		assert.Equal(t, 2, meta["b"])
	})

	t.Run("accepts structs and raw JSON", func(t *testing.T) {
		b, err := CreateFrom[branch](r, branch{Name: "typed", Leaves: []leaf{{Value: "a"}}})
		require.NoError(t, err)
		assert.Equal(t, "typed", b.Name)
		assert.Equal(t, []leaf{{Value: "a"}}, b.Leaves)

		b, err = CreateFrom[branch](r, json.RawMessage(`{"name":"raw","leaf":{"value":"v"}}`))
		require.NoError(t, err)
		assert.Equal(t, &leaf{Value: "v"}, b.Leaf)
	})

	t.Run("rejects non object data", func(t *testing.T) {
		_, err := CreateFrom[branch](r, "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "data must be an object")

		_, err = CreateFrom[branch](r, map[string]any{"leaves": "nope"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected an array")
	})

	t.Run("rejects non struct types", func(t *testing.T) {
		_, err := r.Instantiate(reflect.TypeOf(""), nil, nil)
		require.Error(t, err)
	})
}

func TestRegistry_Instantiate_Custom(t *testing.T) {
	r := NewRegistry()
	var parents []any
	require.NoError(t, Register[drawing](r,
		Custom("main", func(data, parent any) (any, error) {
			parents = append(parents, parent)
			m, _ := data.(map[string]any)
			s := &shape{Kind: "unknown"}
			if kind, ok := m["kind"].(string); ok {
				s.Kind = kind
			}
			if s.Kind == "circle" {
				s.Radius = 1
			} else {
				s.Side = 1
			}
			return s, nil
		}),
	))

	d, err := CreateFrom[drawing](r, map[string]any{"name": "d", "main": map[string]any{"kind": "circle"}})
	require.NoError(t, err)
	assert.Equal(t, &shape{Kind: "circle", Radius: 1}, d.Main)
	require.Len(t, parents, 1)
	assert.IsType(t, &drawing{}, parents[0])

	d, err = CreateFrom[drawing](r, map[string]any{"name": "d"})
	require.NoError(t, err)
	assert.Equal(t, &shape{Kind: "unknown", Side: 1}, d.Main)

	d, err = CreateFrom[drawing](r, nil)
	require.NoError(t, err)
	assert.Nil(t, d.Main, "factories are not called without data")
}

func TestCreateFromArray(t *testing.T) {
	r := newTestRegistry(t)
	out, err := CreateFromArray[leaf](r, []any{map[string]any{"value": "a"}, map[string]any{"value": "b"}})
	require.NoError(t, err)
	assert.Equal(t, []*leaf{{Value: "a"}, {Value: "b"}}, out)

	_, err = CreateFromArray[leaf](r, []any{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "element 0")
}

func TestCreateFromYAML(t *testing.T) {
	r := newTestRegistry(t)
	b, err := CreateFromYAML[branch](r, []byte(`
name: yaml
leaf:
  value: one
leaves:
  - value: a
byName:
  k:
    value: v
`))
	require.NoError(t, err)
	expected := &branch{
		Name:   "yaml",
		Leaf:   &leaf{Value: "one"},
		Leaves: []leaf{{Value: "a"}},
		ByName: map[string]*leaf{"k": {Value: "v"}},
	}
	assert.Equal(t, expected, b)
}

func TestClone(t *testing.T) {
	r := newTestRegistry(t)
	orig := &branch{
		Name:   "orig",
		Leaf:   &leaf{Value: "one"},
		Leaves: []leaf{{Value: "a"}},
		ByName: map[string]*leaf{"k": {Value: "v"}},
	}
	clone, err := Clone(r, orig)
	require.NoError(t, err)
	assert.Equal(t, orig, clone)

	clone.Leaf.Value = "changed"
	clone.Leaves[0].Value = "changed"
	clone.ByName["k"].Value = "changed"
	assert.Equal(t, "one", orig.Leaf.Value)
	assert.Equal(t, "a", orig.Leaves[0].Value)
	assert.Equal(t, "v", orig.ByName["k"].Value)

	empty, err := Clone[branch](r, nil)
	require.NoError(t, err)
	assert.Equal(t, "", empty.Name)
	assert.Empty(t, empty.Leaves)

	_, err = Clone(r, &drawing{Extra: func() {}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to clone")
}

type Audit struct {
	CreatedBy string `json:"createdBy"`
}

type audited struct {
	*Audit
	Name   string  `json:"name"`
	Leaves []*leaf `json:"leaves"`
}

func TestRegistry_Instantiate_EmbeddedPointer(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, Register[audited](r, Many[leaf]("leaves")))

	t.Run("allocates the embedded struct for promoted keys", func(t *testing.T) {
		a, err := CreateFrom[audited](r, map[string]any{"name": "n", "createdBy": "ann"})
		require.NoError(t, err)
		require.NotNil(t, a.Audit)
		assert.Equal(t, "ann", a.CreatedBy)
		assert.Equal(t, "n", a.Name)
	})

	t.Run("leaves the embedded struct nil without promoted keys", func(t *testing.T) {
		a, err := CreateFrom[audited](r, map[string]any{"name": "n"})
		require.NoError(t, err)
		assert.Nil(t, a.Audit)
		assert.NotNil(t, a.Leaves)
	})

	t.Run("clones", func(t *testing.T) {
		orig := &audited{Audit: &Audit{CreatedBy: "bob"}, Name: "n", Leaves: []*leaf{{Value: "a"}}}
		var clone *audited
		var err error
		require.NotPanics(t, func() { clone, err = Clone(r, orig) })
		require.NoError(t, err)
		if diff := cmp.Diff(orig, clone); diff != "" {
			t.Errorf("unexpected model (-want +got):\n%s", diff)
		}
		assert.NotSame(t, orig.Audit, clone.Audit)
	})
}
