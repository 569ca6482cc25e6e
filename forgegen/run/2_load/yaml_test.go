package load_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	model "github.com/mockforge/mockforge/forgegen/run/1_model"
	load "github.com/mockforge/mockforge/forgegen/run/2_load"
)

const fullSpecYAML = `
interface: UserStore
concurrency: threadsafe
scope: exported
imports:
  - path: example.com/users
    alias: users
placeholders:
  - name: Element
    default: "[]byte"
members:
  - op:
      name: fetchUser
      params:
        - name: id
          type: string
      result: "users.User?"
      suspends: true
      mayFail: true
  - op:
      name: transform
      generics: [T]
      params:
        - name: input
          type: T
      result: T
  - property:
      name: timeout
      type: Duration
      mutable: true
  - subscript:
      params:
        - name: key
          type: string
      result: "users.User?"
      mutable: true
  - placeholder:
      name: Key
  - condition: linux
    op:
      name: epoll
`

// TestFromYAML_FullSpec proves the wire schema maps onto every member kind.
func TestFromYAML_FullSpec(t *testing.T) {
	t.Parallel()

	spec, err := load.FromYAML([]byte(fullSpecYAML))
	require.NoError(t, err)

	require.Equal(t, "UserStore", spec.InterfaceName)
	require.Equal(t, model.ConcurrencyThreadSafe, spec.Concurrency)
	require.Equal(t, model.ScopeExported, spec.Scope)

	require.Len(t, spec.Imports, 1)
	require.Equal(t, "example.com/users", spec.Imports[0].Path)
	require.Equal(t, "users", spec.Imports[0].Alias)

	require.Len(t, spec.Placeholders, 1)
	require.Equal(t, "Element", spec.Placeholders[0].Name)
	require.Equal(t, "[]byte", model.TypeString(spec.Placeholders[0].Default))

	require.Len(t, spec.Members, 6)

	fetch := spec.Members[0]
	require.Equal(t, model.KindOperation, fetch.Kind)
	require.True(t, fetch.Op.Suspends)
	require.True(t, fetch.Op.MayFail)
	require.Equal(t, "users.User?", model.TypeString(fetch.Op.Result))
	require.Equal(t, "id", fetch.Op.Params[0].Name)

	transform := spec.Members[1]
	require.Equal(t, []string{"T"}, transform.Op.Generics)

	prop := spec.Members[2]
	require.Equal(t, model.KindProperty, prop.Kind)
	require.True(t, prop.Prop.Mutable)

	sub := spec.Members[3]
	require.Equal(t, model.KindSubscript, sub.Kind)
	require.True(t, sub.Sub.Mutable)

	holder := spec.Members[4]
	require.Equal(t, model.KindPlaceholder, holder.Kind)
	require.Equal(t, "Key", holder.Alias.Name)

	conditioned := spec.Members[5]
	require.Equal(t, model.BuildCondition("linux"), conditioned.Condition)
}

// TestFromYAML_EnumDefaults proves omitted enums fall back to the weakest
// settings.
func TestFromYAML_EnumDefaults(t *testing.T) {
	t.Parallel()

	spec, err := load.FromYAML([]byte("interface: Store\nmembers:\n  - op:\n      name: ping\n"))
	require.NoError(t, err)
	require.Equal(t, model.ConcurrencyNone, spec.Concurrency)
	require.Equal(t, model.ScopeExported, spec.Scope)
}

// TestFromYAML_Errors covers decode and conversion failures.
func TestFromYAML_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		src  string
	}{
		{
			name: "not yaml",
			src:  "interface: [unclosed",
		},
		{
			name: "unknown field",
			src:  "interface: Store\nunexpected: true\n",
		},
		{
			name: "bad concurrency enum",
			src:  "interface: Store\nconcurrency: sometimes\n",
		},
		{
			name: "bad scope enum",
			src:  "interface: Store\nscope: internal\n",
		},
		{
			name: "member with no variant",
			src:  "interface: Store\nmembers:\n  - condition: linux\n",
		},
		{
			name: "member with two variants",
			src: "interface: Store\nmembers:\n" +
				"  - op:\n      name: ping\n    property:\n      name: ping\n      type: int\n",
		},
		{
			name: "malformed member type",
			src:  "interface: Store\nmembers:\n  - op:\n      name: ping\n      result: \"map[\"\n",
		},
		{
			name: "malformed placeholder default",
			src:  "interface: Store\nplaceholders:\n  - name: T\n    default: \"[]\"\n",
		},
		{
			name: "fails model validation",
			src:  "interface: Store\nmembers:\n  - subscript:\n      params: []\n      result: int\n",
		},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := load.FromYAML([]byte(testCase.src))
			require.Error(t, err)
		})
	}
}
