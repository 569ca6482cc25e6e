package load_test

import (
	"testing"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"github.com/stretchr/testify/require"

	model "github.com/mockforge/mockforge/forgegen/run/1_model"
	load "github.com/mockforge/mockforge/forgegen/run/2_load"
)

func parseFiles(t *testing.T, sources ...string) []*dst.File {
	t.Helper()

	files := make([]*dst.File, 0, len(sources))

	for _, src := range sources {
		file, err := decorator.Parse(src)
		require.NoError(t, err)

		files = append(files, file)
	}

	return files
}

const storeSource = `package store

import (
	"context"

	users "example.com/users"
)

//forgegen:threadsafe
type UserStore interface {
	FetchUser(ctx context.Context, id string) (*users.User, error)
	Save(ctx context.Context, user users.User) error
	Count() int
	Watch(callback func(users.User) bool)
	Tags(names ...string) map[string][]users.User
}
`

// TestFromGoInterface_SignatureMapping proves context parameters, error
// results, and Go type shapes fold into the member model.
func TestFromGoInterface_SignatureMapping(t *testing.T) {
	t.Parallel()

	spec, err := load.FromGoInterface(parseFiles(t, storeSource), "UserStore")
	require.NoError(t, err)

	require.Equal(t, "UserStore", spec.InterfaceName)
	require.Equal(t, model.ConcurrencyThreadSafe, spec.Concurrency)
	require.Equal(t, model.ScopeExported, spec.Scope)

	require.Len(t, spec.Imports, 2)
	require.Equal(t, "example.com/users", spec.Imports[1].Path)
	require.Equal(t, "users", spec.Imports[1].Alias)

	ops := spec.Operations()
	require.Len(t, ops, 5)

	fetch := ops[0]
	require.True(t, fetch.Suspends)
	require.True(t, fetch.MayFail)
	require.Len(t, fetch.Params, 1)
	require.Equal(t, "id", fetch.Params[0].Name)
	require.Equal(t, "users.User?", model.TypeString(fetch.Result))

	save := ops[1]
	require.True(t, save.Suspends)
	require.True(t, save.MayFail)
	require.Nil(t, save.Result)

	count := ops[2]
	require.False(t, count.Suspends)
	require.False(t, count.MayFail)
	require.Equal(t, "int", model.TypeString(count.Result))

	watch := ops[3]
	require.Equal(t, "func(users.User) bool", model.TypeString(watch.Params[0].Type))

	tags := ops[4]
	require.Equal(t, "[]string", model.TypeString(tags.Params[0].Type))
	require.Equal(t, "map[string][]users.User", model.TypeString(tags.Result))
}

// TestFromGoInterface_TypeParamsBecomePlaceholders proves interface type
// parameters land as placeholders and scope follows the name's case.
func TestFromGoInterface_TypeParamsBecomePlaceholders(t *testing.T) {
	t.Parallel()

	src := `package store

type repo[K comparable, V any] interface {
	Get(key K) V
}
`

	spec, err := load.FromGoInterface(parseFiles(t, src), "repo")
	require.NoError(t, err)

	require.Equal(t, model.ScopeUnexported, spec.Scope)
	require.Len(t, spec.Placeholders, 2)
	require.Equal(t, "K", spec.Placeholders[0].Name)
	require.Equal(t, "V", spec.Placeholders[1].Name)
}

// TestFromGoInterface_BuildTagLiftsOntoMembers proves a declaring file's
// build constraint conditions every extracted member.
func TestFromGoInterface_BuildTagLiftsOntoMembers(t *testing.T) {
	t.Parallel()

	src := `//go:build linux && amd64

package store

type Prober interface {
	Epoll() error
}
`

	spec, err := load.FromGoInterface(parseFiles(t, src), "Prober")
	require.NoError(t, err)

	require.Len(t, spec.Members, 1)
	require.Equal(t, "linux && amd64", spec.Members[0].Condition.Normalized())
}

// TestFromGoInterface_IsolatedDirective proves the isolation directive maps
// onto the strongest concurrency requirement.
func TestFromGoInterface_IsolatedDirective(t *testing.T) {
	t.Parallel()

	src := `package store

//forgegen:isolated
type Bus interface {
	Publish(topic string)
}
`

	spec, err := load.FromGoInterface(parseFiles(t, src), "Bus")
	require.NoError(t, err)
	require.Equal(t, model.ConcurrencyIsolationDomain, spec.Concurrency)
}

// TestFromGoInterface_SkipsEmbeddedInterfaces proves embedded names are
// ignored rather than mis-parsed.
func TestFromGoInterface_SkipsEmbeddedInterfaces(t *testing.T) {
	t.Parallel()

	src := `package store

import "io"

type Sink interface {
	io.Closer
	Flush() error
}
`

	spec, err := load.FromGoInterface(parseFiles(t, src), "Sink")
	require.NoError(t, err)

	require.Len(t, spec.Members, 1)
	require.Equal(t, "Flush", spec.Members[0].Op.Name)
}

// TestFromGoInterface_Errors covers lookup and conversion failures.
func TestFromGoInterface_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		src       string
		lookup     string
	}{
		{
			name:       "interface not found",
			src:        "package store\n\ntype Other struct{}\n",
			lookup: "Missing",
		},
		{
			name:       "name is a struct",
			src:        "package store\n\ntype Thing struct{}\n",
			lookup: "Thing",
		},
		{
			name:       "multiple non-error results",
			src:        "package store\n\ntype Pair interface {\n\tBoth() (int, string)\n}\n",
			lookup: "Pair",
		},
		{
			name:       "fixed-size array unsupported",
			src:        "package store\n\ntype Block interface {\n\tSum(data [32]byte)\n}\n",
			lookup: "Block",
		},
		{
			name:       "channel unsupported",
			src:        "package store\n\ntype Feed interface {\n\tStream() chan int\n}\n",
			lookup: "Feed",
		},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := load.FromGoInterface(parseFiles(t, testCase.src), testCase.lookup)
			require.Error(t, err)
		})
	}
}
