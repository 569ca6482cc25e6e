package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	model "github.com/mockforge/mockforge/forgegen/run/1_model"
)

// TestBuildCondition_IsZero proves blank conditions mean unconditioned.
func TestBuildCondition_IsZero(t *testing.T) {
	t.Parallel()

	require.True(t, model.BuildCondition("").IsZero())
	require.True(t, model.BuildCondition("   \t").IsZero())
	require.False(t, model.BuildCondition("linux && amd64").IsZero())
}

// TestBuildCondition_Normalized proves whitespace runs collapse so
// equivalent spellings land in the same group.
func TestBuildCondition_Normalized(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want string
	}{
		{raw: "linux", want: "linux"},
		{raw: "  linux  &&   amd64 ", want: "linux && amd64"},
		{raw: "linux\t&&\namd64", want: "linux && amd64"},
	}

	for _, testCase := range cases {
		require.Equal(t, testCase.want, model.BuildCondition(testCase.raw).Normalized())
	}
}

// TestMemberKind_String covers the diagnostic names.
func TestMemberKind_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "operation", model.KindOperation.String())
	require.Equal(t, "property", model.KindProperty.String())
	require.Equal(t, "subscript", model.KindSubscript.String())
	require.Equal(t, "placeholder", model.KindPlaceholder.String())
}

// TestConcurrencyRequirement_String covers the spec-file spellings.
func TestConcurrencyRequirement_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "none", model.ConcurrencyNone.String())
	require.Equal(t, "threadsafe", model.ConcurrencyThreadSafe.String())
	require.Equal(t, "isolated", model.ConcurrencyIsolationDomain.String())
}

// TestAllPlaceholders_Order proves spec-level placeholders come before
// placeholder members, both in declaration order.
func TestAllPlaceholders_Order(t *testing.T) {
	t.Parallel()

	spec := model.MockSpec{
		InterfaceName: "Store",
		Placeholders: []model.TypePlaceholder{
			{Name: "Element"},
			{Name: "Key"},
		},
		Members: []model.Member{
			{Kind: model.KindPlaceholder, Alias: &model.TypePlaceholder{Name: "Value"}},
		},
	}

	all := spec.AllPlaceholders()
	require.Len(t, all, 3)
	require.Equal(t, "Element", all[0].Name)
	require.Equal(t, "Key", all[1].Name)
	require.Equal(t, "Value", all[2].Name)
}

// TestOperations_FiltersByKind proves only operation members are returned.
func TestOperations_FiltersByKind(t *testing.T) {
	t.Parallel()

	spec := model.MockSpec{
		InterfaceName: "Store",
		Members: []model.Member{
			{Kind: model.KindOperation, Op: &model.Operation{Name: "fetch"}},
			{Kind: model.KindProperty, Prop: &model.Property{Name: "size", Type: model.MustParseType("int")}},
			{Kind: model.KindOperation, Op: &model.Operation{Name: "save"}},
		},
	}

	ops := spec.Operations()
	require.Len(t, ops, 2)
	require.Equal(t, "fetch", ops[0].Name)
	require.Equal(t, "save", ops[1].Name)
}

// TestIsOptional covers the outermost-layer check.
func TestIsOptional(t *testing.T) {
	t.Parallel()

	require.True(t, model.IsOptional(model.MustParseType("User?")))
	require.True(t, model.IsOptional(model.MustParseType("User!")))
	require.False(t, model.IsOptional(model.MustParseType("[]User?")))
	require.False(t, model.IsOptional(model.MustParseType("User")))
}

// TestErased covers the universal erased type helpers.
func TestErased(t *testing.T) {
	t.Parallel()

	require.True(t, model.IsErased(model.Erased()))
	require.False(t, model.IsErased(model.MustParseType("User")))
	require.False(t, model.IsErased(model.MustParseType("any?")))
	require.Equal(t, "any", model.TypeString(model.Erased()))
}
