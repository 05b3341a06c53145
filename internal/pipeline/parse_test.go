package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoplist/internal"
)

func TestParseIngredientsSummary(t *testing.T) {
	got := ParseIngredientsSummary("2 cups flour, 1 gousse ail, tomato")
	want := []internal.RawIngredient{
		{Name: "flour", Quantity: 2, Unit: "tasse"},
		{Name: "ail", Quantity: 1, Unit: "gousse"},
		{Name: "tomato", Quantity: 1, Unit: ""},
	}
	assert.Equal(t, want, got)
}

func TestParseFragmentTiers(t *testing.T) {
	cases := []struct {
		name     string
		fragment string
		want     internal.RawIngredient
	}{
		{name: "decimal comma", fragment: "1,5 kg pommes de terre", want: internal.RawIngredient{Name: "pommes de terre", Quantity: 1.5, Unit: "kg"}},
		{name: "decimal dot", fragment: "0.5 tsp salt", want: internal.RawIngredient{Name: "salt", Quantity: 0.5, Unit: "c. à t."}},
		{name: "glued unit", fragment: "200g farine", want: internal.RawIngredient{Name: "farine", Quantity: 200, Unit: "g"}},
		{name: "size descriptor", fragment: "3 large eggs", want: internal.RawIngredient{Name: "eggs", Quantity: 3, Unit: ""}},
		{name: "three word unit", fragment: "1 c. à s. huile d'olive", want: internal.RawIngredient{Name: "huile d'olive", Quantity: 1, Unit: "c. à s."}},
		{name: "known unit before two word name", fragment: "1 tasse farine blanche", want: internal.RawIngredient{Name: "farine blanche", Quantity: 1, Unit: "tasse"}},
		{name: "unknown unit passthrough", fragment: "2 sachets levure", want: internal.RawIngredient{Name: "levure", Quantity: 2, Unit: "sachets"}},
		{name: "trailing unit word", fragment: "ail gousses", want: internal.RawIngredient{Name: "ail", Quantity: 1, Unit: "gousse"}},
		{name: "trailing unit case", fragment: "Basilic Botte", want: internal.RawIngredient{Name: "Basilic", Quantity: 1, Unit: "botte"}},
		{name: "number without name", fragment: "2 tomatoes", want: internal.RawIngredient{Name: "2 tomatoes", Quantity: 1, Unit: ""}},
		{name: "single unit word", fragment: "pinch", want: internal.RawIngredient{Name: "pinch", Quantity: 1, Unit: ""}},
		{name: "plain", fragment: "sel et poivre", want: internal.RawIngredient{Name: "sel et poivre", Quantity: 1, Unit: ""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseFragment(tc.fragment))
		})
	}
}

func TestParseIngredientsSummaryEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", ",", " , ,"} {
		got := ParseIngredientsSummary(input)
		require.NotNil(t, got)
		assert.Empty(t, got, "input %q", input)
	}
}

func TestParseIngredientsSummaryKeepsOrder(t *testing.T) {
	got := ParseIngredientsSummary("c, b ,a,,  d")
	require.Len(t, got, 4)
	names := []string{got[0].Name, got[1].Name, got[2].Name, got[3].Name}
	assert.Equal(t, []string{"c", "b", "a", "d"}, names)
}
