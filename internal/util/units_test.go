package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUnit(t *testing.T) {
	cases := map[string]string{
		"Tablespoons":      "c. à s.",
		"tbsp":             "c. à s.",
		" cuillère à café": "c. à t.",
		"TSP":              "c. à t.",
		"cups":             "tasse",
		"Grams":            "g",
		"kilogrammes":      "kg",
		"millilitres":      "ml",
		"l":                "L",
		"Litres":           "L",
		"ounces":           "oz",
		"livres":           "lb",
		"pieces":           "pièce",
		"pincées":          "pincée",
		"slices":           "tranche",
		"bunch":            "botte",
		"cans":             "boîte",
		"boites":           "boîte",
		"Cloves":           "gousse",
		"large":            "",
		"Portions":         "",
		"moyenne":          "",
		"":                 "",
		"   ":              "",
		"xyz":              "xyz",
		"  Sachet ":        "Sachet",
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizeUnit(input), "input %q", input)
	}
}

func TestNormalizeUnitIsIdempotent(t *testing.T) {
	seen := map[string]struct{}{}
	for _, canonical := range unitAliases {
		seen[canonical] = struct{}{}
	}
	seen["Sachet"] = struct{}{}
	for canonical := range seen {
		once := NormalizeUnit(canonical)
		assert.Equal(t, once, NormalizeUnit(once), "canonical %q", canonical)
	}
}

func TestIsUnitWord(t *testing.T) {
	assert.True(t, IsUnitWord("Gousse"))
	assert.True(t, IsUnitWord("large"))
	assert.False(t, IsUnitWord("ail"))
	assert.False(t, IsUnitWord(""))
}
