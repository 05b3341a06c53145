package util

import "strings"

// unitAliases maps lowercased unit spellings (English and French) to their
// canonical form. Size and serving descriptors map to "" (no unit).
var unitAliases = map[string]string{
	// spoons and cups
	"tbsp":              "c. à s.",
	"tbs":               "c. à s.",
	"tablespoon":        "c. à s.",
	"tablespoons":       "c. à s.",
	"c. à s.":           "c. à s.",
	"c.à.s.":            "c. à s.",
	"c. à soupe":        "c. à s.",
	"cuillère à soupe":  "c. à s.",
	"cuillères à soupe": "c. à s.",
	"cas":               "c. à s.",
	"tsp":               "c. à t.",
	"teaspoon":          "c. à t.",
	"teaspoons":         "c. à t.",
	"c. à t.":           "c. à t.",
	"c.à.t.":            "c. à t.",
	"c. à thé":          "c. à t.",
	"c. à café":         "c. à t.",
	"cuillère à thé":    "c. à t.",
	"cuillères à thé":   "c. à t.",
	"cuillère à café":   "c. à t.",
	"cuillères à café":  "c. à t.",
	"cac":               "c. à t.",
	"cup":               "tasse",
	"cups":              "tasse",
	"tasse":             "tasse",
	"tasses":            "tasse",

	// metric
	"g":           "g",
	"gr":          "g",
	"gram":        "g",
	"grams":       "g",
	"gramme":      "g",
	"grammes":     "g",
	"kg":          "kg",
	"kilo":        "kg",
	"kilos":       "kg",
	"kilogram":    "kg",
	"kilograms":   "kg",
	"kilogramme":  "kg",
	"kilogrammes": "kg",
	"ml":          "ml",
	"milliliter":  "ml",
	"milliliters": "ml",
	"millilitre":  "ml",
	"millilitres": "ml",
	"l":           "L",
	"liter":       "L",
	"liters":      "L",
	"litre":       "L",
	"litres":      "L",

	// imperial
	"oz":     "oz",
	"ounce":  "oz",
	"ounces": "oz",
	"once":   "oz",
	"onces":  "oz",
	"lb":     "lb",
	"lbs":    "lb",
	"pound":  "lb",
	"pounds": "lb",
	"livre":  "lb",
	"livres": "lb",

	// countable
	"piece":    "pièce",
	"pieces":   "pièce",
	"pièce":    "pièce",
	"pièces":   "pièce",
	"pc":       "pièce",
	"pcs":      "pièce",
	"pinch":    "pincée",
	"pinches":  "pincée",
	"pincée":   "pincée",
	"pincées":  "pincée",
	"slice":    "tranche",
	"slices":   "tranche",
	"tranche":  "tranche",
	"tranches": "tranche",
	"bunch":    "botte",
	"bunches":  "botte",
	"botte":    "botte",
	"bottes":   "botte",
	"can":      "boîte",
	"cans":     "boîte",
	"boîte":    "boîte",
	"boîtes":   "boîte",
	"boite":    "boîte",
	"boites":   "boîte",
	"clove":    "gousse",
	"cloves":   "gousse",
	"gousse":   "gousse",
	"gousses":  "gousse",

	// size and serving descriptors
	"small":    "",
	"medium":   "",
	"large":    "",
	"xl":       "",
	"serving":  "",
	"servings": "",
	"portion":  "",
	"portions": "",
	"petit":    "",
	"petite":   "",
	"petits":   "",
	"petites":  "",
	"moyen":    "",
	"moyenne":  "",
	"moyens":   "",
	"moyennes": "",
	"gros":     "",
	"grosse":   "",
	"grosses":  "",
	"grand":    "",
	"grande":   "",
	"grands":   "",
	"grandes":  "",
}

// NormalizeUnit maps a unit spelling to its canonical form. Unknown units are
// returned trimmed but otherwise untouched.
func NormalizeUnit(unit string) string {
	trimmed := strings.TrimSpace(unit)
	if trimmed == "" {
		return ""
	}
	if canonical, ok := unitAliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// IsUnitWord reports whether word (case-insensitive) is a known unit spelling.
func IsUnitWord(word string) bool {
	_, ok := unitAliases[strings.ToLower(strings.TrimSpace(word))]
	return ok
}
