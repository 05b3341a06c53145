package util

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	reSpaces     = regexp.MustCompile(`\s+`)
	reNonAllowed = regexp.MustCompile(`[^\p{L}\p{N}\s'-]`)
)

// ingredientSynonyms maps French names and irregular English plurals to the
// English singular used as a dedup key.
var ingredientSynonyms = map[string]string{
	"tomate":            "tomato",
	"tomates":           "tomato",
	"tomatoes":          "tomato",
	"pomme de terre":    "potato",
	"pommes de terre":   "potato",
	"potatoes":          "potato",
	"oignon":            "onion",
	"oignons":           "onion",
	"onions":            "onion",
	"ail":               "garlic",
	"carotte":           "carrot",
	"carottes":          "carrot",
	"carrots":           "carrot",
	"courgette":         "zucchini",
	"courgettes":        "zucchini",
	"zucchinis":         "zucchini",
	"épinard":           "spinach",
	"épinards":          "spinach",
	"poivron":           "bell pepper",
	"poivrons":          "bell pepper",
	"champignon":        "mushroom",
	"champignons":       "mushroom",
	"concombre":         "cucumber",
	"concombres":        "cucumber",
	"brocoli":           "broccoli",
	"chou-fleur":        "cauliflower",
	"poireau":           "leek",
	"poireaux":          "leek",
	"citron":            "lemon",
	"citrons":           "lemon",
	"citron vert":       "lime",
	"pomme":             "apple",
	"pommes":            "apple",
	"banane":            "banana",
	"bananes":           "banana",
	"fraise":            "strawberry",
	"fraises":           "strawberry",
	"avocat":            "avocado",
	"avocats":           "avocado",
	"avocados":          "avocado",
	"mangoes":           "mango",
	"poulet":            "chicken",
	"blanc de poulet":   "chicken breast",
	"blancs de poulet":  "chicken breast",
	"boeuf":             "beef",
	"bœuf":              "beef",
	"boeuf haché":       "ground beef",
	"bœuf haché":        "ground beef",
	"porc":              "pork",
	"saumon":            "salmon",
	"thon":              "tuna",
	"crevette":          "shrimp",
	"crevettes":         "shrimp",
	"oeuf":              "egg",
	"oeufs":             "egg",
	"œuf":               "egg",
	"œufs":              "egg",
	"eggs":              "egg",
	"lait":              "milk",
	"beurre":            "butter",
	"fromage":           "cheese",
	"yaourt":            "yogurt",
	"yaourts":           "yogurt",
	"crème":             "cream",
	"pain":              "bread",
	"farine":            "flour",
	"sucre":             "sugar",
	"riz":               "rice",
	"pâtes":             "pasta",
	"lentille":          "lentil",
	"lentilles":         "lentil",
	"pois chiche":       "chickpea",
	"pois chiches":      "chickpea",
	"haricot":           "bean",
	"haricots":          "bean",
	"huile":             "oil",
	"huile d'olive":     "olive oil",
	"sel":               "salt",
	"poivre":            "pepper",
	"miel":              "honey",
	"noix":              "walnut",
	"amande":            "almond",
	"amandes":           "almond",
	"leaves":            "leaf",
	"knives":            "knife",
	"loaves":            "loaf",
}

// NormalizeIngredientName builds the dedup key for an ingredient name. It is
// never used for display.
func NormalizeIngredientName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := ingredientSynonyms[n]; ok {
		return canonical
	}

	length := utf8.RuneCountInString(n)
	switch {
	case strings.HasSuffix(n, "rries") && length > 6:
		return n[:len(n)-3] + "y"
	case strings.HasSuffix(n, "ies") && length > 5:
		return n[:len(n)-3] + "y"
	case strings.HasSuffix(n, "oes") && length > 5:
		return n[:len(n)-2]
	case strings.HasSuffix(n, "s") && length > 5 && !hasAnySuffix(n, "ss", "us", "is", "as", "es", "cs", "xs"):
		return n[:len(n)-1]
	}
	return n
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// Tokenize lowercases input, drops punctuation and returns words of two or
// more runes.
func Tokenize(input string) []string {
	norm := reNonAllowed.ReplaceAllString(strings.ToLower(input), " ")
	parts := strings.FieldsFunc(norm, unicode.IsSpace)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if utf8.RuneCountInString(p) >= 2 {
			out = append(out, p)
		}
	}
	return out
}

func HasLetter(input string) bool {
	for _, r := range input {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func DiceCoefficient(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	pairs := func(s string) []string {
		r := []rune(s)
		if len(r) < 2 {
			return nil
		}
		out := make([]string, 0, len(r)-1)
		for i := 0; i < len(r)-1; i++ {
			out = append(out, string(r[i:i+2]))
		}
		return out
	}

	aPairs := pairs(a)
	bPairs := pairs(b)
	if len(aPairs) == 0 || len(bPairs) == 0 {
		return 0
	}

	bCount := map[string]int{}
	for _, p := range bPairs {
		bCount[p]++
	}
	inter := 0
	for _, p := range aPairs {
		if bCount[p] > 0 {
			inter++
			bCount[p]--
		}
	}

	return float64(2*inter) / float64(len(aPairs)+len(bPairs))
}
