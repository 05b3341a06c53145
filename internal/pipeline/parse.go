package pipeline

import (
	"regexp"
	"strings"

	"shoplist/internal"
	"shoplist/internal/util"
)

const maxUnitWords = 3

var (
	leadingQtyPattern = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*(\S.*)$`)
	unitTokenPattern  = regexp.MustCompile(`^[\p{L}.]+$`)
)

// ParseIngredientsSummary splits a comma-separated ingredient summary into raw
// ingredients. Fragments are never dropped: anything that does not look like
// "qty unit name" or "name unit" becomes a plain name with quantity 1.
func ParseIngredientsSummary(summary string) []internal.RawIngredient {
	if strings.TrimSpace(summary) == "" {
		return []internal.RawIngredient{}
	}

	parts := strings.Split(summary, ",")
	out := make([]internal.RawIngredient, 0, len(parts))
	for _, part := range parts {
		fragment := strings.TrimSpace(part)
		if fragment == "" {
			continue
		}
		out = append(out, parseFragment(fragment))
	}
	return out
}

func parseFragment(fragment string) internal.RawIngredient {
	if ing, ok := parseQtyUnitName(fragment); ok {
		return ing
	}

	words := strings.Fields(fragment)
	if len(words) > 1 {
		last := words[len(words)-1]
		if util.IsUnitWord(last) {
			return internal.RawIngredient{
				Name:     strings.Join(words[:len(words)-1], " "),
				Quantity: 1,
				Unit:     util.NormalizeUnit(last),
			}
		}
	}

	return internal.RawIngredient{Name: fragment, Quantity: 1, Unit: ""}
}

// parseQtyUnitName matches "<number> <unit> <name>". A known unit spelling of
// up to three words ("c. à s.") wins; otherwise the single word after the
// number is taken as the unit.
func parseQtyUnitName(fragment string) (internal.RawIngredient, bool) {
	m := leadingQtyPattern.FindStringSubmatch(fragment)
	if m == nil {
		return internal.RawIngredient{}, false
	}
	qty, ok := util.ParseDecimal(m[1])
	if !ok {
		return internal.RawIngredient{}, false
	}
	words := strings.Fields(m[2])
	if len(words) < 2 {
		return internal.RawIngredient{}, false
	}

	for n := maxUnitWords; n >= 1; n-- {
		if n >= len(words) {
			continue
		}
		unit := strings.Join(words[:n], " ")
		if util.IsUnitWord(unit) {
			return internal.RawIngredient{Name: strings.Join(words[n:], " "), Quantity: qty, Unit: util.NormalizeUnit(unit)}, true
		}
	}

	if !unitTokenPattern.MatchString(words[0]) {
		return internal.RawIngredient{}, false
	}
	return internal.RawIngredient{Name: strings.Join(words[1:], " "), Quantity: qty, Unit: util.NormalizeUnit(words[0])}, true
}
