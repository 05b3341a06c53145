package pricing

import (
	"shoplist/internal"
	"shoplist/internal/util"
)

// Index groups catalog prices by the same normalized name and unit keys the
// shopping list is deduplicated on.
type Index struct {
	PricesByID     map[int]internal.PriceRecord
	ByKey          map[string][]internal.PriceRecord
	ByName         map[string][]internal.PriceRecord
	TokenToIDs     map[string]map[int]struct{}
	NormalizedByID map[int]string
}

func BuildIndex(prices []internal.PriceRecord) *Index {
	idx := &Index{
		PricesByID:     map[int]internal.PriceRecord{},
		ByKey:          map[string][]internal.PriceRecord{},
		ByName:         map[string][]internal.PriceRecord{},
		TokenToIDs:     map[string]map[int]struct{}{},
		NormalizedByID: map[int]string{},
	}

	for _, p := range prices {
		idx.PricesByID[p.ID] = p
		name := util.NormalizeIngredientName(p.Name)
		idx.NormalizedByID[p.ID] = name
		idx.ByName[name] = append(idx.ByName[name], p)

		unit := ""
		if p.Unit != nil {
			unit = util.NormalizeUnit(*p.Unit)
		}
		key := name + "::" + unit
		idx.ByKey[key] = append(idx.ByKey[key], p)

		for _, token := range util.Tokenize(name) {
			if _, ok := idx.TokenToIDs[token]; !ok {
				idx.TokenToIDs[token] = map[int]struct{}{}
			}
			idx.TokenToIDs[token][p.ID] = struct{}{}
		}
	}

	return idx
}
