package pipeline

import (
	"sort"
	"strings"

	"shoplist/internal"
	"shoplist/internal/pricing"
	"shoplist/internal/util"
)

type PriceReason string

const (
	PriceReasonKey   PriceReason = "key"
	PriceReasonName  PriceReason = "name"
	PriceReasonFuzzy PriceReason = "fuzzy"
)

type PriceMatch struct {
	PriceID int
	Price   float64
	Score   float64
	Reason  PriceReason
}

// PriceMatcher looks up catalog prices for shopping-list items.
type PriceMatcher struct {
	threshold float64
	index     *pricing.Index
}

func NewPriceMatcher(threshold float64, prices []internal.PriceRecord) *PriceMatcher {
	return &PriceMatcher{threshold: threshold, index: pricing.BuildIndex(prices)}
}

// Match tries the item's dedup key first, then its normalized name under any
// unit, then the best fuzzy name at or above the threshold. Ties go to the
// cheaper record.
func (m *PriceMatcher) Match(item internal.OrganizedItem) *PriceMatch {
	key := item.Key
	if key == "" {
		key = DedupKey(item.Name, item.Unit)
	}
	name, _, _ := strings.Cut(key, "::")
	if name == "" {
		return nil
	}

	if p, ok := cheapest(m.index.ByKey[key]); ok {
		return &PriceMatch{PriceID: p.ID, Price: p.Price, Score: 1, Reason: PriceReasonKey}
	}
	if p, ok := cheapest(m.index.ByName[name]); ok {
		return &PriceMatch{PriceID: p.ID, Price: p.Price, Score: 0.95, Reason: PriceReasonName}
	}

	best, score, ok := m.bestFuzzy(name)
	if !ok || score < m.threshold {
		return nil
	}
	return &PriceMatch{PriceID: best.ID, Price: best.Price, Score: score, Reason: PriceReasonFuzzy}
}

// EnrichPrices sets Price on every item that matches the catalog and
// returns how many did. Unmatched items keep a nil price.
func (m *PriceMatcher) EnrichPrices(items []internal.OrganizedItem) int {
	matched := 0
	for i := range items {
		match := m.Match(items[i])
		if match == nil {
			continue
		}
		items[i].Price = util.FloatPtr(match.Price)
		matched++
	}
	return matched
}

func (m *PriceMatcher) bestFuzzy(query string) (internal.PriceRecord, float64, bool) {
	queryTokens := util.Tokenize(query)
	ids := map[int]struct{}{}
	for _, token := range queryTokens {
		for id := range m.index.TokenToIDs[token] {
			ids[id] = struct{}{}
		}
	}
	if len(ids) == 0 {
		return internal.PriceRecord{}, 0, false
	}

	type scored struct {
		record internal.PriceRecord
		score  float64
	}
	ranked := make([]scored, 0, len(ids))
	for id := range ids {
		candidate := m.index.NormalizedByID[id]
		ranked = append(ranked, scored{
			record: m.index.PricesByID[id],
			score:  scoreName(query, candidate, queryTokens, util.Tokenize(candidate)),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		if ranked[i].record.Price != ranked[j].record.Price {
			return ranked[i].record.Price < ranked[j].record.Price
		}
		return ranked[i].record.ID < ranked[j].record.ID
	})
	return ranked[0].record, ranked[0].score, true
}

func scoreName(query, candidate string, queryTokens, candidateTokens []string) float64 {
	dice := util.DiceCoefficient(query, candidate)
	if len(queryTokens) == 0 || len(candidateTokens) == 0 {
		return dice
	}

	set := map[string]struct{}{}
	for _, t := range candidateTokens {
		set[t] = struct{}{}
	}
	overlap := 0
	for _, t := range queryTokens {
		if _, ok := set[t]; ok {
			overlap++
		}
	}
	tokenScore := float64(overlap) / float64(len(queryTokens))
	return 0.65*dice + 0.35*tokenScore
}

func cheapest(records []internal.PriceRecord) (internal.PriceRecord, bool) {
	if len(records) == 0 {
		return internal.PriceRecord{}, false
	}
	best := records[0]
	for _, r := range records[1:] {
		if r.Price < best.Price || (r.Price == best.Price && r.ID < best.ID) {
			best = r
		}
	}
	return best, true
}
