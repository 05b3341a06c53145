package pipeline

import (
	"strings"

	"shoplist/internal/util"
)

type DetectResult struct {
	IsMealPlan bool
	Score      float64
	Reason     string
}

var detectKeywords = []string{
	"meal plan", "plan de repas", "menu", "recette", "recipe", "ingrédient", "ingredient",
	"épicerie", "grocery", "shopping", "courses", "liste",
}

// DetectMealPlan scores a message on keywords, quantity+unit hits and
// spreadsheet/PDF attachments. A score of 0.45 or more counts as a meal plan.
func DetectMealPlan(subject, text string, entries int, attachmentNames []string) DetectResult {
	subject = strings.ToLower(subject)
	text = strings.ToLower(text)

	score := 0.0
	for _, kw := range detectKeywords {
		if strings.Contains(subject, kw) {
			score += 0.2
		}
		if strings.Contains(text, kw) {
			score += 0.1
		}
	}

	unitHits := countUnitHits(text)
	if unitHits >= 3 {
		score += 0.4
	} else if unitHits >= 1 {
		score += 0.2
	}

	for _, name := range attachmentNames {
		ln := strings.ToLower(name)
		if strings.HasSuffix(ln, ".xlsx") || strings.HasSuffix(ln, ".pdf") {
			score += 0.25
			break
		}
	}

	if entries == 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	isPlan := score >= 0.45
	reason := "rules_negative"
	if isPlan {
		reason = "rules_positive"
	}
	return DetectResult{IsMealPlan: isPlan, Score: score, Reason: reason}
}

// countUnitHits counts "<number> <unit>" pairs in text.
func countUnitHits(text string) int {
	words := strings.Fields(text)
	count := 0
	for i := 0; i+1 < len(words); i++ {
		if _, ok := util.ParseDecimal(words[i]); ok && util.IsUnitWord(strings.Trim(words[i+1], ",;")) {
			count++
		}
	}
	return count
}
