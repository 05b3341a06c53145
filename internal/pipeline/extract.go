package pipeline

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"
	pdf "github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"shoplist/internal"
	"shoplist/internal/util"
)

var ignorePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[-=_*]{2,}$`),
	regexp.MustCompile(`(?i)^(bonjour|salut|hello|hi|hey)\b`),
	regexp.MustCompile(`(?i)^(merci|thanks|thank you)\b`),
	regexp.MustCompile(`(?i)^(bon appétit|bonne semaine|cordialement|regards|cheers)\b`),
	regexp.MustCompile(`(?i)^(tel|tél|phone)[:\s]`),
	regexp.MustCompile(`(?i)^e-?mail[:\s]`),
	regexp.MustCompile(`(?i)^https?://`),
	regexp.MustCompile(`(?i)^(unsubscribe|se désabonner)`),
}

var (
	reBullet     = regexp.MustCompile(`^(?:[-*•·]|\d+[.)])\s+`)
	reLeadLabel  = regexp.MustCompile(`^([\p{L}][\p{L}\s'’-]{0,39}):\s*(.+)$`)
	reHasLetters = regexp.MustCompile(`\p{L}`)
	reLeadDigit  = regexp.MustCompile(`^\d`)
)

// ExtractSummariesFromEmailRaw returns the ingredient summaries found in a raw
// meal-plan message, together with its subject, plain text and attachment names.
func ExtractSummariesFromEmailRaw(raw []byte) ([]internal.SummaryEntry, string, string, []string, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, "", "", nil, err
	}

	// enmime derives Text from HTML when the message has no plain part, so
	// the two bodies usually carry the same list. HTML wins when it has one.
	entries := make([]internal.SummaryEntry, 0)
	if env.HTML != "" {
		entries = append(entries, withSource(parseHTML(env.HTML), internal.SourceEmailHTML)...)
	}
	if len(entries) == 0 && env.Text != "" {
		entries = append(entries, withSource(parseText(env.Text), internal.SourceEmailText)...)
	}

	attachmentNames := make([]string, 0, len(env.Attachments))
	for _, att := range env.Attachments {
		filename := strings.TrimSpace(att.FileName)
		if filename == "" {
			filename = "attachment"
		}
		attachmentNames = append(attachmentNames, filename)
		lower := strings.ToLower(filename)

		var extra []internal.SummaryEntry
		switch {
		case strings.HasSuffix(lower, ".xlsx"):
			extra, err = parseXLSX(att.Content)
		case strings.HasSuffix(lower, ".pdf"):
			extra, err = parsePDF(att.Content)
		default:
			continue
		}
		if err != nil {
			continue
		}
		for i := range extra {
			if extra[i].Meta == nil {
				extra[i].Meta = map[string]any{}
			}
			extra[i].Meta["attachment"] = filename
		}
		entries = append(entries, extra...)
	}

	entries = dedupeEntries(entries)
	for i := range entries {
		entries[i].LineNo = i + 1
	}

	return entries, env.GetHeader("Subject"), env.Text, attachmentNames, nil
}

func withSource(entries []internal.SummaryEntry, source internal.SummarySource) []internal.SummaryEntry {
	for i := range entries {
		entries[i].Source = source
	}
	return entries
}

func parseText(text string) []internal.SummaryEntry {
	out := []internal.SummaryEntry{}
	lineNo := 0
	for _, line := range splitLines(text) {
		lineNo++
		summary, label := cleanSummaryLine(line, false)
		if summary == "" {
			continue
		}
		entry := internal.SummaryEntry{LineNo: lineNo, Source: internal.SourceText, Summary: summary, Meta: map[string]any{}}
		if label != "" {
			entry.Meta["label"] = label
		}
		out = append(out, entry)
	}
	return out
}

// cleanSummaryLine strips bullets and a short "Label:" prefix. It returns ""
// for noise lines. Unless listItem is set, a line must look like a list
// entry (bullet, label, comma or leading number) to be kept.
func cleanSummaryLine(line string, listItem bool) (string, string) {
	compact := util.NormalizeSpaces(line)
	if compact == "" || isLikelyNoise(compact) {
		return "", ""
	}
	bulleted := reBullet.MatchString(compact)
	compact = reBullet.ReplaceAllString(compact, "")

	label := ""
	if m := reLeadLabel.FindStringSubmatch(compact); m != nil {
		label = strings.TrimSpace(m[1])
		compact = strings.TrimSpace(m[2])
	}
	if !reHasLetters.MatchString(compact) {
		return "", ""
	}
	if !listItem && !bulleted && label == "" && !strings.Contains(compact, ",") && !reLeadDigit.MatchString(compact) {
		return "", ""
	}
	return compact, label
}

func parseHTML(html string) []internal.SummaryEntry {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	out := []internal.SummaryEntry{}
	lineNo := 0
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return
		}

		headers := []string{}
		rows.First().Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			headers = append(headers, strings.ToLower(strings.TrimSpace(cell.Text())))
		})
		nameIdx, qtyIdx, unitIdx := inferColumns(headers)
		if nameIdx < 0 {
			return
		}

		rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
			cells := []string{}
			row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, util.NormalizeSpaces(cell.Text()))
			})
			summary, ing := composeRow(cells, nameIdx, qtyIdx, unitIdx)
			if summary == "" {
				return
			}
			lineNo++
			out = append(out, internal.SummaryEntry{
				LineNo:     lineNo,
				Source:     internal.SourceHTML,
				Summary:    summary,
				Ingredient: ing,
				Meta:       map[string]any{"row": cells},
			})
		})
		table.AddClass("shoplist-consumed")
	})

	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		if li.Closest("table.shoplist-consumed").Length() > 0 {
			return
		}
		summary, label := cleanSummaryLine(li.Text(), true)
		if summary == "" {
			return
		}
		lineNo++
		entry := internal.SummaryEntry{LineNo: lineNo, Source: internal.SourceHTML, Summary: summary, Meta: map[string]any{}}
		if label != "" {
			entry.Meta["label"] = label
		}
		out = append(out, entry)
	})

	return out
}

func parseXLSX(content []byte) ([]internal.SummaryEntry, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lineNo := 0
	out := []internal.SummaryEntry{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}

		// A header row in the first three rows names the columns; rows above
		// it are titles. Without one, the first column holds summaries.
		nameIdx, qtyIdx, unitIdx := 0, -1, -1
		start := 0
		for i := 0; i < len(rows) && i < 3; i++ {
			n, q, u := inferColumns(normalizeCells(rows[i]))
			if n >= 0 {
				nameIdx, qtyIdx, unitIdx = n, q, u
				start = i + 1
				break
			}
		}

		for i := start; i < len(rows); i++ {
			cells := normalizeCells(rows[i])
			if len(cells) == 0 {
				continue
			}

			summary, ing := composeRow(cells, nameIdx, qtyIdx, unitIdx)
			if summary == "" {
				continue
			}
			lineNo++
			out = append(out, internal.SummaryEntry{
				LineNo:     lineNo,
				Source:     internal.SourceXLSX,
				Summary:    summary,
				Ingredient: ing,
				Meta:       map[string]any{"sheet": sheet, "rowNumber": i + 1},
			})
		}
	}

	return out, nil
}

func parsePDF(content []byte) ([]internal.SummaryEntry, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	out := []internal.SummaryEntry{}
	lineNo := 0
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		for _, line := range splitLines(text) {
			lineNo++
			summary, _ := cleanSummaryLine(line, true)
			if summary == "" {
				continue
			}
			out = append(out, internal.SummaryEntry{
				LineNo:  lineNo,
				Source:  internal.SourcePDF,
				Summary: summary,
				Meta:    map[string]any{"page": i},
			})
		}
	}
	return out, nil
}

// composeRow turns a table row into a summary. With a quantity column the
// row is already structured and is returned as a parsed ingredient too;
// otherwise the name cell may itself hold a comma-joined summary.
func composeRow(cells []string, nameIdx, qtyIdx, unitIdx int) (string, *internal.RawIngredient) {
	name := pickCell(cells, nameIdx)
	if name == "" || !reHasLetters.MatchString(name) {
		return "", nil
	}
	if qtyIdx < 0 {
		return name, nil
	}
	qty := util.ParseAmount(pickCell(cells, qtyIdx))
	if qty == nil {
		return name, nil
	}

	unit := util.NormalizeUnit(pickCell(cells, unitIdx))
	summary := strings.Join(strings.Fields(strconv.FormatFloat(*qty, 'f', -1, 64)+" "+unit+" "+name), " ")
	return summary, &internal.RawIngredient{Name: name, Quantity: *qty, Unit: unit}
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isLikelyNoise(line string) bool {
	for _, re := range ignorePatterns {
		if re.MatchString(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}

func dedupeEntries(entries []internal.SummaryEntry) []internal.SummaryEntry {
	seen := map[string]struct{}{}
	out := make([]internal.SummaryEntry, 0, len(entries))
	for _, e := range entries {
		key := strings.ToLower(e.Summary)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}

func findHeaderIndex(headers []string, probes []string) int {
	for i, h := range headers {
		for _, probe := range probes {
			if strings.Contains(h, probe) {
				return i
			}
		}
	}
	return -1
}

func pickCell(cells []string, idx int) string {
	if idx >= 0 && idx < len(cells) {
		return strings.TrimSpace(cells[idx])
	}
	return ""
}

func inferColumns(headers []string) (nameIdx, qtyIdx, unitIdx int) {
	norm := make([]string, 0, len(headers))
	for _, h := range headers {
		norm = append(norm, strings.ToLower(h))
	}
	nameIdx = findHeaderIndex(norm, []string{"ingr", "article", "produit", "item", "name", "nom"})
	qtyIdx = findHeaderIndex(norm, []string{"qty", "quant", "qté", "amount"})
	unitIdx = findHeaderIndex(norm, []string{"unit", "unité", "mesure"})
	return
}

func normalizeCells(row []string) []string {
	out := make([]string, 0, len(row))
	for _, c := range row {
		out = append(out, util.NormalizeSpaces(c))
	}
	return out
}
