package pipeline

import (
	"fmt"
	"os"
	"strings"

	"shoplist/internal"
)

// ExtractSummariesFromInput reads the file at path and extracts summaries
// according to inputType: text, html, xlsx, pdf or eml.
func ExtractSummariesFromInput(inputType string, path string) ([]internal.SummaryEntry, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(inputType)) {
	case "text", "txt":
		return parseText(string(blob)), nil
	case "html":
		return parseHTML(string(blob)), nil
	case "xlsx":
		return parseXLSX(blob)
	case "pdf":
		return parsePDF(blob)
	case "eml":
		entries, _, _, _, err := ExtractSummariesFromEmailRaw(blob)
		return entries, err
	default:
		return nil, fmt.Errorf("unsupported input type: %s", inputType)
	}
}
