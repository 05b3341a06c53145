package internal

type SummarySource string

const (
	SourceText      SummarySource = "text"
	SourceHTML      SummarySource = "html"
	SourceXLSX      SummarySource = "xlsx"
	SourcePDF       SummarySource = "pdf"
	SourceEmailText SummarySource = "email_text"
	SourceEmailHTML SummarySource = "email_html"
)

// SummaryEntry is one comma-separated ingredient summary pulled out of an
// input document. Ingredient is set when the source was already structured
// (a table row with a quantity column) and the summary need not be parsed.
type SummaryEntry struct {
	LineNo     int
	Source     SummarySource
	Summary    string
	Ingredient *RawIngredient
	Meta       map[string]any
}

// RawIngredient is one parsed fragment of an ingredient summary.
type RawIngredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type AisleInfo struct {
	Aisle     string `json:"aisle"`
	Category  string `json:"category"`
	Emoji     string `json:"emoji"`
	SortOrder int    `json:"sortOrder"`
}

// OrganizedItem is one aggregated shopping-list line. Key is the dedup key
// (normalized name and normalized unit) the line was merged under.
type OrganizedItem struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Quantity float64  `json:"quantity"`
	Unit     string   `json:"unit"`
	Price    *float64 `json:"price"`
	Checked  bool     `json:"checked"`
	AisleInfo
}

type PriceRecord struct {
	ID        int
	Name      string
	Unit      *string
	Price     float64
	Store     *string
	UpdatedAt *string
	RawJSON   string
}

type PlanRow struct {
	ID         int
	Provider   string
	MessageID  string
	Subject    string
	Sender     string
	ReceivedAt string
	Hash       string
	Status     string
	RawRef     string
}

type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}
