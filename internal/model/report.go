package model

// Mention is a candidate legislator reference found in text
type Mention struct {
	Raw    string `json:"raw"`              // Matched text, e.g. "Mr. Smith of CA"
	Filter Filter `json:"filter"`           // Query built from the capture groups
	Title  string `json:"title,omitempty"`  // Honorific as written
	Offset int    `json:"offset,omitempty"` // Byte offset in the scanned text
}

// MentionResult pairs a mention with the directory records it resolved to
type MentionResult struct {
	Mention Mention      `json:"mention"`
	Matches []Legislator `json:"matches,omitempty"`
}

// Resolution is the outcome of resolving all mentions in one text
type Resolution struct {
	Names       []string        `json:"names"`
	BioguideIDs []string        `json:"bioguide_ids"`
	Mentions    []MentionResult `json:"mentions,omitempty"`
}

// Report holds everything extracted from one document
type Report struct {
	Source      string   `json:"source" yaml:"source"`             // File path or "-" for stdin
	Adapter     string   `json:"adapter" yaml:"adapter"`           // Source adapter that produced the text
	Chamber     Chamber  `json:"chamber" yaml:"chamber"`           // Chamber used for roll and legislator lookups
	Year        int      `json:"year" yaml:"year"`                 // Legislative year used for roll IDs
	Congress    int      `json:"congress" yaml:"congress"`         // Congress used for bill IDs
	ExtractedAt string   `json:"extracted_at" yaml:"extracted_at"` // RFC3339
	RollIDs     []string `json:"roll_ids" yaml:"roll_ids"`
	BillIDs     []string `json:"bill_ids" yaml:"bill_ids"`
	Legislators []string `json:"legislator_names" yaml:"legislator_names"`
	BioguideIDs []string `json:"bioguide_ids" yaml:"bioguide_ids"`
	Warnings    []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	BatchID     string   `json:"batch_id,omitempty" yaml:"batch_id,omitempty"` // Set when produced by a batch run
}
