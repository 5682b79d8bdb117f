package models

import "time"

type Label string

const (
	LabelPositive Label = "Positive"
	LabelNegative Label = "Negative"
	LabelNeutral  Label = "Neutral"
)

// AnalysisRecord is one entry of a session's search log. It is never
// modified after being appended.
type AnalysisRecord struct {
	InputText    string    `json:"tweet"`
	Polarity     float64   `json:"polarity"`
	Subjectivity float64   `json:"subjectivity"`
	Label        Label     `json:"sentiment"`
	Cleaned      string    `json:"cleaned_text,omitempty"`
	AnalyzedAt   time.Time `json:"analyzed_at,omitempty"`
}

// AnalyzeRequest mirrors the input form. Language, Limit and the date
// bounds are validated but do not influence scoring. A nil Limit means the
// field was left blank.
type AnalyzeRequest struct {
	Text      string
	Language  string
	Limit     *int
	StartDate *time.Time
	EndDate   *time.Time
}

type ChartBar struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

type AnalyzeResult struct {
	Record  AnalysisRecord `json:"record"`
	Cleaned string         `json:"cleaned_text"`
	Chart   []ChartBar     `json:"chart"`
}
