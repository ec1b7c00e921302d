package model

// DailyRate is a single point of the weekly completion-rate series. A
// series is always recomputed wholesale; entries are never mutated in
// place.
type DailyRate struct {
	Date           string `json:"date"`         // YYYY-MM-DD
	DisplayDate    string `json:"display_date"` // M/D, for chart axis labels
	CompletionRate int    `json:"completion_rate"`
}
