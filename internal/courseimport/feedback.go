package courseimport

// FeedbackStatus tags one line of the import result report.
type FeedbackStatus string

const (
	// StatusImported marks a row that was persisted.
	StatusImported FeedbackStatus = "imported"
	// StatusSkipped marks a row that already exists. A deliberate skip,
	// never merged with errors: callers must be able to tell "couldn't
	// import" apart from "already imported".
	StatusSkipped FeedbackStatus = "skipped"
	// StatusError marks a row that failed validation or persistence.
	StatusError FeedbackStatus = "error"
)

// FeedbackEntry is one row-addressable line of the import report. Entries are
// immutable once emitted; the report only ever grows.
type FeedbackEntry struct {
	Row     int            `json:"row"`
	Code    string         `json:"code"`
	Status  FeedbackStatus `json:"status"`
	Message string         `json:"message"`
}
