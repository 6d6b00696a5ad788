package models

// ErrorType identifies the category of error that occurred.
type ErrorType string

const (
	// Pre-search input validation
	ErrSeriesTooShort ErrorType = "series_too_short"
	ErrSeriesInvalid  ErrorType = "series_invalid"
	ErrGridEmpty      ErrorType = "grid_empty"

	// Per-candidate evaluation
	ErrFitFailed      ErrorType = "fit_failed"
	ErrForecastFailed ErrorType = "forecast_failed"
	ErrFitTimeout     ErrorType = "fit_timeout"

	// Search outcome
	ErrNoViableOrder ErrorType = "no_viable_order"

	// Catch-all
	ErrInternalError ErrorType = "internal_error"
)

// CandidateError records why a single candidate order produced no score.
// It is attached to the candidate's result record; it never aborts the
// search.
type CandidateError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
}
