package models

import "time"

// JobConfig represents the parsed job.yaml configuration.
type JobConfig struct {
	Name          *string     `yaml:"name,omitempty" json:"name,omitempty"`
	OutputDir     string      `yaml:"output_dir" json:"output_dir"`
	Workers       int         `yaml:"workers" json:"workers"`
	TrainFraction float64     `yaml:"train_fraction" json:"train_fraction"`
	FitTimeoutSec float64     `yaml:"fit_timeout_sec,omitempty" json:"fit_timeout_sec,omitempty"`
	Horizon       int         `yaml:"horizon,omitempty" json:"horizon,omitempty"`
	LogLevel      string      `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	Model         ModelConfig `yaml:"model" json:"model"`
	Grid          GridConfig  `yaml:"grid" json:"grid"`
	Dataset       DatasetRef  `yaml:"dataset" json:"dataset"`
}

// ModelConfig selects the forecasting primitive used for every candidate.
type ModelConfig struct {
	Type string `yaml:"type" json:"type"`
}

// GridConfig holds the candidate ranges as range-spec strings,
// e.g. "0-2" or "0,1,3".
type GridConfig struct {
	P string `yaml:"p" json:"p"`
	D string `yaml:"d" json:"d"`
	Q string `yaml:"q" json:"q"`
}

// DatasetRef specifies how to load the input series.
type DatasetRef struct {
	Path        string `yaml:"path" json:"path"`
	ValueColumn string `yaml:"value_column,omitempty" json:"value_column,omitempty"`
}

// CandidateResult contains the outcome of evaluating one candidate order.
type CandidateResult struct {
	Order       Order           `json:"order"`
	Index       int             `json:"index"`
	RMSE        *float64        `json:"rmse"`
	Error       *CandidateError `json:"error,omitempty"`
	DurationSec float64         `json:"duration_sec"`
}

// SearchResult contains aggregate metrics across all candidates of one
// grid search run.
type SearchResult struct {
	JobName          string            `json:"job_name"`
	Cancelled        bool              `json:"cancelled"`
	TotalCandidates  int               `json:"total_candidates"`
	Evaluated        int               `json:"evaluated"`
	Failed           int               `json:"failed"`
	Skipped          int               `json:"skipped"`
	BestOrder        *Order            `json:"best_order"`
	BestRMSE         *float64          `json:"best_rmse"`
	TotalDurationSec float64           `json:"total_duration_sec"`
	StartedAt        time.Time         `json:"started_at"`
	EndedAt          time.Time         `json:"ended_at"`
	Results          []CandidateResult `json:"results"`
}

// Viable reports whether at least one candidate produced a score.
func (r *SearchResult) Viable() bool {
	return r.BestOrder != nil && r.BestRMSE != nil
}
