package models

// DatasetConfig represents the parsed dataset.toml sidecar descriptor
// that can accompany a CSV file.
type DatasetConfig struct {
	ValueColumn string `toml:"value_column"`
	DateColumn  string `toml:"date_column"`
	DateFormat  string `toml:"date_format"`
	Delimiter   string `toml:"delimiter"`
	HasHeader   bool   `toml:"has_header"`
	SkipRows    int    `toml:"skip_rows"`
}
