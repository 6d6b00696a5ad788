package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	ValueColumn string // Column name for values (default: last column)
	DateColumn  string // Column name for dates (optional)
	DateFormat  string // Date format (default: "2006-01-02")
	HasHeader   bool   // Whether CSV has a header row (default: true)
	Delimiter   rune   // Field delimiter (default: ',')
	SkipRows    int    // Number of rows to skip at start
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		DateFormat: "2006-01-02",
		HasHeader:  true,
		Delimiter:  ',',
	}
}

// LoadCSV loads a series from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	series, err := LoadCSVFromReader(file, opts)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", filename, err)
	}
	return series, nil
}

// LoadCSVFromReader loads a series from an io.Reader.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("skipping row %d: %w", i+1, err)
		}
	}

	valueIdx, dateIdx := -1, -1

	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, fmt.Errorf("reading header: %w", err)
		}

		for i, h := range header {
			h = strings.TrimSpace(strings.Trim(h, "\""))
			switch {
			case opts.ValueColumn != "" && h == opts.ValueColumn:
				valueIdx = i
			case opts.ValueColumn == "" && (h == "y" || h == "value" || h == "Value"):
				valueIdx = i
			case opts.DateColumn != "" && h == opts.DateColumn:
				dateIdx = i
			case opts.DateColumn == "" && (h == "ds" || h == "date" || h == "Date" || h == "Month"):
				if dateIdx == -1 {
					dateIdx = i
				}
			}
		}

		if valueIdx == -1 {
			if opts.ValueColumn != "" {
				return nil, fmt.Errorf("value column %q not found in header", opts.ValueColumn)
			}
			// Default to the last column.
			valueIdx = len(header) - 1
		}
	} else {
		// No header: first column date, second column value.
		dateIdx, valueIdx = 0, 1
	}

	var values []float64
	var timestamps []time.Time
	row := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}
		row++

		if valueIdx >= len(record) {
			return nil, fmt.Errorf("row %d has %d fields, value column is %d", row, len(record), valueIdx)
		}

		valStr := strings.TrimSpace(strings.Trim(record[valueIdx], "\""))
		if valStr == "" || valStr == "NA" || valStr == "NaN" || valStr == "null" {
			continue
		}
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: non-numeric value %q: %w", row, valStr, err)
		}
		values = append(values, val)

		if dateIdx >= 0 && dateIdx < len(record) {
			dateStr := strings.TrimSpace(strings.Trim(record[dateIdx], "\""))
			if ts, err := parseDate(dateStr, opts.DateFormat); err == nil {
				timestamps = append(timestamps, ts)
			}
		}
	}

	if len(values) == 0 {
		return nil, errors.New("no valid data found in CSV")
	}

	if len(timestamps) == len(values) {
		return &Series{Timestamps: timestamps, Values: values}, nil
	}
	return New(values), nil
}

// parseDate tries the configured format first, then a few common ones.
func parseDate(s, format string) (time.Time, error) {
	formats := []string{
		format,
		"2006-01-02",
		"2006-01-02T15:04:05",
		"2006/01/02",
		"01/02/2006",
		"2006-01",
		"2006",
	}
	var ts time.Time
	var err error
	for _, f := range formats {
		if f == "" {
			continue
		}
		ts, err = time.Parse(f, s)
		if err == nil {
			return ts, nil
		}
	}
	return time.Time{}, err
}
