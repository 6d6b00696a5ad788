package executor

import (
	"fmt"
	"io"

	"github.com/gridcast/gridcast/internal/models"
)

// Reporter observes search progress. Only improvements and the final
// outcome are narrated; failed candidates stay silent.
type Reporter interface {
	// Improved is called whenever a candidate becomes the new best.
	Improved(order models.Order, rmse float64)
	// Finished is called once after the full grid has been processed.
	Finished(result *models.SearchResult)
}

// WriterReporter prints progress lines to a writer.
type WriterReporter struct {
	w io.Writer
}

// NewWriterReporter creates a reporter writing to w.
func NewWriterReporter(w io.Writer) *WriterReporter {
	return &WriterReporter{w: w}
}

func (r *WriterReporter) Improved(order models.Order, rmse float64) {
	fmt.Fprintf(r.w, "ARIMA%s RMSE=%.3f\n", order, rmse)
}

func (r *WriterReporter) Finished(result *models.SearchResult) {
	if result.Viable() {
		fmt.Fprintf(r.w, "Best ARIMA%s RMSE=%.3f\n", *result.BestOrder, *result.BestRMSE)
		return
	}
	fmt.Fprintln(r.w, "No candidate order produced a model")
}

// NopReporter discards all progress events.
type NopReporter struct{}

func (NopReporter) Improved(models.Order, float64) {}
func (NopReporter) Finished(*models.SearchResult)  {}
