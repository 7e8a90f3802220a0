package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wavesense/seastate"
)

// CSVWriter appends one row per sea-state estimate to an audit log.
// Absent optional outputs are written as empty cells.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

func NewCSVWriter(path string) *CSVWriter {
	// Create data directory if needed
	os.MkdirAll(filepath.Dir(path), 0755)

	w := &CSVWriter{}
	w.file, _ = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	w.writer = csv.NewWriter(w.file)

	w.writeHeader()

	return w
}

func (w *CSVWriter) writeHeader() {
	if w.file == nil {
		return
	}
	// Only write the header into a fresh file
	info, _ := w.file.Stat()
	if info.Size() == 0 {
		w.writer.Write([]string{
			"iso8601", "ts_ms", "wave_height_m", "motion_magnitude_deg",
			"heave_m", "period_s", "direction_deg", "direction_confidence",
			"dominant_axis",
		})
		w.writer.Flush()
	}
}

func (w *CSVWriter) WriteResult(result seastate.Result) {
	if w.writer == nil {
		return
	}

	row := []string{
		result.Timestamp.UTC().Format(time.RFC3339),
		fmt.Sprintf("%d", result.Timestamp.UnixMilli()),
		fmt.Sprintf("%.4f", result.WaveHeight),
		fmt.Sprintf("%.4f", result.MotionMagnitude),
		optionalCell(result.Heave, "%.4f"),
		optionalCell(result.Period, "%.2f"),
		optionalCell(result.DirectionDegrees, "%.1f"),
		fmt.Sprintf("%.3f", result.DirectionConfidence),
		string(result.DominantAxis),
	}

	w.writer.Write(row)
	w.writer.Flush()
}

func optionalCell(v *float64, format string) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf(format, *v)
}

func (w *CSVWriter) Close() {
	if w.writer != nil {
		w.writer.Flush()
	}
	if w.file != nil {
		w.file.Close()
	}
}
