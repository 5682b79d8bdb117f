package searchlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spacesedan/tweetsense/internal/models"
)

const EXPORT_FILENAME = "recent_searches.csv"

var (
	ExportHeader = []string{"Tweet", "Polarity", "Subjectivity", "Sentiment"}

	ErrBadExport = errors.New("malformed search log export")
)

// Export writes the log as CSV: a header row, then one row per record.
func (l *SearchLog) Export(w io.Writer) error {
	records := l.Records()

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.InputText,
			strconv.FormatFloat(r.Polarity, 'f', -1, 64),
			strconv.FormatFloat(r.Subjectivity, 'f', -1, 64),
			string(r.Label),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ParseExport reads back the output of Export.
func ParseExport(r io.Reader) ([]models.AnalysisRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(ExportHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header: %v", ErrBadExport, err)
	}
	for i, col := range ExportHeader {
		if header[i] != col {
			return nil, fmt.Errorf("%w: unexpected column %q", ErrBadExport, header[i])
		}
	}

	var records []models.AnalysisRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadExport, err)
		}

		polarity, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: polarity: %v", ErrBadExport, line, err)
		}
		subjectivity, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: subjectivity: %v", ErrBadExport, line, err)
		}

		records = append(records, models.AnalysisRecord{
			InputText:    row[0],
			Polarity:     polarity,
			Subjectivity: subjectivity,
			Label:        models.Label(row[3]),
		})
	}

	return records, nil
}
