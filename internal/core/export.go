package core

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/keydrift/internal/compare"
)

// exportHeader is the header row of the CSV report export.
var exportHeader = []string{"track", "key", "missing_languages", "acknowledged"}

// ExportReportCSV writes the stored report as CSV: one row per missing key
// followed by one row per translation issue, in report order. Missing
// languages are joined with "; ".
func (s *Service) ExportReportCSV(ctx context.Context, id string, w io.Writer) error {
	report, err := s.Report(ctx, id)
	if err != nil {
		return err
	}
	return WriteReportCSV(w, report)
}

// WriteReportCSV writes an annotated report in the export layout.
func WriteReportCSV(w io.Writer, report compare.AnnotatedReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range report.MissingKeys {
		rec := []string{string(compare.TrackMissing), e.Key, "", fmt.Sprint(e.Acknowledged)}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	for _, e := range report.TranslationIssues {
		rec := []string{
			string(compare.TrackIssues),
			e.Key,
			strings.Join(e.MissingLanguages, "; "),
			fmt.Sprint(e.Acknowledged),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
