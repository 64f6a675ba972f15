package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/keydrift/internal/compare"
	"github.com/JonMunkholm/keydrift/internal/config"
	"github.com/JonMunkholm/keydrift/internal/core"
	"github.com/JonMunkholm/keydrift/internal/source"
)

type tableFlags struct {
	table      string
	sheet      string
	keyColumn  string
	structural []string
}

func (f *tableFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.table, "table", "", "Translation table export, CSV or XLSX (required)")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Worksheet to read from an XLSX table (default: first sheet)")
	cmd.Flags().StringVar(&f.keyColumn, "key-column", "", "Column holding the key (default: TABLE_KEY_COLUMN or SPA.key)")
	cmd.Flags().StringSliceVar(&f.structural, "structural", nil, "Comma-separated non-language columns (default: TABLE_STRUCTURAL_COLUMNS)")
	_ = cmd.MarkFlagRequired("table")
}

// resolve merges the flags over the configured table layout.
func (f *tableFlags) resolve(cfg *config.Config) (string, compare.StructuralColumns) {
	keyColumn := cfg.Table.KeyColumn
	if f.keyColumn != "" {
		keyColumn = f.keyColumn
	}
	structural := cfg.Table.StructuralColumns
	if len(f.structural) > 0 {
		structural = config.SplitList(strings.Join(f.structural, ","))
	}
	return keyColumn, compare.StructuralColumns(structural).WithKey(keyColumn)
}

func (f *tableFlags) load(cfg *config.Config) (compare.Table, error) {
	file, err := os.Open(f.table)
	if err != nil {
		return compare.Table{}, fmt.Errorf("open table: %w", err)
	}
	defer file.Close()

	table, err := source.ParseTable(filepath.Base(f.table), file, source.TableOptions{
		Sheet: f.sheet,
		Limit: cfg.Upload.MaxFileSize,
	})
	if err != nil {
		return compare.Table{}, fmt.Errorf("%s: %w", f.table, err)
	}
	slog.Info("table loaded", "file", f.table, "rows", table.Len(), "columns", len(table.Columns))
	return table, nil
}

type compareFlags struct {
	tableFlags
	keys        string
	ignore      []string
	format      string
	failOnDrift bool
}

func newCompareCommand(a *app) *cobra.Command {
	f := &compareFlags{}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare application keys with a translation table",
		Example: `  keydrift compare --keys src/i18n/en.json --table export.csv
  keydrift compare --keys en.json --table export.xlsx --ignore fr,de --format json
  keydrift compare --keys en.json --table export.csv --fail-on-drift`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(a, f)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&f.keys, "keys", "", "Application key file, a JSON object (required)")
	cmd.Flags().StringSliceVar(&f.ignore, "ignore", nil, "Comma-separated language columns to leave out")
	cmd.Flags().StringVar(&f.format, "format", "text", "Output format: text, json or csv")
	cmd.Flags().BoolVar(&f.failOnDrift, "fail-on-drift", false, "Exit with status 1 when anything is reported")
	_ = cmd.MarkFlagRequired("keys")
	return cmd
}

func runCompare(a *app, f *compareFlags) error {
	switch f.format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("unknown format %q: use text, json or csv", f.format)
	}

	keys, err := loadKeys(f.keys, a.cfg.Upload.MaxFileSize)
	if err != nil {
		return err
	}
	table, err := f.load(a.cfg)
	if err != nil {
		return err
	}

	keyColumn, structural := f.resolve(a.cfg)
	all := compare.Classify(table, structural)
	active := compare.ActiveLanguages(all, compare.NewStringSet(config.SplitList(strings.Join(f.ignore, ","))...))

	report, err := compare.Compare(keys, table, keyColumn, active)
	if err != nil {
		return err
	}
	annotated := compare.Annotate(report, compare.AckSet{}, compare.AckSet{})

	switch f.format {
	case "json":
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(report)
	case "csv":
		err = core.WriteReportCSV(a.stdout, annotated)
	default:
		err = writeText(a.stdout, report, active)
	}
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if f.failOnDrift && !report.Empty() {
		return ErrDrift
	}
	return nil
}

func loadKeys(path string, limit int64) (compare.KeySet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keys: %w", err)
	}
	defer file.Close()

	keys, err := source.ParseKeys(file, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Info("keys loaded", "file", path, "keys", len(keys))
	return keys, nil
}

func writeText(w io.Writer, report compare.Report, active []string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Missing keys (%d):\n", len(report.MissingKeys))
	for _, key := range report.MissingKeys {
		fmt.Fprintf(&b, "  %s\n", key)
	}
	fmt.Fprintf(&b, "Translation issues (%d):\n", len(report.TranslationIssues))
	for _, issue := range report.TranslationIssues {
		fmt.Fprintf(&b, "  %s: %s\n", issue.Key, strings.Join(issue.MissingLanguages, ", "))
	}

	st := report.Stats
	fmt.Fprintf(&b, "\n%d keys, %d rows (%d unkeyed, %d duplicate), languages: %s\n",
		st.Keys, st.Rows, st.UnkeyedRows, st.DuplicateRows, strings.Join(active, ", "))

	_, err := io.WriteString(w, b.String())
	return err
}

func newLanguagesCommand(a *app) *cobra.Command {
	f := &tableFlags{}
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the language columns of a translation table",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := f.load(a.cfg)
			if err != nil {
				return err
			}
			_, structural := f.resolve(a.cfg)
			for _, lang := range compare.Classify(table, structural) {
				if _, err := fmt.Fprintln(a.stdout, lang); err != nil {
					return err
				}
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}
