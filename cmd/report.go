package cmd

import (
	"database/sql/driver"
	"fmt"
	"io"
	"reflect"
	"strings"
	"text/tabwriter"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/danielolaszy/sprintlens/internal/config"
	"github.com/danielolaszy/sprintlens/internal/store"
)

// reportCmd prints one of the report views.
var reportCmd = &cobra.Command{
	Use:   "report <name>",
	Short: "Print a sprint report",
	Long: fmt.Sprintf(`Print the rows of a report view as a table.

Available reports: %s

Example:
  sprintlens report velocity`, strings.Join(store.ReportNames, ", ")),
	Args:      cobra.ExactArgs(1),
	ValidArgs: store.ReportNames,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		pool, err := connect(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		rows, err := store.NewReports(store.SQLX(pool)).ByName(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printReport(cmd.OutOrStdout(), rows)
	},
}

// printReport writes a slice of report structs as a tab-aligned table, one
// column per db-tagged field.
func printReport(w io.Writer, rows any) error {
	v := reflect.ValueOf(rows)
	if v.Kind() != reflect.Slice {
		return errors.Errorf("report rows must be a slice, got %T", rows)
	}

	t := v.Type().Elem()
	if t.Kind() != reflect.Struct {
		return errors.Errorf("report rows must be structs, got %s", t)
	}

	var header []string
	var fields []int
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("db"); tag != "" {
			header = append(header, strings.ToUpper(tag))
			fields = append(fields, i)
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for i := 0; i < v.Len(); i++ {
		row := v.Index(i)
		cells := make([]string, len(fields))
		for j, f := range fields {
			cells[j] = formatCell(row.Field(f))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func formatCell(v reflect.Value) string {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if valuer, ok := v.Interface().(driver.Valuer); ok {
		val, err := valuer.Value()
		if err != nil || val == nil {
			return ""
		}
		return fmt.Sprint(val)
	}
	return fmt.Sprint(v.Interface())
}
