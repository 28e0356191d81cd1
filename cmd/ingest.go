package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/danielolaszy/sprintlens/internal/config"
	"github.com/danielolaszy/sprintlens/internal/ingest"
	"github.com/danielolaszy/sprintlens/pkg/models"
)

// ingestCmd loads a local export file.
var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Replace the issues table with a local Jira export",
	Long: `Run the ingestion pipeline on a CSV or XLSX export and replace the
contents of the issues table with the result.

With --dry-run the file is parsed and reconciled but nothing is written and
no database connection is needed.

Example:
  sprintlens ingest ./jira.csv
  sprintlens ingest --dry-run ./Jira.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, err := cmd.Flags().GetBool("dry-run")
		if err != nil {
			return err
		}

		content, err := os.ReadFile(args[0])
		if err != nil {
			return errors.Wrap(err, "read export")
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		if dryRun {
			batch, err := ingest.NewIngester(pipelineFrom(cfg.Ingest), nil, cfg.Ingest.PreviewSize).Preview(content)
			if err != nil {
				return err
			}
			printBatch(cmd.OutOrStdout(), batch, cfg.Ingest.PreviewSize)
			return nil
		}

		pool, err := connect(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		result, err := newIngester(cfg, pool).Ingest(cmd.Context(), content)
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	ingestCmd.Flags().Bool("dry-run", false, "Parse and reconcile without writing to the database")
}

func printBatch(w io.Writer, batch ingest.Batch, previewSize int) {
	fmt.Fprintf(w, "Key column: %s\n", batch.Columns.Key)
	fmt.Fprintf(w, "Sprint columns: %s\n", strings.Join(batch.Columns.Sprints, ", "))
	fmt.Fprintf(w, "Issues: %d (dropped %d, duplicates %d)\n", len(batch.Issues), batch.Dropped, batch.Duplicates)

	n := min(previewSize, len(batch.Issues))
	printIssues(w, batch.Issues[:n])
}

func printResult(w io.Writer, result *models.IngestResult) {
	fmt.Fprintf(w, "Run %s: wrote %d issues in %d ms (dropped %d, duplicates %d)\n",
		result.RunID, result.Rows, result.ElapsedMS, result.Dropped, result.Duplicates)
	printIssues(w, result.Preview)
}

func printIssues(w io.Writer, issues []models.CanonicalIssue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tSTATUS\tPLANNED\tDONE\tSORT")
	for _, issue := range issues {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			issue.IssueKey, issue.Status, issue.SprintPlanned, issue.SprintDone, issue.SortNum)
	}
	_ = tw.Flush()
}
