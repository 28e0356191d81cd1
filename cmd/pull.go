package cmd

import (
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/danielolaszy/sprintlens/internal/config"
	"github.com/danielolaszy/sprintlens/internal/jira"
	"github.com/danielolaszy/sprintlens/internal/logging"
)

// pullCmd loads issues straight from the Jira API.
var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace the issues table with the result of a JQL search",
	Long: `Search Jira with the given JQL and run the results through the same
pipeline as an uploaded export. Requires JIRA_URL, JIRA_USERNAME and
JIRA_TOKEN. Sprints are read from JIRA_SPRINT_FIELD (customfield_10020 by
default).

Example:
  sprintlens pull --jql "project = ABC ORDER BY key"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jql, err := cmd.Flags().GetString("jql")
		if err != nil {
			return err
		}
		if jql == "" {
			return errors.New("jql flag is required")
		}

		dryRun, err := cmd.Flags().GetBool("dry-run")
		if err != nil {
			return err
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if err := config.ValidateJiraConfig(cfg); err != nil {
			return err
		}

		logging.Info("pulling issues from jira",
			"url", cfg.Jira.URL,
			"username", cfg.Jira.Username,
			"token", logging.MaskSensitive(cfg.Jira.Token))

		client, err := jira.NewClient(cfg.Jira)
		if err != nil {
			return errors.Wrap(err, "failed to initialize jira client")
		}

		table, err := client.FetchTable(cmd.Context(), jql)
		if err != nil {
			return errors.Wrap(err, "failed to fetch jira issues")
		}

		if dryRun {
			batch, err := pipelineFrom(cfg.Ingest).Build(table)
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

		result, err := newIngester(cfg, pool).IngestTable(cmd.Context(), table)
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	pullCmd.Flags().String("jql", "", "JQL query selecting the issues to load")
	pullCmd.Flags().Bool("dry-run", false, "Fetch and reconcile without writing to the database")
}
