package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	runsConfigPath string
	runsLimit      int
	runsJSON       bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent remediation runs from the audit trail",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().StringVar(&runsConfigPath, "config", "", "Path to config file (JSON or YAML)")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Number of runs to list")
	runsCmd.Flags().BoolVar(&runsJSON, "json", false, "Print runs as JSON")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(runsConfigPath)
	if err != nil {
		return err
	}
	database, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(ctx, runsLimit)
	if err != nil {
		return err
	}
	if runsJSON {
		return writeJSON(out, runs)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RUN\tSTARTED\tSTATUS\tBEFORE\tDEACTIVATED\tDELETED\tAFTER")
	for _, r := range runs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04"), r.Status,
			r.Summary.Before, r.Summary.Deactivated, r.Summary.Deleted, r.Summary.After)
	}
	return tw.Flush()
}
