package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	scheduleSpec  string
	scheduleFlags auditSettings
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the audit on a cron schedule until interrupted",
	Long: `Runs "gigaudit audit" with the given flags on a standard cron schedule
(e.g. "0 3 * * 1" or "@weekly"). A run that is still going when the next one
is due causes that tick to be skipped. Stops on SIGINT or SIGTERM.`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleSpec, "cron", "@weekly", "Cron schedule for audit runs")
	registerAuditFlags(scheduleCmd, &scheduleFlags)
	rootCmd.AddCommand(scheduleCmd)
}

// cronLogger adapts zap to the cron.Logger interface
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduleFlags.maxEscalationsSet = cmd.Flags().Changed("max-escalations")
	settings := scheduleFlags
	out := cmd.OutOrStdout()
	log := zap.L().With(zap.String("component", "schedule"))

	logger := cronLogger{s: zap.S().Named("cron")}
	c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.SkipIfStillRunning(logger)))
	id, err := c.AddFunc(scheduleSpec, func() {
		report, err := runAudit(ctx, settings, out)
		if err != nil {
			log.Error("schedule: audit run failed", zap.Error(err))
			return
		}
		log.Info("schedule: audit run complete",
			zap.String("run_id", report.RunID),
			zap.Int("processed", report.Total),
		)
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", scheduleSpec, err)
	}

	c.Start()
	next := c.Entry(id).Next
	_, _ = fmt.Fprintf(out, "Audit scheduled (%s), next run at %s\n", scheduleSpec, next.Format("2006-01-02 15:04"))

	<-ctx.Done()
	log.Info("schedule: shutdown signal received, waiting for running audit")
	<-c.Stop().Done()
	return nil
}
