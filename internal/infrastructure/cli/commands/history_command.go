package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/hansli-go/internal/app"
	"github.com/doeshing/hansli-go/internal/domain"
	"github.com/doeshing/hansli-go/internal/infrastructure/history"
)

// maxHistoryAnalysisRecords bounds the records read by 'history stats'.
const maxHistoryAnalysisRecords = 1000

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect hansli run history",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
		newHistoryStatsCommand(container),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	var (
		limit int
		query string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container, limit, query)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "Max entries to show")
	cmd.Flags().StringVar(&query, "query", "", "Only show runs whose command or input contains this text")
	return cmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearHistory(container)
		},
	}
}

// newHistoryExportCommand creates the 'history export' subcommand
func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportHistory(container, args[0])
		},
	}
}

// newHistoryStatsCommand creates the 'history stats' subcommand
func newHistoryStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show success rate, model usage and top commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistoryStats(cmd.OutOrStdout(), container)
		},
	}
}

// listHistoryEntries lists recent history entries
func listHistoryEntries(out io.Writer, container *app.Container, limit int, query string) error {
	store := container.HistoryStore
	if store == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	records, err := store.Records(limit, query)
	if err != nil {
		return fmt.Errorf("failed to retrieve history records: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	for _, rec := range records {
		fmt.Fprintln(out, formatRunRecord(rec))
	}

	return nil
}

// formatRunRecord renders one history line
func formatRunRecord(rec domain.RunRecord) string {
	status := "ok"
	if !rec.Success {
		status = "FAILED"
	}
	line := fmt.Sprintf("%s | %-6s | %-22s | %s %s",
		rec.Timestamp.Local().Format(TimestampFormat),
		status,
		rec.Policy,
		rec.Command,
		rec.Input)
	if rec.Attempts > 0 {
		line += fmt.Sprintf(" | %d model call(s), %d file(s) written", rec.Attempts, rec.FilesWritten)
	}
	return line
}

// clearHistory clears the history store
func clearHistory(container *app.Container) error {
	if container.HistoryStore == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	if err := container.HistoryStore.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	return nil
}

// exportHistory exports history to a JSONL file
func exportHistory(container *app.Container, path string) error {
	store := container.HistoryStore
	if store == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	if err := store.ExportJSON(path); err != nil {
		return fmt.Errorf("failed to export history to %s: %w", path, err)
	}

	return nil
}

// showHistoryStats displays success rate and top commands
func showHistoryStats(out io.Writer, container *app.Container) error {
	store := container.HistoryStore
	if store == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	records, err := store.Records(maxHistoryAnalysisRecords, "")
	if err != nil {
		return fmt.Errorf("failed to retrieve history for analysis: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	displayHistoryStatistics(out, history.Summarize(records, DefaultTopCommands))
	return nil
}

// displayHistoryStatistics prints aggregated statistics
func displayHistoryStatistics(out io.Writer, stats history.Stats) {
	fmt.Fprintf(out, "Runs: %d (success rate %.1f%%)\n", stats.Runs, stats.SuccessRate())
	fmt.Fprintf(out, "Model calls: %d\n", stats.ModelCalls)
	fmt.Fprintf(out, "Files written: %d\n", stats.FilesWritten)
	fmt.Fprintf(out, "Total run time: %s\n", time.Duration(stats.TotalDuration)*time.Millisecond)

	policies := make([]string, 0, len(stats.ByPolicy))
	for policy := range stats.ByPolicy {
		policies = append(policies, policy)
	}
	sort.Strings(policies)
	fmt.Fprintln(out, "By policy:")
	for _, policy := range policies {
		fmt.Fprintf(out, "  %s: %d\n", policy, stats.ByPolicy[policy])
	}

	fmt.Fprintln(out, "Top commands:")
	for _, entry := range stats.TopCommands {
		fmt.Fprintf(out, "  %s (%d)\n", entry.Command, entry.Count)
	}
}
