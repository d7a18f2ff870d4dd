package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"askmydata/adapters/excel"
	"askmydata/domain/core"
	"askmydata/domain/dataset"
	"askmydata/domain/session"
	"askmydata/internal"
	"askmydata/internal/analysis"
	"askmydata/internal/config"
	"askmydata/internal/container"
	"askmydata/internal/migration"
	interactor "askmydata/internal/session"
	"askmydata/ports"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "askmydata",
		Short:         "Ask questions about marketing CSV data from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	registerConfigFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newAskCmd(),
		newHistoryCmd(),
		newDescribeCmd(),
		newMigrateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command) (*config.Config, *internal.Logger, error) {
	cfg, err := loadConfig(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	return cfg, internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel)), nil
}

func openLog(ctx context.Context, cfg *config.Config) (ports.InteractionLog, error) {
	return container.OpenInteractionLog(ctx, cfg.Database, core.SystemClock)
}

func readDataset(path string) (*dataset.Dataset, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return excel.NewDataReader().ReadBytes(filepath.Base(path), content)
}

func newAskCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: "Answer a question about a data file and record it in the history",
		Long: `Answer a question the same way the dashboard does and append it to the chat history.

Example: askmydata ask --file campaigns.csv "what is the total revenue"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			content, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}

			log, err := openLog(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			it := interactor.NewInteractor(excel.NewDataReader(), log, logger)
			state, err := it.Upload(session.NewState(core.NewSessionID()), filepath.Base(file), content)
			if err != nil {
				return err
			}
			_, record, err := it.Ask(cmd.Context(), state, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), record.Answer)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV or XLSX file to load")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the chat history, latest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			log, err := openLog(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			records, err := interactor.NewInteractor(excel.NewDataReader(), log, logger).History(cmd.Context())
			if err != nil {
				return err
			}
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No questions asked yet.")
				return nil
			}
			for _, r := range records {
				fmt.Fprintf(out, "%s\n  You: %s\n  Bot: %s\n\n", r.Timestamp, r.Question, strings.ReplaceAll(r.Answer, "\n", "\n       "))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n entries")
	return cmd
}

func newDescribeCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the overview and summary statistics of a data file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := readDataset(file)
			if err != nil {
				return err
			}
			printDescribe(cmd, ds)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV or XLSX file to describe")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func printDescribe(cmd *cobra.Command, ds *dataset.Dataset) {
	out := cmd.OutOrStdout()
	ov := analysis.BuildOverview(ds)
	fmt.Fprintf(out, "%s: %d rows, %d columns\n\n", ov.Name, ov.Rows, ov.Columns)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Column\tData Type")
	for _, d := range ov.Dtypes {
		fmt.Fprintf(w, "%s\t%s\n", d.Column, d.DataType)
	}
	w.Flush()

	stats := analysis.Describe(ds)
	if len(stats) == 0 {
		return
	}
	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax\t")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\t\n",
			s.Column, s.Count, s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max)
	}
	w.Flush()
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the chat history table if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(cmd)
			if err != nil {
				return err
			}
			log, err := openLog(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			target := cfg.Database.ChatDBPath
			if cfg.Database.UsesPostgres() {
				target = "postgres"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Chat history schema %s ready (%s)\n", migration.NewRunner().Version(), target)
			return nil
		},
	}
}
