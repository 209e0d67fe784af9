// Command ingest is the hockey-tracker ingestion CLI.
//
// Usage:
//
//	hockey-ingest build
//	hockey-ingest build --fresh --export teams.json
//	hockey-ingest poll fixtures
//	hockey-ingest poll results --dry-run
//	hockey-ingest export teams --out teams.json
//	hockey-ingest summaries --rebuild
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bourbon-beast/hockey-tracker-vite/internal/config"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/export"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/fetch"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/model"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/pipeline"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/reconcile"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/store"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/telemetry"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

// dryRun is the global --dry-run flag. It is ORed with DRY_RUN.
var dryRun bool

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "hockey-ingest",
		Short:         "Hockey Victoria fixture ingestion CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Read and parse everything but write nothing")

	root.AddCommand(buildCmd())
	root.AddCommand(pollCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(summariesCmd())

	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// build command
// --------------------------------------------------------------------------

func buildCmd() *cobra.Command {
	var opts pipeline.BuildOptions
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Discover the season: competitions, grades, clubs, teams and games",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob("season build", func(ctx context.Context, d pipeline.Deps) (pipeline.RunResult, error) {
				if opts.ExportPath == "" {
					opts.ExportPath = d.Config.TeamsExportPath
				}
				return pipeline.Rebuild(ctx, d, opts)
			})
		},
	}
	cmd.Flags().BoolVar(&opts.Fresh, "fresh", false, "Delete every collection before rebuilding")
	cmd.Flags().StringVar(&opts.ExportPath, "export", "", "Also write the discovered teams to this JSON file")
	cmd.Flags().BoolVar(&opts.SkipGames, "skip-games", false, "Stop after teams, clubs and settings")
	return cmd
}

// --------------------------------------------------------------------------
// poll command
// --------------------------------------------------------------------------

func pollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Refresh games for the home club's stored teams",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "fixtures",
		Short: "Upsert every game of every round",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob("fixture poll", pipeline.PollFixtures)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "results",
		Short: "Upsert games inside the results window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob("results poll", pipeline.PollResults)
		},
	})
	return cmd
}

// --------------------------------------------------------------------------
// export command
// --------------------------------------------------------------------------

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write store contents to files",
	}
	var out string
	teams := &cobra.Command{
		Use:   "teams",
		Short: "Write the stored teams as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob("team export", func(ctx context.Context, d pipeline.Deps) (pipeline.RunResult, error) {
				var res pipeline.RunResult
				path := out
				if path == "" {
					path = d.Config.TeamsExportPath
				}
				if path == "" {
					return res, fmt.Errorf("--out or TEAMS_EXPORT_PATH is required")
				}
				list, err := pipeline.LoadTeams(ctx, d.Store)
				if err != nil {
					return res, err
				}
				if err := export.WriteTeamsJSON(path, list); err != nil {
					return res, err
				}
				res.Teams = len(list)
				logger.Info("teams exported", "path", path, "teams", len(list))
				return res, nil
			})
		},
	}
	teams.Flags().StringVar(&out, "out", "", "Output path (defaults to TEAMS_EXPORT_PATH)")
	cmd.AddCommand(teams)
	return cmd
}

// --------------------------------------------------------------------------
// summaries command
// --------------------------------------------------------------------------

func summariesCmd() *cobra.Command {
	var rebuild bool
	cmd := &cobra.Command{
		Use:   "summaries",
		Short: "Print the home club's summaries, optionally rebuilding them first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob("summaries", func(ctx context.Context, d pipeline.Deps) (pipeline.RunResult, error) {
				var res pipeline.RunResult
				if rebuild {
					r, err := pipeline.Summaries(ctx, d)
					if err != nil {
						return r, err
					}
					res.Add(r)
				}
				list, err := pipeline.LoadClubSummaries(ctx, d)
				if err != nil {
					return res, err
				}
				renderClubSummaries(cmd.OutOrStdout(), d.Config.HomeClub.ID, list)
				return res, nil
			})
		},
	}
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "Recompute summaries from stored games first")
	return cmd
}

// renderClubSummaries prints one row per division and gender for clubID.
func renderClubSummaries(w io.Writer, clubID string, summaries []model.ClubSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(clubID)
	t.AppendHeader(table.Row{"Division", "Gender", "Teams", "Played", "W", "D", "L", "Win %", "GF", "GA", "GD"})
	var played, wins, draws, losses int
	for _, s := range summaries {
		if s.ClubID != clubID {
			continue
		}
		t.AppendRow(table.Row{
			s.Division, s.Gender, s.TotalTeams, s.TotalGamesPlayed,
			s.Wins, s.Draws, s.Losses, fmt.Sprintf("%.1f", s.WinPercentage),
			s.GoalsFor, s.GoalsAgainst, s.GoalDifference,
		})
		played += s.TotalGamesPlayed
		wins += s.Wins
		draws += s.Draws
		losses += s.Losses
	}
	t.AppendFooter(table.Row{"Total", "", "", played, wins, draws, losses})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 8, Align: text.AlignRight},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// runJob loads config, opens the store and fetcher, runs fn, and logs the
// result and elapsed time whether or not fn succeeds.
func runJob(name string, fn func(ctx context.Context, d pipeline.Deps) (pipeline.RunResult, error)) error {
	start := time.Now()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.DryRun = cfg.DryRun || dryRun
	logger = telemetry.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	tel, err := telemetry.Setup(ctx, "hockey-ingest", cfg.OTLPEndpoint, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	s, err := store.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	defer s.Close()

	d := pipeline.Deps{
		Store: s,
		Fetcher: fetch.New(fetch.Options{
			Timeout:         cfg.FetchTimeout,
			MaxRetries:      cfg.FetchRetries,
			RetryDelay:      cfg.FetchRetryDelay,
			PolitenessDelay: cfg.PolitenessDelay,
			UserAgent:       cfg.UserAgent,
		}, logger),
		Upserter: reconcile.New(s, cfg.BatchSize, cfg.DryRun, logger),
		Config:   cfg,
		Logger:   logger,
	}

	logger.Info("starting "+name, "store", cfg.StoreBackend, "home_club", cfg.HomeClub.Name, "dry_run", cfg.DryRun)
	res, err := fn(ctx, d)
	elapsed := time.Since(start).Round(time.Millisecond)
	for _, e := range res.Errors {
		logger.Error(name+" error", "error", e)
	}
	if err != nil {
		logger.Error(name+" failed", "elapsed", elapsed, "summary", res.Summary(), "error", err)
		return err
	}
	logger.Info(name+" finished", "elapsed", elapsed, "summary", res.Summary())
	return nil
}
