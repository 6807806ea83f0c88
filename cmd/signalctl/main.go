// Package main provides signalctl, the admin CLI for the signal engine.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/oficialtruesignal-bit/truesignal-engine/internal/betslip"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/config"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/database"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/feed"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/logger"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/models"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/repository"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/service"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/stats"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "signalctl",
		Short: "Administer the TrueSignal engine signal collection",
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "path to configuration file")

	rootCmd.AddCommand(createCmd())
	rootCmd.AddCommand(settleCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(statsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withServices loads configuration, connects to the database and hands the
// wired services to the command body.
func withServices(fn func(ctx context.Context, signals *service.SignalService, repo repository.SignalRepository) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog := logger.NewLogger("warn")
	entry := logger.WithComponent(appLog, "signalctl")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repo := repository.NewPostgresSignalRepository(db)
	hub := feed.NewHub(entry)
	signals := service.NewSignalService(repo, hub, entry)

	return fn(ctx, signals, repo)
}

func createCmd() *cobra.Command {
	var (
		league   string
		homeTeam string
		awayTeam string
		market   string
		odd      string
		stake    string
		isFree   bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a new signal",
		RunE: func(cmd *cobra.Command, args []string) error {
			oddValue, err := decimal.NewFromString(odd)
			if err != nil {
				return fmt.Errorf("invalid odd %q: %w", odd, err)
			}
			stakeValue, err := decimal.NewFromString(stake)
			if err != nil {
				return fmt.Errorf("invalid stake %q: %w", stake, err)
			}

			return withServices(func(ctx context.Context, signals *service.SignalService, _ repository.SignalRepository) error {
				signal, err := signals.Publish(ctx, &models.SignalDraft{
					League:     league,
					HomeTeam:   homeTeam,
					AwayTeam:   awayTeam,
					Market:     market,
					Odd:        oddValue,
					StakeUnits: stakeValue,
					IsFree:     isFree,
				})
				if err != nil {
					return err
				}

				fmt.Printf("published signal %s @ %s\n", signal.ID, betslip.FormatOdd(signal.Odd))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&league, "league", "", "league name")
	cmd.Flags().StringVar(&homeTeam, "home", "", "home team")
	cmd.Flags().StringVar(&awayTeam, "away", "", "away team")
	cmd.Flags().StringVar(&market, "market", "", "market description")
	cmd.Flags().StringVar(&odd, "odd", "", "decimal odd")
	cmd.Flags().StringVar(&stake, "stake", "1", "stake in units")
	cmd.Flags().BoolVar(&isFree, "free", false, "publish on the free channel")
	_ = cmd.MarkFlagRequired("market")
	_ = cmd.MarkFlagRequired("odd")

	return cmd
}

func settleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settle <signal-id> <green|red>",
		Short: "Settle a pending signal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid signal ID %q: %w", args[0], err)
			}

			status := models.SignalStatus(args[1])
			if !status.IsSettled() {
				return models.ErrInvalidStatus
			}

			return withServices(func(ctx context.Context, signals *service.SignalService, _ repository.SignalRepository) error {
				signal, err := signals.Settle(ctx, id, status)
				if err != nil {
					return err
				}

				fmt.Printf("signal %s settled %s\n", signal.ID, signal.Status)
				return nil
			})
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <signal-id>",
		Short: "Delete a signal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid signal ID %q: %w", args[0], err)
			}

			return withServices(func(ctx context.Context, signals *service.SignalService, _ repository.SignalRepository) error {
				if err := signals.Delete(ctx, id); err != nil {
					return err
				}

				fmt.Printf("signal %s deleted\n", id)
				return nil
			})
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the aggregated dashboard metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(func(ctx context.Context, _ *service.SignalService, repo repository.SignalRepository) error {
				signals, err := repo.List(ctx)
				if err != nil {
					return err
				}

				snapshot := stats.Compute(signals)
				fmt.Printf("signals:      %d settled, %d pending\n", snapshot.Sample, snapshot.Pending)
				fmt.Printf("assertivity:  %.1f%%\n", snapshot.Assertivity)
				fmt.Printf("roi:          %.1f%%\n", snapshot.ROI)
				if snapshot.Streak.Wins > 0 {
					fmt.Printf("streak:       %d wins\n", snapshot.Streak.Wins)
				} else {
					fmt.Printf("streak:       %d losses\n", snapshot.Streak.Losses)
				}
				return nil
			})
		},
	}
}
