package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"TickerLens/internal/model"
	"TickerLens/internal/notifier"
	"TickerLens/internal/pipeline"
	"TickerLens/internal/render"
	"TickerLens/internal/scheduler"
	"TickerLens/internal/server"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tickerlens",
		Short: "TickerLens - stock price history, fundamentals and moving-average forecast",
		Long: `TickerLens looks up a ticker's daily prices for a date range, a best-effort
fundamentals snapshot and a moving-average forecast overlay.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Configuration file path (default $CONFIG_PATH or configs/config.yaml)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newLookupCmd())

	return rootCmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the optional Telegram bot and the maintenance scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := loadConfig(path)
			if err != nil {
				return err
			}
			a, err := newApp(cfg, true)
			if err != nil {
				return err
			}
			defer a.Close()
			return runServe(a)
		},
	}
}

func runServe(a *app) error {
	a.log.Info().Msg("TickerLens starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(a.recorder, a.cfg.Database.RetentionDays, a.log)
	if err := sched.RegisterAll(a.cfg.Schedule.PruneCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if a.cfg.Telegram.BotToken != "" {
		tn := notifier.NewTelegramNotifier("", a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.log)
		commands := notifier.NewStockCommands(pipeline.NewLatest(a.orch), a.log)
		stopPolling := runInBackground(ctx, func(ctx context.Context) { tn.StartPolling(ctx, commands.Handle) })
		// Runs before the caller closes the recorder that in-flight lookups write to.
		defer stopPolling()
		a.log.Info().Msg("telegram polling started")
	}

	srv := server.New(server.Config{
		Addr:    a.cfg.Server.Addr,
		Log:     a.log,
		Runner:  a.orch,
		Timeout: a.cfg.Provider.Timeout * 2,
	})
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	a.log.Info().Msg("TickerLens is running. Press Ctrl+C to stop.")
	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutdown signal received, stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("http shutdown")
	}
	a.log.Info().Msg("TickerLens stopped")
	return nil
}

// runInBackground starts fn on its own goroutine. The returned stop cancels
// fn's context and blocks until fn has returned.
func runInBackground(ctx context.Context, fn func(context.Context)) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup [TICKER]",
		Short: "Look up one ticker and print the result",
		Long: `Look up one ticker and print its price chart, forecast and fundamentals.
Example: tickerlens lookup RELIANCE.NS --start=2024-01-01 --end=2024-06-30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")
			asJSON, _ := cmd.Flags().GetBool("json")
			width, _ := cmd.Flags().GetInt("width")

			cfg, err := loadConfig(path)
			if err != nil {
				return err
			}
			rng, err := model.ParseRange(start, end, time.Now())
			if err != nil {
				return err
			}
			a, err := newApp(cfg, false)
			if err != nil {
				return err
			}
			defer a.Close()

			bundle := a.orch.Run(cmd.Context(), model.Request{Ticker: args[0], Range: rng, Submitted: true})
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(bundle); err != nil {
					return fmt.Errorf("encode bundle: %w", err)
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), render.Bundle(bundle, width))
			}
			if bundle.NotFound {
				return fmt.Errorf("lookup %s: %s", args[0], bundle.Outcome)
			}
			return nil
		},
	}

	cmd.Flags().String("start", "", "Start date in YYYY-MM-DD format (one year before end if not provided)")
	cmd.Flags().String("end", "", "End date in YYYY-MM-DD format (today if not provided)")
	cmd.Flags().Bool("json", false, "Print the raw bundle as JSON")
	cmd.Flags().Int("width", 80, "Output width in columns")

	return cmd
}
