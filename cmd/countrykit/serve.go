package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/RobinCoderZhao/countrykit/internal/api"
	"github.com/RobinCoderZhao/countrykit/internal/channel"
	"github.com/RobinCoderZhao/countrykit/pkg/country"
	"github.com/RobinCoderZhao/countrykit/pkg/picker"
	"github.com/RobinCoderZhao/countrykit/pkg/storage"
	"github.com/spf13/cobra"
)

// openChannels opens the configured database and channel store.
func (a *app) openChannels(ctx context.Context) (*storage.DB, *channel.Store, error) {
	db, err := storage.Open(a.cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	store, err := channel.NewStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, store, nil
}

func (a *app) serveCmd() *cobra.Command {
	var addr string
	var seed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			ctx := cmd.Context()

			db, store, err := a.openChannels(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if seed {
				n, err := store.AddAll(ctx, channel.Seed)
				if err != nil {
					return fmt.Errorf("seed channels: %w", err)
				}
				slog.Info("channels seeded", "added", n)
			}

			loc, closeFn, err := a.locator()
			if err != nil {
				return err
			}
			defer closeFn()

			codes, err := a.cfg.CountryCodes()
			if err != nil {
				return err
			}
			if a.cfg.Server.JWTSecret == "" {
				slog.Warn("COUNTRYKIT_JWT_SECRET not set, channel writes are disabled")
			}

			server := api.NewServer(picker.NewFormatter(nil), store, api.Options{
				Codes:       codes,
				DefaultLang: a.language(),
				JWTSecret:   a.cfg.Server.JWTSecret,
				Locator:     loc,
			})

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				slog.Info("Starting REST API Server", "addr", addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			// Graceful shutdown
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return fmt.Errorf("server failed: %w", err)
			case <-quit:
			}
			slog.Info("Shutting down server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Error("Server forced to shutdown", "error", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&seed, "seed", false, "insert the sample channels before serving")
	return cmd
}

func (a *app) tokenCmd() *cobra.Command {
	var subject string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for channel writes",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := api.GenerateToken(a.cfg.Server.JWTSecret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "admin", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", api.DefaultTokenTTL, "token lifetime")
	return cmd
}

func (a *app) channelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "Manage the per-country channel directory",
	}
	cmd.AddCommand(a.channelsListCmd())
	cmd.AddCommand(a.channelsAddCmd())
	cmd.AddCommand(a.channelsSeedCmd())
	return cmd
}

func (a *app) channelsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [COUNTRY]",
		Short: "List channels, optionally for one country",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selected := country.All
			if len(args) == 1 {
				code, err := country.Parse(args[0])
				if err != nil {
					return err
				}
				selected = code
			}

			ctx := cmd.Context()
			db, store, err := a.openChannels(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			channels, err := store.List(ctx, selected)
			if err != nil {
				return err
			}

			lang := a.language()
			f := picker.NewFormatter(nil)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, f.Format(selected, lang))
			if len(channels) == 0 {
				fmt.Fprintln(out, "   (none)")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, c := range channels {
				fmt.Fprintf(w, "  %d\t%s\t%s\t%s\n", c.ID, f.Format(c.CountryAlpha2, lang), c.Name, c.Kind)
			}
			return w.Flush()
		},
	}
}

func (a *app) channelsAddCmd() *cobra.Command {
	var c channel.Channel
	var code string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			c.CountryAlpha2 = country.Normalize(code)

			ctx := cmd.Context()
			db, store, err := a.openChannels(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := store.Add(ctx, c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Added %s (id %d)\n", c.Name, id)
			return nil
		},
	}

	cmd.Flags().StringVar(&c.Name, "name", "", "channel name")
	cmd.Flags().StringVar(&code, "country", "", "ISO 3166-1 alpha-2 code")
	cmd.Flags().StringVar(&c.Kind, "kind", channel.KindMobileMoney, "bank, mobile_money or telecom")
	cmd.Flags().StringVar(&c.HNI, "hni", "", "home network identity (MCC+MNC)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("country")
	return cmd
}

func (a *app) channelsSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, store, err := a.openChannels(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := store.AddAll(ctx, channel.Seed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🌱 %d of %d sample channels added\n", n, len(channel.Seed))
			return nil
		},
	}
}
