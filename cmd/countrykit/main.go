// Command countrykit prints flag-decorated, localized country labels.
//
// Usage:
//
//	countrykit format KE ug 00     # print labels
//	countrykit list --all          # print the picker list
//	countrykit render -o out.png   # draw the picker list
//	countrykit detect              # locate this machine and pick a language
//	countrykit serve               # start the REST API
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	ckconfig "github.com/RobinCoderZhao/countrykit/internal/countrykit/config"
	"github.com/RobinCoderZhao/countrykit/pkg/country"
	"github.com/RobinCoderZhao/countrykit/pkg/i18n"
	"github.com/RobinCoderZhao/countrykit/pkg/picker"
	"github.com/RobinCoderZhao/countrykit/pkg/render"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

var version = "dev"

// app carries state shared by every subcommand.
type app struct {
	configPath string
	lang       string
	verbose    bool

	cfg ckconfig.Config
}

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "countrykit",
		Short:         "Flag-decorated, localized country labels",
		Long:          "countrykit formats ISO 3166-1 alpha-2 codes as emoji flags with localized country names, for pickers, bots and APIs.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default .countrykit.yaml, then ~/.countrykit.yaml)")
	rootCmd.PersistentFlags().StringVarP(&a.lang, "lang", "l", "", "display language, e.g. fr or sw-KE")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(a.formatCmd())
	rootCmd.AddCommand(a.listCmd())
	rootCmd.AddCommand(a.renderCmd())
	rootCmd.AddCommand(a.detectCmd())
	rootCmd.AddCommand(a.serveCmd())
	rootCmd.AddCommand(a.tokenCmd())
	rootCmd.AddCommand(a.channelsCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

func (a *app) setup() error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := ckconfig.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.lang != "" {
		cfg.Lang = a.lang
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	slog.Debug("config loaded", "lang", cfg.Lang, "db", cfg.Storage.DSN)
	return nil
}

func (a *app) language() language.Tag {
	return a.cfg.Language()
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("countrykit %s\n", version)
		},
	}
}

func (a *app) formatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format CODE...",
		Short: "Print the label for each country code",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := picker.NewFormatter(nil)
			for _, arg := range args {
				fmt.Fprintln(cmd.OutOrStdout(), f.Format(country.Code(arg), a.language()))
			}
			return nil
		},
	}
}

// pickerCodes returns --codes when given, else the configured list.
func (a *app) pickerCodes(codes string, all bool) ([]country.Code, error) {
	cfg := a.cfg
	if codes != "" {
		cfg.Codes = nil
		list, err := country.ParseList(codes)
		if err != nil {
			return nil, err
		}
		for _, c := range list {
			cfg.Codes = append(cfg.Codes, string(c))
		}
	}
	cfg.IncludeAll = all
	return cfg.CountryCodes()
}

func (a *app) listCmd() *cobra.Command {
	var codes string
	var all bool
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the picker list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("all") {
				all = a.cfg.IncludeAll
			}
			list, err := a.pickerCodes(codes, all)
			if err != nil {
				return err
			}
			adapter := picker.NewAdapter(list, a.language(), nil)
			rows := adapter.Rows()

			out := cmd.OutOrStdout()
			if outputJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			for _, row := range rows {
				fmt.Fprintf(out, "%3d  %s  %s\n", row.Position, row.Code, row.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&codes, "codes", "", "comma separated codes (default: config or every ISO code)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "prepend the all-countries entry")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output JSON")
	return cmd
}

func (a *app) renderCmd() *cobra.Command {
	var codes, out, title string
	var all bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the picker list as a PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("all") {
				all = a.cfg.IncludeAll
			}
			list, err := a.pickerCodes(codes, all)
			if err != nil {
				return err
			}
			lang := a.language()
			if title == "" {
				title = i18n.Default().String(lang, i18n.KeyPickerTitle)
			}

			r := render.NewListRenderer()
			r.FontPath = a.cfg.Render.FontPath
			rows := picker.NewAdapter(list, lang, nil).Rows()
			if err := r.RenderPNG(title, rows, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🖼️  %d rows written to %s\n", len(rows), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&codes, "codes", "", "comma separated codes (default: config or every ISO code)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "prepend the all-countries entry")
	cmd.Flags().StringVarP(&out, "out", "o", "countries.png", "output file")
	cmd.Flags().StringVar(&title, "title", "", "header text (default: localized picker title)")
	return cmd
}

// locator builds the configured geolocation chain. The returned func releases
// any database it opened.
func (a *app) locator() (i18n.GeoLocator, func(), error) {
	var chain i18n.ChainLocator
	closeFn := func() {}

	if path := a.cfg.Geo.GeoIPDB; path != "" {
		geo, err := i18n.OpenGeoIPLocator(path)
		if err != nil {
			return nil, closeFn, err
		}
		chain = append(chain, geo)
		closeFn = func() { geo.Close() }
	}
	if a.cfg.Geo.IPAPI {
		chain = append(chain, i18n.NewIPAPILocator())
	}
	if len(chain) == 0 {
		return nil, closeFn, nil
	}
	return chain, closeFn, nil
}

func (a *app) detectCmd() *cobra.Command {
	var ip string

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Locate an address and pick the display language",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			loc, closeFn, err := a.locator()
			if err != nil {
				return err
			}
			defer closeFn()
			if loc == nil {
				return fmt.Errorf("no geolocation backend configured")
			}

			if ip == "" {
				ip = i18n.GetPublicIP(ctx)
				if ip == "" {
					return fmt.Errorf("could not determine public IP, pass --ip")
				}
			}

			code, err := loc.Locate(ctx, ip)
			if err != nil {
				return fmt.Errorf("locate %s: %w", ip, err)
			}
			lang := i18n.DetectLanguage(ctx, a.lang, ip, staticLocator(code))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "📍 %s\n", ip)
			fmt.Fprintf(out, "   %s\n", picker.NewFormatter(nil).Format(country.Code(code), lang.Tag()))
			fmt.Fprintf(out, "   language: %s (%s)\n", lang, i18n.LanguageName(lang))
			return nil
		},
	}

	cmd.Flags().StringVar(&ip, "ip", "", "address to locate (default: this machine's public IP)")
	return cmd
}

// staticLocator reports a country already resolved.
type staticLocator string

func (s staticLocator) Locate(context.Context, string) (string, error) {
	return string(s), nil
}
