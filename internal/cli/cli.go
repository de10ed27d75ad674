package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/karolakvido/ics-export/internal/calendar"
	"github.com/karolakvido/ics-export/internal/config"
	"github.com/karolakvido/ics-export/internal/event"
	"github.com/karolakvido/ics-export/internal/fetch"
	"github.com/karolakvido/ics-export/internal/scraper"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagURL     string
	flagOutput  string
	flagKraj    string
	flagConfig  string
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "karolakvido",
		Short: "Export Karol a Kvído concert dates as an iCalendar file",
		Long: `Scrapes the public Karol a Kvído concert calendar and writes the
upcoming events to an iCalendar (.ics) file that calendar apps can subscribe to.
Events can optionally be narrowed to a single kraj.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runExport,
	}

	// Define flags
	cmd.Flags().StringVar(&flagURL, "url", defaults.URL, "Concert calendar page to scrape")
	cmd.Flags().StringVar(&flagOutput, "output", defaults.Output, "Path of the .ics file to write")
	cmd.Flags().StringVar(&flagKraj, "kraj", "", "Only keep events in this kraj (e.g. Praha)")
	cmd.Flags().StringVar(&flagConfig, "config", "", "Optional YAML config file")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	return cmd
}

// runExport is the main command logic
func runExport(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	// Explicit flags win over the config file and environment.
	if cmd.Flags().Changed("url") {
		cfg.URL = flagURL
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = flagOutput
	}
	if cmd.Flags().Changed("kraj") {
		cfg.Kraj = flagKraj
	}

	kraj := strings.TrimSpace(cfg.Kraj)
	if kraj != "" {
		canonical, ok := event.NormalizeRegion(kraj)
		if !ok {
			return fmt.Errorf("unknown kraj %q (expected one of: %s)", kraj, strings.Join(event.Regions(), ", "))
		}
		kraj = canonical
	}

	log.Debug().
		Str("url", cfg.URL).
		Str("output", cfg.Output).
		Str("kraj", kraj).
		Msg("configuration resolved")

	client := fetch.New(cfg.FetchOptions())
	events, err := scraper.New(client).Collect(cfg.URL)
	if err != nil {
		return err
	}

	if kraj != "" {
		events = event.FilterByRegion(events, kraj)
		log.Info().Str("kraj", kraj).Int("events", len(events)).Msg("filtered by kraj")
	}

	data, err := calendar.Build(events)
	if err != nil {
		return fmt.Errorf("building calendar: %w", err)
	}
	if err := calendar.Validate(data, len(events)); err != nil {
		return fmt.Errorf("validating calendar: %w", err)
	}

	if err := os.WriteFile(cfg.Output, []byte(data), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", cfg.Output, err)
	}

	log.Info().Str("path", cfg.Output).Int("events", len(events)).Msg("calendar written")
	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
