package main

import (
	"context"
	"encoding/json"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"weeklypedia/internal/modkit"
	"weeklypedia/internal/modkit/module"
	"weeklypedia/internal/platform/config"
	"weeklypedia/internal/platform/logger"
	"weeklypedia/internal/platform/store"
	"weeklypedia/internal/services/api/digest/domain"
	digestmod "weeklypedia/internal/services/api/digest/module"
)

type digestFlags struct {
	lang     string
	days     int
	extracts bool
	pretty   bool
	driver   string
	dburl    string

	// extractsSet is true when --extracts was passed either way
	extractsSet bool
}

func newDigestCmd() *cobra.Command {
	var f digestFlags
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Build a digest and print it to stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.extractsSet = cmd.Flags().Changed("extracts")
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runDigest(ctx, config.New(), f, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&f.lang, "lang", "l", "", "wiki language code (default CORE_DIGEST_LANG or en)")
	cmd.Flags().IntVarP(&f.days, "days", "d", 0, "trailing window in days (default CORE_DIGEST_DAYS or 7)")
	cmd.Flags().BoolVar(&f.extracts, "extracts", false, "fetch article extracts (overrides CORE_EXTRACTS_ENABLED)")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "indent the JSON output")
	cmd.Flags().StringVar(&f.driver, "driver", "", "change log driver, overrides SERVICE_CHANGELOG_DRIVER")
	cmd.Flags().StringVar(&f.dburl, "dburl", "", "change log DSN or sqlite path, overrides SERVICE_CHANGELOG_DBURL")
	return cmd
}

// storeConfig prefers flags and falls back to SERVICE_CHANGELOG_*
func storeConfig(cfg config.Conf, f digestFlags) (store.Config, error) {
	if f.dburl == "" {
		sc, err := store.FromConfig(cfg, "cli")
		if err != nil {
			return store.Config{}, err
		}
		if f.driver != "" {
			if sc.Driver, err = store.ParseDriver(f.driver); err != nil {
				return store.Config{}, err
			}
		}
		return sc, nil
	}
	d, err := store.ParseDriver(defaultString(f.driver, string(store.DriverSQLite)))
	if err != nil {
		return store.Config{}, err
	}
	return store.Config{
		AppName:  "cli",
		Driver:   d,
		URL:      f.dburl,
		MaxConns: 4,
		Lite:     store.LiteConfig{ReadOnly: true},
		CH:       store.CHConfig{ClientName: "weeklypedia", ClientTag: "cli"},
	}, nil
}

func runDigest(ctx context.Context, cfg config.Conf, f digestFlags, out io.Writer) error {
	log := logger.Named("cli")

	sc, err := storeConfig(cfg, f)
	if err != nil {
		return err
	}
	editions := store.NewEditions(sc, *log)
	defer func() {
		if err := editions.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close change log stores")
		}
	}()

	m := digestmod.New(modkit.Deps{Log: *log, Cfg: cfg, Editions: editions}, digestmod.FromConfig(cfg))
	svc := module.MustPortsOf[domain.ServicePort](m)

	in := domain.DigestInput{Lang: f.lang, Days: f.days}
	if f.extractsSet {
		in.Extracts = &f.extracts
	}
	d, err := svc.Build(ctx, in)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	if f.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(d)
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
