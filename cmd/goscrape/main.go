package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goscrape/internal/app"
)

func main() {
	// Logging setup: human-readable logs on stderr, result JSON on stdout.
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		urlArg     string
		xpathArg   string
		cssArg     string
		timeout    int
		check      bool
		userAgent  string
		configPath string
		verbose    bool
	)

	flag.StringVar(&urlArg, "url", os.Getenv("GOSCRAPE_URL"), "URL to fetch HTML data from")
	flag.StringVar(&xpathArg, "xpath", "", "XPath expression selecting the data")
	flag.StringVar(&cssArg, "css", "", "CSS selector alternative to -xpath")
	flag.IntVar(&timeout, "timeout", 0, "Request timeout in seconds (default 10)")
	flag.BoolVar(&check, "check", false, "Check mode: HEAD request only, no extraction")
	flag.StringVar(&userAgent, "ua", "goscrape/1.0 (+https://github.com/hyperifyio/goscrape)", "Custom User-Agent for the request")
	flag.StringVar(&configPath, "config", os.Getenv("GOSCRAPE_CONFIG"), "Optional YAML/JSON config file supplying defaults")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := app.Config{
		URL:            urlArg,
		Query:          xpathArg,
		TimeoutSeconds: timeout,
		CheckMode:      check,
		UserAgent:      userAgent,
		Verbose:        verbose,
	}
	if cssArg != "" {
		if xpathArg != "" {
			log.Error().Msg("-xpath and -css are mutually exclusive")
			os.Exit(2)
		}
		cfg.Query = cssArg
		cfg.QueryLang = app.QueryLangCSS
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("load config file")
			os.Exit(2)
		}
		app.ApplyFileConfig(&cfg, fc)
		if cfg.Verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	}

	res, err := run(cfg)
	enc := json.NewEncoder(os.Stdout)
	if err != nil {
		log.Error().Err(err).Msg("scrape failed")
		// Exit code policy: 2 for invocation mistakes, 1 for fetch or query
		// failures. Either way the structured failure record goes to stdout.
		_ = enc.Encode(app.FailureFrom(cfg.URL, err))
		if errors.Is(err, app.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
	_ = enc.Encode(res)
}

func run(cfg app.Config) (*app.Result, error) {
	a, err := app.New(cfg)
	if err != nil {
		return nil, err
	}
	return a.Run(context.Background())
}
