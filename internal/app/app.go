package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goscrape/internal/extract"
	"github.com/hyperifyio/goscrape/internal/fetch"
)

// Result is the structured outcome of a run that completed without a fatal
// error. Invariant: Matched is true exactly when Content is non-nil, and a
// present match also reports Changed, matching idempotent-check semantics.
type Result struct {
	URL     string `json:"url"`
	Matched bool   `json:"matched"`
	Content any    `json:"content"`
	Changed bool   `json:"changed"`
	Elapsed int    `json:"elapsed"`
	Msg     string `json:"msg,omitempty"`
}

// Failure is the structured record emitted when the run fails: a transport
// error, a non-2xx response, or a malformed query expression.
type Failure struct {
	URL        string `json:"url"`
	Failed     bool   `json:"failed"`
	Msg        string `json:"msg"`
	StatusCode int    `json:"status_code,omitempty"`
	Elapsed    int    `json:"elapsed"`
}

// FailureFrom maps a run error onto the Failure record, pulling the status
// code and elapsed seconds out of the typed fetch errors when present.
func FailureFrom(url string, err error) Failure {
	f := Failure{URL: url, Failed: true}
	if err != nil {
		f.Msg = err.Error()
	}
	var he *fetch.HTTPError
	if errors.As(err, &he) {
		f.StatusCode = he.StatusCode
		f.Elapsed = he.Elapsed
	}
	var ne *fetch.NetworkError
	if errors.As(err, &ne) {
		f.Elapsed = ne.Elapsed
	}
	return f
}

// App sequences the Fetcher and the Extractor for exactly one run.
type App struct {
	cfg    Config
	client *fetch.Client
	eval   extract.Evaluator
}

// New validates cfg, fills its defaults, and builds the run pipeline.
func New(cfg Config) (*App, error) {
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	a := &App{
		cfg: cfg,
		client: &fetch.Client{
			HTTPClient: newHTTPClient(),
			UserAgent:  cfg.UserAgent,
			Timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
	switch cfg.QueryLang {
	case QueryLangCSS:
		a.eval = extract.CSSEvaluator{}
	default:
		a.eval = extract.XPathEvaluator{}
	}
	return a, nil
}

// Run fetches once and, on a body, extracts once. A 304 short-circuits with
// an unchanged result and the extractor is never invoked; in check mode only
// existence is reported. Fetch and query errors propagate to the caller.
func (a *App) Run(ctx context.Context) (*Result, error) {
	mode := fetch.ModeGet
	if a.cfg.CheckMode {
		mode = fetch.ModeHead
	}

	res, err := a.client.Do(ctx, a.cfg.URL, mode)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("url", a.cfg.URL).Int("status", res.StatusCode).Int("elapsed", res.Elapsed).Msg("fetched")

	if res.NotModified {
		return &Result{URL: a.cfg.URL, Elapsed: res.Elapsed, Msg: "not modified"}, nil
	}
	if a.cfg.CheckMode {
		// HEAD confirmed existence; there is no body to extract from.
		return &Result{URL: a.cfg.URL, Elapsed: res.Elapsed}, nil
	}

	val, err := a.eval.Evaluate(res.Body, a.cfg.Query)
	if err != nil {
		return nil, err
	}
	if !val.Matched() {
		log.Debug().Str("query", a.cfg.Query).Msg("no match")
	}
	return &Result{
		URL:     a.cfg.URL,
		Matched: val.Matched(),
		Content: val.Content(),
		Changed: val.Matched(),
		Elapsed: res.Elapsed,
	}, nil
}
