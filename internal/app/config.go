package app

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Query languages accepted by Config.QueryLang.
const (
	QueryLangXPath = "xpath"
	QueryLangCSS   = "css"
)

// DefaultTimeoutSeconds bounds the whole request when no timeout is given.
const DefaultTimeoutSeconds = 10

// Config holds runtime configuration for one scrape run.
type Config struct {
	// URL is the resource to fetch. Required, absolute http(s).
	URL string
	// Query selects nodes or attributes in the fetched document. Required.
	Query string
	// QueryLang is "xpath" (default) or "css".
	QueryLang string

	// TimeoutSeconds bounds the entire request. Zero means the default.
	TimeoutSeconds int
	// CheckMode issues a HEAD request and skips extraction entirely.
	CheckMode bool

	UserAgent string
	Verbose   bool
}

// ErrUsage marks invocation mistakes: missing or malformed parameters the
// caller must fix. The CLI maps it to its own exit code.
var ErrUsage = errors.New("usage error")

// ValidateConfig performs minimal schema validation and fills defaults.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil config", ErrUsage)
	}
	if strings.TrimSpace(cfg.URL) == "" {
		return fmt.Errorf("%w: url is required", ErrUsage)
	}
	u, err := url.Parse(cfg.URL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: url must be absolute http(s): %q", ErrUsage, cfg.URL)
	}
	if strings.TrimSpace(cfg.Query) == "" {
		return fmt.Errorf("%w: a query expression is required", ErrUsage)
	}
	switch cfg.QueryLang {
	case "":
		cfg.QueryLang = QueryLangXPath
	case QueryLangXPath, QueryLangCSS:
	default:
		return fmt.Errorf("%w: unknown query language %q", ErrUsage, cfg.QueryLang)
	}
	if cfg.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: negative timeout", ErrUsage)
	}
	if cfg.TimeoutSeconds == 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}
	return nil
}
