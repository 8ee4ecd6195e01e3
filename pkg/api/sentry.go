package api

import (
	"fmt"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/jacksmedia/midi2hex/pkg/config"
)

// InitSentry configures error reporting when a DSN is set. The returned
// function flushes pending events and is safe to call when Sentry is off.
func InitSentry(cfg *config.Config, release string) (func(), error) {
	if cfg.SentryDSN == "" {
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          "midi2hex@" + release,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
		Debug:            !cfg.IsProduction(),
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			if event.Request != nil {
				event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
			}
			return event
		},
	})
	if err != nil {
		return func() {}, fmt.Errorf("failed to initialize sentry: %w", err)
	}
	return func() { sentry.Flush(sentryFlushTimeout) }, nil
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	sensitive := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	filtered := make(map[string]string, len(headers))
	for k, v := range headers {
		if sensitive[strings.ToLower(k)] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
