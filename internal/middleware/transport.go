package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Tripperware decorates an outgoing transport.
type Tripperware func(http.RoundTripper) http.RoundTripper

// Chain wraps base so the first tripperware runs outermost.
func Chain(base http.RoundTripper, mws ...Tripperware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

// WithRequestID stamps every outgoing request with a fresh X-Request-ID unless
// the caller already set one.
func WithRequestID() Tripperware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get(RequestIDHeader) != "" {
				return next.RoundTrip(r)
			}
			r = r.Clone(r.Context())
			r.Header.Set(RequestIDHeader, uuid.NewString())
			return next.RoundTrip(r)
		})
	}
}

// WithLogging logs each outgoing call at debug, and transport failures at warn.
func WithLogging(logger *slog.Logger) Tripperware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)
			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", r.Header.Get(RequestIDHeader)),
			}
			if err != nil {
				logger.Warn("api request failed", append(attrs, slog.String("error", err.Error()))...)
				return nil, err
			}
			logger.Debug("api request", append(attrs, slog.Int("status", resp.StatusCode))...)
			return resp, nil
		})
	}
}
