// Package fetch downloads and parses pages from the fixtures site.
//
// Each Fetch waits for the politeness limiter, then issues a GET with a
// fixed timeout, retrying transport errors and non-2xx responses a fixed
// number of times with a fixed delay. A page that still fails is reported
// as an error; callers skip that unit of work and carry on.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// ErrStatus wraps a non-2xx response that survived every retry.
var ErrStatus = errors.New("unexpected status")

// Options configures a Fetcher.
type Options struct {
	Timeout         time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
	PolitenessDelay time.Duration
	UserAgent       string
}

// DefaultOptions matches the site's tolerance: 10s timeout, 3 retries 2s
// apart, and at most one request every 500ms.
func DefaultOptions() Options {
	return Options{
		Timeout:         10 * time.Second,
		MaxRetries:      3,
		RetryDelay:      2 * time.Second,
		PolitenessDelay: 500 * time.Millisecond,
	}
}

// Fetcher is safe for sequential use by one pipeline run.
type Fetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
	tracer  trace.Tracer
	logger  *slog.Logger
}

// New builds a Fetcher.
func New(opts Options, logger *slog.Logger) *Fetcher {
	client := resty.New().
		SetTransport(newDecodingTransport(nil)).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.MaxRetries).
		// Equal wait and max wait pins the backoff to a fixed delay.
		SetRetryWaitTime(opts.RetryDelay).
		SetRetryMaxWaitTime(opts.RetryDelay).
		SetHeader("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Encoding", acceptEncoding).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r == nil || r.StatusCode() < 200 || r.StatusCode() > 299
		})
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	client.AddRetryHook(func(r *resty.Response, err error) {
		var attrs []any
		if r != nil && r.Request != nil {
			attrs = append(attrs, "attempt", r.Request.Attempt, "url", r.Request.URL)
		}
		if err != nil {
			attrs = append(attrs, "error", err)
		} else if r != nil {
			attrs = append(attrs, "status", r.StatusCode())
		}
		logger.Warn("Request failed, retrying", attrs...)
	})

	limit := rate.Inf
	if opts.PolitenessDelay > 0 {
		limit = rate.Every(opts.PolitenessDelay)
	}
	return &Fetcher{
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		tracer:  otel.Tracer("hockey-tracker/fetch"),
		logger:  logger,
	}
}

// Fetch downloads url and parses it as HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	ctx, span := f.tracer.Start(ctx, "fetch", trace.WithAttributes(attribute.String("http.url", url)))
	defer span.End()

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}

	f.logger.Debug("Requesting page", "url", url)
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if resp != nil && resp.Request != nil {
		span.SetAttributes(
			attribute.Int("http.status_code", resp.StatusCode()),
			attribute.Int("fetch.attempts", resp.Request.Attempt),
		)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		err := fmt.Errorf("get %s: %w %d", url, ErrStatus, resp.StatusCode())
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}
