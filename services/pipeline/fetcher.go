package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"bizscout-backend/lib/restyutil"
	"bizscout-backend/lib/telemetry"
	"bizscout-backend/lib/timezone"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/dgraph-io/badger/v4"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Page is a fetched listing page parsed and bound to its origin url.
// The origin decides which site adapter extraction will use.
type Page struct {
	Origin *url.URL
	Doc    *goquery.Document
}

// NewPage parses raw html under the given origin url.
func NewPage(origin string, contents []byte) (Page, error) {
	originUrl, err := url.Parse(origin)
	if err != nil {
		return Page{}, fmt.Errorf("invalid page url %q: %w", origin, err)
	}
	if originUrl.Hostname() == "" {
		return Page{}, fmt.Errorf("page url %q has no hostname", origin)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(contents))
	if err != nil {
		return Page{}, fmt.Errorf("failed to parse page html: %w", err)
	}
	return Page{Origin: originUrl, Doc: doc}, nil
}

type FetcherConfig struct {
	// if unspecified, the page cache lives in memory only
	CacheDir string `json:"cache_dir"`
	// if unspecified, cached pages expire after 15 minutes
	CacheTtlSeconds int64 `json:"cache_ttl_seconds"`
	// if specified, full request/response transcripts are dumped here
	DebugDir string `json:"debug_dir"`
}

type Fetcher struct {
	http  *resty.Client
	cache pageCache
	ttl   time.Duration
}

func NewFetcher(config FetcherConfig) (*Fetcher, error) {
	opts := badger.DefaultOptions(config.CacheDir).WithLogger(nil)
	if config.CacheDir == "" {
		opts = opts.WithInMemory(true)
	}
	cache, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open page cache: %w", err)
	}

	ttl := time.Duration(config.CacheTtlSeconds) * time.Second
	if config.CacheTtlSeconds == 0 {
		ttl = time.Minute * 15
	}

	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 30)

	if config.DebugDir != "" {
		restyutil.InstrumentClient(client, nil, restyutil.NewFilesystemOutput(config.DebugDir))
	} else {
		telemetry.InstrumentResty(client, "pipeline/fetch")
	}

	return &Fetcher{
		http:  client,
		cache: pageCache{db: cache},
		ttl:   ttl,
	}, nil
}

func (f *Fetcher) Close() error {
	return f.cache.db.Close()
}

// Fetch returns the parsed page at rawUrl, from cache when a fresh copy
// exists. A failed cache write does not fail the fetch.
func (f *Fetcher) Fetch(ctx context.Context, rawUrl string) (Page, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", rawUrl))

	origin, err := url.Parse(rawUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid url")
		return Page{}, fmt.Errorf("invalid page url %q: %w", rawUrl, err)
	}
	if origin.Hostname() == "" {
		span.SetStatus(codes.Error, "url has no hostname")
		return Page{}, fmt.Errorf("page url %q has no hostname", rawUrl)
	}

	cached, err := f.cache.get(ctx, origin)
	if err == nil {
		doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(cached.Contents))
		if err == nil {
			return Page{Origin: origin, Doc: doc}, nil
		}
		slog.WarnContext(ctx, "cached page is unparsable, refetching", "url", rawUrl, "err", err)
	} else if err != errPageNotCached {
		slog.WarnContext(ctx, "page cache read failed, refetching", "url", rawUrl, "err", err)
	}

	res, err := f.http.R().
		SetContext(ctx).
		Get(origin.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch page")
		return Page{}, fmt.Errorf("failed to fetch %q: %w", rawUrl, err)
	}
	if !res.IsSuccess() {
		span.SetStatus(codes.Error, "page fetch returned an error status")
		return Page{}, fmt.Errorf("fetching %q returned status %d", rawUrl, res.StatusCode())
	}

	contents := res.Body()
	err = f.cache.set(ctx, origin, cachedPage{
		Contents:  contents,
		ExpiresAt: timezone.Now().Add(f.ttl).Unix(),
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to cache fetched page", "url", rawUrl, "err", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(contents))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse page html")
		return Page{}, fmt.Errorf("failed to parse page html: %w", err)
	}

	return Page{Origin: origin, Doc: doc}, nil
}
