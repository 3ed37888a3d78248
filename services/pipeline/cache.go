package pipeline

import (
	"bytes"
	"context"
	"encoding/gob"
	"net/url"

	"bizscout-backend/lib/timezone"

	"github.com/PuerkitoBio/purell"
	"github.com/dgraph-io/badger/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var errPageNotCached = badger.ErrKeyNotFound

type cachedPage struct {
	Contents []byte

	ExpiresAt int64
}

type pageCache struct {
	db *badger.DB
}

func (c pageCache) key(pageUrl *url.URL) string {
	return purell.NormalizeURL(
		pageUrl,
		purell.FlagsSafe|
			purell.FlagsUsuallySafeNonGreedy|
			purell.FlagRemoveDirectoryIndex|
			purell.FlagRemoveFragment|
			purell.FlagSortQuery,
	)
}

func (c pageCache) get(ctx context.Context, pageUrl *url.URL) (cachedPage, error) {
	ctx, span := tracer.Start(ctx, "cache:get")
	defer span.End()

	key := c.key(pageUrl)
	span.SetAttributes(attribute.KeyValue{
		Key:   "cache_key",
		Value: attribute.StringValue(key),
	})

	tx := c.db.NewTransaction(false)
	defer tx.Discard()
	item, err := tx.Get([]byte(key))
	if err == badger.ErrKeyNotFound {
		return cachedPage{}, errPageNotCached
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read item from badger")
		return cachedPage{}, err
	}
	serialized, err := item.ValueCopy(nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to copy cached item")
		return cachedPage{}, err
	}

	decoder := gob.NewDecoder(bytes.NewBuffer(serialized))

	var cached cachedPage
	err = decoder.Decode(&cached)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to deserialize cached item")
		return cachedPage{}, err
	}

	if timezone.Now().Unix() >= cached.ExpiresAt {
		span.AddEvent("delete expired cache key", trace.WithAttributes(attribute.KeyValue{
			Key:   "key",
			Value: attribute.StringValue(key),
		}))

		tx := c.db.NewTransaction(true)
		defer tx.Commit()

		err = tx.Delete([]byte(key))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to delete expired key")
			return cachedPage{}, errPageNotCached
		}

		span.SetStatus(codes.Ok, "CACHE EXPIRED")
		return cachedPage{}, errPageNotCached
	}

	span.AddEvent(
		"successfully returned cached page",
		trace.WithAttributes(attribute.KeyValue{
			Key:   "contentlength",
			Value: attribute.IntValue(len(cached.Contents)),
		}),
	)

	return cached, nil
}

func (c pageCache) set(ctx context.Context, pageUrl *url.URL, page cachedPage) error {
	ctx, span := tracer.Start(ctx, "cache:set")
	defer span.End()

	key := c.key(pageUrl)
	span.SetAttributes(attribute.KeyValue{
		Key:   "cache_key",
		Value: attribute.StringValue(key),
	})

	serialized := bytes.NewBuffer(nil)
	encoder := gob.NewEncoder(serialized)
	err := encoder.Encode(page)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to serialize page")
		return err
	}

	tx := c.db.NewTransaction(true)
	defer tx.Commit()

	err = tx.Set([]byte(key), serialized.Bytes())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to set badger item")
		return err
	}

	return nil
}
