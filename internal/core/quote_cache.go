package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedQuoteProvider keeps one quote per calendar day in Redis so every
// screen shows the same quote until midnight. Fallback quotes are never cached.
type CachedQuoteProvider struct {
	inner  QuoteProvider
	client *redis.Client
	prefix string
	logger *zap.Logger
	clock  func() time.Time
}

func NewCachedQuoteProvider(addr, password, prefix string, inner QuoteProvider, logger *zap.Logger) (*CachedQuoteProvider, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("quote cache redis addr is required")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "welltrack:quote"
	}
	return &CachedQuoteProvider{
		inner: inner,
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		prefix: prefix,
		logger: logger.Named("quote_cache"),
		clock:  time.Now,
	}, nil
}

func (p *CachedQuoteProvider) FetchQuote(ctx context.Context) string {
	now := p.clock()
	key := p.prefix + ":" + now.Format(time.DateOnly)

	cached, err := p.client.Get(ctx, key).Result()
	if err == nil {
		return cached
	}
	if !errors.Is(err, redis.Nil) {
		p.logger.Warn("quote cache read failed", zap.Error(err))
	}

	quote := p.inner.FetchQuote(ctx)
	if IsFallbackQuote(quote) {
		return quote
	}
	ttl := StartOfDay(now).AddDate(0, 0, 1).Sub(now)
	if err := p.client.Set(ctx, key, quote, ttl).Err(); err != nil {
		p.logger.Warn("quote cache write failed", zap.Error(err))
	}
	return quote
}

func (p *CachedQuoteProvider) Close() error {
	return p.client.Close()
}
