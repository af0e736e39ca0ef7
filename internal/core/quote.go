package core

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const DefaultQuoteURL = "https://zenquotes.io/api/random"

// Canned quotes served whenever no real quote can be had.
var FallbackQuotes = []string{
	"Stay hydrated and keep moving forward.",
	"Good habits today create a healthier you tomorrow.",
	"Remember to drink water and take care of yourself today.",
}

const (
	fallbackBadURL     = 0
	fallbackBadPayload = 1
	fallbackNetwork    = 2
)

type QuoteProvider interface {
	FetchQuote(ctx context.Context) string
}

func IsFallbackQuote(quote string) bool {
	for _, q := range FallbackQuotes {
		if q == quote {
			return true
		}
	}
	return false
}

func formatQuote(text, author string) string {
	if author == "" {
		return text
	}
	return fmt.Sprintf("\"%s\" — %s", text, author)
}

// ZenQuotesProvider fetches a random quote from a zenquotes.io compatible endpoint.
type ZenQuotesProvider struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

type zenQuote struct {
	Q *string `json:"q"`
	A *string `json:"a"`
}

func NewZenQuotesProvider(quoteURL string, client *http.Client, logger *zap.Logger) *ZenQuotesProvider {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &ZenQuotesProvider{url: quoteURL, client: client, logger: logger.Named("quotes")}
}

func (p *ZenQuotesProvider) FetchQuote(ctx context.Context) string {
	u, err := url.Parse(p.url)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return FallbackQuotes[fallbackBadURL]
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return FallbackQuotes[fallbackBadURL]
	}
	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn("quote request failed", zap.Error(err))
		return FallbackQuotes[fallbackNetwork]
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Warn("quote request returned non-200", zap.Int("status", resp.StatusCode))
		return FallbackQuotes[fallbackBadPayload]
	}
	var decoded []zenQuote
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		p.logger.Warn("quote response undecodable", zap.Error(err))
		return FallbackQuotes[fallbackBadPayload]
	}
	if len(decoded) == 0 || decoded[0].Q == nil || *decoded[0].Q == "" {
		return FallbackQuotes[fallbackBadPayload]
	}
	author := ""
	if decoded[0].A != nil {
		author = *decoded[0].A
	}
	return formatQuote(*decoded[0].Q, author)
}
