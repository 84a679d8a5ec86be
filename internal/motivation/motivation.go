// Package motivation fetches reward images and daily quotes.
package motivation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
)

const (
	dogURL   = "https://dog.ceo/api/breeds/image/random"
	quoteURL = "https://zenquotes.io/api/today"
)

// ErrUnavailable is returned for any provider failure.
var ErrUnavailable = errors.New("motivation provider unavailable")

func getJSON(ctx context.Context, client *http.Client, provider, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrUnavailable, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		logger.ProviderFailure(provider, "motivation request", err)
		return fmt.Errorf("%w: HTTP request failed: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: %s returned %d", ErrUnavailable, provider, resp.StatusCode)
		logger.ProviderFailure(provider, "motivation request", err, "status", resp.StatusCode)
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		logger.ProviderFailure(provider, "motivation decode", err)
		return fmt.Errorf("%w: failed to decode response: %v", ErrUnavailable, err)
	}
	return nil
}

// DogClient fetches random dog pictures from dog.ceo.
type DogClient struct {
	url    string
	client *http.Client
}

func NewDogClient() *DogClient {
	return &DogClient{url: dogURL, client: &http.Client{Timeout: constants.ProviderTimeout}}
}

// NewDogClientWithURL is NewDogClient against a custom endpoint.
func NewDogClientWithURL(endpoint string, client *http.Client) *DogClient {
	if client == nil {
		client = &http.Client{Timeout: constants.ProviderTimeout}
	}
	return &DogClient{url: endpoint, client: client}
}

// RandomImage returns the URL of a random dog image.
func (c *DogClient) RandomImage(ctx context.Context) (string, error) {
	var resp struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	}
	if err := getJSON(ctx, c.client, "dog.ceo", c.url, &resp); err != nil {
		return "", err
	}
	if resp.Status != "success" || !strings.HasPrefix(resp.Message, "http") {
		return "", fmt.Errorf("%w: unexpected dog.ceo payload", ErrUnavailable)
	}
	return resp.Message, nil
}

// Quote is a short quotation with its author.
type Quote struct {
	Text   string `json:"q"`
	Author string `json:"a"`
}

// String renders the quote with attribution.
func (q Quote) String() string {
	if q.Author == "" {
		return fmt.Sprintf("%q", q.Text)
	}
	return fmt.Sprintf("%q - %s", q.Text, q.Author)
}

// QuoteClient fetches the quote of the day from a zenquotes-compatible API.
type QuoteClient struct {
	url    string
	client *http.Client
}

func NewQuoteClient() *QuoteClient {
	return &QuoteClient{url: quoteURL, client: &http.Client{Timeout: constants.ProviderTimeout}}
}

// NewQuoteClientWithURL is NewQuoteClient against a custom endpoint.
func NewQuoteClientWithURL(endpoint string, client *http.Client) *QuoteClient {
	if client == nil {
		client = &http.Client{Timeout: constants.ProviderTimeout}
	}
	return &QuoteClient{url: endpoint, client: client}
}

// Today returns the quote of the day.
func (c *QuoteClient) Today(ctx context.Context) (Quote, error) {
	var quotes []Quote
	if err := getJSON(ctx, c.client, "zenquotes", c.url, &quotes); err != nil {
		return Quote{}, err
	}
	if len(quotes) == 0 || strings.TrimSpace(quotes[0].Text) == "" {
		return Quote{}, fmt.Errorf("%w: empty quote list", ErrUnavailable)
	}
	q := quotes[0]
	q.Text = strings.TrimSpace(q.Text)
	q.Author = strings.TrimSpace(q.Author)
	return q, nil
}
