package gateway

// Package gateway fetches the two dashboard datasets from their remote
// endpoints. Each fetch is a POST with a fixed request configuration; the
// response is either a raw array or an object wrapping the array under one
// of several conventional property names, normalized here before anything
// downstream sees it.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	"github.com/sethvargo/go-retry"

	"github.com/novahq/nova-dashboard/config"
	"github.com/novahq/nova-dashboard/internal/domain/dataset"
	apperrors "github.com/novahq/nova-dashboard/internal/errors"
)

// Wrapper-key precedence mirrors what the upstream generator has been
// observed to return: a dataset-specific key first, then the generic ones.
const (
	profilesExpr = "profiles || items || data || results"
	cardsExpr    = "cards || items || data || results"
)

// Client fetches profile and card records. Both datasets share the client
// but are fetched independently; neither serializes with the other.
type Client struct {
	httpClient *http.Client
	cfg        config.DatasetsConfig
	logger     *slog.Logger
}

// ClientOptions groups dependencies for NewClient.
type ClientOptions struct {
	Config     config.DatasetsConfig
	HTTPClient *http.Client // Optional, defaults to a client with the configured timeout
	Logger     *slog.Logger // Optional
}

// NewClient constructs a dataset gateway client.
func NewClient(opts ClientOptions) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Config.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{httpClient: httpClient, cfg: opts.Config, logger: logger}
}

// profileRequest is the fixed request configuration for profile fetches.
type profileRequest struct {
	Count       int    `json:"count"`
	CountryCode string `json:"country_code"`
	Aadhar      bool   `json:"aadhar"`
	DL          bool   `json:"dl"`
	Credit      bool   `json:"credit"`
	Debit       bool   `json:"debit"`
	PAN         bool   `json:"pan"`
	Passport    bool   `json:"passport"`
	SSN         bool   `json:"ssn"`
}

// cardRequest is the fixed request configuration for card fetches.
type cardRequest struct {
	Count       int    `json:"count"`
	CountryCode string `json:"country_code"`
}

// Fetch retrieves one dataset. Transport errors and 5xx responses are
// retried a bounded number of times with exponential backoff; 4xx responses
// fail immediately.
func (c *Client) Fetch(ctx context.Context, mode dataset.Mode) ([]dataset.Record, error) {
	url, body, err := c.request(mode)
	if err != nil {
		return nil, err
	}

	var records []dataset.Record
	backoff := retry.WithMaxRetries(uint64(c.cfg.MaxRetries), retry.NewExponential(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		var attemptErr error
		records, attemptErr = c.fetchOnce(ctx, mode, url, body)
		return attemptErr
	})
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, "fetch %s", mode)
	}
	return records, nil
}

// request builds the endpoint URL and serialized request body for mode.
func (c *Client) request(mode dataset.Mode) (string, []byte, error) {
	switch mode {
	case dataset.ModeProfiles:
		docs := c.cfg.ProfileDocuments
		body, err := json.Marshal(profileRequest{
			Count:       c.cfg.ProfileCount,
			CountryCode: c.cfg.CountryCode,
			Aadhar:      docs.Aadhar,
			DL:          docs.DL,
			Credit:      docs.Credit,
			Debit:       docs.Debit,
			PAN:         docs.PAN,
			Passport:    docs.Passport,
			SSN:         docs.SSN,
		})
		return c.cfg.ProfileURL, body, err
	case dataset.ModeCards:
		body, err := json.Marshal(cardRequest{
			Count:       c.cfg.CardCount,
			CountryCode: c.cfg.CountryCode,
		})
		return c.cfg.CardURL, body, err
	default:
		return "", nil, apperrors.Validationf("unknown dataset mode: %q", mode)
	}
}

func (c *Client) fetchOnce(ctx context.Context, mode dataset.Mode, url string, body []byte) ([]dataset.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "dataset fetch attempt failed", "mode", mode, "error", err)
		return nil, retry.RetryableError(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retry.RetryableError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		c.logger.WarnContext(ctx, "dataset endpoint error", "mode", mode, "status", resp.StatusCode)
		return nil, retry.RetryableError(fmt.Errorf("endpoint returned %d", resp.StatusCode))
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("endpoint returned %d", resp.StatusCode)
	}

	return c.normalize(mode, payload)
}

// normalize accepts a raw array or a wrapping object and returns the record
// slice either way.
func (c *Client) normalize(mode dataset.Mode, payload []byte) ([]dataset.Record, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []dataset.Record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("parse response array: %w", err)
		}
		return records, nil
	}

	var doc any
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	expr := profilesExpr
	if mode == dataset.ModeCards {
		expr = cardsExpr
	}
	extracted, err := jmespath.Search(expr, doc)
	if err != nil {
		return nil, fmt.Errorf("extract record array: %w", err)
	}
	if extracted == nil {
		return []dataset.Record{}, nil
	}

	// Round-trip the extracted array through JSON to land on the scalar
	// record model.
	raw, err := json.Marshal(extracted)
	if err != nil {
		return nil, fmt.Errorf("marshal extracted array: %w", err)
	}
	var records []dataset.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse extracted array: %w", err)
	}
	return records, nil
}
