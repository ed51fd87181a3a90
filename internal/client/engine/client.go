package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"tradedash/internal/config"
)

// Client is the REST side of the engine API. Calls go through a shared
// rate limiter so dashboard polling cannot hammer the engine.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewClient(cfg config.EngineConfig, logger *zap.Logger) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 10
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = int(limit)
	}

	return &Client{
		http:    http,
		limiter: rate.NewLimiter(rate.Limit(limit), burst),
		logger:  logger,
	}
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, out any) error {
	if c == nil || c.http == nil {
		return fmt.Errorf("engine client not initialized")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	resp, err := c.http.R().SetContext(ctx).SetQueryParams(query).Get(path)
	if err != nil {
		return fmt.Errorf("engine GET %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("engine GET %s: status %d", path, resp.StatusCode())
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("engine GET %s: decode: %w", path, err)
	}
	return nil
}

// ListDecisions fetches decision records newer than since, oldest first so
// the ingest cursor can advance monotonically.
func (c *Client) ListDecisions(ctx context.Context, since *time.Time, limit int) ([]DecisionRecord, error) {
	query := map[string]string{}
	if since != nil && !since.IsZero() {
		query["since"] = since.UTC().Format(time.RFC3339)
	}
	if limit > 0 {
		query["limit"] = strconv.Itoa(limit)
	}
	var out []DecisionRecord
	if err := c.get(ctx, "/api/decisions", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetThresholds fetches the engine's currently effective threshold config.
func (c *Client) GetThresholds(ctx context.Context) (*ThresholdConfigRecord, error) {
	var out ThresholdConfigRecord
	if err := c.get(ctx, "/api/thresholds", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPortfolio fetches current portfolio state.
func (c *Client) GetPortfolio(ctx context.Context) (*PortfolioRecord, error) {
	var out PortfolioRecord
	if err := c.get(ctx, "/api/portfolio", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPositions fetches all open positions.
func (c *Client) ListPositions(ctx context.Context) ([]PositionRecord, error) {
	var out []PositionRecord
	if err := c.get(ctx, "/api/positions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
