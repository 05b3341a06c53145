package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shoplist/internal"
	"shoplist/internal/config"
	"shoplist/internal/util"
)

const maxAttempts = 5

// Client pages through the price catalog API.
type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

type pricePage struct {
	Prices     []map[string]any `json:"prices"`
	NextCursor *string          `json:"nextCursor"`
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.PriceTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.PriceRateLimitRPS),
	}
}

func (c *Client) ListAll(ctx context.Context) ([]internal.PriceRecord, error) {
	return c.listPrices(ctx, map[string]string{})
}

// ListUpdated returns prices changed within the last hours.
func (c *Client) ListUpdated(ctx context.Context, hours int) ([]internal.PriceRecord, error) {
	if hours <= 0 {
		return nil, fmt.Errorf("invalid lookback hours: %d", hours)
	}
	return c.listPrices(ctx, map[string]string{"updatedSinceHours": strconv.Itoa(hours)})
}

func (c *Client) listPrices(ctx context.Context, params map[string]string) ([]internal.PriceRecord, error) {
	all := make([]internal.PriceRecord, 0)
	seen := map[string]struct{}{}
	var cursor string

	for {
		query := map[string]string{}
		for k, v := range params {
			query[k] = v
		}
		if cursor != "" {
			query["cursor"] = cursor
		}

		body, err := c.fetchJSON(ctx, "prices", query)
		if err != nil {
			return nil, err
		}

		var page pricePage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decode price page: %w", err)
		}
		for _, raw := range page.Prices {
			record, err := toPriceRecord(raw)
			if err != nil {
				continue
			}
			all = append(all, record)
		}

		if page.NextCursor == nil || *page.NextCursor == "" || len(page.Prices) == 0 {
			break
		}
		if _, ok := seen[*page.NextCursor]; ok {
			break
		}
		seen[*page.NextCursor] = struct{}{}
		cursor = *page.NextCursor
	}

	return all, nil
}

func (c *Client) fetchJSON(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	if strings.TrimSpace(c.cfg.PriceAPIToken) == "" {
		return nil, errors.New("missing PRICE_API_TOKEN")
	}

	u, err := url.Parse(strings.TrimRight(c.cfg.PriceAPIBaseURL, "/") + "/" + endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	for k, v := range params {
		if strings.TrimSpace(v) != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.PriceAPIToken)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < maxAttempts {
				lastErr = fmt.Errorf("price api status %d", resp.StatusCode)
				if err := sleepCtx(ctx, backoff(attempt)); err != nil {
					return nil, err
				}
				continue
			}
			return nil, fmt.Errorf("price api error: status=%d body=%s", resp.StatusCode, string(body))
		}

		var apiResp apiResponse
		if err := json.Unmarshal(body, &apiResp); err != nil {
			return nil, fmt.Errorf("decode price api response: %w", err)
		}
		if !apiResp.Success {
			return nil, fmt.Errorf("price api unsuccessful: %s %s", apiResp.Message, string(apiResp.Errors))
		}
		return apiResp.Data, nil
	}

	if lastErr == nil {
		lastErr = errors.New("price api request failed")
	}
	return nil, lastErr
}

func backoff(attempt int) time.Duration {
	return time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func toPriceRecord(raw map[string]any) (internal.PriceRecord, error) {
	name, _ := raw["name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return internal.PriceRecord{}, errors.New("empty name")
	}
	id, ok := toInt(raw["id"])
	if !ok {
		return internal.PriceRecord{}, errors.New("missing id")
	}
	price := toFloatPtr(raw["price"])
	if price == nil || *price < 0 {
		return internal.PriceRecord{}, errors.New("missing price")
	}

	rawJSON, _ := json.Marshal(raw)
	return internal.PriceRecord{
		ID:        id,
		Name:      name,
		Unit:      toStringPtr(raw["unit"]),
		Price:     *price,
		Store:     toStringPtr(raw["store"]),
		UpdatedAt: toStringPtr(raw["updatedAt"]),
		RawJSON:   string(rawJSON),
	}, nil
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case json.Number:
		i, err := t.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}

func toFloatPtr(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case int:
		f := float64(t)
		return &f
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return &f
		}
	case string:
		if f, ok := util.ParseDecimal(t); ok {
			return &f
		}
	}
	return nil
}

func toStringPtr(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return util.StringPtr(s)
}
