package garmin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-vitals/internal/config"
	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
)

const (
	dailySummaryPath = "/usersummary-service/usersummary/daily/%s"
	sleepDataPath    = "/wellness-service/wellness/dailySleepData/%s"
)

var _ domain.ActivityProvider = (*Client)(nil)

// Client reads daily activity and sleep summaries from a Garmin Connect compatible API.
type Client struct {
	baseURL     string
	token       string
	displayName string
	http        *http.Client
}

func NewClient(cfg config.GarminConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		token:       cfg.Token,
		displayName: cfg.DisplayName,
		http:        &http.Client{Timeout: timeout},
	}
}

func (c *Client) DailySummary(ctx context.Context, date time.Time) (*domain.DailySummary, error) {
	q := url.Values{"calendarDate": {date.Format(domain.DateLayout)}}

	var summary domain.DailySummary
	found, err := c.get(ctx, fmt.Sprintf(dailySummaryPath, url.PathEscape(c.displayName)), q, &summary)
	if err != nil || !found {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) SleepSummary(ctx context.Context, date time.Time) (*domain.SleepSummary, error) {
	q := url.Values{"date": {date.Format(domain.DateLayout)}}

	var body struct {
		DailySleepDTO *domain.SleepSummary `json:"dailySleepDTO"`
	}
	found, err := c.get(ctx, fmt.Sprintf(sleepDataPath, url.PathEscape(c.displayName)), q, &body)
	if err != nil || !found {
		return nil, err
	}
	return body.DailySleepDTO, nil
}

// get decodes the JSON body into out. A 404 or an empty body reports found=false.
func (c *Client) get(ctx context.Context, path string, q url.Values, out any) (bool, error) {
	endpoint := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("garmin: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("NK", "NT")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent:
		return false, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return false, fmt.Errorf("%w: provider rejected credentials (%d)", domain.ErrProviderUnavailable, resp.StatusCode)
	case resp.StatusCode >= 300:
		log.Debugf("[GARMIN] %s returned %d", path, resp.StatusCode)
		return false, fmt.Errorf("%w: unexpected status %d", domain.ErrProviderUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return false, fmt.Errorf("%w: read body: %v", domain.ErrProviderUnavailable, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 || string(data) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("%w: decode body: %v", domain.ErrProviderUnavailable, err)
	}
	return true, nil
}
