// Package fitbit is a minimal Fitbit Web API client covering the
// endpoints this app needs: daily activity logs, TCX downloads, and
// resting heart rate. All requests share one hourly rate limiter.
package fitbit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
)

const BaseURL = "https://api.fitbit.com/1/user/-"

// Client is a Fitbit API client
type Client struct {
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewClient creates a new Fitbit API client
func NewClient(tokenSource oauth2.TokenSource) *Client {
	return &Client{
		httpClient:  oauth2.NewClient(context.Background(), tokenSource),
		rateLimiter: NewRateLimiter(),
	}
}

// GetActivitiesForDate fetches the logged activities and daily summary
// for a date (YYYY-MM-DD).
func (c *Client) GetActivitiesForDate(ctx context.Context, date string) (*DailyActivities, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/activities/date/%s.json", date), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var daily DailyActivities
	if err := json.NewDecoder(resp.Body).Decode(&daily); err != nil {
		return nil, fmt.Errorf("decoding activities: %w", err)
	}

	return &daily, nil
}

// GetTCX downloads the raw TCX document for an activity log.
func (c *Client) GetTCX(ctx context.Context, logID int64) (string, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/activities/%d.tcx", logID), nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading tcx body: %w", err)
	}

	return string(body), nil
}

// GetRestingHeartRate fetches the resting heart rate for a date.
// Returns 0 when Fitbit has no resting HR for that day.
func (c *Client) GetRestingHeartRate(ctx context.Context, date string) (int, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/activities/heart/date/%s/1d.json", date), nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var heart heartByDate
	if err := json.NewDecoder(resp.Body).Decode(&heart); err != nil {
		return 0, fmt.Errorf("decoding heart rate: %w", err)
	}

	if len(heart.ActivitiesHeart) == 0 {
		return 0, nil
	}
	return heart.ActivitiesHeart[0].Value.RestingHeartRate, nil
}

// RateLimitStatus returns remaining requests in the current window
func (c *Client) RateLimitStatus() (remaining int) {
	return c.rateLimiter.Status()
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := BaseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}
	// en_US gives distances in miles
	req.Header.Set("Accept-Language", "en_US")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	// Update rate limiter from response headers
	c.rateLimiter.UpdateFromHeaders(resp.Header)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}
