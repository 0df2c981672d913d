package intervals

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultBaseURL is the intervals.icu REST API root.
const DefaultBaseURL = "https://intervals.icu/api/v1"

// isoLocal is the local ISO-8601 layout the API accepts for oldest/newest.
const isoLocal = "2006-01-02T15:04:05"

// Kind names one cached resource of the athlete.
type Kind string

const (
	KindWorkouts      Kind = "workouts"
	KindActivities    Kind = "activities"
	KindActivitiesCSV Kind = "activities-csv"
)

var ErrUnknownKind = errors.New("unknown resource kind")

// FileName is the cache file name of the resource kind.
func (k Kind) FileName() string {
	switch k {
	case KindWorkouts:
		return "workouts.json"
	case KindActivities:
		return "activities.json"
	case KindActivitiesCSV:
		return "activities.csv"
	}
	return ""
}

// StatusError is returned for any non-2xx response. No retry is attempted.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("intervals: %s returned status %d: %s", e.URL, e.StatusCode, e.Body)
}

// ActivitiesQuery bounds the activities request. Zero values are not sent.
type ActivitiesQuery struct {
	Oldest time.Time
	Newest time.Time
}

// Client talks to the intervals.icu API for a single athlete and keeps a
// read-through file cache of the responses under dataDir. Cached files are
// authoritative once present; use Refresh to invalidate one.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	athleteID  string
	dataDir    string
}

func NewClient(baseURL, apiKey, athleteID, dataRoot string, httpClient *http.Client) (*Client, error) {
	if apiKey == "" || athleteID == "" {
		return nil, errors.New("intervals: api key and athlete id are required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	dataDir := filepath.Join(dataRoot, athleteID)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create athlete data dir: %w", err)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		athleteID:  athleteID,
		dataDir:    dataDir,
	}, nil
}

// DataDir is the athlete's cache directory.
func (c *Client) DataDir() string {
	return c.dataDir
}

// CachePath returns where the given resource kind is cached.
func (c *Client) CachePath(kind Kind) string {
	return filepath.Join(c.dataDir, kind.FileName())
}

// AuthorizationHeader builds the basic auth value: base64("API_KEY:<key>").
func AuthorizationHeader(apiKey string) string {
	token := base64.StdEncoding.EncodeToString([]byte("API_KEY:" + apiKey))
	return "Basic " + token
}

// Workouts returns the cached workouts, fetching them on a cache miss.
func (c *Client) Workouts(ctx context.Context) ([]byte, error) {
	return c.readThrough(ctx, KindWorkouts)
}

// Activities returns the cached activities, fetching all of them on a cache miss.
func (c *Client) Activities(ctx context.Context) ([]byte, error) {
	return c.readThrough(ctx, KindActivities)
}

// ActivitiesCSV returns the cached activities CSV, fetching it on a cache miss.
func (c *Client) ActivitiesCSV(ctx context.Context) ([]byte, error) {
	return c.readThrough(ctx, KindActivitiesCSV)
}

func (c *Client) readThrough(ctx context.Context, kind Kind) ([]byte, error) {
	cached, err := os.ReadFile(c.CachePath(kind))
	if err == nil {
		log.Debugf("intervals: %s served from cache %s", kind, c.CachePath(kind))
		return cached, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read cache %s: %w", kind, err)
	}

	log.Debugf("intervals: %s not cached, fetching", kind)
	return c.fetch(ctx, kind)
}

// Refresh drops the cached file of kind and fetches it again.
func (c *Client) Refresh(ctx context.Context, kind Kind) ([]byte, error) {
	if kind.FileName() == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err := os.Remove(c.CachePath(kind)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("invalidate cache %s: %w", kind, err)
	}
	return c.fetch(ctx, kind)
}

func (c *Client) fetch(ctx context.Context, kind Kind) ([]byte, error) {
	switch kind {
	case KindWorkouts:
		return c.GetWorkouts(ctx)
	case KindActivities:
		return c.GetActivities(ctx, ActivitiesQuery{})
	case KindActivitiesCSV:
		return c.GetActivitiesCSV(ctx)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// GetWorkouts fetches the athlete's workout library and caches the raw JSON.
func (c *Client) GetWorkouts(ctx context.Context) ([]byte, error) {
	body, err := c.get(ctx, c.athletePath("workouts"), nil)
	if err != nil {
		return nil, err
	}
	if err := c.writeCache(KindWorkouts, body); err != nil {
		return nil, err
	}
	return body, nil
}

// GetActivities fetches completed activities, optionally bounded by q, and
// caches the raw JSON.
func (c *Client) GetActivities(ctx context.Context, q ActivitiesQuery) ([]byte, error) {
	params := url.Values{}
	if !q.Oldest.IsZero() {
		params.Set("oldest", q.Oldest.Format(isoLocal))
	}
	if !q.Newest.IsZero() {
		params.Set("newest", q.Newest.Format(isoLocal))
	}

	body, err := c.get(ctx, c.athletePath("activities"), params)
	if err != nil {
		return nil, err
	}
	if err := c.writeCache(KindActivities, body); err != nil {
		return nil, err
	}
	return body, nil
}

// GetActivitiesCSV fetches the CSV rendering of all activities.
func (c *Client) GetActivitiesCSV(ctx context.Context) ([]byte, error) {
	body, err := c.get(ctx, c.athletePath("activities.csv"), nil)
	if err != nil {
		return nil, err
	}
	if err := c.writeCache(KindActivitiesCSV, body); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) athletePath(resource string) string {
	return fmt.Sprintf("%s/athlete/%s/%s", c.baseURL, url.PathEscape(c.athleteID), resource)
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	log.Debugf("intervals: GET %s", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", AuthorizationHeader(c.apiKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read intervals response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			URL:        endpoint,
			Body:       string(respBytes),
		}
	}

	return respBytes, nil
}

func (c *Client) writeCache(kind Kind, body []byte) error {
	if err := os.WriteFile(c.CachePath(kind), body, 0o644); err != nil {
		return fmt.Errorf("write cache %s: %w", kind, err)
	}
	log.Infof("intervals: cached %s (%d bytes) at %s", kind, len(body), c.CachePath(kind))
	return nil
}
