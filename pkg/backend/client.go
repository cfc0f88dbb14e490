// Package backend is the HTTP client for the labelling service.
//
// The service exposes two endpoints:
//
//	POST /skeleton  [[[x,y],...], ...]            -> [[[x,y],[x,y]], ...]
//	POST /label     {"poly": [...], "text": "..."} -> {"c":[x,y],"r":..,"h":..,"a":..,"b":..}
//
// Requests are not retried.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paulmach/orb"

	"github.com/ha1tch/area-labeler/pkg/geom"
	"github.com/ha1tch/area-labeler/pkg/logging"
)

// Endpoint paths relative to the base URL.
const (
	SkeletonPath = "/skeleton"
	LabelPath    = "/label"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response is kept.
const maxErrorBody = 4 << 10

// ErrNoPolylines is returned when a request would carry no geometry.
var ErrNoPolylines = errors.New("backend: no polylines")

// StatusError reports a non-200 response.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("backend %s: status %d", e.Endpoint, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Client talks to one labelling service.
type Client struct {
	base      *url.URL
	http      *http.Client
	subsample int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

// WithSubsample splits the outline into about n segments before it is
// sent, which gives the skeleton more sites on long edges. n <= 0
// sends the polylines unchanged.
func WithSubsample(n int) Option {
	return func(c *Client) {
		c.subsample = n
	}
}

// NewClient returns a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		base: u,
		http: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service address.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Skeleton asks the service for the skeleton edges of polylines.
func (c *Client) Skeleton(ctx context.Context, polylines []orb.LineString) ([]geom.Segment, error) {
	lines, err := c.prepare(polylines)
	if err != nil {
		return nil, err
	}
	var edges []geom.Segment
	if err := c.post(ctx, SkeletonPath, lines, &edges); err != nil {
		return nil, err
	}
	return edges, nil
}

type labelRequest struct {
	Poly []orb.LineString `json:"poly"`
	Text string           `json:"text"`
}

// Label asks the service where to place text inside polylines.
func (c *Client) Label(ctx context.Context, polylines []orb.LineString, text string) (geom.Placement, error) {
	var p geom.Placement
	lines, err := c.prepare(polylines)
	if err != nil {
		return p, err
	}
	if err := c.post(ctx, LabelPath, labelRequest{Poly: lines, Text: text}, &p); err != nil {
		return geom.Placement{}, err
	}
	return p, nil
}

func (c *Client) prepare(polylines []orb.LineString) ([]orb.LineString, error) {
	n := 0
	for _, l := range polylines {
		n += len(l)
	}
	if n == 0 {
		return nil, ErrNoPolylines
	}
	if c.subsample <= 0 {
		return polylines, nil
	}
	segs := geom.Subsample(geom.Segments(polylines), c.subsample)
	out := make([]orb.LineString, len(segs))
	for i, s := range segs {
		out[i] = orb.LineString{s[0], s[1]}
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	log := logging.Logger()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}
	endpoint := c.base.JoinPath(path).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		serr := &StatusError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
		log.Warn("backend request failed", "endpoint", path, "status", resp.StatusCode, "body", serr.Body)
		return serr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	log.Debug("backend request", "endpoint", path, "bytes", len(payload), "elapsed", time.Since(start))
	return nil
}
