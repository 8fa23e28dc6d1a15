// Package clubelo fetches club Elo snapshots from the ClubElo API.
package clubelo

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public ClubElo API.
const DefaultBaseURL = "http://api.clubelo.com"

// Rating is one club row of a snapshot.
type Rating struct {
	Club    string
	Country string
	Level   int
	Elo     float64
}

// Client retrieves snapshots. The zero value uses DefaultBaseURL and
// http.DefaultClient.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient returns a client for baseURL with a request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{BaseURL: baseURL, HTTP: &http.Client{Timeout: timeout}}
}

// Snapshot returns every club rating valid on date.
func (c *Client) Snapshot(ctx context.Context, date time.Time) ([]Rating, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}

	url := fmt.Sprintf("%s/%s", strings.TrimRight(base, "/"), date.Format("2006-01-02"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building snapshot request: %w", err)
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching snapshot: unexpected status %s", resp.Status)
	}
	return Parse(resp.Body)
}

// Parse reads a ClubElo CSV snapshot (Rank,Club,Country,Level,Elo,From,To).
func Parse(r io.Reader) ([]Rating, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty snapshot")
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	for _, need := range []string{"Club", "Elo"} {
		if _, ok := cols[need]; !ok {
			return nil, fmt.Errorf("snapshot header missing %q column", need)
		}
	}

	var ratings []Rating
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading snapshot line %d: %w", line, err)
		}
		rating := Rating{Club: field(rec, cols, "Club"), Country: field(rec, cols, "Country")}
		if rating.Elo, err = strconv.ParseFloat(field(rec, cols, "Elo"), 64); err != nil {
			return nil, fmt.Errorf("snapshot line %d: bad Elo for %s: %w", line, rating.Club, err)
		}
		if lvl := field(rec, cols, "Level"); lvl != "" {
			if rating.Level, err = strconv.Atoi(lvl); err != nil {
				return nil, fmt.Errorf("snapshot line %d: bad Level for %s: %w", line, rating.Club, err)
			}
		}
		ratings = append(ratings, rating)
	}
	return ratings, nil
}

func field(rec []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
