package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/ruttadj/discord-dj-bot/metrics"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	tokenURL   = "https://accounts.spotify.com/api/token"
	apiBaseURL = "https://api.spotify.com/v1"
)

// linkPattern extracts the item kind and id from a spotify track or album
// share link.
var linkPattern = regexp.MustCompile(`spotify\.com/(track|album)/([a-zA-Z0-9]+)`)

// Client looks up artists for spotify links using app-level (client
// credentials) auth. It exists as a fallback for track-list embeds that
// arrive without an author name.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

type item struct {
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
}

// NewClient authenticates with the Spotify API. The token round trip happens
// up front so a bad secret fails at startup, not mid-ingestion.
func NewClient(ctx context.Context, clientID, clientSecret string) (*Client, error) {
	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	if _, err := conf.Token(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to authenticate with spotify")
	}

	httpClient := conf.Client(ctx)
	httpClient.Timeout = 10 * time.Second
	return &Client{
		BaseURL:    apiBaseURL,
		HTTPClient: httpClient,
	}, nil
}

// ParseLink extracts the item kind ("track" or "album") and id from a
// spotify share link.
func ParseLink(link string) (kind, id string, err error) {
	m := linkPattern.FindStringSubmatch(link)
	if m == nil {
		return "", "", fmt.Errorf("not a spotify track or album link: %s", link)
	}
	return m[1], m[2], nil
}

// ArtistFromLink resolves the artist name(s) for a spotify track or album
// link. Multiple artists are joined with ", ".
func (c *Client) ArtistFromLink(ctx context.Context, link string) (string, error) {
	kind, id, err := ParseLink(link)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%ss/%s", c.BaseURL, kind, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("error building spotify request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		metrics.SpotifyLookupFailed.Add(1)
		return "", fmt.Errorf("error calling spotify api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.SpotifyLookupFailed.Add(1)
		return "", fmt.Errorf("spotify api returned status %d for %s %s", resp.StatusCode, kind, id)
	}

	var it item
	if err := json.NewDecoder(resp.Body).Decode(&it); err != nil {
		metrics.SpotifyLookupFailed.Add(1)
		return "", fmt.Errorf("error decoding spotify response: %w", err)
	}

	names := make([]string, 0, len(it.Artists))
	for _, a := range it.Artists {
		names = append(names, a.Name)
	}
	if len(names) == 0 {
		metrics.SpotifyLookupFailed.Add(1)
		return "", fmt.Errorf("no artists returned for %s %s", kind, id)
	}

	metrics.SpotifyLookupSuccess.Add(1)
	return strings.Join(names, ", "), nil
}
