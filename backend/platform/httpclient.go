package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// HTTPClient talks to the scraper service, which exposes one platform's
// submission history and profile stats as JSON. The scraping itself lives in
// that service; this is only the transport to it.
type HTTPClient struct {
	BaseURL  string
	Platform string
	Client   *http.Client
}

func NewHTTPClient(baseURL, platform string) *HTTPClient {
	return &HTTPClient{
		BaseURL:  baseURL,
		Platform: platform,
		Client:   http.DefaultClient,
	}
}

func (h *HTTPClient) FetchSubmissionHistory(ctx context.Context, handle string) ([]DaySubmissions, error) {
	var history []DaySubmissions
	if err := h.get(ctx, handle, "history", &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (h *HTTPClient) FetchProfileStats(ctx context.Context, handle string) (ProfileStats, error) {
	var stats ProfileStats
	if err := h.get(ctx, handle, "stats", &stats); err != nil {
		return ProfileStats{}, err
	}
	return stats, nil
}

func (h *HTTPClient) get(ctx context.Context, handle, resource string, out interface{}) error {
	endpoint := fmt.Sprintf("%s/api/platforms/%s/users/%s/%s",
		h.BaseURL, url.PathEscape(h.Platform), url.PathEscape(handle), resource)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scraper returned status %d for %s", resp.StatusCode, resource)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
