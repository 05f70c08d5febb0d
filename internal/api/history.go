package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const historyFallback = "Failed to fetch history"

type historyResponse struct {
	Attempts []HistoryEntry `json:"attempts"`
}

// History fetches prior analysis attempts for an identified user. Callers
// must not pass an empty id or the anonymous sentinel; that is a local
// validation concern, not this client's.
func (c *Client) History(ctx context.Context, userID string) ([]HistoryEntry, error) {
	endpoint := c.baseURL + "/history/" + url.PathEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, transportError("history", historyFallback, err)
	}

	resp, _, err := c.do(req, "history")
	if err != nil {
		return nil, transportError("history", historyFallback, err)
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		return nil, decodeError("history", historyFallback, resp)
	}

	var parsed historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, transportError("history", historyFallback, fmt.Errorf("history response parse: %w", err))
	}
	return parsed.Attempts, nil
}
