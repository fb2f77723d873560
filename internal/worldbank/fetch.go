package worldbank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"econdash/internal/model"
	"econdash/internal/series"
)

// TransportError reports a network or HTTP-status failure for one indicator.
type TransportError struct {
	Indicator string
	Status    int
	Err       error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.Indicator, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.Indicator, e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ShapeError reports a response body that does not match the expected
// [metadata, rows] payload for one indicator.
type ShapeError struct {
	Indicator string
	Reason    string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("fetch %s: malformed response: %s", e.Indicator, e.Reason)
}

// row is one raw observation. The API reports date as a string but number
// dates are tolerated; value is null for years without data.
type row struct {
	Date  flexString `json:"date"`
	Value *float64   `json:"value"`
}

// flexString decodes a JSON string, number, or null into its text form.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

// FetchSeries performs one request for the given country and indicator and
// returns the normalized series. No retries, no caching: each call issues
// exactly one outbound request.
func (c *Client) FetchSeries(ctx context.Context, country string, ind model.Indicator) (model.Series, error) {
	endpoint := fmt.Sprintf("%s/country/%s/indicator/%s?format=json&per_page=200",
		c.baseURL, url.PathEscape(country), url.PathEscape(ind.Code))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Indicator: ind.Code, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Indicator: ind.Code, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Indicator: ind.Code, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Indicator: ind.Code, Status: resp.StatusCode}
	}

	rows, err := parseRows(ind.Code, body)
	if err != nil {
		return nil, err
	}

	obs := make([]series.Observation, len(rows))
	for i, r := range rows {
		obs[i] = series.Observation{Date: string(r.Date), Value: r.Value}
	}
	out := series.Normalize(obs, model.YearsBack)

	c.logger.Debug("fetched indicator series",
		"indicator", ind.Code,
		"country", country,
		"raw_rows", len(rows),
		"points", len(out),
		"elapsed", time.Since(start),
	)
	return out, nil
}

// parseRows validates the [metadata, rows] envelope and decodes the rows.
func parseRows(indicator string, body []byte) ([]row, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ShapeError{Indicator: indicator, Reason: "body is not a JSON array"}
	}
	if len(payload) < 2 {
		return nil, &ShapeError{Indicator: indicator, Reason: "expected [metadata, rows] pair"}
	}
	trimmed := bytes.TrimSpace(payload[1])
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &ShapeError{Indicator: indicator, Reason: "rows element is not an array"}
	}
	var rows []row
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return nil, &ShapeError{Indicator: indicator, Reason: "rows element failed to decode"}
	}
	return rows, nil
}
