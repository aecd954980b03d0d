package meteolt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/http"
	"net/url"
)

// request issues a single GET against the API and decodes the JSON body into
// out, which must be a pointer. The response status is mapped to an error
// code before the body is read. No retry happens here; resilience is the
// caller's concern.
func (c *Client) request(ctx context.Context, endpoint string, params url.Values, out any) error {
	full := c.baseURL + endpoint
	if len(params) > 0 {
		full += "?" + params.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return newAPIError(ErrCodeRequest, fmt.Sprintf("build request for %s", endpoint), err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.mapTransportError(endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return newAPIError(ErrCodeNotFound, fmt.Sprintf("%s not found", endpoint), nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return newAPIError(ErrCodeRateLimited, "API rate limit exceeded", nil)
	case resp.StatusCode >= 500:
		return newAPIError(ErrCodeConnection, fmt.Sprintf("server error: %d", resp.StatusCode), nil)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return newAPIError(ErrCodeRequest, fmt.Sprintf("unexpected status: %d", resp.StatusCode), nil)
	}

	if mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err != nil || mediaType != "application/json" {
		return newAPIError(ErrCodeFormat, fmt.Sprintf("unexpected content type %q", resp.Header.Get("Content-Type")), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newAPIError(ErrCodeFormat, "invalid response body", err)
	}
	return nil
}

// mapTransportError classifies a failure of http.Client.Do. Deadline
// expirations become timeout errors; everything else (DNS, refused, reset,
// caller cancellation) is a connection error wrapping the original cause.
func (c *Client) mapTransportError(endpoint string, err error) *APIError {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return newAPIError(ErrCodeTimeout, fmt.Sprintf("no response from %s within %s", endpoint, c.timeout), err)
	}
	return newAPIError(ErrCodeConnection, fmt.Sprintf("request to %s failed", endpoint), err)
}
