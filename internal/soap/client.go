package soap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client posts SOAP envelopes to a single service endpoint. The
// underlying HTTP client keeps a cookie jar so the server session
// established by authentication survives across calls.
type Client struct {
	endpoint   string
	httpClient *http.Client
	maxElapsed time.Duration
}

// NewClient creates a client for the given endpoint URL.
func NewClient(endpoint string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 2 * time.Minute,
		},
		maxElapsed: 30 * time.Second,
	}
}

// Call invokes the named SOAP action with req as the body element and
// decodes the response body element into resp (which may be nil when
// the caller does not need the response).
//
// Transient transport failures (connection errors, 5xx without a fault
// body) are retried with exponential backoff. SOAP faults and HTTP 4xx
// responses are permanent.
func (c *Client) Call(ctx context.Context, action string, req, resp any) error {
	payload, err := encodeRequest(req)
	if err != nil {
		return err
	}

	operation := func() error {
		return c.post(ctx, action, payload, resp)
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.maxElapsed
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return fmt.Errorf("calling %s: %w", action, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, action string, payload []byte, resp any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	httpReq.Header.Set("Content-Type", `text/xml; charset="utf-8"`)
	httpReq.Header.Set("SOAPAction", action)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return fmt.Errorf("executing request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	switch {
	case httpResp.StatusCode == http.StatusOK:
		if err := decodeResponse(body, resp); err != nil {
			return backoff.Permanent(err)
		}
		return nil
	case httpResp.StatusCode == http.StatusInternalServerError:
		// WCF reports faults as 500 with an envelope body. A decodable
		// fault is a real answer, not a transport failure.
		if err := decodeResponse(body, nil); err != nil {
			var fault *Fault
			var validation *ValidationFault
			if errors.As(err, &fault) || errors.As(err, &validation) {
				return backoff.Permanent(err)
			}
		}
		return fmt.Errorf("server returned %d: %s", httpResp.StatusCode, truncateBody(body))
	case httpResp.StatusCode >= 500:
		return fmt.Errorf("server returned %d: %s", httpResp.StatusCode, truncateBody(body))
	default:
		return backoff.Permanent(fmt.Errorf("server returned %d: %s", httpResp.StatusCode, truncateBody(body)))
	}
}

func truncateBody(body []byte) string {
	const max = 512
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
