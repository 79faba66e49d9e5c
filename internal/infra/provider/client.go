// Client plumbing shared by the per-kind completion codecs.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/matiasleandrokruk/vocable/internal/infra/aiconfig"
)

// Client sends one completion to one configured endpoint. Implementations are
// stateless with respect to configuration: the active ProviderConfig arrives
// with every call so a hot-reloaded snapshot takes effect immediately.
type Client interface {
	Complete(ctx context.Context, cfg aiconfig.ProviderConfig, req CompletionRequest) (string, error)
}

const (
	mimeJSON          = "application/json"
	headerContentType = "Content-Type"
)

// postJSON sends payload to url and returns the response body. Transport and
// status failures come back already classified.
func postJSON(ctx context.Context, hc *http.Client, url string, header http.Header, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Kind: KindMalformedResponse, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindUnreachable, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set(headerContentType, mimeJSON)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyStatus(resp.StatusCode, string(data))
	}
	return data, nil
}
