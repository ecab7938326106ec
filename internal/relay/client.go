package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"sealchat/internal/domain"
)

// Wire DTOs. []byte fields marshal as standard base64 per encoding/json.

type pushRequest struct {
	SenderKey []byte `json:"senderKey"`
	Envelope  []byte `json:"envelope"`
}

type pushResponse struct {
	Status string `json:"status"`
}

// Client talks to the relay's REST surface.
type Client struct {
	base string
	http *http.Client
}

// New returns a Client for the relay at base. A nil hc falls back to
// http.DefaultClient.
func New(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{base: base, http: hc}
}

// Push delivers an encrypted update to recipient and returns the
// relay-reported outcome.
func (c *Client) Push(ctx context.Context, recipient domain.Fingerprint, u domain.Update) (string, error) {
	var out pushResponse
	in := pushRequest{SenderKey: u.SenderKeyBytes, Envelope: u.EnvelopeBytes}
	if err := c.post(ctx, "/v1/messages/"+url.PathEscape(string(recipient)), in, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

// Updates returns identity's feed entries newer than since (epoch millis).
func (c *Client) Updates(ctx context.Context, identity domain.Fingerprint, since int64) ([]domain.Update, error) {
	path := "/v1/updates/" + url.PathEscape(string(identity)) +
		"?since=" + strconv.FormatInt(since, 10)
	var out []domain.Update
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// History returns up to limit feed entries older than before. A zero
// before means "now"; a zero limit leaves paging to the relay default.
func (c *Client) History(ctx context.Context, identity domain.Fingerprint, limit int, before int64) ([]domain.Update, error) {
	path := "/v1/messages/" + url.PathEscape(string(identity))
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if before > 0 {
		q.Set("before", strconv.FormatInt(before, 10))
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []domain.Update
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return &domain.TransportError{Op: "POST", URL: c.base + path, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, buf)
	if err != nil {
		return &domain.TransportError{Op: "POST", URL: c.base + path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return &domain.TransportError{Op: "GET", URL: c.base + path, Err: err}
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.TransportError{Op: req.Method, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return &domain.TransportError{Op: req.Method, URL: req.URL.String(), Status: resp.StatusCode}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &domain.TransportError{Op: req.Method, URL: req.URL.String(), Err: err}
		}
	}
	return nil
}

var _ domain.RelayClient = (*Client)(nil)
