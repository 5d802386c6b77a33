package remote

import (
	"context"
	"sync"
	"time"

	"mangaread/internal/errors"
	"mangaread/pkg/types"

	"github.com/gorilla/websocket"
)

// Client is the reader's handle to the remote page source. All fetches
// share one websocket connection; mu serializes each write/read exchange
// so at most one call is on the wire at a time, while any number of
// callers may block waiting their turn.
type Client struct {
	conn    *websocket.Conn
	mu      sync.Mutex
	timeout time.Duration
}

// Dial connects to a page server at the given websocket URL.
func Dial(ctx context.Context, url string, timeout time.Duration) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errors.NewFetchError("connecting to page server", -1, errors.TransportFailure, err)
	}
	return &Client{conn: conn, timeout: timeout}, nil
}

// Close tears down the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

// FetchInfo retrieves the document metadata, cover included.
func (c *Client) FetchInfo() (*types.Manga, error) {
	resp, err := c.call(request{Op: opInfo}, -1)
	if err != nil {
		return nil, err
	}
	if resp.Manga == nil {
		return nil, errors.NewFetchError("empty metadata response", -1, errors.DecodeFailure, nil)
	}
	return resp.Manga, nil
}

// FetchPage retrieves the raw image bytes for one page.
func (c *Client) FetchPage(index int) ([]byte, error) {
	resp, err := c.call(request{Op: opPage, Number: index}, index)
	if err != nil {
		return nil, err
	}
	if resp.Image == nil {
		return nil, errors.NewFetchError("empty page response", index, errors.DecodeFailure, nil)
	}
	return resp.Image, nil
}

// call performs one request/response exchange while holding the
// connection.
func (c *Client) call(req request, index int) (response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := time.Now().Add(c.timeout)

	c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteJSON(req); err != nil {
		return response{}, errors.NewFetchError("sending request", index, errors.TransportFailure, err)
	}

	c.conn.SetReadDeadline(deadline)
	var resp response
	if err := c.conn.ReadJSON(&resp); err != nil {
		return response{}, errors.NewFetchError("reading response", index, errors.TransportFailure, err)
	}

	if resp.Error != nil {
		return response{}, errors.NewFetchError(resp.Error.Message, index, kindForCode(resp.Error.Code), nil)
	}
	return resp, nil
}
