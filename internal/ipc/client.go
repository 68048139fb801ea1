package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/geometry"
	"github.com/1broseidon/termdesk/internal/runtimepath"
)

// Client sends one request per connection to a running desktop.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient dials the default socket. A socket path that cannot be
// resolved surfaces as a dial error on the first call.
func NewClient() *Client {
	socketPath, _ := runtimepath.SocketPath()
	return NewClientWithSocket(socketPath)
}

// NewClientWithSocket creates a client for an explicit socket path.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{socketPath: socketPath, timeout: 5 * time.Second}
}

// SocketPath returns the socket the client dials.
func (c *Client) SocketPath() string { return c.socketPath }

// roundTrip writes req and reads the single response line. An ERROR
// response becomes an error.
func (c *Client) roundTrip(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to desktop: %w (is termdesk running?)", err)
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, err
	}

	// Encode appends the newline the server reads up to.
	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == StatusError {
		return nil, fmt.Errorf("desktop error: %s", resp.Error)
	}
	return &resp, nil
}

func (c *Client) call(cmd CommandType, payload any, out any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = raw
	}

	resp, err := c.roundTrip(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// Reload asks the desktop to reload its configuration
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus retrieves desktop status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListWindows returns the open windows bottom to top.
func (c *Client) ListWindows() ([]desktop.WindowInfo, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return data.Windows, nil
}

// Open navigates to url and returns the id of its window.
func (c *Client) Open(url string) (string, error) {
	var data OpenData
	if err := c.call(CommandOpen, OpenPayload{URL: url}, &data); err != nil {
		return "", err
	}
	return data.ID, nil
}

func (c *Client) Focus(id string) error {
	return c.call(CommandFocus, WindowPayload{ID: id}, nil)
}

func (c *Client) Close(id string) error {
	return c.call(CommandClose, WindowPayload{ID: id}, nil)
}

func (c *Client) Minimize(id string) error {
	return c.call(CommandMinimize, WindowPayload{ID: id}, nil)
}

// Maximize toggles the maximized flag and reports the new value.
func (c *Client) Maximize(id string) (bool, error) {
	var data MaximizeData
	if err := c.call(CommandMaximize, WindowPayload{ID: id}, &data); err != nil {
		return false, err
	}
	return data.Maximized, nil
}

// Move drags the window's toolbar and returns the committed rectangle.
func (c *Client) Move(id string, dx, dy int) (geometry.Rect, error) {
	var data RectData
	if err := c.call(CommandMove, MovePayload{ID: id, DX: dx, DY: dy}, &data); err != nil {
		return geometry.Rect{}, err
	}
	return data.Rect, nil
}

// Resize drags a resize zone and returns the committed rectangle. A
// candidate below the minimum size leaves the rectangle unchanged.
func (c *Client) Resize(id, edges string, dx, dy int) (geometry.Rect, error) {
	var data RectData
	if err := c.call(CommandResize, ResizePayload{ID: id, Edges: edges, DX: dx, DY: dy}, &data); err != nil {
		return geometry.Rect{}, err
	}
	return data.Rect, nil
}

func (c *Client) SetCompact(compact bool) error {
	return c.call(CommandSetCompact, SetCompactPayload{Compact: compact}, nil)
}

// Ping checks if the desktop is running
func (c *Client) Ping() bool {
	_, err := c.GetStatus()
	return err == nil
}
