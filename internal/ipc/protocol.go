package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/geometry"
)

// CommandType names a control socket request. Each request and response
// is one JSON object on its own line.
type CommandType string

const (
	CommandReload      CommandType = "RELOAD"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandListWindows CommandType = "LIST_WINDOWS"
	CommandOpen        CommandType = "OPEN"
	CommandFocus       CommandType = "FOCUS"
	CommandClose       CommandType = "CLOSE"
	CommandMinimize    CommandType = "MINIMIZE"
	CommandMaximize    CommandType = "MAXIMIZE"
	CommandMove        CommandType = "MOVE"
	CommandResize      CommandType = "RESIZE"
	CommandSetCompact  CommandType = "SET_COMPACT"
)

// Response status values.
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request is sent by a client.
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response answers one request. Data is set on success, Error otherwise.
type Response struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData answers GET_STATUS.
type StatusData struct {
	desktop.Status
	UptimeSeconds int64 `json:"uptime_seconds"`
	PID           int   `json:"pid"`
}

// WindowsData answers LIST_WINDOWS, bottom window first.
type WindowsData struct {
	Windows []desktop.WindowInfo `json:"windows"`
}

type OpenPayload struct {
	URL string `json:"url"`
}

type OpenData struct {
	ID string `json:"id"`
}

// WindowPayload addresses one window for FOCUS, CLOSE, MINIMIZE and MAXIMIZE.
type WindowPayload struct {
	ID string `json:"id"`
}

type MaximizeData struct {
	ID        string `json:"id"`
	Maximized bool   `json:"maximized"`
}

// MovePayload drags the window's toolbar by (DX, DY) layout units.
type MovePayload struct {
	ID string `json:"id"`
	DX int    `json:"dx"`
	DY int    `json:"dy"`
}

// ResizePayload drags the resize zone named by Edges ("right",
// "top-left", ...) by (DX, DY) layout units.
type ResizePayload struct {
	ID    string `json:"id"`
	Edges string `json:"edges"`
	DX    int    `json:"dx"`
	DY    int    `json:"dy"`
}

type RectData struct {
	ID   string        `json:"id"`
	Rect geometry.Rect `json:"rect"`
}

type SetCompactPayload struct {
	Compact bool `json:"compact"`
}

// NewOKResponse wraps data, which may be nil.
func NewOKResponse(data any) (*Response, error) {
	resp := &Response{Status: StatusOK}
	if data == nil {
		return resp, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response data: %w", err)
	}
	resp.Data = raw
	return resp, nil
}

// NewErrorResponse reports msg to the client.
func NewErrorResponse(msg string) *Response {
	return &Response{Status: StatusError, Error: msg}
}

// ParseRequest decodes one request line.
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal encodes r without the trailing newline.
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

func decodePayload(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}
