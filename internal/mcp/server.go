// Package mcp exposes a running desktop to MCP clients over stdio. Every
// tool forwards to the desktop's IPC socket.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/geometry"
	"github.com/1broseidon/termdesk/internal/ipc"
)

const (
	ServerName    = "termdesk"
	ServerVersion = "0.1.0"
)

// Controller is the subset of the IPC client the tools use.
type Controller interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() ([]desktop.WindowInfo, error)
	Open(url string) (string, error)
	Focus(id string) error
	Close(id string) error
	Minimize(id string) error
	Maximize(id string) (bool, error)
	Move(id string, dx, dy int) (geometry.Rect, error)
	Resize(id, edges string, dx, dy int) (geometry.Rect, error)
	SetCompact(compact bool) error
}

// Server is the MCP server for termdesk window control.
type Server struct {
	mcpServer *mcpsdk.Server
	ctl       Controller
	logger    *slog.Logger
}

// NewServer creates an MCP server that drives the desktop through ctl.
func NewServer(ctl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{ctl: ctl, logger: logger}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the open desktop windows bottom to top with their rectangles and state (focused, minimized, maximized).",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Summarize the desktop: window count, focused window, layout mode and key listener count.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_app",
		Description: "Open an app by url. If the app already has a window it is focused instead, restoring it when minimized.",
	}, s.handleOpenApp)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Focus a window and raise it to the top. A minimized window is restored.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window the same way its close control does.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Minimize a window. It stays open and is restored the next time it gains focus.",
	}, s.handleMinimizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_maximize",
		Description: "Toggle a window between maximized and its stored rectangle. Maximized windows cannot be moved or resized.",
	}, s.handleToggleMaximize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Drag a window by its toolbar. Fails when the window is maximized, compact or has no toolbar.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Drag one of the eight resize zones. A result smaller than 280x60 is rejected and the rectangle is left unchanged.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_compact",
		Description: "Switch between the regular windowed layout and the compact layout, where windows fill the desktop and offer only a dismiss control.",
	}, s.handleSetCompact)
}
