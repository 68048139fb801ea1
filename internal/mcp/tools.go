package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/termdesk/internal/geometry"
)

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.ctl.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	out := ListWindowsOutput{Windows: windows}
	for _, w := range windows {
		if w.Focused {
			out.Focused = w.ID
		}
	}
	return nil, out, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	st, err := s.ctl.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, GetStatusOutput{
		Windows:       st.Windows,
		Focused:       st.Focused,
		Compact:       st.Compact,
		Listeners:     st.Listeners,
		Location:      st.Location,
		UptimeSeconds: st.UptimeSeconds,
	}, nil
}

func (s *Server) handleOpenApp(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenAppInput) (*mcpsdk.CallToolResult, OpenAppOutput, error) {
	url := strings.TrimSpace(args.URL)
	if url == "" {
		return nil, OpenAppOutput{}, fmt.Errorf("url is required")
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	id, err := s.ctl.Open(url)
	if err != nil {
		s.logger.Warn("open_app failed", "url", url, "error", err)
		return nil, OpenAppOutput{}, err
	}
	s.logger.Info("open_app", "url", url, "window", id)
	return nil, OpenAppOutput{ID: id, URL: url}, nil
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowAction("focus", args.ID, s.ctl.Focus)
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowAction("close", args.ID, s.ctl.Close)
}

func (s *Server) handleMinimizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowAction("minimize", args.ID, s.ctl.Minimize)
}

func (s *Server) windowAction(action, id string, fn func(string) error) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if id == "" {
		return nil, WindowOutput{}, fmt.Errorf("id is required")
	}
	if err := fn(id); err != nil {
		s.logger.Warn(action+" failed", "window", id, "error", err)
		return nil, WindowOutput{}, err
	}
	s.logger.Info(action, "window", id)
	return nil, WindowOutput{ID: id, Action: action}, nil
}

func (s *Server) handleToggleMaximize(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, ToggleMaximizeOutput, error) {
	if args.ID == "" {
		return nil, ToggleMaximizeOutput{}, fmt.Errorf("id is required")
	}
	maximized, err := s.ctl.Maximize(args.ID)
	if err != nil {
		return nil, ToggleMaximizeOutput{}, err
	}
	return nil, ToggleMaximizeOutput{ID: args.ID, Maximized: maximized}, nil
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, RectOutput, error) {
	if args.ID == "" {
		return nil, RectOutput{}, fmt.Errorf("id is required")
	}
	before, err := s.currentRect(args.ID)
	if err != nil {
		return nil, RectOutput{}, err
	}
	rect, err := s.ctl.Move(args.ID, args.DX, args.DY)
	if err != nil {
		return nil, RectOutput{}, err
	}
	return nil, RectOutput{ID: args.ID, Rect: rect, Changed: rect != before}, nil
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, RectOutput, error) {
	if args.ID == "" {
		return nil, RectOutput{}, fmt.Errorf("id is required")
	}
	edges, err := geometry.ParseEdges(args.Edges)
	if err != nil {
		return nil, RectOutput{}, err
	}
	before, err := s.currentRect(args.ID)
	if err != nil {
		return nil, RectOutput{}, err
	}
	rect, err := s.ctl.Resize(args.ID, edges.String(), args.DX, args.DY)
	if err != nil {
		return nil, RectOutput{}, err
	}
	if rect == before && (args.DX != 0 || args.DY != 0) {
		s.logger.Debug("resize rejected", "window", args.ID, "edges", edges.String(), "dx", args.DX, "dy", args.DY)
	}
	return nil, RectOutput{ID: args.ID, Rect: rect, Changed: rect != before}, nil
}

func (s *Server) currentRect(id string) (geometry.Rect, error) {
	windows, err := s.ctl.ListWindows()
	if err != nil {
		return geometry.Rect{}, err
	}
	for _, w := range windows {
		if w.ID == id {
			return w.Rect, nil
		}
	}
	return geometry.Rect{}, fmt.Errorf("no window with id %q", id)
}

func (s *Server) handleSetCompact(_ context.Context, _ *mcpsdk.CallToolRequest, args SetCompactInput) (*mcpsdk.CallToolResult, SetCompactOutput, error) {
	if err := s.ctl.SetCompact(args.Compact); err != nil {
		return nil, SetCompactOutput{}, err
	}
	return nil, SetCompactOutput{Compact: args.Compact}, nil
}
