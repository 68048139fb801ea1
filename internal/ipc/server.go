package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/geometry"
	"github.com/1broseidon/termdesk/internal/window"
)

// ReloadFunc reloads configuration into the running desktop.
type ReloadFunc func(ctx context.Context) error

// Server handles IPC requests from clients. Every command runs through the
// dispatcher so it never races the interactive loop.
type Server struct {
	socketPath string
	dispatch   desktop.Dispatcher
	reload     ReloadFunc
	logger     *slog.Logger
	startTime  time.Time

	mu       sync.Mutex
	listener net.Listener
}

// NewServer creates a server for socketPath.
func NewServer(socketPath string, dispatch desktop.Dispatcher, reload ReloadFunc, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		socketPath: socketPath,
		dispatch:   dispatch,
		reload:     reload,
		logger:     logger,
		startTime:  time.Now(),
	}
}

// String names the service.
func (s *Server) String() string { return "ipc-server" }

// Serve listens until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	// Remove a stale socket left by a crashed process.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go func() {
		<-ctx.Done()
		listener.Close()
	}()
	defer os.Remove(s.socketPath)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}
		go s.handleConnection(ctx, conn)
	}
}

// Addr returns the listening address once Serve has started.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.HandleCommand(ctx, req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Warn("failed to marshal response", "error", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

// HandleCommand processes one request.
func (s *Server) HandleCommand(ctx context.Context, req *Request) *Response {
	s.logger.Debug("IPC command", "command", req.Command)
	switch req.Command {
	case CommandReload:
		return s.handleReload(ctx)
	case CommandGetStatus:
		return s.handleGetStatus(ctx)
	case CommandListWindows:
		return s.handleListWindows(ctx)
	case CommandOpen:
		return s.handleOpen(ctx, req)
	case CommandFocus:
		return s.handleWindow(ctx, req, (*desktop.Desktop).Focus)
	case CommandClose:
		return s.handleWindow(ctx, req, (*desktop.Desktop).Close)
	case CommandMinimize:
		return s.handleWindow(ctx, req, (*desktop.Desktop).Minimize)
	case CommandMaximize:
		return s.handleMaximize(ctx, req)
	case CommandMove:
		return s.handleMove(ctx, req)
	case CommandResize:
		return s.handleResize(ctx, req)
	case CommandSetCompact:
		return s.handleSetCompact(ctx, req)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleReload(ctx context.Context) *Response {
	if s.reload == nil {
		return NewErrorResponse("Reload is not supported")
	}
	if err := s.reload(ctx); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	s.logger.Info("config reloaded via IPC")
	return ok(nil)
}

func (s *Server) handleGetStatus(ctx context.Context) *Response {
	var status StatusData
	err := s.dispatch.Do(ctx, func(d *desktop.Desktop) error {
		status.Status = d.Status()
		return nil
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	status.UptimeSeconds = int64(time.Since(s.startTime).Seconds())
	status.PID = os.Getpid()
	return ok(status)
}

func (s *Server) handleListWindows(ctx context.Context) *Response {
	var data WindowsData
	err := s.dispatch.Do(ctx, func(d *desktop.Desktop) error {
		data.Windows = d.Snapshot()
		return nil
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(data)
}

func (s *Server) handleOpen(ctx context.Context, req *Request) *Response {
	var p OpenPayload
	if err := decodePayload(req.Payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	var data OpenData
	err := s.dispatch.Do(ctx, func(d *desktop.Desktop) error {
		id, err := d.Open(p.URL)
		data.ID = id
		return err
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(data)
}

func (s *Server) handleWindow(ctx context.Context, req *Request, fn func(*desktop.Desktop, string) error) *Response {
	var p WindowPayload
	if err := decodePayload(req.Payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	err := s.dispatch.Do(ctx, func(d *desktop.Desktop) error {
		return fn(d, p.ID)
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(nil)
}

func (s *Server) handleMaximize(ctx context.Context, req *Request) *Response {
	var p WindowPayload
	if err := decodePayload(req.Payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	data := MaximizeData{ID: p.ID}
	err := s.dispatch.Do(ctx, func(d *desktop.Desktop) error {
		v, err := d.ToggleMaximize(p.ID)
		data.Maximized = v
		return err
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(data)
}

func (s *Server) handleMove(ctx context.Context, req *Request) *Response {
	var p MovePayload
	if err := decodePayload(req.Payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	return s.drag(ctx, p.ID, window.Toolbar(), p.DX, p.DY)
}

func (s *Server) handleResize(ctx context.Context, req *Request) *Response {
	var p ResizePayload
	if err := decodePayload(req.Payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	edges, err := geometry.ParseEdges(p.Edges)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return s.drag(ctx, p.ID, window.Border(edges), p.DX, p.DY)
}

func (s *Server) drag(ctx context.Context, id string, target window.Target, dx, dy int) *Response {
	data := RectData{ID: id}
	err := s.dispatch.Do(ctx, func(d *desktop.Desktop) error {
		r, err := d.Drag(id, target, dx, dy)
		data.Rect = r
		return err
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(data)
}

func (s *Server) handleSetCompact(ctx context.Context, req *Request) *Response {
	var p SetCompactPayload
	if err := decodePayload(req.Payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	err := s.dispatch.Do(ctx, func(d *desktop.Desktop) error {
		d.SetCompact(p.Compact)
		return nil
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(nil)
}

func ok(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}
