package ipc

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/Microsoft/go-winio"

	"github.com/openniri/openniri/internal/daemon"
	"github.com/openniri/openniri/internal/runtimepath"
)

// commandTimeout bounds how long a single dispatched request may occupy
// the event loop's attention before the connection gives up on it.
const commandTimeout = 5 * time.Second

// Dispatcher is the subset of *daemon.Daemon the server needs: submit a
// closure onto the event loop and, from within one, run a command.
// Satisfied by *daemon.Daemon without any adapter.
type Dispatcher interface {
	Submit(fn func())
	Dispatch(req daemon.Request) daemon.Result
}

// Server accepts named-pipe connections and dispatches one request per
// connection onto the daemon's event loop.
type Server struct {
	dispatcher Dispatcher
	logger     *slog.Logger

	listener net.Listener
	wg       sync.WaitGroup

	mu       sync.Mutex
	stopping bool
}

// NewServer builds a Server bound to dispatcher. Start begins listening.
func NewServer(dispatcher Dispatcher, logger *slog.Logger) *Server {
	return &Server{dispatcher: dispatcher, logger: logger}
}

// Start opens the named pipe and begins accepting connections in the
// background.
func (s *Server) Start() error {
	l, err := winio.ListenPipe(runtimepath.PipePath(), nil)
	if err != nil {
		return err
	}
	s.listener = l
	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			stopping := s.stopping
			s.mu.Unlock()
			if stopping {
				return
			}
			s.logger.Error("ipc accept failed", "error", err)
			continue
		}
		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		s.logger.Warn("ipc read failed", "error", err)
		return
	}
	if len(line) == 0 {
		return
	}

	req, err := ParseRequest(line)
	if err != nil {
		s.writeResponse(conn, errorResponse(err))
		return
	}

	resp := s.dispatch(*req)
	s.writeResponse(conn, resp)
}

// dispatch submits req to the event loop and waits for its Result,
// translating it into a Response, or times out.
func (s *Server) dispatch(req Request) *Response {
	dreq := daemon.Request{Cmd: req.Cmd, DeltaPx: req.DeltaPx, WidthMode: daemon.ColumnWidthMode(req.WidthMode)}

	resultCh := make(chan daemon.Result, 1)
	s.dispatcher.Submit(func() {
		resultCh <- s.dispatcher.Dispatch(dreq)
	})

	select {
	case result := <-resultCh:
		return responseFromResult(result)
	case <-time.After(commandTimeout):
		return errorResponse(context.DeadlineExceeded)
	}
}

func responseFromResult(r daemon.Result) *Response {
	switch {
	case r.Err != nil:
		return errorResponse(r.Err)
	case r.Workspace != nil:
		return &Response{Workspace: r.Workspace}
	case r.FocusedWindow != nil:
		return &Response{FocusedWindow: r.FocusedWindow}
	case r.Windows != nil:
		return &Response{Windows: r.Windows}
	case r.Status != nil:
		return &Response{Status: r.Status}
	default:
		return okResponse()
	}
}

func (s *Server) writeResponse(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		s.logger.Error("ipc marshal response failed", "error", err)
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.logger.Warn("ipc write response failed", "error", err)
	}
}

// Stop closes the listener and waits for in-flight connections to
// finish, matching the §5 shutdown sequence's "stop accepting new IPC
// connections" step.
func (s *Server) Stop() {
	s.mu.Lock()
	s.stopping = true
	s.mu.Unlock()
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
}
