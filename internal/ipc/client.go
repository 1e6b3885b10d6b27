package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Microsoft/go-winio"

	"github.com/openniri/openniri/internal/runtimepath"
)

// dialTimeout is the total budget for connecting, sending a request, and
// reading its response, per §5's client timeout.
const dialTimeout = 5 * time.Second

// Client sends single-request-per-connection commands to a running
// daemon over its named pipe.
type Client struct {
	timeout time.Duration
}

// NewClient builds a Client using the well-known pipe address.
func NewClient() *Client {
	return &Client{timeout: dialTimeout}
}

// Send issues cmd (with optional fields) and returns the decoded
// response, or an error if the daemon is unreachable, the connection
// times out, or the daemon reports {"error": ...}.
func (c *Client) Send(req Request) (*Response, error) {
	deadline := time.Now().Add(c.timeout)
	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	defer cancel()

	conn, err := winio.DialPipeContext(ctx, runtimepath.PipePath())
	if err != nil {
		return nil, fmt.Errorf("ipc: connecting to daemon: %w (is it running?)", err)
	}
	defer conn.Close()
	conn.SetDeadline(deadline)

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("ipc: encoding request: %w", err)
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("ipc: sending request: %w", err)
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("ipc: reading response: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("ipc: decoding response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("daemon: %s", resp.Error)
	}
	return &resp, nil
}

// Simple issues a bare command with no fields and only surfaces an
// error, for the many commands whose success response is {"ok": true}.
func (c *Client) Simple(cmd string) error {
	_, err := c.Send(Request{Cmd: cmd})
	return err
}

// Scroll issues the scroll command with a pixel delta.
func (c *Client) Scroll(deltaPx int) error {
	_, err := c.Send(Request{Cmd: "scroll", DeltaPx: deltaPx})
	return err
}

// Resize issues the resize command with a pixel delta applied to the
// focused column's width.
func (c *Client) Resize(deltaPx int) error {
	_, err := c.Send(Request{Cmd: "resize", DeltaPx: deltaPx})
	return err
}

// SetColumnWidth issues set_column_width with one of the four named
// modes ("one_third", "half", "two_thirds", "equalize").
func (c *Client) SetColumnWidth(mode string) error {
	_, err := c.Send(Request{Cmd: "set_column_width", WidthMode: mode})
	return err
}

// QueryStatus fetches the daemon's status snapshot for the CLI's
// `status` subcommand.
func (c *Client) QueryStatus(out interface{}) error {
	resp, err := c.Send(Request{Cmd: "query_status"})
	if err != nil {
		return err
	}
	return remarshal(resp.Status, out)
}

// QueryWorkspace fetches the focused monitor's workspace snapshot.
func (c *Client) QueryWorkspace(out interface{}) error {
	resp, err := c.Send(Request{Cmd: "query_workspace"})
	if err != nil {
		return err
	}
	return remarshal(resp.Workspace, out)
}

// QueryAllWindows fetches every managed window across every monitor.
func (c *Client) QueryAllWindows(out interface{}) error {
	resp, err := c.Send(Request{Cmd: "query_all_windows"})
	if err != nil {
		return err
	}
	return remarshal(resp.Windows, out)
}

// remarshal round-trips a decoded interface{} payload through JSON into
// a caller-supplied typed destination, since Response fields are decoded
// generically to stay agnostic of daemon.Wire* types.
func remarshal(payload interface{}, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ipc: re-encoding response payload: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("ipc: decoding response payload: %w", err)
	}
	return nil
}
