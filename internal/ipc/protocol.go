// Package ipc implements the line-delimited JSON protocol the daemon
// exposes over a named pipe: one request object per line in, one
// response object per line out, per connection.
package ipc

import (
	"encoding/json"
	"fmt"
)

// Request is a single decoded line from a client: {"cmd": "<name>", ...}.
// Extra fields are only meaningful to the commands that use them.
type Request struct {
	Cmd       string `json:"cmd"`
	DeltaPx   int    `json:"delta_px,omitempty"`
	WidthMode string `json:"width_mode,omitempty"`
}

// Response is one of the §6 response variants. Exactly one payload field
// is set besides Ok/Error, matching whichever variant the command
// produces; json.Marshal drops the rest via omitempty.
type Response struct {
	Ok            bool        `json:"ok,omitempty"`
	Error         string      `json:"error,omitempty"`
	Workspace     interface{} `json:"workspace,omitempty"`
	FocusedWindow interface{} `json:"focused_window,omitempty"`
	Windows       interface{} `json:"windows,omitempty"`
	Status        interface{} `json:"status,omitempty"`
}

// ParseRequest decodes a single request line.
func ParseRequest(line []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return nil, fmt.Errorf("ipc: parsing request: %w", err)
	}
	if req.Cmd == "" {
		return nil, fmt.Errorf("ipc: request missing \"cmd\"")
	}
	return &req, nil
}

// Marshal encodes a response as a single line (without the trailing
// newline; callers append it).
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

func errorResponse(err error) *Response {
	return &Response{Error: err.Error()}
}

func okResponse() *Response {
	return &Response{Ok: true}
}
