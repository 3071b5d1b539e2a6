package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"sync/atomic"
)

// ServerProcess supervises one language server child process
// communicating over stdio-framed JSON-RPC. Structured analogue of
// pkg/daemon.IPCServer's accept-loop/goroutine-per-connection shape:
// here there is exactly one long-lived "connection" (the child's
// stdio), read by a single dispatch loop for the process's lifetime.
type ServerProcess struct {
	cmd *exec.Cmd
	codec *Codec
	stdin io.WriteCloser
	log *slog.Logger
	nextID int64

	mu sync.Mutex
	pending map[int64]chan Response

	done chan struct{}
}

// StartServerProcess launches name with args under ctx: the child is
// killed when ctx is canceled. stdout/stdin are wired to a Codec;
// stderr is logged line by line via log.
func StartServerProcess(ctx context.Context, log *slog.Logger, name string, args ...string) (*ServerProcess, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("lsp: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("lsp: stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("lsp: stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("lsp: start %s: %w", name, err)
	}

	sp := &ServerProcess{
		cmd: cmd,
		codec: NewCodec(stdout, stdin),
		stdin: stdin,
		log: log,
		pending: make(map[int64]chan Response),
		done: make(chan struct{}),
	}

	go sp.stderrLoop(stderr)
	go sp.readLoop()

	return sp, nil
}

func (sp *ServerProcess) stderrLoop(r io.Reader) {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			sp.log.Debug("lsp server stderr", "data", string(buf[:n]))
		}
		if err != nil {
			return
		}
	}
}

// readLoop dispatches incoming responses to their waiting caller.
// Incoming requests/notifications from the server (e.g.
// window/showMessage) are logged and dropped: this editor core is a
// client only, it does not serve reverse LSP calls.
func (sp *ServerProcess) readLoop() {
	defer close(sp.done)
	for {
		var raw struct {
			ID RequestID `json:"id"`
			Method string `json:"method"`
			Result json.RawMessage `json:"result,omitempty"`
			Error *Error `json:"error,omitempty"`
		}
		if err := sp.codec.ReadMessage(&raw); err != nil {
			return
		}
		if raw.Method != "" {
			sp.log.Debug("lsp server->client message dropped", "method", raw.Method)
			continue
		}
		id, ok := toRequestKey(raw.ID)
		if !ok {
			continue
		}
		sp.mu.Lock()
		ch, ok := sp.pending[id]
		if ok {
			delete(sp.pending, id)
		}
		sp.mu.Unlock()
		if ok {
			ch <- Response{JSONRPC: "2.0", ID: raw.ID, Result: raw.Result, Error: raw.Error}
			close(ch)
		}
	}
}

func toRequestKey(id RequestID) (int64, bool) {
	switch v := id.(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

// Call sends a request and blocks for its response, or until ctx is
// canceled.
func (sp *ServerProcess) Call(ctx context.Context, method string, params any) (Response, error) {
	id := atomic.AddInt64(&sp.nextID, 1)
	req, err := NewRequest(float64(id), method, params)
	if err != nil {
		return Response{}, err
	}

	ch := make(chan Response, 1)
	sp.mu.Lock()
	sp.pending[id] = ch
	sp.mu.Unlock()

	if err := sp.codec.WriteMessage(req); err != nil {
		sp.mu.Lock()
		delete(sp.pending, id)
		sp.mu.Unlock()
		return Response{}, err
	}

	select {
	case resp := <-ch:
		return resp, nil
	case <-ctx.Done():
		sp.mu.Lock()
		delete(sp.pending, id)
		sp.mu.Unlock()
		return Response{}, ctx.Err()
	case <-sp.done:
		return Response{}, fmt.Errorf("lsp: server process exited before responding to %s", method)
	}
}

// Notify sends a fire-and-forget notification (e.g.
// textDocument/didChange).
func (sp *ServerProcess) Notify(method string, params any) error {
	n, err := NewNotification(method, params)
	if err != nil {
		return err
	}
	return sp.codec.WriteMessage(n)
}

// CancelPending fails every outstanding Call with a
// CodeRequestCancelled response, used when a document is force-closed
// out from under in-flight requests.
func (sp *ServerProcess) CancelPending() {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	for id, ch := range sp.pending {
		ch <- Response{JSONRPC: "2.0", ID: float64(id), Error: &Error{Code: CodeRequestCancelled, Message: "cancelled"}}
		close(ch)
		delete(sp.pending, id)
	}
}

// Wait blocks until the child process exits.
func (sp *ServerProcess) Wait() error {
	<-sp.done
	return sp.cmd.Wait()
}
