package lsp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Codec frames JSON-RPC messages over a byte stream using the LSP
// Content-Length header convention (RFC-style headers, blank line,
// JSON body) — the stdio analogue of pkg/daemon/ipc.go's line-based
// Unix socket framing, generalized from one line per message to one
// Content-Length-prefixed block per message.
type Codec struct {
	r *bufio.Reader
	w io.Writer
}

// NewCodec wraps r/w for reading/writing framed JSON-RPC messages.
func NewCodec(r io.Reader, w io.Writer) *Codec {
	return &Codec{r: bufio.NewReader(r), w: w}
}

// WriteMessage marshals v and writes it with a Content-Length header.
func (c *Codec) WriteMessage(v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(c.w, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	_, err = c.w.Write(body)
	return err
}

// ReadMessage reads one framed message and unmarshals it into v.
func (c *Codec) ReadMessage(v any) error {
	length := -1
	for {
		line, err := c.r.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return fmt.Errorf("lsp: malformed Content-Length header %q: %w", value, err)
			}
			length = n
		}
	}
	if length < 0 {
		return fmt.Errorf("lsp: message frame missing Content-Length header")
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(c.r, body); err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}
