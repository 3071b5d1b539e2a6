package broker

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"syscall"
)

// FrameKind tags a broker IPC frame.
type FrameKind uint8

const (
	FrameRequest FrameKind = iota
	FrameResponse
	FrameEvent
)

// MaxFrameSize bounds a single frame's payload.
const MaxFrameSize = 16 * 1024 * 1024

// Frame is one length-prefixed broker IPC message. Payload is encoded
// with encoding/gob: the pack has no schema-less binary codec that
// doesn't require a separate code-generation step (protobuf/capnproto
// both need out-of-band compilation this exercise can't run), and gob
// is stdlib's nearest equivalent to the reference implementation's
// reflection-free postcard format — both are self-describing enough
// to round-trip without a schema file.
type Frame struct {
	Kind FrameKind
	Payload []byte
}

// ErrFrameTooLarge is returned by ReadFrame when a frame's declared
// length exceeds MaxFrameSize.
type ErrFrameTooLarge struct{ Size uint32 }

func (e ErrFrameTooLarge) Error() string {
	return fmt.Sprintf("broker: frame size %d exceeds max %d", e.Size, MaxFrameSize)
}

// WriteFrame writes kind+v as one length-prefixed (u32 little-endian)
// frame: 1 byte kind, gob-encoded payload.
func WriteFrame(w io.Writer, kind FrameKind, v any) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return err
	}
	payload := buf.Bytes()
	if len(payload) > MaxFrameSize {
		return ErrFrameTooLarge{Size: uint32(len(payload))}
	}

	header := make([]byte, 5)
	binary.LittleEndian.PutUint32(header[0:4], uint32(len(payload)+1))
	header[4] = byte(kind)
	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ReadFrame reads one frame and decodes its payload into v.
func ReadFrame(r io.Reader, v any) (FrameKind, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return 0, classifyDisconnect(err)
	}
	total := binary.LittleEndian.Uint32(lenBuf[:])
	if total == 0 || total-1 > MaxFrameSize {
		return 0, ErrFrameTooLarge{Size: total}
	}

	body := make([]byte, total)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, classifyDisconnect(err)
	}
	kind := FrameKind(body[0])
	if err := gob.NewDecoder(bytes.NewReader(body[1:])).Decode(v); err != nil {
		return kind, err
	}
	return kind, nil
}

// classifyDisconnect maps the transport errors a dropped connection
// can surface (UnexpectedEof/BrokenPipe/ConnectionReset) into a single
// ErrDisconnected so callers don't need to match on io vs syscall
// error types.
func classifyDisconnect(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF ||
		errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET) {
		return ErrDisconnected{Cause: err}
	}
	return err
}

// ErrDisconnected wraps a transport error that broker treats as a
// session/server disconnect (triggering the failure-handling
// sequence), rather than a protocol error.
type ErrDisconnected struct{ Cause error }

func (e ErrDisconnected) Error() string { return fmt.Sprintf("broker: disconnected: %v", e.Cause) }
func (e ErrDisconnected) Unwrap() error { return e.Cause }
