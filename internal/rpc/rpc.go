// Package rpc is the **[ADD]** remote embedding front door: a
// QUIC-transported bridge that marshals create_context/load_module/run/
// dispose_context calls for a host process running on a different machine
// than the compiled program (SPEC_FULL.md's DOMAIN STACK wiring for
// github.com/quic-go/quic-go and github.com/quic-go/qpack). Each call is one
// bidirectional QUIC stream. The request is a 4-byte big-endian length, a
// qpack-encoded header block of that length carrying the method name, the
// ABI version (create_context) and the context id, and then a raw body: the
// module bytes for load_module, the entrypoint name for run. The response
// uses the same framing with an empty body; its header block carries the
// embed.Status as a decimal "status" field and, for create_context, the
// newly assigned context id.
//
// The listener lifecycle (Accept loop paired with a cancellation watcher
// via errgroup) follows quic-go's own Listener/Connection/Stream API
// directly rather than any HTTP framing; internal/runtime/netstack supplies
// only the TLS config the listener is built with.
package rpc

import (
	"context"
	"fmt"
	"io"
	"sync"

	quic "github.com/quic-go/quic-go"
	"github.com/quic-go/qpack"
	"golang.org/x/sync/errgroup"

	"github.com/vael-lang/vael-rt/internal/embed"
)

// Method names carried as the ":method" pseudo-header of each request's
// qpack block, naming the four embedding ABI calls this bridge proxies.
const (
	MethodCreateContext  = "create_context"
	MethodLoadModule     = "load_module"
	MethodRun            = "run"
	MethodDisposeContext = "dispose_context"
)

// headerContextID is the pseudo-header naming which context id a
// load_module/run/dispose_context call targets; create_context responses
// carry the newly assigned id back the same way.
const headerContextID = "context-id"

// request is the decoded form of a stream's qpack header block.
type request struct {
	method    string
	version   string
	contextID string
}

func decodeRequest(r io.Reader) (request, []byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return request{}, nil, err
	}

	// The header block length is framed as a 4-byte big-endian prefix so the
	// decoder knows where qpack-encoded bytes end and the raw body (module
	// bytes, for load_module) begins — qpack itself has no end-of-block
	// marker of its own.
	if len(raw) < 4 {
		return request{}, nil, fmt.Errorf("rpc: stream too short for header length prefix")
	}

	hlen := int(raw[0])<<24 | int(raw[1])<<16 | int(raw[2])<<8 | int(raw[3])
	if hlen < 0 || 4+hlen > len(raw) {
		return request{}, nil, fmt.Errorf("rpc: invalid header length %d", hlen)
	}

	headerBytes := raw[4 : 4+hlen]
	body := raw[4+hlen:]

	var req request

	decoder := qpack.NewDecoder(func(f qpack.HeaderField) {
		switch f.Name {
		case ":method":
			req.method = f.Value
		case "abi-version":
			req.version = f.Value
		case headerContextID:
			req.contextID = f.Value
		}
	})

	if _, err := decoder.Write(headerBytes); err != nil {
		return request{}, nil, fmt.Errorf("rpc: qpack decode failed: %w", err)
	}

	return req, body, nil
}

func encodeHeaders(fields ...qpack.HeaderField) ([]byte, error) {
	var buf []byte

	w := &byteSliceWriter{buf: &buf}
	enc := qpack.NewEncoder(w)

	for _, f := range fields {
		if err := enc.WriteField(f); err != nil {
			return nil, err
		}
	}

	return buf, nil
}

// byteSliceWriter adapts a *[]byte to io.Writer for qpack.NewEncoder, which
// wants a stream rather than a byte slice builder.
type byteSliceWriter struct{ buf *[]byte }

func (w *byteSliceWriter) Write(p []byte) (int, error) {
	*w.buf = append(*w.buf, p...)
	return len(p), nil
}

func frame(header []byte, body []byte) []byte {
	out := make([]byte, 4+len(header)+len(body))
	n := len(header)
	out[0] = byte(n >> 24)
	out[1] = byte(n >> 16)
	out[2] = byte(n >> 8)
	out[3] = byte(n)
	copy(out[4:], header)
	copy(out[4+len(header):], body)

	return out
}

// Server accepts QUIC connections and dispatches each stream's request to a
// registry of live embed.Context values keyed by an opaque id this package
// assigns.
type Server struct {
	ln *quic.Listener

	mu       sync.Mutex
	contexts map[string]*embed.Context
	nextID   int64
}

// NewServer wraps an already-listening QUIC listener (see
// internal/runtime/netstack.DevTLSConfig for a development TLS config and
// quic.ListenAddr for obtaining the listener itself).
func NewServer(ln *quic.Listener) *Server {
	return &Server{ln: ln, contexts: make(map[string]*embed.Context)}
}

// Serve accepts connections until ctx is canceled or the listener reports a
// fatal error, running the accept loop alongside a shutdown watcher via
// errgroup so a canceled context closes the listener instead of leaving the
// accept loop blocked on it.
func (s *Server) Serve(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			conn, err := s.ln.Accept(gctx)
			if err != nil {
				return err
			}

			go s.handleConn(gctx, conn)
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		return s.ln.Close()
	})

	return g.Wait()
}

func (s *Server) handleConn(ctx context.Context, conn quic.Connection) {
	for {
		stream, err := conn.AcceptStream(ctx)
		if err != nil {
			return
		}

		go s.handleStream(stream)
	}
}

func (s *Server) handleStream(stream quic.Stream) {
	defer stream.Close()

	req, body, err := decodeRequest(stream)
	if err != nil {
		s.writeStatus(stream, embed.InvalidArgument, "")
		return
	}

	switch req.method {
	case MethodCreateContext:
		ctx, status := embed.CreateContext(req.version)
		if status != embed.Ok {
			s.writeStatus(stream, status, "")
			return
		}

		id := s.register(ctx)
		s.writeStatus(stream, embed.Ok, id)

	case MethodLoadModule:
		ctx, ok := s.lookup(req.contextID)
		if !ok {
			s.writeStatus(stream, embed.InvalidArgument, "")
			return
		}

		s.writeStatus(stream, ctx.LoadModule(context.Background(), body), "")

	case MethodRun:
		ctx, ok := s.lookup(req.contextID)
		if !ok {
			s.writeStatus(stream, embed.InvalidArgument, "")
			return
		}

		s.writeStatus(stream, ctx.Run(string(body)), "")

	case MethodDisposeContext:
		ctx, ok := s.lookup(req.contextID)
		if !ok {
			s.writeStatus(stream, embed.InvalidArgument, "")
			return
		}

		status := ctx.DisposeContext()
		s.unregister(req.contextID)
		s.writeStatus(stream, status, "")

	default:
		s.writeStatus(stream, embed.InvalidArgument, "")
	}
}

func (s *Server) writeStatus(stream quic.Stream, status embed.Status, contextID string) {
	fields := []qpack.HeaderField{{Name: "status", Value: fmt.Sprintf("%d", status)}}
	if contextID != "" {
		fields = append(fields, qpack.HeaderField{Name: headerContextID, Value: contextID})
	}

	header, err := encodeHeaders(fields...)
	if err != nil {
		return
	}

	_, _ = stream.Write(frame(header, nil))
}

func (s *Server) register(ctx *embed.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := fmt.Sprintf("ctx-%d", s.nextID)
	s.contexts[id] = ctx

	return id
}

func (s *Server) lookup(id string) (*embed.Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, ok := s.contexts[id]

	return ctx, ok
}

func (s *Server) unregister(id string) {
	s.mu.Lock()
	delete(s.contexts, id)
	s.mu.Unlock()
}
