package rpc

import (
	"context"
	"fmt"
	"io"

	quic "github.com/quic-go/quic-go"
	"github.com/quic-go/qpack"

	"github.com/vael-lang/vael-rt/internal/embed"
)

// Client dials a remote Server over an already-established QUIC connection
// and proxies embedding ABI calls onto it, one bidirectional stream per
// call — mirroring the request/response framing Server.handleStream
// expects.
type Client struct {
	conn quic.Connection
}

// NewClient wraps an established QUIC connection (see quic.DialAddr with a
// TLS config trusting the server's certificate).
func NewClient(conn quic.Connection) *Client {
	return &Client{conn: conn}
}

func (c *Client) call(ctx context.Context, method, version, contextID string, body []byte) (embed.Status, string, error) {
	stream, err := c.conn.OpenStreamSync(ctx)
	if err != nil {
		return embed.Error, "", err
	}
	defer stream.Close()

	fields := []qpack.HeaderField{{Name: ":method", Value: method}}
	if version != "" {
		fields = append(fields, qpack.HeaderField{Name: "abi-version", Value: version})
	}

	if contextID != "" {
		fields = append(fields, qpack.HeaderField{Name: headerContextID, Value: contextID})
	}

	header, err := encodeHeaders(fields...)
	if err != nil {
		return embed.Error, "", err
	}

	if _, err := stream.Write(frame(header, body)); err != nil {
		return embed.Error, "", err
	}

	_ = stream.Close() // half-close the write side; the response follows on the same stream

	raw, err := io.ReadAll(stream)
	if err != nil {
		return embed.Error, "", err
	}

	if len(raw) < 4 {
		return embed.Error, "", fmt.Errorf("rpc: response too short")
	}

	hlen := int(raw[0])<<24 | int(raw[1])<<16 | int(raw[2])<<8 | int(raw[3])
	if 4+hlen > len(raw) {
		return embed.Error, "", fmt.Errorf("rpc: invalid response header length %d", hlen)
	}

	var status embed.Status

	var respContextID string

	decoder := qpack.NewDecoder(func(f qpack.HeaderField) {
		switch f.Name {
		case "status":
			fmt.Sscanf(f.Value, "%d", &status)
		case headerContextID:
			respContextID = f.Value
		}
	})

	if _, err := decoder.Write(raw[4 : 4+hlen]); err != nil {
		return embed.Error, "", err
	}

	return status, respContextID, nil
}

// CreateContext proxies embed.CreateContext to the server, returning the
// opaque remote context id to pass to subsequent calls.
func (c *Client) CreateContext(ctx context.Context, declaredVersion string) (string, embed.Status, error) {
	status, id, err := c.call(ctx, MethodCreateContext, declaredVersion, "", nil)
	return id, status, err
}

// LoadModule proxies embed.Context.LoadModule for the remote context id.
func (c *Client) LoadModule(ctx context.Context, contextID string, module []byte) (embed.Status, error) {
	status, _, err := c.call(ctx, MethodLoadModule, "", contextID, module)
	return status, err
}

// Run proxies embed.Context.Run for the remote context id.
func (c *Client) Run(ctx context.Context, contextID, entrypoint string) (embed.Status, error) {
	status, _, err := c.call(ctx, MethodRun, "", contextID, []byte(entrypoint))
	return status, err
}

// DisposeContext proxies embed.Context.DisposeContext for the remote
// context id.
func (c *Client) DisposeContext(ctx context.Context, contextID string) (embed.Status, error) {
	status, _, err := c.call(ctx, MethodDisposeContext, "", contextID, nil)
	return status, err
}
