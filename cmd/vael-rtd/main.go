// Command vael-rtd is the remote embedding daemon: it listens for QUIC
// connections and exposes the embedding ABI (internal/embed) to a host
// process running on another machine, through internal/rpc.Server. It is
// the CLI front door named in SPEC_FULL.md's component table, playing the
// same role the teacher's cmd/orizon-lsp or cmd/gdb-rsp-server daemons play
// for their own protocols: a thin flag-parsing wrapper over a long-running
// server loop.
package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	quic "github.com/quic-go/quic-go"

	"github.com/vael-lang/vael-rt/internal/rpc"
	"github.com/vael-lang/vael-rt/internal/runtime/netstack"
)

func main() {
	var (
		addr     string
		certFile string
		keyFile  string
	)

	flag.StringVar(&addr, "addr", "127.0.0.1:4433", "address to listen on")
	flag.StringVar(&certFile, "cert", "", "TLS certificate file (self-signed generated if empty)")
	flag.StringVar(&keyFile, "key", "", "TLS key file (self-signed generated if empty)")
	flag.Parse()

	tlsCfg, err := tlsConfig(certFile, keyFile)
	if err != nil {
		log.Fatalf("vael-rtd: tls config: %v", err)
	}

	ln, err := quic.ListenAddr(addr, tlsCfg, nil)
	if err != nil {
		log.Fatalf("vael-rtd: listen %s: %v", addr, err)
	}

	fmt.Printf("vael-rtd: listening on %s\n", addr)

	server := rpc.NewServer(ln)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("vael-rtd: serve: %v", err)
	}
}

func tlsConfig(certFile, keyFile string) (*tls.Config, error) {
	if certFile != "" && keyFile != "" {
		return netstack.LoadTLSConfig(certFile, keyFile)
	}

	// No certificate supplied: generate an in-memory self-signed one, good
	// for local development and the smoke-test client only.
	return netstack.DevTLSConfig([]string{"localhost", "127.0.0.1"}, 24*time.Hour)
}
