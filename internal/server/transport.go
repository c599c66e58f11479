package server

import (
	"errors"
	"net/http"
	"sync"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Transport is the MCP streamable HTTP binding. The underlying handler is
// built on first use; concurrent first requests wait for the same build.
type Transport struct {
	handler func() (http.Handler, error)
}

// NewTransport creates a stateless streamable HTTP transport for mcpSrv. No
// session IDs are issued or consulted.
func NewTransport(mcpSrv *mcpserver.MCPServer) *Transport {
	return newTransport(func() (http.Handler, error) {
		if mcpSrv == nil {
			return nil, errors.New("mcp server is not configured")
		}
		return mcpserver.NewStreamableHTTPServer(mcpSrv,
			mcpserver.WithStateLess(true),
		), nil
	})
}

func newTransport(build func() (http.Handler, error)) *Transport {
	return &Transport{handler: sync.OnceValues(build)}
}

// ServeHTTP waits for the transport to be built and delegates to it. A build
// failure is answered with the JSON-RPC fault envelope on every request.
func (t *Transport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h, err := t.handler()
	if err != nil {
		writeFault(w, err.Error())
		return
	}
	h.ServeHTTP(w, r)
}
