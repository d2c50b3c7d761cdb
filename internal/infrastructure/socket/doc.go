// Package socket provides the WebSocket transport client for hearth.
//
// This package manages:
//   - Dialling the hub's WebSocket endpoint
//   - Frame-level send/receive (one JSON object per text frame)
//   - Context-aware interruption of blocked reads
//   - Clean connection teardown
//
// It deliberately knows nothing about the hub's message protocol. The
// protocol state machine in internal/hub owns handshake sequencing,
// request correlation and reconnect policy; this package only moves
// frames. On any error the connection is dead; there is no in-place
// recovery, because the hub protocol cannot resume a subscription across
// connections anyway.
//
// # Usage
//
//	conn, err := socket.Dial(ctx, cfg.Hub.URL, socket.Options{})
//	if err != nil {
//	    // transient: schedule a reconnect
//	}
//	defer conn.Close()
//
//	payload, err := conn.ReadFrame(ctx)
package socket
