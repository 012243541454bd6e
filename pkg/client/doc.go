// Package client provides the realtime notification client for the
// TicketFlow storefront and admin console.
//
// A Client owns one logical connection to the push endpoint: it dials the
// WebSocket transport with a bearer credential, fans inbound notifications
// out to registered subscribers, recovers from mid-session drops with capped
// exponential backoff, and exposes a generic remote-invoke call.
//
// The hosting application constructs the client explicitly and owns its
// lifetime: create it at startup, Close it at shutdown. There is no implicit
// module-level singleton.
//
// # Usage
//
//	c, err := client.New(client.Config{Endpoint: "wss://push.example.com/ws"})
//	if err != nil { ... }
//	defer c.Close()
//
//	sub, _ := c.Subscribe(notify.CategoryOrderConfirmed, func(n notify.Notification) {
//	    fmt.Println(n.Title)
//	})
//	defer sub.Cancel()
//
//	if err := c.Connect(ctx, token); err != nil {
//	    // handshake failure: bad credential or unreachable endpoint;
//	    // the client never retries an initial connect on its own
//	}
//
// # Delivery
//
// Inbound notifications flow through a bounded queue consumed by a single
// delivery goroutine, so a slow subscriber never stalls the transport
// receive loop. Per-connection-epoch ordering is preserved; when the queue
// overflows the oldest pending notification is dropped (delivery is
// at-most-once by contract).
package client
