// Package session bridges the application's authentication lifecycle to the
// notification channel.
//
// The boundary contract is narrow: on a successful login the channel is
// connected exactly once with the freshly issued token; on logout it is
// disconnected and stays down until the next successful login. Nothing else
// triggers the channel.
//
// Token refresh is deliberately outside the channel's lifecycle: the
// credential is fixed for the lifetime of one physical connection, so a
// renewed token takes effect only on the next connect. Applications that
// need reconnect-with-fresh-token behavior configure a TokenSource on the
// client instead.
package session
