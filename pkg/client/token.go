package client

import "context"

// TokenSource supplies the bearer credential for a handshake. The session
// credential passed to Connect is used when no source is configured; a
// configured source is consulted for every handshake, including automatic
// reconnections, so a renewed token takes effect on the next dial.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource returning a fixed credential.
type StaticToken string

// Token returns the fixed credential.
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}
