package middleware

import (
	"context"
	"net/http"
)

type peerKey struct{}

// Peer records the connection's socket address. It must run before
// chi's RealIP, which rewrites RemoteAddr from forwarding headers.
func Peer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), peerKey{}, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PeerAddr returns the address recorded by Peer, or RemoteAddr when the
// request did not pass through it.
func PeerAddr(r *http.Request) string {
	if addr, ok := r.Context().Value(peerKey{}).(string); ok {
		return addr
	}
	return r.RemoteAddr
}
