package transform

import "sync/atomic"

// RequestGate guards fetch-on-selection-change flows against stale results.
// Each new request takes a token from Begin; a result may only commit if its
// token is still the latest one issued. A superseded in-flight request is
// not cancelled, its late result is simply discarded.
type RequestGate struct {
	seq atomic.Uint64
}

// Token identifies one request issued through the gate.
type Token uint64

// Begin registers a new request and supersedes all earlier tokens.
func (g *RequestGate) Begin() Token {
	return Token(g.seq.Add(1))
}

// Commit reports whether the result for the given token may be applied.
func (g *RequestGate) Commit(t Token) bool {
	return uint64(t) == g.seq.Load()
}
