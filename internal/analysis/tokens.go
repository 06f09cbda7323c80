package analysis

import "sync/atomic"

// Tokens issues increasing request tokens so that only the response to the
// most recent request is applied.
type Tokens struct {
	latest atomic.Uint64
}

// Next issues a new token, making every earlier token stale.
func (t *Tokens) Next() uint64 {
	return t.latest.Add(1)
}

// IsLatest reports whether tok is the most recently issued token.
func (t *Tokens) IsLatest(tok uint64) bool {
	return tok != 0 && t.latest.Load() == tok
}

// Invalidate makes every issued token stale.
func (t *Tokens) Invalidate() {
	t.latest.Add(1)
}
