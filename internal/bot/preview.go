package bot

import (
	"sync"
	"time"
)

// Previews holds rendered results until the invoker accepts or rejects them.
// Entries are dropped once their expiry passes.
type Previews[T any] struct {
	expiry time.Duration

	mu      sync.Mutex
	pending map[string]*pending[T]
}

type pending[T any] struct {
	val   T
	timer *time.Timer
}

func NewPreviews[T any](expiry time.Duration) *Previews[T] {
	return &Previews[T]{expiry: expiry, pending: make(map[string]*pending[T])}
}

// Put stores val under key, replacing any earlier entry.
func (p *Previews[T]) Put(key string, val T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if old := p.pending[key]; old != nil {
		old.timer.Stop()
	}
	entry := &pending[T]{val: val}
	entry.timer = time.AfterFunc(p.expiry, func() { p.drop(key, entry) })
	p.pending[key] = entry
}

// Take removes and returns the entry for key. ok is false when there is none,
// either because it was never stored, was already taken or has expired.
func (p *Previews[T]) Take(key string) (val T, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry := p.pending[key]
	if entry == nil {
		return val, false
	}
	entry.timer.Stop()
	delete(p.pending, key)
	return entry.val, true
}

func (p *Previews[T]) drop(key string, entry *pending[T]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending[key] == entry {
		delete(p.pending, key)
	}
}

// Answer is the reply to a preview button. A preview that is no longer held
// cannot be posted, whatever was pressed.
func Answer(accept, held bool) string {
	switch {
	case !held:
		return MsgExpired
	case accept:
		return MsgSent
	default:
		return MsgNotSent
	}
}
