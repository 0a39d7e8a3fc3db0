package gh

import "sync"

// TokenPool rotates over a set of credentialed tokens. It is an explicit
// object injected into the client, not package state, so independent clients
// can carry independent pools.
type TokenPool struct {
	mu     sync.Mutex
	tokens []string
	next   int
}

// NewTokenPool builds a pool. An empty token list yields unauthenticated
// requests.
func NewTokenPool(tokens []string) *TokenPool {
	clean := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != "" {
			clean = append(clean, t)
		}
	}
	return &TokenPool{tokens: clean}
}

// Next returns the next token round-robin, or "" when the pool is empty.
func (p *TokenPool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.tokens) == 0 {
		return ""
	}
	t := p.tokens[p.next]
	p.next = (p.next + 1) % len(p.tokens)
	return t
}

// Size returns the number of tokens in the pool.
func (p *TokenPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tokens)
}
