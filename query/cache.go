package query

import "sync"

// Cache memoizes compiled path expressions by their source text.
// Compiled expressions are immutable, so one cached value may be
// shared by concurrent evaluations. Failed parses are not cached;
// malformed queries are expected to be rare and re-reporting their
// errors cheaply beats holding them.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*PathExpression
}

// NewCache returns an empty expression cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*PathExpression)}
}

// Parse returns the cached expression for input, compiling and storing
// it on first use.
func (c *Cache) Parse(input string) (*PathExpression, error) {
	c.mu.RLock()
	expr, ok := c.entries[input]
	c.mu.RUnlock()
	if ok {
		return expr, nil
	}

	expr, err := Parse(input)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[input] = expr
	c.mu.Unlock()
	return expr, nil
}

// Len reports the number of cached expressions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
