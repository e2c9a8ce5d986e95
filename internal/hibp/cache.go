package hibp

// Cache memoizes breach counts for one audit or cleanup run, keyed by the
// password value. Every distinct password is looked up at most once per run
// no matter how many entries share it.
//
// Failed lookups (CountUnknown) are cached too, so a dead endpoint costs
// one request per distinct password rather than one per entry - but the
// cache never outlives the run, so a transient failure cannot poison a
// future audit.
//
// Not safe for concurrent use: a Cache is exclusively owned by a single
// invocation. Concurrent audits must each build their own.
type Cache struct {
	counts map[string]int
}

// NewCache creates an empty per-run cache.
func NewCache() *Cache {
	return &Cache{counts: make(map[string]int)}
}

// Get returns the cached count for a password and whether it was present.
func (c *Cache) Get(password string) (int, bool) {
	count, ok := c.counts[password]
	return count, ok
}

// Put records the count for a password, including CountUnknown.
func (c *Cache) Put(password string, count int) {
	c.counts[password] = count
}

// Len returns the number of distinct passwords cached.
func (c *Cache) Len() int {
	return len(c.counts)
}
