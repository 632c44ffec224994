// internal/refseq/cache.go
package refseq

import "fmt"

// Provider retrieves a whole reference contig by name.
type Provider interface {
	Fetch(name string) ([]byte, error)
}

// Cache is a single-slot cache holding the most recently fetched
// contig. It exploits the temporal locality of coordinate-sorted
// alignment input; input that hops between contigs stays correct but
// pays a full re-fetch on every switch.
type Cache struct {
	provider Provider
	name     string
	seq      []byte
}

func NewCache(p Provider) *Cache { return &Cache{provider: p} }

// Fetch returns the sequence for name, serving the resident contig
// when the name matches and replacing it otherwise.
func (c *Cache) Fetch(name string) ([]byte, error) {
	if c.seq != nil && c.name == name {
		return c.seq, nil
	}
	c.seq = nil
	seq, err := c.provider.Fetch(name)
	if err != nil {
		return nil, fmt.Errorf("reference lookup for %q: %w", name, err)
	}
	c.name = name
	c.seq = seq
	return seq, nil
}
