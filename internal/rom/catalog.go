package rom

import "sync"

// Catalog is an append-only, insertion-ordered collection of regions with an
// index of start offsets. Regions are never removed or replaced.
type Catalog struct {
	mu      sync.RWMutex
	regions []Region
	starts  map[int]int // offset -> index of the first region starting there
}

// NewCatalog returns a catalog seeded with regions in order.
func NewCatalog(regions ...Region) *Catalog {
	c := &Catalog{starts: make(map[int]int, len(regions))}
	for _, r := range regions {
		c.Add(r)
	}
	return c
}

// Add appends r unconditionally. Layouts may declare several regions at one
// offset (a whole header and its first field, for example).
func (c *Catalog) Add(r Region) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.add(r)
}

// AddIfAbsent appends r only if no region starts at r.Offset yet. It reports
// whether r was stored.
func (c *Catalog) AddIfAbsent(r Region) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.starts[r.Offset]; ok {
		return false
	}
	c.add(r)
	return true
}

func (c *Catalog) add(r Region) {
	if _, ok := c.starts[r.Offset]; !ok {
		c.starts[r.Offset] = len(c.regions)
	}
	c.regions = append(c.regions, r)
}

// HasStart reports whether some region starts exactly at off.
func (c *Catalog) HasStart(off int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.starts[off]
	return ok
}

// At returns the first region inserted at off.
func (c *Catalog) At(off int) (Region, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.starts[off]
	if !ok {
		return Region{}, false
	}
	return c.regions[i], true
}

// Starts returns a snapshot of the start-offset index.
func (c *Catalog) Starts() map[int]struct{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := make(map[int]struct{}, len(c.starts))
	for off := range c.starts {
		snap[off] = struct{}{}
	}
	return snap
}

// Len returns the number of regions.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.regions)
}

// Regions returns the regions whose kind is in kinds, in insertion order.
// No kinds means all regions.
func (c *Catalog) Regions(kinds ...Kind) []Region {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Region, 0, len(c.regions))
	for _, r := range c.regions {
		if len(kinds) == 0 || hasKind(kinds, r.Kind) {
			out = append(out, r)
		}
	}
	return out
}

// ByOrigin returns the regions with the given provenance, in insertion order.
func (c *Catalog) ByOrigin(o Origin) []Region {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Region
	for _, r := range c.regions {
		if r.Origin == o {
			out = append(out, r)
		}
	}
	return out
}

func hasKind(kinds []Kind, k Kind) bool {
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}
