package yamusic

import "sync"

// cache is the process-wide identity map: one mapping per entity kind,
// keyed by the external numeric id. Every entity construction funnels
// through it, so two references to "the same" artist, album or track
// always yield one canonical instance with shared relation state.
//
// Construction runs under the cache lock, which gives at-most-one
// construction per id even under concurrent first-time access.
//
// There is no eviction. The maps live as long as the owning Client; the
// optional maxEntries bound caps growth in long-lived processes by
// returning fresh entities uncached once a map is full, trading
// reference consistency for bounded memory only past that point.
type cache struct {
	mu         sync.Mutex
	maxEntries int

	artists map[int]*Artist
	albums  map[int]*Album
	tracks  map[int]*Track
}

func newCache(maxEntries int) *cache {
	return &cache{
		maxEntries: maxEntries,
		artists:    make(map[int]*Artist),
		albums:     make(map[int]*Album),
		tracks:     make(map[int]*Track),
	}
}

func (c *cache) full(n int) bool {
	return c.maxEntries > 0 && n >= c.maxEntries
}

// artist returns the canonical Artist for id, constructing and
// registering one with build when absent. Entities without a usable id
// are constructed but never cached.
func (c *cache) artist(id int, build func() *Artist) *Artist {
	if id <= 0 {
		return build()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if a, ok := c.artists[id]; ok {
		return a
	}
	a := build()
	if !c.full(len(c.artists)) {
		c.artists[id] = a
	}
	return a
}

// album returns the canonical Album for id.
func (c *cache) album(id int, build func() *Album) *Album {
	if id <= 0 {
		return build()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if a, ok := c.albums[id]; ok {
		return a
	}
	a := build()
	if !c.full(len(c.albums)) {
		c.albums[id] = a
	}
	return a
}

// track returns the canonical Track for id.
func (c *cache) track(id int, build func() *Track) *Track {
	if id <= 0 {
		return build()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.tracks[id]; ok {
		return t
	}
	t := build()
	if !c.full(len(c.tracks)) {
		c.tracks[id] = t
	}
	return t
}
