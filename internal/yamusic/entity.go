package yamusic

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// relationState tracks a lazily loaded relation. Loading happens under
// the owning entity's mutex, so a relation is loaded at most once;
// both outcomes are terminal and a failed load stays failed.
type relationState int

const (
	relationUnloaded relationState = iota
	relationLoaded
	relationFailed
)

// Entity is implemented by Artist, Album and Track. A search yields a
// stream of entities of the requested kind; callers type-switch on the
// concrete type or dispatch on Kind.
type Entity interface {
	// EntityKind reports which of the three entity kinds this is.
	EntityKind() Kind
}

// Artist is a canonical artist instance.
//
// Two Artist values with the same ID are never simultaneously live: all
// construction funnels through the client's identity cache, so album
// and track rows referring to the same artist share one instance and
// its loaded relations.
//
// Example:
//
//	artist, err := client.ArtistByID(ctx, 42)
//	if err != nil {
//	    return err
//	}
//	albums, err := artist.Albums(ctx)
type Artist struct {
	// ID is the external numeric id, stable across sessions.
	ID int

	// Title is the display name, HTML-unescaped. It may arrive with a
	// forward reference and be confirmed later by a detail fetch.
	Title string

	c *Client

	mu          sync.Mutex
	albumsState relationState
	albums      []*Album
	albumsErr   error
	tracksState relationState
	tracks      []*Track
	tracksErr   error
}

// EntityKind implements Entity.
func (a *Artist) EntityKind() Kind { return KindArtists }

func (a *Artist) String() string { return a.Title }

// Albums returns the artist's albums in page order, fetching and
// parsing the artist detail page on first call.
//
// The detail page embeds every album's track list inline, so albums
// obtained here have their tracks pre-populated and Album.Tracks issues
// no further fetch. A failed load is remembered and returned again
// without re-fetching; it does not affect the artist's other relations.
func (a *Artist) Albums(ctx context.Context) ([]*Album, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.albumsState {
	case relationLoaded:
		return a.albums, nil
	case relationFailed:
		return nil, a.albumsErr
	}

	albums, err := a.c.loadArtistAlbums(ctx, a)
	if err != nil {
		a.albumsState = relationFailed
		a.albumsErr = err
		return nil, err
	}
	a.albums = albums
	a.albumsState = relationLoaded
	return albums, nil
}

// Tracks returns every track of the artist: the concatenation of all
// albums' tracks, computed once and memoized.
func (a *Artist) Tracks(ctx context.Context) ([]*Track, error) {
	a.mu.Lock()
	switch a.tracksState {
	case relationLoaded:
		defer a.mu.Unlock()
		return a.tracks, nil
	case relationFailed:
		defer a.mu.Unlock()
		return nil, a.tracksErr
	}
	a.mu.Unlock()

	albums, err := a.Albums(ctx)
	if err != nil {
		a.setTracksFailed(err)
		return nil, err
	}

	var all []*Track
	for _, album := range albums {
		tracks, err := album.Tracks(ctx)
		if err != nil {
			a.setTracksFailed(err)
			return nil, err
		}
		all = append(all, tracks...)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.tracksState == relationUnloaded {
		a.tracks = all
		a.tracksState = relationLoaded
	}
	return a.tracks, nil
}

func (a *Artist) setTracksFailed(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.tracksState == relationUnloaded {
		a.tracksState = relationFailed
		a.tracksErr = err
	}
}

// Album is a canonical album instance.
//
// Albums are discovered three ways: as search results, as rows on an
// artist detail page (with their track list inline), or by direct
// detail fetch. The Artist reference may be nil when the album was
// found without artist context; the album detail page backfills it.
type Album struct {
	// ID is the external numeric id.
	ID int

	// Title is the album title, HTML-unescaped.
	Title string

	// Cover is the cover image URL. Empty when none is known.
	Cover string

	// Artist is the owning artist, or nil until discovered.
	Artist *Artist

	c *Client

	mu          sync.Mutex
	tracksState relationState
	tracks      []*Track
	tracksErr   error
}

// EntityKind implements Entity.
func (al *Album) EntityKind() Kind { return KindAlbums }

func (al *Album) String() string {
	if al.Artist != nil {
		return fmt.Sprintf("%s - %s", al.Artist.Title, al.Title)
	}
	return al.Title
}

// Tracks returns the album's tracks in page order.
//
// When the album came from an artist detail page the track list was
// populated there and no request is made. Otherwise the first call
// fetches the album detail page, resolves each row into a canonical
// Track, and backfills the album's Artist reference if it was unknown.
func (al *Album) Tracks(ctx context.Context) ([]*Track, error) {
	al.mu.Lock()
	defer al.mu.Unlock()
	switch al.tracksState {
	case relationLoaded:
		return al.tracks, nil
	case relationFailed:
		return nil, al.tracksErr
	}

	tracks, err := al.c.loadAlbumTracks(ctx, al)
	if err != nil {
		al.tracksState = relationFailed
		al.tracksErr = err
		return nil, err
	}
	al.tracks = tracks
	al.tracksState = relationLoaded
	return tracks, nil
}

// prefillTracks populates the track relation from an artist detail row.
// A relation already loaded (or failed) is left alone; relations fill
// exactly once.
func (al *Album) prefillTracks(tracks []*Track) {
	al.mu.Lock()
	defer al.mu.Unlock()
	if al.tracksState == relationUnloaded {
		al.tracks = tracks
		al.tracksState = relationLoaded
	}
}

// Track is a canonical track instance.
//
// A track constructed from a bare reference (id plus album) carries no
// duration or storage locator; its own detail page is fetched lazily
// the first time richer data is needed.
type Track struct {
	// ID is the external numeric id, always positive after
	// construction.
	ID int

	// Title is the track title, HTML-unescaped.
	Title string

	// Duration is the track length in seconds. Zero when unknown.
	Duration int

	// StorageDir is the opaque locator of the track's backing files on
	// the storage service. Required for URL resolution; empty until a
	// detail or embedding page supplies it.
	StorageDir string

	// Artist is the performing artist, or nil until discovered.
	Artist *Artist

	// Album is the owning album, or nil until discovered.
	Album *Album

	c *Client

	mu          sync.Mutex
	detailState relationState
	detailErr   error
}

// EntityKind implements Entity.
func (t *Track) EntityKind() Kind { return KindTracks }

func (t *Track) String() string {
	if t.Artist != nil {
		return fmt.Sprintf("%s - %s", t.Artist.Title, t.Title)
	}
	return t.Title
}

// URL resolves the signed, time-limited download URL for the track.
//
// The storage locator is required; when it is missing and the owning
// album is known, the track's detail page is fetched first to obtain
// it. Resolution itself performs the two storage-service lookups and
// the signature computation. The returned URL is only valid within the
// time window the storage service implies by its timestamp.
func (t *Track) URL(ctx context.Context) (string, error) {
	if t.StorageDir == "" {
		if err := t.loadDetail(ctx); err != nil {
			return "", err
		}
	}
	return t.c.resolveTrackURL(ctx, t)
}

// Open resolves the track's download URL and opens it as a stream.
func (t *Track) Open(ctx context.Context) (io.ReadCloser, error) {
	trackURL, err := t.URL(ctx)
	if err != nil {
		return nil, err
	}
	return t.c.open(ctx, trackURL)
}

// loadDetail fetches the track's own detail page to fill duration,
// storage locator and back-references. It needs the album reference to
// build the page URL; without one there is nothing to fetch and URL
// resolution fails its precondition instead.
func (t *Track) loadDetail(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.detailState {
	case relationLoaded:
		return nil
	case relationFailed:
		return t.detailErr
	}
	if t.Album == nil {
		return nil
	}

	if err := t.c.loadTrackDetail(ctx, t); err != nil {
		t.detailState = relationFailed
		t.detailErr = err
		return err
	}
	t.detailState = relationLoaded
	return nil
}
