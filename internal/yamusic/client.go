package yamusic

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/avdeev/yamusic-dl/internal/markup"
	"github.com/avdeev/yamusic-dl/internal/yamusic/dto"
)

// Fetcher is the transport the client runs on: fetch a URL, get bytes.
//
// Session and cookie state is the transport's concern and persists
// across calls within one process. Failures (network errors,
// non-success status) surface as errors from Fetch; the client
// propagates them without retrying.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// StreamFetcher is an optional extension of Fetcher for streaming media
// content instead of buffering it. The httpx client implements it.
type StreamFetcher interface {
	Fetcher
	FetchStream(ctx context.Context, url string) (io.ReadCloser, error)
}

// Default endpoints and signing parameters. The signing scheme is
// reverse engineered from the storage service: changing the secret, the
// field order, or the newline normalization invalidates every derived
// URL, which is why all three values are options rather than literals.
const (
	DefaultFragmentURL = "http://music.yandex.ru/fragment"
	DefaultStorageURL  = "http://storage.music.yandex.ru"

	defaultSigningSecret = "XGRlBW9FXlekgbPrRHuSiA"
	defaultRegion        = "225"
	defaultSource        = "service-search"
)

// Options configures a Client. The zero value selects the production
// endpoints and signing parameters.
type Options struct {
	// FragmentURL is the base URL of the fragment endpoints.
	FragmentURL string

	// StorageURL is the base URL of the storage service.
	StorageURL string

	// SigningSecret is the shared secret prefixed to the digest input
	// when signing download URLs.
	SigningSecret string

	// Region is the region code appended to resolved URLs.
	Region string

	// Source is the source tag appended to resolved URLs.
	Source string

	// CacheMaxEntries bounds each identity-cache map. Zero means
	// unbounded, which favors reference consistency in long sessions.
	CacheMaxEntries int
}

func (o Options) withDefaults() Options {
	if o.FragmentURL == "" {
		o.FragmentURL = DefaultFragmentURL
	}
	if o.StorageURL == "" {
		o.StorageURL = DefaultStorageURL
	}
	if o.SigningSecret == "" {
		o.SigningSecret = defaultSigningSecret
	}
	if o.Region == "" {
		o.Region = defaultRegion
	}
	if o.Source == "" {
		o.Source = defaultSource
	}
	return o
}

// Client retrieves music metadata from the Yandex Music fragment
// endpoints and resolves download URLs through the storage service.
//
// The site has no structured API: all data comes from paginated text
// searches against a fragment endpoint and from per-entity detail
// fragments, parsed back into a typed entity graph. One Client owns one
// identity cache, so every artist, album and track id maps to a single
// canonical instance for the Client's lifetime.
//
// Example usage:
//
//	client := yamusic.NewClient(httpx.NewClient(time.Minute), yamusic.Options{})
//
//	results, err := client.Search(ctx, yamusic.KindArtists, "the cure")
//	if err != nil {
//	    return err
//	}
//	for results.Next() {
//	    artist := results.Entity().(*yamusic.Artist)
//	    fmt.Println(artist.Title)
//	}
//	if err := results.Err(); err != nil {
//	    return err
//	}
type Client struct {
	fetcher Fetcher
	opts    Options
	cache   *cache
}

// NewClient creates a Client on top of the given transport.
func NewClient(fetcher Fetcher, opts Options) *Client {
	opts = opts.withDefaults()
	return &Client{
		fetcher: fetcher,
		opts:    opts,
		cache:   newCache(opts.CacheMaxEntries),
	}
}

// ArtistByID fetches the artist with the given id, including its album
// list.
func (c *Client) ArtistByID(ctx context.Context, id int) (*Artist, error) {
	artist := c.artistRef(id, "")
	if _, err := artist.Albums(ctx); err != nil {
		return nil, err
	}
	return artist, nil
}

// AlbumByID fetches the album with the given id, including its track
// list.
func (c *Client) AlbumByID(ctx context.Context, id int) (*Album, error) {
	album := c.albumRef(id, "", "", nil)
	if _, err := album.Tracks(ctx); err != nil {
		return nil, err
	}
	return album, nil
}

// TrackByID returns the canonical track for id within the given album.
// No request is made here; the track's detail page is fetched lazily
// when richer data (duration, storage locator) is first needed.
func (c *Client) TrackByID(id int, album *Album) *Track {
	track := c.cache.track(id, func() *Track {
		return &Track{ID: id, Album: album, c: c}
	})
	if track.Album == nil {
		track.Album = album
	}
	return track
}

// Fetch retrieves an arbitrary URL through the client's transport,
// sharing its session state. Useful for resources referenced by the
// entity graph that live outside the fragment endpoints, like cover
// images.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	return c.fetcher.Fetch(ctx, url)
}

// OpenTrack resolves the track's download URL and opens it as a
// stream. The caller owns the returned ReadCloser.
func (c *Client) OpenTrack(ctx context.Context, track *Track) (io.ReadCloser, error) {
	return track.Open(ctx)
}

// fetchDoc retrieves a fragment URL and parses it.
func (c *Client) fetchDoc(ctx context.Context, url string) (*markup.Document, error) {
	data, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	doc, err := markup.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}

// open streams a resolved media URL.
func (c *Client) open(ctx context.Context, url string) (io.ReadCloser, error) {
	if sf, ok := c.fetcher.(StreamFetcher); ok {
		return sf.FetchStream(ctx, url)
	}
	data, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// artistRef resolves the canonical artist for a reference observed in
// page data. A title supplied on a forward reference fills an empty
// slot but never replaces one already known; only detail fetches
// overwrite titles.
func (c *Client) artistRef(id int, title string) *Artist {
	artist := c.cache.artist(id, func() *Artist {
		return &Artist{ID: id, Title: title, c: c}
	})
	if artist.Title == "" && title != "" {
		artist.Title = title
	}
	return artist
}

// albumRef resolves the canonical album for a reference observed in
// page data, backfilling title, cover and artist when the cached
// instance lacks them.
func (c *Client) albumRef(id int, title, cover string, artist *Artist) *Album {
	album := c.cache.album(id, func() *Album {
		return &Album{ID: id, Title: title, Cover: cover, Artist: artist, c: c}
	})
	if album.Title == "" && title != "" {
		album.Title = title
	}
	if album.Cover == "" && cover != "" {
		album.Cover = cover
	}
	if album.Artist == nil && artist != nil {
		album.Artist = artist
	}
	return album
}

// trackFromRecord resolves the canonical track for one decoded track
// record. The artist and album arguments carry the embedding context
// (an artist page row, an album page row); when nil they are resolved
// from the record's own embedded references.
func (c *Client) trackFromRecord(rec dto.Track, artist *Artist, album *Album) *Track {
	if artist == nil && (rec.ArtistID.Valid() || rec.ArtistTitle != "") {
		artist = c.artistRef(int(rec.ArtistID), rec.ArtistTitle)
	}
	if album == nil && (rec.AlbumID.Valid() || rec.AlbumTitle != "") {
		album = c.albumRef(int(rec.AlbumID), rec.AlbumTitle, rec.Cover, artist)
	}

	track := c.cache.track(int(rec.ID), func() *Track {
		return &Track{
			ID:         int(rec.ID),
			Title:      rec.Title,
			Duration:   int(rec.Duration),
			StorageDir: rec.StorageDir,
			Artist:     artist,
			Album:      album,
			c:          c,
		}
	})

	if track.Title == "" {
		track.Title = rec.Title
	}
	if track.Duration == 0 {
		track.Duration = int(rec.Duration)
	}
	if track.StorageDir == "" {
		track.StorageDir = rec.StorageDir
	}
	if track.Artist == nil {
		track.Artist = artist
	}
	if track.Album == nil {
		track.Album = album
	}
	return track
}

// loadArtistAlbums fetches and parses an artist detail page,
// pre-populating each album's track list from the same row. Called
// under the artist's relation lock.
func (c *Client) loadArtistAlbums(ctx context.Context, artist *Artist) ([]*Album, error) {
	url := fmt.Sprintf("%s/artist/%d/tracks", c.opts.FragmentURL, artist.ID)
	doc, err := c.fetchDoc(ctx, url)
	if err != nil {
		return nil, err
	}

	title, rows := extractArtistDetail(doc)
	if title != "" {
		artist.Title = title
	}

	albums := make([]*Album, 0, len(rows))
	for _, row := range rows {
		album := c.albumRef(int(row.ID), row.Title, row.Cover, artist)
		tracks := make([]*Track, 0, len(row.Tracks))
		for _, tr := range row.Tracks {
			tracks = append(tracks, c.trackFromRecord(tr, artist, album))
		}
		album.prefillTracks(tracks)
		albums = append(albums, album)
	}
	return albums, nil
}

// loadAlbumTracks fetches and parses an album detail page. Called under
// the album's relation lock.
func (c *Client) loadAlbumTracks(ctx context.Context, album *Album) ([]*Track, error) {
	url := fmt.Sprintf("%s/album/%d", c.opts.FragmentURL, album.ID)
	doc, err := c.fetchDoc(ctx, url)
	if err != nil {
		return nil, err
	}

	title, artistRec, rows := extractAlbumDetail(doc)
	if title != "" {
		album.Title = title
	}
	if album.Artist == nil && artistRec.ID > 0 {
		album.Artist = c.artistRef(artistRec.ID, artistRec.Title)
	}

	tracks := make([]*Track, 0, len(rows))
	for _, tr := range rows {
		tracks = append(tracks, c.trackFromRecord(tr, album.Artist, album))
	}
	return tracks, nil
}

// loadTrackDetail fetches the track's own detail page and backfills the
// track in place. Called under the track's relation lock.
func (c *Client) loadTrackDetail(ctx context.Context, track *Track) error {
	url := fmt.Sprintf("%s/track/%d/album/%d", c.opts.FragmentURL, track.ID, track.Album.ID)
	doc, err := c.fetchDoc(ctx, url)
	if err != nil {
		return err
	}

	rec, err := extractTrackDetail(doc)
	if err != nil {
		return fmt.Errorf("track %d: %w", track.ID, err)
	}

	if rec.Title != "" {
		track.Title = rec.Title
	}
	if rec.Duration > 0 {
		track.Duration = int(rec.Duration)
	}
	if rec.StorageDir != "" {
		track.StorageDir = rec.StorageDir
	}
	if track.Artist == nil {
		if track.Album.Artist != nil {
			track.Artist = track.Album.Artist
		} else if rec.ArtistID.Valid() || rec.ArtistTitle != "" {
			track.Artist = c.artistRef(int(rec.ArtistID), rec.ArtistTitle)
		}
	}
	return nil
}
