package yamusic

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// Results is a lazy stream of search results.
//
// Iteration follows the bufio.Scanner shape: Next advances to the next
// entity, fetching further result pages on demand, and Err reports the
// first failure once Next returns false. Each Search call returns a
// fresh cursor positioned at page 0; a cursor is not restartable after
// consumption.
//
//	results, err := client.Search(ctx, yamusic.KindTracks, "lullaby")
//	if err != nil {
//	    return err
//	}
//	for results.Next() {
//	    track := results.Entity().(*yamusic.Track)
//	    fmt.Println(track.Title)
//	}
//	if err := results.Err(); err != nil {
//	    return err
//	}
type Results struct {
	c    *Client
	ctx  context.Context
	kind Kind
	text string

	// Pagination state. Page indexes in request URLs are 0-based; the
	// pager on the page reports 1-based numbers. The loop continues
	// while the declared current page is below the declared total.
	currentPage int
	totalPages  int

	queue []Entity
	cur   Entity
	err   error
	done  bool
}

// Search starts a paginated search for entities of the given kind.
//
// The kind is validated before anything is fetched; an unknown kind is
// an input error, not a transport one. The returned cursor fetches page
// after page as the caller consumes it and stops when the last page's
// declared current page reaches the declared page count.
func (c *Client) Search(ctx context.Context, kind Kind, text string) (*Results, error) {
	if !kind.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	return &Results{
		c:           c,
		ctx:         ctx,
		kind:        kind,
		text:        text,
		currentPage: 0,
		totalPages:  1,
	}, nil
}

// SearchOne runs a search and returns its first result.
//
// A search that matches nothing returns ErrNotFound, which callers
// check with errors.Is; it is a result state distinct from transport or
// parse failures.
func (c *Client) SearchOne(ctx context.Context, kind Kind, text string) (Entity, error) {
	results, err := c.Search(ctx, kind, text)
	if err != nil {
		return nil, err
	}
	if !results.Next() {
		if err := results.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w for %q", ErrNotFound, text)
	}
	return results.Entity(), nil
}

// FindArtist returns the first artist matching the text.
func (c *Client) FindArtist(ctx context.Context, text string) (*Artist, error) {
	e, err := c.SearchOne(ctx, KindArtists, text)
	if err != nil {
		return nil, err
	}
	return e.(*Artist), nil
}

// FindAlbum returns the first album matching the text.
func (c *Client) FindAlbum(ctx context.Context, text string) (*Album, error) {
	e, err := c.SearchOne(ctx, KindAlbums, text)
	if err != nil {
		return nil, err
	}
	return e.(*Album), nil
}

// FindTrack returns the first track matching the text.
func (c *Client) FindTrack(ctx context.Context, text string) (*Track, error) {
	e, err := c.SearchOne(ctx, KindTracks, text)
	if err != nil {
		return nil, err
	}
	return e.(*Track), nil
}

// Next advances to the next result, fetching the next page when the
// current one is exhausted. It returns false when the stream ends or a
// page-level failure occurs; Err distinguishes the two.
func (r *Results) Next() bool {
	for {
		if r.err != nil || r.done {
			return false
		}
		if len(r.queue) > 0 {
			r.cur = r.queue[0]
			r.queue = r.queue[1:]
			return true
		}
		if r.currentPage >= r.totalPages {
			r.done = true
			return false
		}
		if err := r.fetchPage(); err != nil {
			r.err = err
			return false
		}
	}
}

// Entity returns the current result. Valid only after a true Next.
func (r *Results) Entity() Entity { return r.cur }

// Err returns the first failure encountered while streaming, or nil.
func (r *Results) Err() error { return r.err }

// fetchPage retrieves the search page at the current index, queues its
// records as entities, and advances the pagination state. The declared
// current page from the pager drives the loop; pages without a pager
// are the single-page case and advance a local counter instead, which
// guarantees termination.
func (r *Results) fetchPage() error {
	searchURL := fmt.Sprintf(
		"%s/search?text=%s&type=%s&page=%d",
		r.c.opts.FragmentURL, url.QueryEscape(r.text), r.kind, r.currentPage,
	)
	doc, err := r.c.fetchDoc(r.ctx, searchURL)
	if err != nil {
		return err
	}

	if pg := extractPager(doc); pg.Found {
		r.totalPages = pg.Total
		r.currentPage = pg.Current
	} else {
		r.currentPage++
	}

	switch r.kind {
	case KindTracks:
		for _, rec := range extractTrackRows(doc) {
			r.queue = append(r.queue, r.c.trackFromRecord(rec, nil, nil))
		}
	case KindAlbums:
		for _, rec := range extractAlbumItems(doc) {
			var artist *Artist
			if rec.ArtistID > 0 || rec.ArtistTitle != "" {
				artist = r.c.artistRef(rec.ArtistID, rec.ArtistTitle)
			}
			r.queue = append(r.queue, r.c.albumRef(rec.ID, rec.Title, rec.Cover, artist))
		}
	case KindArtists:
		for _, rec := range extractArtistGroups(doc) {
			r.queue = append(r.queue, r.c.artistRef(rec.ID, rec.Title))
		}
	}
	return nil
}

// IsNotFound reports whether err is the missing-result condition of a
// single-result search.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
