// Package yamusic is a client for the Yandex Music fragment endpoints.
//
// The site exposes no structured API; its only public interface is
// server-rendered HTML fragments. The client issues paginated text
// searches against the search fragment, parses the returned markup into
// raw records, repairs the loosely quoted data literals embedded in
// them, and reconstructs a typed entity graph of artists, albums and
// tracks with process-wide deduplication by id.
//
// # Searching
//
//	client := yamusic.NewClient(httpx.NewClient(time.Minute), yamusic.Options{})
//
//	results, err := client.Search(ctx, yamusic.KindTracks, "lullaby")
//	if err != nil {
//	    return err
//	}
//	for results.Next() {
//	    track := results.Entity().(*yamusic.Track)
//	    fmt.Println(track)
//	}
//	if err := results.Err(); err != nil {
//	    return err
//	}
//
// # The entity graph
//
// Entities load their relations lazily. An artist's albums are fetched
// from the artist detail page on first access; that page embeds each
// album's full track list, so those albums never need a detail fetch of
// their own. An album discovered on its own fetches its detail page the
// first time its tracks are read, backfilling the artist reference.
//
//	artist, err := client.FindArtist(ctx, "the cure")
//	albums, err := artist.Albums(ctx)
//	tracks, err := albums[0].Tracks(ctx) // no request: pre-populated
//
// # Download URLs
//
// A track's playable URL is resolved on demand through two storage
// service lookups plus a keyed-hash signature:
//
//	trackURL, err := track.URL(ctx)
//	stream, err := track.Open(ctx)
//
// The markup is an unstable contract. Extraction therefore degrades row
// by row: a malformed record is skipped, and only page-level failures
// (transport errors, unparseable documents) surface to the caller.
package yamusic
