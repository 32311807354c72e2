// Package download provides the download orchestration logic for
// fetching albums and tracks from Yandex Music.
//
// # Manager
//
// The Manager coordinates the entire download process:
//
//  1. Resolve the request (search query, artist id or album id) into
//     album plans through the metadata client
//  2. Download cover art
//  3. Resolve signed track URLs and download tracks concurrently
//  4. Tag MP3 files with ID3 metadata
//  5. Generate playlists (optional)
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	err := manager.Initialize(ctx, download.Request{
//	    Query: "the cure",
//	    Kind:  yamusic.KindArtists,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = manager.StartDownloads(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// The Manager uses configurable concurrency limits:
//   - MaxConcurrentAlbumsDownload: How many albums to download in parallel
//   - MaxConcurrentTracksDownload: How many tracks per album to download in parallel
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// # Retry Logic
//
// Failed downloads are automatically retried with exponential backoff,
// configurable via settings.DownloadMaxRetries and settings.DownloadRetryCooldown.
// Track URLs are resolved at download time, not at plan time, because
// resolved URLs are signed with a timestamp and expire.
package download
