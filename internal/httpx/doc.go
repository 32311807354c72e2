// Package httpx provides the HTTP client used against the Yandex Music
// fragment and storage endpoints.
//
// The Client in this package handles:
//   - Session cookies across requests (cookie jar)
//   - User-Agent headers
//   - Bounded request timeouts
//   - File downloads with progress tracking
//   - File size retrieval via HEAD requests
//
// # Basic Usage
//
//	client := httpx.NewClient(60 * time.Second)
//
//	// Fetch a fragment page
//	body, err := client.Fetch(ctx, searchURL)
//
//	// Download a resolved track URL with progress callback
//	client.DownloadFile(ctx, trackURL, "/path/to/file.mp3", func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
//
// Client satisfies the transport interfaces the yamusic package defines,
// so it can be handed directly to yamusic.NewClient.
package httpx
