package yamusic

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

// fakeFetcher serves canned page bodies and records every requested URL
// so tests can assert on what was (or was not) fetched.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	calls []string
}

func newFakeFetcher(pages map[string]string) *fakeFetcher {
	return &fakeFetcher{pages: pages}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	body, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("unexpected fetch: %s", url)
	}
	return []byte(body), nil
}

func (f *fakeFetcher) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

const testFragmentURL = "http://music.test/fragment"
const testStorageURL = "http://storage.test"

func newTestClient(pages map[string]string) (*Client, *fakeFetcher) {
	fetcher := newFakeFetcher(pages)
	client := NewClient(fetcher, Options{
		FragmentURL: testFragmentURL,
		StorageURL:  testStorageURL,
	})
	return client, fetcher
}

func TestTrackByID_NoFetch(t *testing.T) {
	client, fetcher := newTestClient(nil)

	album := client.albumRef(55, "Wish", "", nil)
	track := client.TrackByID(101, album)

	if track.ID != 101 {
		t.Errorf("ID = %d, want 101", track.ID)
	}
	if track.Album != album {
		t.Error("track should reference the given album")
	}
	if fetcher.fetchCount() != 0 {
		t.Errorf("fetch count = %d, want 0", fetcher.fetchCount())
	}

	// Same id resolves to the same canonical instance.
	if again := client.TrackByID(101, album); again != track {
		t.Error("TrackByID returned a different instance for the same id")
	}
}

func TestArtistRef_TitleBackfill(t *testing.T) {
	client, _ := newTestClient(nil)

	first := client.artistRef(7, "The Cure")
	second := client.artistRef(7, "the cure (remastered)")

	if first != second {
		t.Fatal("same id resolved to different instances")
	}
	if first.Title != "The Cure" {
		t.Errorf("Title = %q, want first-cached %q", first.Title, "The Cure")
	}

	// A forward reference without a title gets filled by a later one.
	bare := client.artistRef(8, "")
	named := client.artistRef(8, "Cure Worse")
	if bare != named || bare.Title != "Cure Worse" {
		t.Errorf("Title = %q, want %q", bare.Title, "Cure Worse")
	}
}
