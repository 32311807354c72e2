package yamusic

import (
	"context"
	"errors"
	"strconv"
	"testing"
)

func trackRow(id int, title, storageDir string) string {
	return `<div class="b-track" onclick="return {'id': ` + strconv.Itoa(id) + `, 'title': '` + title + `', 'storage_dir': '` + storageDir + `'}"></div>`
}

func TestSearch_MultiPage(t *testing.T) {
	pager := func(current, total int) string {
		out := `<b class="b-pager__current">` + strconv.Itoa(current) + `</b>`
		for p := 2; p <= total; p++ {
			out += `<a class="b-pager__page">` + strconv.Itoa(p) + `</a>`
		}
		return out
	}

	client, fetcher := newTestClient(map[string]string{
		testFragmentURL + "/search?text=cure&type=tracks&page=0": `<div>` +
			pager(1, 2) +
			trackRow(201, "One", "201.aa") +
			trackRow(202, "Two", "202.bb") +
			`</div>`,
		testFragmentURL + "/search?text=cure&type=tracks&page=1": `<div>` +
			pager(2, 2) +
			trackRow(203, "Three", "203.cc") +
			`</div>`,
	})

	results, err := client.Search(context.Background(), KindTracks, "cure")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	var ids []int
	for results.Next() {
		ids = append(ids, results.Entity().(*Track).ID)
	}
	if err := results.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}

	want := []int{201, 202, 203}
	if len(ids) != len(want) {
		t.Fatalf("got ids %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("got ids %v, want %v", ids, want)
		}
	}
	if fetcher.fetchCount() != 2 {
		t.Errorf("fetch count = %d, want 2", fetcher.fetchCount())
	}
}

func TestSearch_SinglePageWithoutPager(t *testing.T) {
	client, fetcher := newTestClient(map[string]string{
		testFragmentURL + "/search?text=cure&type=artists&page=0": `<div>
			<div class="b-artist-group"><a href="/artist/7">The Cure</a></div>
			<div class="b-artist-group"><a href="/artist/8">Cure Worse</a></div>
		</div>`,
	})

	results, err := client.Search(context.Background(), KindArtists, "cure")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	var titles []string
	for results.Next() {
		titles = append(titles, results.Entity().(*Artist).Title)
	}
	if err := results.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	if len(titles) != 2 || titles[0] != "The Cure" {
		t.Errorf("titles = %v", titles)
	}
	if fetcher.fetchCount() != 1 {
		t.Errorf("fetch count = %d, want 1", fetcher.fetchCount())
	}
}

func TestSearch_Albums(t *testing.T) {
	client, _ := newTestClient(map[string]string{
		testFragmentURL + "/search?text=wish&type=albums&page=0": `<div>
			<div class="b-albums">
				<div class="b-albums__cover"><a href="/album/55"><img src="/c55.jpg"/></a></div>
				<a class="b-link_class_albums-title-link" href="/album/55">Wish</a>
				<a class="b-link_class_albums-artist-link" href="/artist/7">The Cure</a>
			</div>
		</div>`,
	})

	album, err := client.FindAlbum(context.Background(), "wish")
	if err != nil {
		t.Fatalf("FindAlbum: %v", err)
	}
	if album.ID != 55 || album.Title != "Wish" || album.Cover != "/c55.jpg" {
		t.Errorf("album = %+v", album)
	}
	if album.Artist == nil || album.Artist.ID != 7 {
		t.Errorf("album artist = %+v", album.Artist)
	}
}

func TestSearch_UnknownKind(t *testing.T) {
	client, fetcher := newTestClient(nil)

	_, err := client.Search(context.Background(), Kind(999), "text")
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("err = %v, want ErrUnknownKind", err)
	}
	if fetcher.fetchCount() != 0 {
		t.Errorf("fetch count = %d, want 0 (validation precedes any fetch)", fetcher.fetchCount())
	}
}

func TestSearchOne_NotFound(t *testing.T) {
	client, _ := newTestClient(map[string]string{
		testFragmentURL + "/search?text=nope&type=tracks&page=0": `<div class="serp"></div>`,
	})

	_, err := client.SearchOne(context.Background(), KindTracks, "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should report true")
	}
}

func TestSearchOne_First(t *testing.T) {
	client, _ := newTestClient(map[string]string{
		testFragmentURL + "/search?text=one&type=tracks&page=0": `<div>` +
			trackRow(201, "One", "201.aa") +
			trackRow(202, "Two", "202.bb") +
			`</div>`,
	})

	entity, err := client.SearchOne(context.Background(), KindTracks, "one")
	if err != nil {
		t.Fatalf("SearchOne: %v", err)
	}
	track, ok := entity.(*Track)
	if !ok {
		t.Fatalf("entity is %T, want *Track", entity)
	}
	if track.ID != 201 {
		t.Errorf("ID = %d, want 201", track.ID)
	}
}

func TestSearch_TransportFailurePropagates(t *testing.T) {
	client, _ := newTestClient(nil) // every fetch fails

	results, err := client.Search(context.Background(), KindTracks, "cure")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if results.Next() {
		t.Fatal("Next should fail when the page fetch fails")
	}
	if results.Err() == nil {
		t.Error("Err should report the transport failure")
	}
}
