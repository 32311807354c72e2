package yamusic

import (
	"testing"

	"github.com/avdeev/yamusic-dl/internal/markup"
)

func mustParse(t *testing.T, html string) *markup.Document {
	t.Helper()
	doc, err := markup.Parse([]byte(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestExtractTrackRows(t *testing.T) {
	html := `<div class="serp">
		<div class="b-track js-track" onclick="return {'id': 101, 'title': 'One', 'artist_id': 7, 'artist': 'The Cure', 'album_id': 55, 'album': 'Wish', 'cover': '/c55.jpg', 'storage_dir': '101.aa', 'duration': 180}"></div>
		<div class="b-track js-track" onclick="return {'id': 102, 'title': 'Don\'t Stop', 'artist_id': 7, 'artist': 'The Cure', 'album_id': 55, 'album': 'Wish', 'cover': '/c55.jpg', 'storage_dir': '102.bb', 'duration': 200}"></div>
	</div>`

	records := extractTrackRows(mustParse(t, html))
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ID != 101 || records[0].Title != "One" {
		t.Errorf("records[0] = %+v", records[0])
	}
	if records[0].StorageDir != "101.aa" {
		t.Errorf("StorageDir = %q, want %q", records[0].StorageDir, "101.aa")
	}
	if records[1].Title != "Don't Stop" {
		t.Errorf("records[1].Title = %q, want %q", records[1].Title, "Don't Stop")
	}
	if records[1].ArtistTitle != "The Cure" || records[1].ArtistID != 7 {
		t.Errorf("records[1] artist = %q/%d", records[1].ArtistTitle, records[1].ArtistID)
	}
}

func TestExtractTrackRows_SkipsMalformed(t *testing.T) {
	html := `<div>
		<div class="b-track" onclick="return {'id': 1, 'title': 'Good'}"></div>
		<div class="b-track" onclick="return {'id': 2, 'title': 'Trunc"></div>
		<div class="b-track"></div>
		<div class="b-track" onclick="return {'title': 'No id'}"></div>
		<div class="b-track" onclick="return {'id': 3, 'title': 'Also good'}"></div>
	</div>`

	records := extractTrackRows(mustParse(t, html))
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ID != 1 || records[1].ID != 3 {
		t.Errorf("ids = %d, %d; want 1, 3", records[0].ID, records[1].ID)
	}
}

func TestExtractAlbumItems(t *testing.T) {
	html := `<div>
		<div class="b-albums">
			<div class="b-albums__cover"><a href="/album/55"><img src="/c55.jpg"/></a></div>
			<a class="b-link_class_albums-title-link" href="/album/55"><b>Wish</b></a>
			<a class="b-link_class_albums-artist-link" href="/artist/7">The Cure</a>
		</div>
		<div class="b-albums">
			<div class="b-albums__cover"><a href="/album/56"><img src="/c56.jpg"/></a></div>
			<a class="b-link_class_albums-title-link" href="/album/56">Disintegration</a>
			<a class="b-link_class_albums-artist-link" href="/artist/7">The Cure</a>
		</div>
		<div class="b-albums"><!-- no cover link, dropped --></div>
	</div>`

	records := extractAlbumItems(mustParse(t, html))
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	first := records[0]
	if first.ID != 55 || first.Title != "Wish" || first.Cover != "/c55.jpg" {
		t.Errorf("records[0] = %+v", first)
	}
	if first.ArtistID != 7 || first.ArtistTitle != "The Cure" {
		t.Errorf("records[0] artist = %q/%d", first.ArtistTitle, first.ArtistID)
	}
}

func TestExtractArtistGroups(t *testing.T) {
	html := `<div>
		<div class="b-artist-group"><a href="/artist/7"><b>The</b> Cure</a></div>
		<div class="b-artist-group"><a href="/artist/8">Cure Worse</a></div>
		<div class="b-artist-group"><a href="/artist/oops">Bad id</a></div>
	</div>`

	records := extractArtistGroups(mustParse(t, html))
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ID != 7 || records[0].Title != "The Cure" {
		t.Errorf("records[0] = %+v", records[0])
	}
}

func TestExtractArtistDetail(t *testing.T) {
	html := `<div>
		<h1 class="b-title__title">The <b>Cure</b></h1>
		<div class="b-album-control" onclick="return {'id': 55, 'title': 'Wish', 'cover': '/c55.jpg', 'tracks': [{'id': 101, 'title': 'One', 'duration': 180, 'storage_dir': '101.aa'}, {'id': 102, 'title': 'Two', 'duration': 200, 'storage_dir': '102.bb'}]}"></div>
		<div class="b-album-control" onclick="return {'id': 56, 'title': 'Disintegration', 'tracks': []}"></div>
	</div>`

	title, albums := extractArtistDetail(mustParse(t, html))
	if title != "The Cure" {
		t.Errorf("title = %q, want %q", title, "The Cure")
	}
	if len(albums) != 2 {
		t.Fatalf("got %d albums, want 2", len(albums))
	}
	if albums[0].ID != 55 || len(albums[0].Tracks) != 2 {
		t.Errorf("albums[0] = %+v", albums[0])
	}
	if albums[0].Tracks[1].Title != "Two" || albums[0].Tracks[1].StorageDir != "102.bb" {
		t.Errorf("albums[0].Tracks[1] = %+v", albums[0].Tracks[1])
	}
}

func TestExtractArtistDetail_DropsMalformedRows(t *testing.T) {
	html := `<div>
		<h1 class="b-title__title">Artist</h1>
		<div class="b-album-control" onclick="return {'id': 1, 'title': 'A', 'tracks': []}"></div>
		<div class="b-album-control" onclick="return {'id': 2, 'title': 'Trunc"></div>
		<div class="b-album-control" onclick="return {'id': 3, 'title': 'C', 'tracks': []}"></div>
	</div>`

	_, albums := extractArtistDetail(mustParse(t, html))
	if len(albums) != 2 {
		t.Fatalf("got %d albums, want 2", len(albums))
	}
	if albums[0].ID != 1 || albums[1].ID != 3 {
		t.Errorf("ids = %d, %d; want 1, 3", albums[0].ID, albums[1].ID)
	}
}

func TestExtractAlbumDetail(t *testing.T) {
	html := `<div>
		<h1 class="b-title__title">Wish</h1>
		<div class="b-title__artist"><a href="/artist/7">The Cure</a></div>
		<div class="b-track" onclick="return {'id': 101, 'title': 'One', 'duration': 180, 'storage_dir': '101.aa'}"></div>
		<div class="b-track" onclick="return {'id': 102, 'title': 'Two', 'duration': 200, 'storage_dir': '102.bb'}"></div>
	</div>`

	title, artist, tracks := extractAlbumDetail(mustParse(t, html))
	if title != "Wish" {
		t.Errorf("title = %q, want %q", title, "Wish")
	}
	if artist.ID != 7 || artist.Title != "The Cure" {
		t.Errorf("artist = %+v", artist)
	}
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(tracks))
	}
}

func TestExtractPager(t *testing.T) {
	tests := []struct {
		name        string
		html        string
		wantFound   bool
		wantCurrent int
		wantTotal   int
	}{
		{
			name:      "no pager",
			html:      `<div class="serp"></div>`,
			wantFound: false,
		},
		{
			name: "simple pager",
			html: `<div>
				<b class="b-pager__current">1</b>
				<a class="b-pager__page" href="?page=1">2</a>
				<a class="b-pager__page" href="?page=2">3</a>
			</div>`,
			wantFound:   true,
			wantCurrent: 1,
			wantTotal:   3,
		},
		{
			name: "ellipsis replaces highest page",
			html: `<div>
				<b class="b-pager__current">1</b>
				<a class="b-pager__page" href="?page=1">2</a>
				<a class="b-pager__page" href="?page=41">42</a>
				<a class="b-pager__page" href="?page=42">&#8230;</a>
			</div>`,
			wantFound:   true,
			wantCurrent: 1,
			wantTotal:   42,
		},
		{
			name: "pager without current marker",
			html: `<div><a class="b-pager__page" href="?page=1">2</a></div>`,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pg := extractPager(mustParse(t, tt.html))
			if pg.Found != tt.wantFound {
				t.Fatalf("Found = %v, want %v", pg.Found, tt.wantFound)
			}
			if !tt.wantFound {
				return
			}
			if pg.Current != tt.wantCurrent || pg.Total != tt.wantTotal {
				t.Errorf("pager = %d/%d, want %d/%d", pg.Current, pg.Total, tt.wantCurrent, tt.wantTotal)
			}
		})
	}
}

func TestTrailingID(t *testing.T) {
	tests := []struct {
		href    string
		want    int
		wantErr bool
	}{
		{"/artist/7", 7, false},
		{"/album/55", 55, false},
		{"/album/55/", 55, false},
		{"42", 42, false},
		{"/artist/the-cure", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			got, err := trailingID(tt.href)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.href)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("trailingID(%q) = %d, want %d", tt.href, got, tt.want)
			}
		})
	}
}
