package model

import (
	"testing"

	"github.com/avdeev/yamusic-dl/internal/yamusic"
)

func testPathConfig() *PathConfig {
	return &PathConfig{
		DownloadsPath:          "/music/{artist}/{album}",
		CoverFileNameFormat:    "{album}",
		PlaylistFileNameFormat: "{album}",
		PlaylistFormat:         PlaylistFormatM3U,
	}
}

func TestAlbum_PathComputation(t *testing.T) {
	src := &yamusic.Album{
		ID:     55,
		Title:  "Wish",
		Cover:  "http://img.test/c55.jpg",
		Artist: &yamusic.Artist{ID: 7, Title: "The Cure"},
	}
	album := NewAlbum(src, testPathConfig())

	if album.Path != "/music/The Cure/Wish" {
		t.Errorf("Path = %q, want %q", album.Path, "/music/The Cure/Wish")
	}
	if album.CoverPath != "/music/The Cure/Wish/Wish.jpg" {
		t.Errorf("CoverPath = %q, want %q", album.CoverPath, "/music/The Cure/Wish/Wish.jpg")
	}
	if album.PlaylistPath != "/music/The Cure/Wish/Wish.m3u" {
		t.Errorf("PlaylistPath = %q, want %q", album.PlaylistPath, "/music/The Cure/Wish/Wish.m3u")
	}
}

func TestAlbum_SanitizedNames(t *testing.T) {
	src := &yamusic.Album{
		ID:     1,
		Title:  "Side A/Side B",
		Artist: &yamusic.Artist{ID: 2, Title: "AC: DC?"},
	}
	album := NewAlbum(src, testPathConfig())

	if album.Path != "/music/AC_ DC_/Side A_Side B" {
		t.Errorf("Path = %q", album.Path)
	}
}

func TestAlbum_NoCover(t *testing.T) {
	src := &yamusic.Album{
		ID:     55,
		Title:  "Wish",
		Artist: &yamusic.Artist{ID: 7, Title: "The Cure"},
	}
	album := NewAlbum(src, testPathConfig())

	if album.HasCover() {
		t.Error("HasCover() should return false when CoverURL is empty")
	}
	if album.CoverPath != "" {
		t.Errorf("CoverPath should be empty, got %q", album.CoverPath)
	}
}

func TestTrack_PathComputation(t *testing.T) {
	src := &yamusic.Album{
		ID:     55,
		Title:  "Wish",
		Artist: &yamusic.Artist{ID: 7, Title: "The Cure"},
	}
	album := NewAlbum(src, testPathConfig())

	trackCfg := &TrackConfig{FileNameFormat: "{tracknum} {title}.mp3"}
	track := NewTrack(album, 1, &yamusic.Track{ID: 101, Title: "Open", Duration: 291}, trackCfg)

	want := "/music/The Cure/Wish/01 Open.mp3"
	if track.Path != want {
		t.Errorf("Path = %q, want %q", track.Path, want)
	}
	if track.Duration != 291 {
		t.Errorf("Duration = %d, want 291", track.Duration)
	}
}

func TestTrack_ArtistAndAlbumPlaceholders(t *testing.T) {
	src := &yamusic.Album{
		ID:     55,
		Title:  "Wish",
		Artist: &yamusic.Artist{ID: 7, Title: "The Cure"},
	}
	album := NewAlbum(src, testPathConfig())

	trackCfg := &TrackConfig{FileNameFormat: "{tracknum} {artist} - {title}.mp3"}
	track := NewTrack(album, 12, &yamusic.Track{ID: 112, Title: "End"}, trackCfg)

	want := "/music/The Cure/Wish/12 The Cure - End.mp3"
	if track.Path != want {
		t.Errorf("Path = %q, want %q", track.Path, want)
	}
}

func TestPlaylistFormat_Extension(t *testing.T) {
	tests := []struct {
		format PlaylistFormat
		want   string
	}{
		{PlaylistFormatM3U, ".m3u"},
		{PlaylistFormatPLS, ".pls"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.format.Extension(); got != tt.want {
				t.Errorf("Extension() = %q, want %q", got, tt.want)
			}
		})
	}
}
