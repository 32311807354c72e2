package model

import (
	"fmt"
	"strings"

	ioutils "github.com/avdeev/yamusic-dl/internal/io"
	"github.com/avdeev/yamusic-dl/internal/yamusic"
)

// Track is one track scheduled for download within an Album plan.
//
// Track metadata comes from the entity graph; the local file path is
// computed from the album's path and the TrackConfig filename format.
// The download URL is not stored here: it is resolved from Source at
// download time, because resolved URLs are time limited.
//
// Example:
//
//	cfg := &TrackConfig{FileNameFormat: "{tracknum} {title}.mp3"}
//	track := NewTrack(album, 1, src, cfg)
//	// track.Path = "/music/The Cure/Wish/01 Open.mp3"
type Track struct {
	// Album is a reference to the parent album plan.
	Album *Album

	// Number is the track number within the album (1-indexed).
	Number int

	// Title is the track title.
	Title string

	// Duration is the track length in seconds. Zero when unknown.
	Duration int

	// Source is the entity this plan entry was built from. Its URL
	// method resolves the signed download URL on demand.
	Source *yamusic.Track

	// Path is the computed local file path where the track is saved,
	// including filename and extension.
	Path string
}

// TrackConfig holds track path formatting settings.
//
// The FileNameFormat supports these placeholders:
//   - {tracknum} - Track number (2 digits, zero-padded)
//   - {title} - Track title
//   - {artist} - Artist name (from album)
//   - {album} - Album title
//
// Example:
//
//	cfg := &TrackConfig{
//	    FileNameFormat: "{tracknum} {artist} - {title}.mp3",
//	}
//	// Results in filenames like "01 The Cure - Open.mp3"
type TrackConfig struct {
	// FileNameFormat is the template for track filenames.
	// Must include the file extension (typically ".mp3").
	FileNameFormat string
}

// NewTrack creates a plan entry for one track with its computed path.
//
// The number is the 1-indexed position within the album, used for the
// filename and the ID3 track-number frame. Invalid filename characters
// are replaced with underscores.
func NewTrack(album *Album, number int, src *yamusic.Track, cfg *TrackConfig) *Track {
	track := &Track{
		Album:    album,
		Number:   number,
		Title:    src.Title,
		Duration: src.Duration,
		Source:   src,
	}

	track.Path = track.parseFilePath(cfg)

	return track
}

// parseFilePath computes the full file path for this track.
func (t *Track) parseFilePath(cfg *TrackConfig) string {
	fileName := t.parseFileName(cfg)
	ext := ""
	if i := strings.LastIndexByte(fileName, '.'); i >= 0 {
		ext = fileName[i:]
		fileName = fileName[:i]
	}
	return limitFilePath(t.Album.Path, fileName, ext)
}

// parseFileName computes the filename from the config template.
func (t *Track) parseFileName(cfg *TrackConfig) string {
	fileName := cfg.FileNameFormat
	fileName = strings.ReplaceAll(fileName, "{album}", t.Album.Title)
	fileName = strings.ReplaceAll(fileName, "{artist}", t.Album.Artist)
	fileName = strings.ReplaceAll(fileName, "{title}", t.Title)
	fileName = strings.ReplaceAll(fileName, "{tracknum}", fmt.Sprintf("%02d", t.Number))
	return ioutils.SanitizeFileName(fileName)
}
