package model

import (
	"path/filepath"
	"strings"

	ioutils "github.com/avdeev/yamusic-dl/internal/io"
	"github.com/avdeev/yamusic-dl/internal/yamusic"
)

// Album is one album scheduled for download, with its metadata and the
// computed local paths for its files.
//
// An Album wraps a resolved yamusic.Album: metadata comes from the
// entity graph, while the local directory, cover and playlist paths are
// derived from PathConfig templates using placeholders like {artist}
// and {album}.
//
// Example:
//
//	cfg := &PathConfig{
//	    DownloadsPath:          "/music/{artist}/{album}",
//	    CoverFileNameFormat:    "cover",
//	    PlaylistFileNameFormat: "{album}",
//	    PlaylistFormat:         PlaylistFormatM3U,
//	}
//	album := NewAlbum(src, cfg)
//	// album.Path = "/music/The Cure/Wish"
type Album struct {
	// Artist is the album artist name. Empty when the source album has
	// no artist reference.
	Artist string

	// Title is the album title.
	Title string

	// CoverURL is the URL to download the album cover from.
	// Empty string means no cover is available.
	CoverURL string

	// Tracks contains all tracks scheduled for this album.
	Tracks []*Track

	// Source is the entity this plan was built from.
	Source *yamusic.Album

	// Path is the computed local directory where album files are saved.
	Path string

	// CoverPath is the computed local file path for the cover image.
	// Empty if the album has no cover.
	CoverPath string

	// PlaylistPath is the computed local file path for the playlist file.
	PlaylistPath string
}

// NewAlbum creates a download plan for one album with computed paths.
//
// The pathConfig templates support these placeholders:
//   - {artist} - Artist name
//   - {album} - Album title
//
// Invalid filename characters are replaced with underscores. Paths are
// truncated when they exceed Windows path length limits (248 for
// folders, 260 for files).
func NewAlbum(src *yamusic.Album, cfg *PathConfig) *Album {
	album := &Album{
		Title:    src.Title,
		CoverURL: src.Cover,
		Source:   src,
	}
	if src.Artist != nil {
		album.Artist = src.Artist.Title
	}

	album.Path = album.parseFolderPath(cfg)
	album.PlaylistPath = album.parsePlaylistPath(cfg)
	album.CoverPath = album.parseCoverPath(cfg)

	return album
}

// HasCover returns true if the album has cover art available for download.
func (a *Album) HasCover() bool {
	return a.CoverURL != ""
}

// PathConfig holds path formatting settings for albums and tracks.
//
// All path fields support the {artist} and {album} placeholders, which
// are replaced with sanitized values.
type PathConfig struct {
	// DownloadsPath is the base path template for saving albums.
	// Example: "/music/{artist}/{album}"
	DownloadsPath string

	// CoverFileNameFormat is the filename template for the cover image
	// (without extension). Example: "cover" or "{album}"
	CoverFileNameFormat string

	// PlaylistFileNameFormat is the filename template for playlists
	// (without extension). Example: "{album}"
	PlaylistFileNameFormat string

	// PlaylistFormat determines the playlist file type and extension.
	PlaylistFormat PlaylistFormat
}

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// PlaylistFormatM3U creates .m3u playlist files (most widely supported).
	PlaylistFormatM3U PlaylistFormat = iota

	// PlaylistFormatPLS creates .pls playlist files (used by Winamp).
	PlaylistFormatPLS
)

// Extension returns the file extension for the playlist format,
// including the dot.
func (pf PlaylistFormat) Extension() string {
	switch pf {
	case PlaylistFormatPLS:
		return ".pls"
	default:
		return ".m3u"
	}
}

// expandAlbumPlaceholders fills {artist} and {album} in a template.
func (a *Album) expandAlbumPlaceholders(template string) string {
	s := template
	s = strings.ReplaceAll(s, "{artist}", ioutils.SanitizeFileName(a.Artist))
	s = strings.ReplaceAll(s, "{album}", ioutils.SanitizeFileName(a.Title))
	return s
}

// parseFolderPath computes the album folder path from the config template.
func (a *Album) parseFolderPath(cfg *PathConfig) string {
	path := a.expandAlbumPlaceholders(cfg.DownloadsPath)

	// Limit path length for cross-platform compatibility (Windows MAX_PATH)
	if len(path) >= 248 {
		path = path[:247]
	}

	return path
}

// parsePlaylistPath computes the full playlist file path.
func (a *Album) parsePlaylistPath(cfg *PathConfig) string {
	fileName := ioutils.SanitizeFileName(a.expandAlbumPlaceholders(cfg.PlaylistFileNameFormat))
	ext := cfg.PlaylistFormat.Extension()
	return limitFilePath(a.Path, fileName, ext)
}

// parseCoverPath computes the full cover image file path. Covers are
// always saved as JPEG after conversion, so the extension is fixed.
func (a *Album) parseCoverPath(cfg *PathConfig) string {
	if !a.HasCover() {
		return ""
	}
	fileName := ioutils.SanitizeFileName(a.expandAlbumPlaceholders(cfg.CoverFileNameFormat))
	return limitFilePath(a.Path, fileName, ".jpg")
}

// limitFilePath joins dir, name and ext, truncating the name when the
// result would exceed the Windows MAX_PATH limit.
func limitFilePath(dir, name, ext string) string {
	filePath := filepath.Join(dir, name+ext)
	if len(filePath) >= 260 {
		maxLen := 11 - len(ext)
		if maxLen > 0 && maxLen < len(name) {
			filePath = filepath.Join(dir, name[:maxLen]+ext)
		}
	}
	return filePath
}
