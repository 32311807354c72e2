// Package model defines the download plan structures built from
// resolved music entities.
//
// # Album
//
// Album wraps a resolved album with metadata and computed file paths:
//
//	album := model.NewAlbum(src, pathConfig)
//	fmt.Println(album.Path)      // Where to save the album
//	fmt.Println(album.CoverPath) // Where to save the cover image
//
// # Track
//
// Track represents a single track within an album plan:
//
//	track := model.NewTrack(album, 1, src, trackConfig)
//	fmt.Println(track.Path) // Full path where the track will be saved
//
// # Path Configuration
//
// PathConfig controls how album/track paths are computed using placeholders:
//
//	cfg := &model.PathConfig{
//	    DownloadsPath:          "/music/{artist}/{album}",
//	    CoverFileNameFormat:    "{album}",
//	    PlaylistFileNameFormat: "{album}",
//	    PlaylistFormat:         model.PlaylistFormatM3U,
//	}
//
// Available placeholders: {artist}, {album}, {title}, {tracknum}
package model
