// Package config provides configuration management for yamusic-dl.
//
// This package handles:
//   - Loading settings from JSON files via koanf, layered over defaults
//   - Saving settings back to disk
//   - Conversion to the client options and path/track configs used by
//     the other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads to ~/Music/Yandex/{artist}/{album}
//	// ID3 tagging enabled
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // A missing file is not an error; defaults are used
//	}
//
// # Saving Settings
//
//	settings.DownloadsPath = "/custom/path/{artist}/{album}"
//	err := settings.Save("/path/to/config.json")
//
// # Configuration Options
//
// Settings includes options for:
//   - Download paths and file naming
//   - Concurrent download limits
//   - Retry behavior
//   - Cover art handling
//   - Playlist generation
//   - ID3 tag modification
//   - Service endpoints and URL signing parameters
package config
