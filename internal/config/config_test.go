package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/avdeev/yamusic-dl/internal/model"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if settings.MaxConcurrentTracksDownload != 4 {
		t.Errorf("MaxConcurrentTracksDownload = %d, want 4", settings.MaxConcurrentTracksDownload)
	}
	if !settings.ModifyTags {
		t.Error("ModifyTags should default to true")
	}
	if settings.Service.RequestTimeoutSeconds != 60 {
		t.Errorf("RequestTimeoutSeconds = %d, want 60", settings.Service.RequestTimeoutSeconds)
	}
}

func TestLoad_OverridesLayerOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"downloads_path": "/music/{artist}/{album}",
		"max_concurrent_tracks": 2,
		"playlist_format": "pls",
		"service": {
			"fragment_url": "http://music.test/fragment",
			"signing_secret": "sekrit",
			"cache_max_entries": 100
		}
	}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if settings.DownloadsPath != "/music/{artist}/{album}" {
		t.Errorf("DownloadsPath = %q", settings.DownloadsPath)
	}
	if settings.MaxConcurrentTracksDownload != 2 {
		t.Errorf("MaxConcurrentTracksDownload = %d, want 2", settings.MaxConcurrentTracksDownload)
	}
	// Fields absent from the file keep their defaults.
	if settings.DownloadMaxRetries != 7 {
		t.Errorf("DownloadMaxRetries = %d, want 7", settings.DownloadMaxRetries)
	}
	if settings.Service.FragmentURL != "http://music.test/fragment" {
		t.Errorf("FragmentURL = %q", settings.Service.FragmentURL)
	}
	if settings.Service.RequestTimeoutSeconds != 60 {
		t.Errorf("RequestTimeoutSeconds = %d, want 60", settings.Service.RequestTimeoutSeconds)
	}

	opts := settings.ToClientOptions()
	if opts.SigningSecret != "sekrit" || opts.CacheMaxEntries != 100 {
		t.Errorf("ToClientOptions() = %+v", opts)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	settings := DefaultSettings()
	settings.CreatePlaylist = true
	settings.Service.Region = "187"
	if err := settings.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded.CreatePlaylist {
		t.Error("CreatePlaylist should survive the round trip")
	}
	if loaded.Service.Region != "187" {
		t.Errorf("Region = %q, want %q", loaded.Service.Region, "187")
	}
}

func TestToPathConfig(t *testing.T) {
	settings := DefaultSettings()
	settings.PlaylistFormat = "pls"

	cfg := settings.ToPathConfig()
	if cfg.PlaylistFormat != model.PlaylistFormatPLS {
		t.Errorf("PlaylistFormat = %v, want PLS", cfg.PlaylistFormat)
	}
	if cfg.DownloadsPath != settings.DownloadsPath {
		t.Errorf("DownloadsPath = %q", cfg.DownloadsPath)
	}

	settings.PlaylistFormat = "bogus"
	if settings.ToPathConfig().PlaylistFormat != model.PlaylistFormatM3U {
		t.Error("unknown playlist format should fall back to M3U")
	}
}
