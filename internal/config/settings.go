package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	koanfjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/avdeev/yamusic-dl/internal/model"
	"github.com/avdeev/yamusic-dl/internal/yamusic"
)

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	DownloadsPath               string  `json:"downloads_path"`
	MaxConcurrentAlbumsDownload int     `json:"max_concurrent_albums"`
	MaxConcurrentTracksDownload int     `json:"max_concurrent_tracks"`
	DownloadMaxRetries          int     `json:"download_max_retries"`
	DownloadRetryCooldown       float64 `json:"download_retry_cooldown"`
	DownloadRetryExponent       float64 `json:"download_retry_exponent"`
	AllowedFileSizeDifference   float64 `json:"allowed_file_size_difference"`

	// File naming
	FileNameFormat         string `json:"file_name_format"`
	CoverFileNameFormat    string `json:"cover_file_name_format"`
	PlaylistFileNameFormat string `json:"playlist_file_name_format"`

	// Cover settings
	SaveCoverInFolder    bool `json:"save_cover_in_folder"`
	SaveCoverInTags      bool `json:"save_cover_in_tags"`
	CoverInFolderResize  bool `json:"cover_in_folder_resize"`
	CoverInFolderMaxSize int  `json:"cover_in_folder_max_size"`
	CoverInTagsResize    bool `json:"cover_in_tags_resize"`
	CoverInTagsMaxSize   int  `json:"cover_in_tags_max_size"`

	// Playlist settings
	CreatePlaylist bool   `json:"create_playlist"`
	PlaylistFormat string `json:"playlist_format"` // m3u, pls
	M3UExtended    bool   `json:"m3u_extended"`

	// Tag settings
	ModifyTags bool `json:"modify_tags"`

	// Service settings
	Service ServiceSettings `json:"service"`
}

// ServiceSettings configures the music service client. The zero value
// of every field selects the production default; overriding them is
// mainly useful for testing against a local stand-in or when the
// service rotates its signing parameters.
type ServiceSettings struct {
	FragmentURL           string `json:"fragment_url"`
	StorageURL            string `json:"storage_url"`
	SigningSecret         string `json:"signing_secret"`
	Region                string `json:"region"`
	Source                string `json:"source"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`
	CacheMaxEntries       int    `json:"cache_max_entries"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		DownloadsPath:               filepath.Join(homeDir, "Music", "Yandex", "{artist}", "{album}"),
		MaxConcurrentAlbumsDownload: 1,
		MaxConcurrentTracksDownload: 4,
		DownloadMaxRetries:          7,
		DownloadRetryCooldown:       0.2,
		DownloadRetryExponent:       4.0,
		AllowedFileSizeDifference:   0.05,

		FileNameFormat:         "{tracknum} {artist} - {title}.mp3",
		CoverFileNameFormat:    "{album}",
		PlaylistFileNameFormat: "{album}",

		SaveCoverInFolder:    false,
		SaveCoverInTags:      true,
		CoverInFolderResize:  false,
		CoverInFolderMaxSize: 1000,
		CoverInTagsResize:    true,
		CoverInTagsMaxSize:   1000,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,

		ModifyTags: true,

		Service: ServiceSettings{
			RequestTimeoutSeconds: 60,
		},
	}
}

// Load reads settings from a JSON file, layered over the defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (*Settings, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), koanfjson.Parser()); err != nil {
		return nil, err
	}

	settings := DefaultSettings()
	if err := k.UnmarshalWithConf("", settings, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// RequestTimeout returns the configured HTTP request timeout.
func (s *Settings) RequestTimeout() time.Duration {
	return time.Duration(s.Service.RequestTimeoutSeconds) * time.Second
}

// ToClientOptions converts the service settings to client options.
// Empty fields stay empty; the client substitutes its production
// defaults for them.
func (s *Settings) ToClientOptions() yamusic.Options {
	return yamusic.Options{
		FragmentURL:     s.Service.FragmentURL,
		StorageURL:      s.Service.StorageURL,
		SigningSecret:   s.Service.SigningSecret,
		Region:          s.Service.Region,
		Source:          s.Service.Source,
		CacheMaxEntries: s.Service.CacheMaxEntries,
	}
}

// ToPathConfig converts settings to PathConfig.
func (s *Settings) ToPathConfig() *model.PathConfig {
	var pf model.PlaylistFormat
	switch s.PlaylistFormat {
	case "pls":
		pf = model.PlaylistFormatPLS
	default:
		pf = model.PlaylistFormatM3U
	}

	return &model.PathConfig{
		DownloadsPath:          s.DownloadsPath,
		CoverFileNameFormat:    s.CoverFileNameFormat,
		PlaylistFileNameFormat: s.PlaylistFileNameFormat,
		PlaylistFormat:         pf,
	}
}

// ToTrackConfig converts settings to TrackConfig.
func (s *Settings) ToTrackConfig() *model.TrackConfig {
	return &model.TrackConfig{
		FileNameFormat: s.FileNameFormat,
	}
}
