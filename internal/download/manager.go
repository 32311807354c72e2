package download

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/avdeev/yamusic-dl/internal/audio"
	"github.com/avdeev/yamusic-dl/internal/config"
	"github.com/avdeev/yamusic-dl/internal/httpx"
	ioutils "github.com/avdeev/yamusic-dl/internal/io"
	"github.com/avdeev/yamusic-dl/internal/model"
	"github.com/avdeev/yamusic-dl/internal/yamusic"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Request describes what to download. Exactly one selector should be
// set: a text query with a kind, a direct artist id, or a direct album
// id.
type Request struct {
	// Query is a free-text search. The first result of the requested
	// Kind is downloaded; for artists that means their whole catalog.
	Query string

	// Kind selects what Query searches for.
	Kind yamusic.Kind

	// ArtistID downloads every album of the artist with this id.
	ArtistID int

	// AlbumID downloads the album with this id.
	AlbumID int
}

// Manager coordinates album downloads.
//
// A Manager is used in two phases: Initialize resolves a Request into
// album plans through the metadata client, then StartDownloads fans
// the plans out to workers that resolve download URLs, fetch files,
// tag them and write covers and playlists.
type Manager struct {
	settings     *config.Settings
	httpClient   *httpx.Client
	music        *yamusic.Client
	tagger       *audio.Tagger
	playlist     *audio.PlaylistCreator
	imageService *ioutils.ImageService

	albums          []*model.Album
	receivedBytes   int64
	totalFiles      int32
	downloadedFiles int32

	onProgress func(ProgressEvent)
}

// NewManager creates a download Manager with its own transport and
// metadata client built from the settings.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	httpClient := httpx.NewClient(settings.RequestTimeout())
	music := yamusic.NewClient(httpClient, settings.ToClientOptions())

	m := newManager(settings, music, onProgress)
	m.httpClient = httpClient
	return m
}

// NewManagerWithClient creates a Manager on an existing metadata
// client. Used by tests to inject a client with a fake transport; the
// manager then streams downloads through the client instead of its own
// HTTP client.
func NewManagerWithClient(settings *config.Settings, music *yamusic.Client, onProgress func(ProgressEvent)) *Manager {
	return newManager(settings, music, onProgress)
}

func newManager(settings *config.Settings, music *yamusic.Client, onProgress func(ProgressEvent)) *Manager {
	var playlistFormat audio.PlaylistFormat
	if settings.PlaylistFormat == "pls" {
		playlistFormat = audio.FormatPLS
	}

	return &Manager{
		settings:     settings,
		music:        music,
		tagger:       audio.NewTagger(audio.DefaultTagConfig()),
		playlist:     audio.NewPlaylistCreator(playlistFormat, settings.M3UExtended),
		imageService: ioutils.NewImageService(),
		onProgress:   onProgress,
	}
}

// Initialize resolves the request into album download plans.
//
// Artist requests expand to every album of the artist. Track requests
// wrap the found track in a single-track plan for its album. Albums
// whose track list cannot be loaded are reported and skipped, never
// fatal for the whole request.
func (m *Manager) Initialize(ctx context.Context, req Request) error {
	sources, err := m.resolveSources(ctx, req)
	if err != nil {
		return err
	}

	pathCfg := m.settings.ToPathConfig()
	trackCfg := m.settings.ToTrackConfig()

	for _, source := range sources {
		var tracks []*yamusic.Track
		if source.only != nil {
			// A single-track plan never needs the album's full list.
			tracks = []*yamusic.Track{source.only}
		} else {
			var err error
			tracks, err = source.album.Tracks(ctx)
			if err != nil {
				m.progress(ProgressEvent{Message: fmt.Sprintf("Error loading tracks for %s: %v", source.album.Title, err), Level: LevelError})
				continue
			}
		}

		plan := model.NewAlbum(source.album, pathCfg)
		for i, track := range tracks {
			plan.Tracks = append(plan.Tracks, model.NewTrack(plan, i+1, track, trackCfg))
		}

		m.albums = append(m.albums, plan)
		m.totalFiles += int32(len(plan.Tracks))
		if plan.HasCover() {
			m.totalFiles++
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Found album: %s - %s (%d tracks)", plan.Artist, plan.Title, len(plan.Tracks)), Level: LevelInfo})
	}

	return nil
}

// albumSource pairs an album with an optional single track restricting
// the plan to that track.
type albumSource struct {
	album *yamusic.Album
	only  *yamusic.Track
}

func (m *Manager) resolveSources(ctx context.Context, req Request) ([]*albumSource, error) {
	switch {
	case req.ArtistID > 0:
		artist, err := m.music.ArtistByID(ctx, req.ArtistID)
		if err != nil {
			return nil, err
		}
		return m.artistSources(ctx, artist)

	case req.AlbumID > 0:
		album, err := m.music.AlbumByID(ctx, req.AlbumID)
		if err != nil {
			return nil, err
		}
		return []*albumSource{{album: album}}, nil

	case req.Query != "":
		return m.searchSources(ctx, req)

	default:
		return nil, fmt.Errorf("nothing to download: no query, artist id or album id")
	}
}

func (m *Manager) searchSources(ctx context.Context, req Request) ([]*albumSource, error) {
	m.progress(ProgressEvent{Message: fmt.Sprintf("Searching %s for %q", req.Kind, req.Query), Level: LevelVerbose})

	switch req.Kind {
	case yamusic.KindArtists:
		artist, err := m.music.FindArtist(ctx, req.Query)
		if err != nil {
			return nil, err
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Found artist: %s", artist.Title), Level: LevelInfo})
		return m.artistSources(ctx, artist)

	case yamusic.KindAlbums:
		album, err := m.music.FindAlbum(ctx, req.Query)
		if err != nil {
			return nil, err
		}
		return []*albumSource{{album: album}}, nil

	case yamusic.KindTracks:
		track, err := m.music.FindTrack(ctx, req.Query)
		if err != nil {
			return nil, err
		}
		if track.Album == nil {
			return nil, fmt.Errorf("track %q has no album reference", track.Title)
		}
		return []*albumSource{{album: track.Album, only: track}}, nil

	default:
		return nil, fmt.Errorf("%w: %d", yamusic.ErrUnknownKind, int(req.Kind))
	}
}

func (m *Manager) artistSources(ctx context.Context, artist *yamusic.Artist) ([]*albumSource, error) {
	albums, err := artist.Albums(ctx)
	if err != nil {
		return nil, err
	}
	sources := make([]*albumSource, 0, len(albums))
	for _, album := range albums {
		sources = append(sources, &albumSource{album: album})
	}
	return sources, nil
}

// StartDownloads begins downloading all initialized albums.
func (m *Manager) StartDownloads(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentAlbumsDownload)

	for _, album := range m.albums {
		g.Go(func() error {
			return m.downloadAlbum(ctx, album)
		})
	}

	return g.Wait()
}

// GetProgress returns current download progress.
func (m *Manager) GetProgress() (received int64, filesReceived, filesTotal int32) {
	return atomic.LoadInt64(&m.receivedBytes),
		atomic.LoadInt32(&m.downloadedFiles), m.totalFiles
}

// GetAlbumNames returns the names of all initialized albums.
func (m *Manager) GetAlbumNames() []string {
	names := make([]string, len(m.albums))
	for i, album := range m.albums {
		names[i] = fmt.Sprintf("%s - %s (%d tracks)", album.Artist, album.Title, len(album.Tracks))
	}
	return names
}

// Albums returns the initialized album plans.
func (m *Manager) Albums() []*model.Album {
	return m.albums
}

func (m *Manager) downloadAlbum(ctx context.Context, album *model.Album) error {
	if err := ioutils.EnsureDir(album.Path); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating directory: %v", err), Level: LevelError})
		return err
	}

	var cover []byte

	if (m.settings.SaveCoverInTags || m.settings.SaveCoverInFolder) && album.HasCover() {
		var err error
		cover, err = m.downloadCover(ctx, album)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading cover for %s: %v", album.Title, err), Level: LevelWarning})
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentTracksDownload)

	var successCount int32
	for _, track := range album.Tracks {
		g.Go(func() error {
			if err := m.downloadTrack(ctx, track, album, cover); err != nil {
				m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading %s: %v", track.Title, err), Level: LevelError})
				return nil // Continue with other tracks
			}
			atomic.AddInt32(&successCount, 1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if m.settings.CreatePlaylist {
		content := m.playlist.CreatePlaylist(album)
		if err := ioutils.WriteFile(ctx, album.PlaylistPath, []byte(content)); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		} else {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist for %s", album.Title), Level: LevelSuccess})
		}
	}

	if int(successCount) == len(album.Tracks) {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Successfully downloaded album: %s", album.Title), Level: LevelSuccess})
	} else {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Finished %s, some tracks failed", album.Title), Level: LevelWarning})
	}

	return nil
}

func (m *Manager) downloadCover(ctx context.Context, album *model.Album) ([]byte, error) {
	var cover []byte
	var err error

	for tries := 0; tries < m.settings.DownloadMaxRetries; tries++ {
		cover, err = m.fetchBytes(ctx, album.CoverURL)
		if err == nil {
			break
		}
		m.waitForRetry(ctx, tries)
	}

	if err != nil {
		return nil, err
	}

	atomic.AddInt32(&m.downloadedFiles, 1)

	// Save to folder if requested
	if m.settings.SaveCoverInFolder {
		coverToSave := cover

		if m.settings.CoverInFolderResize {
			coverToSave, _ = m.imageService.ResizeImage(ctx, coverToSave, m.settings.CoverInFolderMaxSize, m.settings.CoverInFolderMaxSize)
		} else {
			coverToSave, _ = m.imageService.ConvertToJPEG(ctx, coverToSave)
		}

		if err := ioutils.WriteFile(ctx, album.CoverPath, coverToSave); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error saving cover: %v", err), Level: LevelWarning})
		}
	}

	// Prepare for tags
	if m.settings.SaveCoverInTags {
		if m.settings.CoverInTagsResize {
			cover, _ = m.imageService.ResizeImage(ctx, cover, m.settings.CoverInTagsMaxSize, m.settings.CoverInTagsMaxSize)
		} else {
			cover, _ = m.imageService.ConvertToJPEG(ctx, cover)
		}
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded cover for %s", album.Title), Level: LevelVerbose})
	return cover, nil
}

func (m *Manager) downloadTrack(ctx context.Context, track *model.Track, album *model.Album, cover []byte) error {
	// Resolved URLs are signed with a timestamp, so resolution happens
	// here rather than at plan time.
	trackURL, err := track.Source.URL(ctx)
	if err != nil {
		return fmt.Errorf("resolve download URL: %w", err)
	}

	// Check if file already exists with acceptable size
	if info, statErr := os.Stat(track.Path); statErr == nil && m.httpClient != nil {
		expectedSize, _ := m.httpClient.GetFileSize(ctx, trackURL)
		diff := m.settings.AllowedFileSizeDifference
		if expectedSize > 0 {
			sizeDiff := float64(info.Size()-expectedSize) / float64(expectedSize)
			if math.Abs(sizeDiff) <= diff {
				m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping existing: %s", filepath.Base(track.Path)), Level: LevelVerbose})
				atomic.AddInt32(&m.downloadedFiles, 1)
				return nil
			}
		}
	}

	for tries := 0; tries < m.settings.DownloadMaxRetries; tries++ {
		err = m.fetchFile(ctx, trackURL, track.Path)
		if err == nil {
			break
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Retry %d/%d for %s", tries+1, m.settings.DownloadMaxRetries, track.Title), Level: LevelWarning})
		m.waitForRetry(ctx, tries)
	}

	if err != nil {
		return err
	}

	atomic.AddInt32(&m.downloadedFiles, 1)
	if info, statErr := os.Stat(track.Path); statErr == nil {
		atomic.AddInt64(&m.receivedBytes, info.Size())
	}

	// Tag the file
	if m.settings.ModifyTags || (m.settings.SaveCoverInTags && cover != nil) {
		if err := m.tagger.SaveTags(track, album, cover); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging %s: %v", track.Title, err), Level: LevelWarning})
		}
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", filepath.Base(track.Path)), Level: LevelVerbose})
	return nil
}

// fetchBytes retrieves a URL into memory, through the HTTP client when
// the manager owns one, otherwise through the metadata client's
// transport.
func (m *Manager) fetchBytes(ctx context.Context, url string) ([]byte, error) {
	if m.httpClient != nil {
		return m.httpClient.Fetch(ctx, url)
	}
	return m.music.Fetch(ctx, url)
}

// fetchFile streams a URL to a local file.
func (m *Manager) fetchFile(ctx context.Context, url, destPath string) error {
	if m.httpClient != nil {
		return m.httpClient.DownloadFile(ctx, url, destPath, nil)
	}
	data, err := m.music.Fetch(ctx, url)
	if err != nil {
		return err
	}
	return ioutils.WriteFile(ctx, destPath, data)
}

func (m *Manager) waitForRetry(ctx context.Context, tries int) {
	cooldown := m.settings.DownloadRetryCooldown * math.Pow(m.settings.DownloadRetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
