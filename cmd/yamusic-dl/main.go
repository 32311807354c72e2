package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/avdeev/yamusic-dl/internal/config"
	"github.com/avdeev/yamusic-dl/internal/download"
	"github.com/avdeev/yamusic-dl/internal/yamusic"
)

func main() {
	// Command line flags
	var (
		searchFlag   = flag.String("search", "", "Search query")
		typeFlag     = flag.String("type", "artists", "What to search for: tracks, albums or artists")
		artistIDFlag = flag.Int("artist-id", 0, "Download every album of the artist with this id")
		albumIDFlag  = flag.Int("album-id", 0, "Download the album with this id")
		outputFlag   = flag.String("output", "", "Output directory (overrides config)")
		configFlag   = flag.String("config", "", "Path to config file")
		playlistFlag = flag.Bool("playlist", false, "Create playlist file")
		verboseFlag  = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag   = flag.Bool("dry-run", false, "Resolve albums without downloading")
	)

	flag.Parse()

	if *searchFlag == "" && *artistIDFlag == 0 && *albumIDFlag == 0 && flag.NArg() == 0 {
		fmt.Println("yamusic-dl - Download music from Yandex Music")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  yamusic-dl -search <query> [-type tracks|albums|artists] [options]")
		fmt.Println("  yamusic-dl -artist-id <id> [options]")
		fmt.Println("  yamusic-dl -album-id <id> [options]")
		fmt.Println("  yamusic-dl <query> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: yamusic-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *outputFlag != "" {
		settings.DownloadsPath = *outputFlag + "/{artist}/{album}"
	}
	if *playlistFlag {
		settings.CreatePlaylist = true
	}

	kind, err := yamusic.ParseKind(*typeFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	query := *searchFlag
	if query == "" && flag.NArg() > 0 {
		query = flag.Arg(0)
	}

	req := download.Request{
		Query:    query,
		Kind:     kind,
		ArtistID: *artistIDFlag,
		AlbumID:  *albumIDFlag,
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create manager with progress callback
	manager := download.NewManager(settings, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := "   "
		switch event.Level {
		case download.LevelError:
			prefix = " ✗ "
		case download.LevelWarning:
			prefix = " ! "
		case download.LevelSuccess:
			prefix = " ✓ "
		case download.LevelInfo:
			prefix = " › "
		}

		fmt.Println(prefix + event.Message)
	})

	fmt.Println("♪ yamusic-dl")
	fmt.Println()

	if err := manager.Initialize(ctx, req); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing: %v\n", err)
		os.Exit(1)
	}

	if len(manager.Albums()) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to download.")
		os.Exit(1)
	}

	if *dryRunFlag {
		fmt.Println("\n[Dry run - not downloading]")
		return
	}

	fmt.Println("\nStarting downloads...")
	fmt.Println()

	if err := manager.StartDownloads(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nDownload cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error during download: %v\n", err)
		os.Exit(1)
	}

	received, filesReceived, filesTotal := manager.GetProgress()
	fmt.Println()
	fmt.Printf("Complete! Downloaded %d/%d files (%.2f MB)\n", filesReceived, filesTotal, float64(received)/1024/1024)
}
