package yamusic

import "fmt"

// Kind selects which entity kind a search targets.
type Kind int

const (
	// KindTracks searches for tracks.
	KindTracks Kind = iota

	// KindAlbums searches for albums.
	KindAlbums

	// KindArtists searches for artists.
	KindArtists
)

// String returns the query-parameter value for the kind.
func (k Kind) String() string {
	switch k {
	case KindTracks:
		return "tracks"
	case KindAlbums:
		return "albums"
	case KindArtists:
		return "artists"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) valid() bool {
	switch k {
	case KindTracks, KindAlbums, KindArtists:
		return true
	}
	return false
}

// ParseKind maps a kind name like "tracks" to its Kind.
//
// Returns ErrUnknownKind for anything else; useful for CLI flags.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "tracks":
		return KindTracks, nil
	case "albums":
		return KindAlbums, nil
	case "artists":
		return KindArtists, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}
