// Package dto holds the raw record shapes decoded from the data
// literals embedded in Yandex Music fragment pages.
//
// The fragment pages carry per-row data as JavaScript object literals in
// onclick attributes. After quote repair those literals are strict JSON
// and decode into the types here. Each extraction source has its own
// record type; conversion into canonical entities happens through
// explicit adapters on the yamusic client, never inside this package.
package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is a numeric entity id that may arrive either as a JSON number or
// as a string. Whitespace around string forms is tolerated.
type ID int

// UnmarshalJSON decodes an id from a number or a numeric string.
func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
	}
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", s, err)
	}
	*id = ID(n)
	return nil
}

// Valid reports whether the id is a usable positive integer.
func (id ID) Valid() bool { return id > 0 }

// Track is the record embedded in one track row.
//
// Search result rows and album detail rows share this shape; search
// rows additionally carry the owning artist and album fields, album
// detail rows carry duration and storage_dir.
type Track struct {
	ID          ID      `json:"id"`
	Title       string  `json:"title"`
	ArtistID    ID      `json:"artist_id"`
	ArtistTitle string  `json:"artist"`
	AlbumID     ID      `json:"album_id"`
	AlbumTitle  string  `json:"album"`
	Cover       string  `json:"cover"`
	StorageDir  string  `json:"storage_dir"`
	Duration    float64 `json:"duration"`
}

// Album is the record embedded in one artist-page album row. The row
// carries the album's full track list inline, so albums discovered this
// way never need a detail fetch of their own.
type Album struct {
	ID     ID      `json:"id"`
	Title  string  `json:"title"`
	Cover  string  `json:"cover"`
	Tracks []Track `json:"tracks"`
}

// DecodeTrack parses a repaired track literal.
//
// Construction fails if the id is missing or non-numeric; a record
// without a usable id must never enter the identity cache.
func DecodeTrack(literal string) (Track, error) {
	var t Track
	if err := json.Unmarshal([]byte(literal), &t); err != nil {
		return Track{}, err
	}
	if !t.ID.Valid() {
		return Track{}, fmt.Errorf("track record has no usable id")
	}
	return t, nil
}

// DecodeAlbum parses a repaired album-with-tracks literal.
func DecodeAlbum(literal string) (Album, error) {
	var a Album
	if err := json.Unmarshal([]byte(literal), &a); err != nil {
		return Album{}, err
	}
	if !a.ID.Valid() {
		return Album{}, fmt.Errorf("album record has no usable id")
	}
	return a, nil
}
