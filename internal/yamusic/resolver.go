package yamusic

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strings"
)

// downloadInfo is the second storage descriptor: where the file lives
// and the material needed to sign a URL for it.
type downloadInfo struct {
	Host string `xml:"host"`
	Path string `xml:"path"`
	TS   string `xml:"ts"`
	S    string `xml:"s"`
}

// resolveTrackURL derives the authenticated media URL for a track from
// its storage locator.
//
// The protocol is two chained lookups against the storage service:
//
//  1. Fetch the descriptor at <storage>/get/<dir>/2.xml and read the
//     filename attribute of its sole track record.
//  2. Fetch <storage>/download-info/<dir>/<filename> and read host,
//     path, the salt value s, and the timestamp ts.
//
// The digest is then MD5 over the shared secret, the path with its
// leading separator stripped, and the salt, with CRLF pairs normalized
// to bare newlines first. The final URL carries the digest, timestamp,
// path, track id, and the configured region and source tags; it is
// valid only for the time window the timestamp implies.
func (c *Client) resolveTrackURL(ctx context.Context, track *Track) (string, error) {
	if track.StorageDir == "" {
		return "", fmt.Errorf("track %d: %w", track.ID, ErrNoStorageDir)
	}

	infoURL := fmt.Sprintf("%s/get/%s/2.xml", c.opts.StorageURL, track.StorageDir)
	data, err := c.fetcher.Fetch(ctx, infoURL)
	if err != nil {
		return "", fmt.Errorf("storage descriptor: %w", err)
	}
	filename, err := storageFilename(data)
	if err != nil {
		return "", fmt.Errorf("storage descriptor: %w", err)
	}

	dlURL := fmt.Sprintf("%s/download-info/%s/%s", c.opts.StorageURL, track.StorageDir, filename)
	data, err = c.fetcher.Fetch(ctx, dlURL)
	if err != nil {
		return "", fmt.Errorf("download info: %w", err)
	}
	var info downloadInfo
	if err := xml.Unmarshal(data, &info); err != nil {
		return "", fmt.Errorf("download info: %w", err)
	}
	if info.Host == "" || info.Path == "" {
		return "", fmt.Errorf("download info for %s is incomplete", track.StorageDir)
	}

	key := signPath(c.opts.SigningSecret, info.Path, info.S)
	return fmt.Sprintf(
		"http://%s/get-mp3/%s/%s%s?track-id=%d&region=%s&from=%s",
		info.Host, key, info.TS, info.Path, track.ID, c.opts.Region, c.opts.Source,
	), nil
}

// signPath computes the hex digest the storage service expects: MD5 of
// the secret, the path without its leading slash, and the salt, with
// CRLF pairs collapsed to newlines.
func signPath(secret, path, salt string) string {
	payload := strings.TrimPrefix(path, "/") + salt
	payload = strings.ReplaceAll(payload, "\r\n", "\n")
	sum := md5.Sum([]byte(secret + payload))
	return hex.EncodeToString(sum[:])
}

// storageFilename reads the filename attribute off the first track
// element of the first storage descriptor, wherever it nests.
func storageFilename(data []byte) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("no track element in descriptor")
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "track" {
			continue
		}
		for _, attr := range start.Attr {
			if attr.Name.Local == "filename" {
				return attr.Value, nil
			}
		}
		return "", fmt.Errorf("track element has no filename attribute")
	}
}
