package yamusic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/avdeev/yamusic-dl/internal/markup"
	"github.com/avdeev/yamusic-dl/internal/yamusic/dto"
)

// Structural marker classes on the fragment pages. The site offers no
// structured API; these class names are the contract, and extraction is
// written to fail row by row rather than page by page when they drift.
const (
	classTrack       = "b-track"
	classTrackDetail = "b-track b-track_type_track js-track"
	classAlbumItem   = "b-albums"
	classAlbumCover  = "b-albums__cover"
	classAlbumTitle  = "b-link_class_albums-title-link"
	classAlbumArtist = "b-link_class_albums-artist-link"
	classArtistGroup = "b-artist-group"
	classAlbumRow    = "b-album-control"
	classPageTitle   = "b-title__title"
	classPageArtist  = "b-title__artist"
	classPagerPage   = "b-pager__page"
	classPagerActive = "b-pager__current"
)

// onclick literals are wrapped in a return statement.
const onclickPrefix = "return "

// albumRecord is an album reconstructed from the nested nodes of one
// search-result item. Unlike track rows there is no embedded literal;
// every field comes from a separate link or image node.
type albumRecord struct {
	ID          int
	Title       string
	Cover       string
	ArtistID    int
	ArtistTitle string
}

// artistRecord is an artist from one search-result group.
type artistRecord struct {
	ID    int
	Title string
}

// pagerInfo is the pagination metadata of one search-results page.
type pagerInfo struct {
	// Current is the 1-based page number the page declares for itself.
	Current int
	// Total is the declared total page count.
	Total int
	// Found reports whether the page carried a pager control at all.
	// Single-page result sets render no pager.
	Found bool
}

// rowLiteral pulls the object literal out of a row's onclick attribute
// and repairs its quoting. Returns false when the row carries no usable
// literal; the caller skips that row.
func rowLiteral(row *markup.Node) (string, bool) {
	onclick, ok := row.Attr("onclick")
	if !ok {
		return "", false
	}
	literal := strings.TrimPrefix(onclick, onclickPrefix)
	if literal == onclick && !strings.HasPrefix(strings.TrimSpace(literal), "{") {
		return "", false
	}
	return RepairQuotes(literal), true
}

// extractTrackRows decodes every track row on a page. Rows whose
// literal is missing or fails to decode even after quote repair are
// dropped, never fatal for the page.
func extractTrackRows(doc *markup.Document) []dto.Track {
	var records []dto.Track
	for _, row := range doc.FindAll("div", classTrack) {
		literal, ok := rowLiteral(row)
		if !ok {
			continue
		}
		rec, err := dto.DecodeTrack(literal)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// extractAlbumItems reconstructs album records from the nested nodes of
// a search-results page: id and cover from the cover link/image pair,
// title and artist from their marker links. Items missing the cover
// link are dropped.
func extractAlbumItems(doc *markup.Document) []albumRecord {
	var records []albumRecord
	for _, item := range doc.FindAll("div", classAlbumItem) {
		var rec albumRecord

		cover := item.Find("div", classAlbumCover)
		if cover == nil {
			continue
		}
		link := cover.Find("a", "")
		if link == nil {
			continue
		}
		href, _ := link.Attr("href")
		id, err := trailingID(href)
		if err != nil {
			continue
		}
		rec.ID = id
		if img := link.Find("img", ""); img != nil {
			rec.Cover, _ = img.Attr("src")
		}

		if title := item.Find("a", classAlbumTitle); title != nil {
			rec.Title = markup.StripTags(title.Text())
		}
		if artist := item.Find("a", classAlbumArtist); artist != nil {
			rec.ArtistTitle = markup.StripTags(artist.Text())
			if href, ok := artist.Attr("href"); ok {
				if id, err := trailingID(href); err == nil {
					rec.ArtistID = id
				}
			}
		}

		records = append(records, rec)
	}
	return records
}

// extractArtistGroups reads artist records from a search-results page.
// Each group carries a sole link whose href ends in the artist id.
func extractArtistGroups(doc *markup.Document) []artistRecord {
	var records []artistRecord
	for _, group := range doc.FindAll("div", classArtistGroup) {
		link := group.Find("a", "")
		if link == nil {
			continue
		}
		href, _ := link.Attr("href")
		id, err := trailingID(href)
		if err != nil {
			continue
		}
		records = append(records, artistRecord{
			ID:    id,
			Title: markup.StripTags(link.Text()),
		})
	}
	return records
}

// extractArtistDetail reads an artist detail page: the display title and
// one album-with-nested-tracks literal per album row. Rows whose
// literal fails to decode are dropped.
func extractArtistDetail(doc *markup.Document) (title string, albums []dto.Album) {
	if h1 := doc.Find("h1", classPageTitle); h1 != nil {
		title = markup.StripTags(h1.Text())
	}
	for _, row := range doc.FindAll("div", classAlbumRow) {
		literal, ok := rowLiteral(row)
		if !ok {
			continue
		}
		rec, err := dto.DecodeAlbum(literal)
		if err != nil {
			continue
		}
		albums = append(albums, rec)
	}
	return title, albums
}

// extractAlbumDetail reads an album detail page: the album title, the
// owning artist reference, and one track literal per row.
func extractAlbumDetail(doc *markup.Document) (title string, artist artistRecord, tracks []dto.Track) {
	if h1 := doc.Find("h1", classPageTitle); h1 != nil {
		title = markup.StripTags(h1.Text())
	}
	if div := doc.Find("div", classPageArtist); div != nil {
		if link := div.Find("a", ""); link != nil {
			if href, ok := link.Attr("href"); ok {
				if id, err := trailingID(href); err == nil {
					artist.ID = id
					artist.Title = markup.StripTags(link.Text())
				}
			}
		}
	}
	tracks = extractTrackRows(doc)
	return title, artist, tracks
}

// extractTrackDetail reads the sole track record from a track detail
// page.
func extractTrackDetail(doc *markup.Document) (dto.Track, error) {
	row := doc.Find("div", classTrackDetail)
	if row == nil {
		return dto.Track{}, fmt.Errorf("no track record on page")
	}
	literal, ok := rowLiteral(row)
	if !ok {
		return dto.Track{}, fmt.Errorf("track record has no data literal")
	}
	return dto.DecodeTrack(literal)
}

// extractPager reads pagination metadata from a search-results page.
//
// The total page count comes from the last page-number control. Very
// long result sets render the highest page number as an ellipsis; when
// the last control does not parse as an integer the second-to-last one
// is used instead. The current page comes from the current-page marker.
// Pages without a pager report Found false and the cursor falls back to
// counting pages itself.
func extractPager(doc *markup.Document) pagerInfo {
	pages := doc.FindAll("a", classPagerPage)
	if len(pages) == 0 {
		return pagerInfo{}
	}

	total, err := strconv.Atoi(strings.TrimSpace(pages[len(pages)-1].Text()))
	if err != nil {
		if len(pages) < 2 {
			return pagerInfo{}
		}
		total, err = strconv.Atoi(strings.TrimSpace(pages[len(pages)-2].Text()))
		if err != nil {
			return pagerInfo{}
		}
	}

	active := doc.Find("b", classPagerActive)
	if active == nil {
		return pagerInfo{}
	}
	current, err := strconv.Atoi(strings.TrimSpace(active.Text()))
	if err != nil {
		return pagerInfo{}
	}

	return pagerInfo{Current: current, Total: total, Found: true}
}

// trailingID parses the numeric id off the last segment of an href like
// /artist/42 or /album/7.
func trailingID(href string) (int, error) {
	href = strings.TrimSuffix(href, "/")
	idx := strings.LastIndexByte(href, '/')
	seg := href
	if idx >= 0 {
		seg = href[idx+1:]
	}
	id, err := strconv.Atoi(seg)
	if err != nil {
		return 0, fmt.Errorf("no trailing id in %q: %w", href, err)
	}
	return id, nil
}
