// Package markup provides class-based element queries over HTML
// fragments returned by the Yandex Music fragment endpoints.
//
// The package wraps golang.org/x/net/html with the small query surface
// the extraction code needs: find elements by tag and class tokens,
// read attributes, and collect text content.
//
// # Basic Usage
//
//	doc, err := markup.Parse(body)
//	if err != nil {
//	    return err
//	}
//
//	for _, row := range doc.FindAll("div", "b-track") {
//	    onclick, ok := row.Attr("onclick")
//	    if !ok {
//	        continue
//	    }
//	    // decode the embedded data literal
//	}
//
// # Class Matching
//
// Class queries are token based: every space-separated token of the
// query must appear among the element's class tokens, so a query for
// "b-track" matches class="b-track b-track_type_track js-track".
package markup
