package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"fyndchans/listingworker/internal/graph"
)

// NextDataSelector finds the script element holding the page's data payload.
const NextDataSelector = "script#__NEXT_DATA__"

// Places the normalized graph is stored in the payload, tried in order.
var graphStatePaths = [][]string{
	{"props", "pageProps", "__APOLLO_STATE__"},
	{"props", "pageProps", "apolloState"},
	{"props", "__APOLLO_STATE__"},
}

// extractNextData returns the raw JSON text of the embedded payload.
func extractNextData(doc *goquery.Document) (string, bool) {
	script := doc.Find(NextDataSelector).First()
	if script.Length() == 0 {
		return "", false
	}
	text := strings.TrimSpace(script.Text())
	return text, text != ""
}

// graphFromPayload locates the normalized graph inside the decoded payload.
func graphFromPayload(payload graph.Value) (*graph.Graph, bool) {
	for _, path := range graphStatePaths {
		cur := payload
		for _, key := range path {
			cur = cur.Field(key)
		}
		if obj, ok := cur.AsObject(); ok && obj.Len() > 0 {
			return graph.New(obj), true
		}
	}
	return nil, false
}
