package probe

import (
	"bytes"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// decodeBody reads up to maxBytes of a response body and converts it to
// UTF-8 using the charset advertised in the Content-Type header, falling
// back to content sniffing. Evidence patterns are matched against the
// decoded text so non-UTF-8 profile pages still verify.
//
// On any decoding problem the raw bytes are returned as-is rather than
// failing the probe; a partially matchable body beats no body.
func decodeBody(r io.Reader, contentType string, maxBytes int64) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxBytes))
	if err != nil {
		return "", err
	}

	cr, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return string(raw), nil
	}
	decoded, err := io.ReadAll(cr)
	if err != nil {
		return string(raw), nil
	}
	return string(decoded), nil
}

// pageTitle extracts the HTML <title> of a page, or "" when the body has
// none or does not parse. Only computed for persisting hits, where the
// title enriches export and history records.
func pageTitle(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
