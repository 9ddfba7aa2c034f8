package feeds

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// htmlToText strips all markup from the fragment and collapses runs of
// whitespace, returning the original string when the fragment cannot be
// parsed.
func htmlToText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// extractFirstImage pulls the src of the first <img> out of the fragment and
// returns the fragment with that element removed. The image is rendered
// natively by consumers, so it must not stay inline in the details. Fragments
// without an <img> tag pass through untouched.
func extractFirstImage(fragment string) (imageURL, remainder string) {
	if !strings.Contains(fragment, "<img") {
		return "", fragment
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fragment
	}

	img := doc.Find("img").First()
	if img.Length() == 0 {
		return "", fragment
	}

	src, _ := img.Attr("src")
	img.Remove()

	html, err := doc.Find("body").Html()
	if err != nil {
		return src, fragment
	}
	return src, html
}
