package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rapidbounce/staypress/models"
)

// Selectors for the static content of the property page.
const (
	selHotelName      = "h2.pp-header__title"
	selDescription    = "p[data-testid='property-description']"
	selDescriptionAlt = "#property_description_content"
)

// bstaticHotelPrefix marks full-resolution hotel photos on Booking's CDN.
const bstaticHotelPrefix = "cf.bstatic.com/xdata/images/hotel"

// parseListing extracts the hotel name and description from rendered page
// HTML. Each field is independently best-effort: a missing element yields
// its sentinel, never an error.
func parseListing(html string) (name *string, description string) {
	description = models.DescriptionNotFound

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		n := models.NameNotFound
		return &n, description
	}

	if el := doc.Find(selHotelName).First(); el.Length() > 0 {
		if text := strings.TrimSpace(el.Text()); text != "" {
			name = &text
		}
	}
	if name == nil {
		n := models.NameNotFound
		name = &n
	}

	if el := doc.Find(selDescription).First(); el.Length() > 0 {
		if text := normalizeSpace(el.Text()); text != "" {
			description = text
		}
	} else if el := doc.Find(selDescriptionAlt).First(); el.Length() > 0 {
		if text := normalizeSpace(el.Text()); text != "" {
			description = text
		}
	}

	return name, description
}

// staticImageURLs harvests hotel photo URLs from unrendered page HTML.
// Only the CDN-hosted hotel images count; order of appearance is kept and
// duplicates are dropped.
func staticImageURLs(html string, bound int) []string {
	images := newImageSet(bound)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return images.URLs()
	}

	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if strings.Contains(src, bstaticHotelPrefix) {
			images.Add(src)
		}
	})

	return images.URLs()
}

// normalizeSpace collapses runs of whitespace into single spaces and trims.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
