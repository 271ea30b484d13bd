// Package booking normalizes Booking.com listing URLs.
//
// The same hotel page is reachable under many surface forms: http vs https,
// regional or mobile subdomains, trailing slashes, mixed-case paths and
// per-locale filename suffixes. Canonicalize collapses all of them to one
// stable identity key so repeated scrapes of the same listing deduplicate.
package booking

import (
	"net/url"
	"strings"
)

// baseDomain is the listing site; any subdomain of it collapses to the
// canonical www host.
const (
	baseDomain    = "booking.com"
	canonicalHost = "www.booking.com"
)

// Locale filename suffixes the listing site encodes into hotel page URLs.
// These are the only two patterns RewriteLanguage touches.
const (
	suffixEnglish = ".en-gb.html"
	suffixGreek   = ".el-gr.html"
)

// Canonicalize reduces a raw listing URL to its identity key.
//
// The key is https + canonical host + lower-cased path with a trailing slash
// stripped; query and fragment are discarded. Returns "" when the input has
// no host (not an absolute URL), signalling that canonicalization is
// inapplicable.
func Canonicalize(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}

	host := strings.ToLower(u.Host)
	if strings.HasSuffix(host, baseDomain) {
		host = canonicalHost
	}

	path := strings.ToLower(strings.TrimSuffix(u.Path, "/"))

	canon := url.URL{
		Scheme: "https",
		Host:   host,
		Path:   path,
	}
	return canon.String()
}

// CanonicalizePtr is Canonicalize with a *string result for JSON documents
// where an inapplicable key must serialize as null.
func CanonicalizePtr(raw string) *string {
	if key := Canonicalize(raw); key != "" {
		return &key
	}
	return nil
}

// RewriteLanguage swaps the locale filename suffix of a listing URL when the
// requested language differs from the one encoded in the URL. Only the two
// known suffix patterns are touched; anything else passes through unchanged.
func RewriteLanguage(rawURL, language string) string {
	lang := strings.ToLower(language)
	if lang == "" {
		lang = "en"
	}

	switch {
	case lang == "el" && strings.Contains(rawURL, suffixEnglish):
		return strings.Replace(rawURL, suffixEnglish, suffixGreek, 1)
	case lang == "en" && strings.Contains(rawURL, suffixGreek):
		return strings.Replace(rawURL, suffixGreek, suffixEnglish, 1)
	}
	return rawURL
}
