package models

// Listing scrape status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Sentinel values used when a page element could not be located. Downstream
// consumers check for these instead of missing keys.
const (
	NameNotFound        = "Not found"
	DescriptionNotFound = "No description found."
)

// ListingResult is the single document produced by one scrape invocation.
// Every field is always present and type-correct: ImageURLs is never nil,
// Description is never empty, HotelName and CanonicalURL are null only when
// genuinely inapplicable. The worker binary emits exactly this object as one
// JSON document on stdout.
type ListingResult struct {
	// Status is "success" when the page loaded and parsing completed,
	// "error" otherwise. Partial extraction failures do not force "error".
	Status string `json:"status"`

	// HotelName is the listing title, or null when the title element was
	// absent and no sentinel was recorded.
	HotelName *string `json:"hotel_name"`

	// Description is the property description, or a sentinel when absent.
	Description string `json:"description"`

	// ImageURLs preserves first-seen order and contains no duplicates.
	ImageURLs []string `json:"image_urls"`

	// BookingURL is the final URL after redirects, not the input URL. It is
	// null only when the invocation never had a target (usage errors).
	BookingURL *string `json:"booking_url"`

	// CanonicalURL is the stable identity key derived from BookingURL,
	// or null when BookingURL has no host.
	CanonicalURL *string `json:"booking_url_canon"`

	// Message carries a human-readable diagnostic on error or
	// partial-failure paths.
	Message string `json:"message,omitempty"`

	// DegradedSteps lists gallery interaction steps that failed but did
	// not abort the scrape.
	DegradedSteps []string `json:"degraded_steps,omitempty"`
}

// NewListingResult returns a success-shaped result with all defaults filled.
func NewListingResult(bookingURL string, canon *string) *ListingResult {
	r := &ListingResult{
		Status:       StatusSuccess,
		HotelName:    nil,
		Description:  DescriptionNotFound,
		ImageURLs:    []string{},
		CanonicalURL: canon,
	}
	if bookingURL != "" {
		r.BookingURL = &bookingURL
	}
	return r
}

// NewListingError returns an error-shaped result carrying only the input URL,
// its canonical key and a diagnostic message.
func NewListingError(bookingURL string, canon *string, message string) *ListingResult {
	r := NewListingResult(bookingURL, canon)
	r.Status = StatusError
	r.Message = message
	return r
}

// Normalize fills any zero-valued field with its type-correct default so the
// serialized document always satisfies the output contract.
func (r *ListingResult) Normalize() {
	if r.Status == "" {
		r.Status = StatusError
	}
	if r.Description == "" {
		r.Description = DescriptionNotFound
	}
	if r.ImageURLs == nil {
		r.ImageURLs = []string{}
	}
}

// TaggedImage pairs a harvested image URL with the tags the vision service
// assigned to it. An image that failed tagging carries an empty tag list.
type TaggedImage struct {
	ImageURL string   `json:"image_url"`
	Tags     []string `json:"tags"`
}

// Post is one ready-to-publish social media post.
type Post struct {
	ImageURL string   `json:"image_url"`
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
}
