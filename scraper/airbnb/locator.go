package airbnb

import (
	"regexp"

	"airbnb-reviews/models"
)

// roomsPattern matches a /rooms/<digits> path segment.
var roomsPattern = regexp.MustCompile(`/rooms/(\d+)(?:[/?#]|$)`)

// ExtractReference derives the listing reference from a locator such as
// "https://www.airbnb.com/rooms/20669368?adults=2".
func ExtractReference(locator string) (models.ListingReference, error) {
	m := roomsPattern.FindStringSubmatch(locator)
	if m == nil {
		return models.ListingReference{}, &InvalidLocatorError{Locator: locator}
	}
	return models.ListingReference{ID: m[1], Locator: locator}, nil
}
