// Package address turns the free text of an SMS into delivery address fields.
package address

import (
	"regexp"
	"strings"

	"github.com/yeremiapane/resto-panel/models"
)

const DefaultCountry = "France"

var zipAnchor = regexp.MustCompile(`\d{5}`)

// Fragment is a parsed address. Empty fields mean "not found in the text".
type Fragment struct {
	Street  string `json:"street"`
	ZipCode string `json:"zipCode"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// Partial -> neither a postal code nor a city could be read
func (f Fragment) Partial() bool {
	return f.ZipCode == "" && f.City == ""
}

// Parse never fails. The leftmost run of five digits is the postal code,
// text before it is the street and text after it the city. Without such a run
// the whole text is the street.
func Parse(text string, defaultCountry string) Fragment {
	if defaultCountry == "" {
		defaultCountry = DefaultCountry
	}
	text = strings.TrimSpace(text)

	loc := zipAnchor.FindStringIndex(text)
	if loc == nil {
		return Fragment{Street: text, Country: defaultCountry}
	}

	return Fragment{
		Street:  strings.TrimSpace(text[:loc[0]]),
		ZipCode: text[loc[0]:loc[1]],
		City:    strings.TrimSpace(text[loc[1]:]),
		Country: defaultCountry,
	}
}

// LooksLikeAddress reports whether text contains at least one decimal digit.
func LooksLikeAddress(text string) bool {
	return strings.IndexFunc(text, func(r rune) bool { return r >= '0' && r <= '9' }) >= 0
}

// Merge copies the non-empty fragment fields over base. Blank fields never erase existing data.
func Merge(base models.Address, frag Fragment) models.Address {
	if frag.Street != "" {
		base.Street = frag.Street
	}
	if frag.ZipCode != "" {
		base.ZipCode = frag.ZipCode
	}
	if frag.City != "" {
		base.City = frag.City
	}
	if frag.Country != "" && base.Country == "" {
		base.Country = frag.Country
	}
	return base
}

// FromAddress is the fragment view of an already structured address.
func FromAddress(a models.Address) Fragment {
	return Fragment{Street: a.Street, ZipCode: a.ZipCode, City: a.City, Country: a.Country}
}
