package moremodels

// Address is a postal address.
// It is shared between [Account] style models living in other packages.
type Address struct {
	// Street holds the street name and number.
	Street string `json:"street"`
	City   string `json:"city"`
	// Country is an ISO 3166 alpha-2 code.
	Country string `json:"country"`
}
