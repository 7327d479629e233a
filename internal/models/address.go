package models

// Address locates a profile. Country, province and city are filterable.
type Address struct {
	Country       string `json:"country"`
	Province      string `json:"province"`
	City          string `json:"city"`
	StreetAddress string `json:"streetAddress"`
}
