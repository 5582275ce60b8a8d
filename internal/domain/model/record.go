// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Gender of a laureate as recorded in the source data.
type Gender string

// Known genders. Anything else in the source (e.g. "org") is Unknown.
const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// ParseGender normalizes a raw gender value.
func ParseGender(raw string) Gender {
	switch Gender(strings.ToLower(strings.TrimSpace(raw))) {
	case GenderMale:
		return GenderMale
	case GenderFemale:
		return GenderFemale
	default:
		return GenderUnknown
	}
}

// Record is one prize-award event.
type Record struct {
	Year        int       // award year
	Category    string    // prize category, e.g. "physics"
	Gender      Gender    // laureate gender
	Born        time.Time // birth date; zero when unknown
	BornCountry string    // free-text birth country from the source
	CountryISO3 *string   // ISO 3166-1 alpha-3 code, nil when the name did not resolve
}

// Age returns the laureate's age in the award year, computed as
// Year - Born.Year(). ok is false when the birth date is unknown.
func (r Record) Age() (age int, ok bool) {
	if r.Born.IsZero() {
		return 0, false
	}
	return r.Year - r.Born.Year(), true
}

// Country returns the ISO3 code and whether one is present.
func (r Record) Country() (string, bool) {
	if r.CountryISO3 == nil {
		return "", false
	}
	return *r.CountryISO3, true
}
