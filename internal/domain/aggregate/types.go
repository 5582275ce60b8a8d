// Package aggregate reduces a filtered record set to the dashboard views:
// per-country counts, gender percentages, per-category counts and the
// year/age series with its least-squares trend.
//
// Every function here is pure and safe to call on an empty slice.
package aggregate

// CountryCount is the number of laureates born in one country.
type CountryCount struct {
	Country string `json:"country"`
	Name    string `json:"name,omitempty"`
	Count   int    `json:"count"`
}

// CategoryCount is the number of awards in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// YearAge is one scatter point.
type YearAge struct {
	Year int `json:"year"`
	Age  int `json:"age"`
}

// GenderSplit holds the share of male and female laureates.
// Labels are the rendered card values, e.g. "42.31 %".
type GenderSplit struct {
	Total       int     `json:"total"`
	Male        int     `json:"male"`
	Female      int     `json:"female"`
	MalePct     float64 `json:"male_pct"`
	FemalePct   float64 `json:"female_pct"`
	MaleLabel   string  `json:"male_label"`
	FemaleLabel string  `json:"female_label"`
	NoData      bool    `json:"no_data"`
}

// Trendline is an ordinary least squares fit of age on year.
// Valid is false when the fit is undefined (fewer than two points or
// every point in the same year).
type Trendline struct {
	Valid     bool    `json:"valid"`
	N         int     `json:"n"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
	YearMin   int     `json:"year_min"`
	YearMax   int     `json:"year_max"`
}

// At evaluates the fitted line at year.
func (t Trendline) At(year int) float64 {
	return t.Intercept + t.Slope*float64(year)
}
