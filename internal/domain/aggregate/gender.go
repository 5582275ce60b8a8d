package aggregate

import (
	"strconv"
	"strings"

	"github.com/okian/laureates/internal/domain/model"
)

// NoDataLabel is the card value shown when the filtered set is empty.
const NoDataLabel = "0 %"

// GenderPercentages computes the male and female share of records,
// rounded to two decimals. Records of unknown gender count toward the
// total only, so MalePct+FemalePct can fall short of 100.
func GenderPercentages(records []model.Record) GenderSplit {
	split := GenderSplit{Total: len(records)}
	if split.Total == 0 {
		split.NoData = true
		split.MaleLabel = NoDataLabel
		split.FemaleLabel = NoDataLabel
		return split
	}

	for _, r := range records {
		switch r.Gender {
		case model.GenderMale:
			split.Male++
		case model.GenderFemale:
			split.Female++
		}
	}

	split.MalePct = round2(100 * float64(split.Male) / float64(split.Total))
	split.FemalePct = round2(100 * float64(split.Female) / float64(split.Total))
	split.MaleLabel = FormatPercent(split.MalePct)
	split.FemaleLabel = FormatPercent(split.FemalePct)
	return split
}

// FormatPercent renders a percentage with the shortest decimal form and at
// least one fractional digit: 42.31 -> "42.31 %", 50 -> "50.0 %".
func FormatPercent(pct float64) string {
	s := strconv.FormatFloat(pct, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + " %"
}

// round2 rounds to two decimals from the exact binary value, ties to even,
// so that 96.875 and 3.125 become 96.88 and 3.12 and never sum above 100.
func round2(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}
