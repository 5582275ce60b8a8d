package aggregate

import "github.com/okian/laureates/internal/domain/model"

// YearAgeSeries returns one point per record with a known age, in input
// order. Records without an age are dropped rather than plotted at zero.
func YearAgeSeries(records []model.Record) []YearAge {
	out := make([]YearAge, 0, len(records))
	for _, r := range records {
		age, ok := r.Age()
		if !ok {
			continue
		}
		out = append(out, YearAge{Year: r.Year, Age: age})
	}
	return out
}

// Trend fits age = Intercept + Slope*year by ordinary least squares.
func Trend(points []YearAge) Trendline {
	t := Trendline{N: len(points)}
	if t.N < 2 {
		return t
	}

	t.YearMin, t.YearMax = points[0].Year, points[0].Year
	var sumX, sumY float64
	for _, p := range points {
		sumX += float64(p.Year)
		sumY += float64(p.Age)
		t.YearMin = min(t.YearMin, p.Year)
		t.YearMax = max(t.YearMax, p.Year)
	}
	n := float64(t.N)
	meanX, meanY := sumX/n, sumY/n

	var sxx, sxy, syy float64
	for _, p := range points {
		dx := float64(p.Year) - meanX
		dy := float64(p.Age) - meanY
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	if sxx == 0 {
		return t
	}

	t.Valid = true
	t.Slope = sxy / sxx
	t.Intercept = meanY - t.Slope*meanX
	if syy == 0 {
		// Every age equal: the horizontal fit is exact.
		t.RSquared = 1
	} else {
		t.RSquared = (sxy * sxy) / (sxx * syy)
	}
	return t
}
