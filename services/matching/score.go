package matching

import (
	"math"

	"gigmatch/models"
)

// RelevanceScore weighs rating (40), response time (30), price (20) and
// experience (10). Inputs outside their valid ranges are clamped so the
// result stays within [0, 100].
func RelevanceScore(perf models.Performance, finalRate float64) float64 {
	rating := clamp(perf.Rating, 0, 5)
	response := math.Max(0, perf.ResponseTimeMinutes)
	rate := math.Max(0, finalRate)
	events := math.Max(0, float64(perf.TotalEvents))

	ratingScore := rating / 5 * 40
	responseScore := math.Max(0, (120-response)/120) * 30
	priceScore := math.Max(0, (200-rate)/200) * 20
	experienceScore := math.Min(10, events/10)

	return ratingScore + responseScore + priceScore + experienceScore
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
