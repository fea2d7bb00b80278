package pricing

import "gigmatch/models"

const (
	// GenericHourlyRate is the base when neither the profile nor the instrument table has a rate.
	GenericHourlyRate = 100.0
	// WeekendSurcharge applies to events on Friday or Saturday.
	WeekendSurcharge = 1.15
	// ComparableLimit caps how many comparable musicians feed the recommendations.
	ComparableLimit = 5
	// GeneralCategory is used for eventType and instrument when the caller gives none.
	GeneralCategory = "general"
)

// Hourly defaults by instrument.
var instrumentRates = map[string]float64{
	"piano":      120,
	"keyboard":   100,
	"guitar":     90,
	"bass":       85,
	"drums":      95,
	"violin":     110,
	"cello":      115,
	"saxophone":  105,
	"trumpet":    100,
	"vocals":     110,
	"dj":         130,
	"harp":       140,
	"percussion": 85,
}

// Multipliers by event category. Unknown categories price at 1.0.
var eventTypeMultipliers = map[string]float64{
	"wedding":   1.5,
	"corporate": 1.4,
	"gala":      1.6,
	"concert":   1.3,
	"festival":  1.25,
	"party":     1.1,
	"funeral":   1.0,
	"church":    0.9,
	"private":   1.2,
	"general":   1.0,
}

func instrumentRate(instrument string) (float64, bool) {
	rate, ok := instrumentRates[models.NormalizeKey(instrument)]
	return rate, ok
}

func eventTypeMultiplier(eventType string) float64 {
	if m, ok := eventTypeMultipliers[models.NormalizeKey(eventType)]; ok {
		return m
	}
	return 1.0
}
