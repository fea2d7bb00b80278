// File: gigmatch/handlers/bundle.go
package handlers

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	PresenceHandler     *PresenceHandler
	AvailabilityHandler *AvailabilityHandler
	RateHandler         *RateHandler
	MatchingHandler     *MatchingHandler
	HealthHandler       *HealthHandler
}
