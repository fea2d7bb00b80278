// Command seed fills a development database with musicians, bookings and
// presence heartbeats around a fixed venue.
package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"gigmatch/config"
	"gigmatch/database"
	bookingRepo "gigmatch/database/repository/booking"
	musicianRepo "gigmatch/database/repository/musician"
	presenceRepo "gigmatch/database/repository/presence"
	"gigmatch/models"
	"gigmatch/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const musiciansPerInstrument = 8

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitPresenceCache()
	db := database.Database()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// Clear existing data.
	for _, coll := range []string{"musicians", "bookings"} {
		if _, err := db.Collection(coll).DeleteMany(ctx, bson.M{}); err != nil {
			logger.Fatal("Failed to clear collection", zap.String("collection", coll), zap.Error(err))
		}
	}

	musicians := musicianRepo.NewMongoMusicianRepo(db, cfg.StoreTimeout)
	bookings := bookingRepo.NewMongoBookingRepo(db, cfg.StoreTimeout)
	presence := presenceRepo.NewRedisPresenceRepo(utils.GetPresenceClient(), cfg.StoreTimeout)
	if err := musicians.EnsureIndexes(ctx); err != nil {
		logger.Fatal("Failed to ensure musician indexes", zap.Error(err))
	}
	if err := bookings.EnsureIndexes(ctx); err != nil {
		logger.Fatal("Failed to ensure booking indexes", zap.Error(err))
	}

	// Fixed venue for simulation (Nairobi CBD).
	venueLat, venueLng := -1.2864, 36.8172
	instruments := []string{"piano", "guitar", "violin", "drums", "saxophone", "vocals"}
	eventTypes := []string{"wedding", "corporate", "party", "concert", "church"}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	// Linearly assign distances: furthest musician at 60 km, closest at ~0.5 km.
	total := len(instruments) * musiciansPerInstrument
	maxDistance, minDistance := 60.0, 0.5
	spacing := (maxDistance - minDistance) / float64(total-1)

	var committed []models.CommittedBooking
	counter := 0
	for _, instrument := range instruments {
		for i := 0; i < musiciansPerInstrument; i++ {
			distanceKm := maxDistance - spacing*float64(counter)
			angle := rng.Float64() * 2 * math.Pi
			// 1 km is roughly 0.009 degrees near the equator.
			location := models.GeoPoint{
				Lat: venueLat + distanceKm*0.009*math.Sin(angle),
				Lng: venueLng + distanceKm*0.009*math.Cos(angle),
			}

			id := fmt.Sprintf("mus-%03d", counter+1)
			profile := models.MusicianProfile{
				ID:                  id,
				Name:                fmt.Sprintf("%s player %d", instrument, i+1),
				Instruments:         []string{instrument},
				EventTypes:          pick(rng, eventTypes, 1+rng.Intn(3)),
				HourlyRate:          float64(60 + rng.Intn(15)*10),
				Currency:            cfg.DefaultCurrency,
				Rating:              math.Round((3+rng.Float64()*2)*10) / 10,
				ResponseTimeMinutes: float64(5 + rng.Intn(150)),
				TotalEvents:         rng.Intn(150),
				Location:            location,
			}
			if i%4 == 3 {
				// Some musicians rely on instrument defaults.
				profile.HourlyRate = 0
			}
			if err := musicians.Upsert(ctx, profile); err != nil {
				logger.Fatal("Failed to upsert musician", zap.String("musicianId", id), zap.Error(err))
			}

			// One evening booking for every third musician, plus a cancelled one.
			if counter%3 == 0 {
				start := today.Add(time.Duration(17+rng.Intn(4)) * time.Hour)
				committed = append(committed, models.CommittedBooking{
					MusicianID: id,
					EventID:    uuid.New().String(),
					StartTime:  start,
					EndTime:    start.Add(2 * time.Hour),
					State:      models.BookingStateActive,
				})
			}
			if counter%5 == 0 {
				start := today.Add(20 * time.Hour)
				committed = append(committed, models.CommittedBooking{
					MusicianID: id,
					EventID:    uuid.New().String(),
					StartTime:  start,
					EndTime:    start.Add(time.Hour),
					State:      models.BookingStateCancelled,
				})
			}

			// Most musicians are online now; the rest reported long ago and read as stale.
			heartbeat := now
			if counter%6 == 5 {
				heartbeat = now.Add(-2 * cfg.PresenceStaleness)
			}
			available := counter%10 != 9
			perf := profile.Performance()
			if _, err := presence.UpsertPresence(ctx, id, models.PresenceUpdate{
				HeartbeatAt:     &heartbeat,
				CurrentLocation: &location,
				Availability:    &models.Availability{IsAvailable: available},
				Performance:     &perf,
			}); err != nil {
				logger.Fatal("Failed to write presence", zap.String("musicianId", id), zap.Error(err))
			}
			counter++
		}
	}

	ids, err := bookings.CreateMany(ctx, committed)
	if err != nil {
		logger.Fatal("Failed to insert bookings", zap.Error(err))
	}
	logger.Info("Seed complete",
		zap.Int("musicians", counter),
		zap.Int("bookings", len(ids)),
		zap.String("database", cfg.DatabaseName))
}

// pick returns n distinct values from values in random order.
func pick(rng *rand.Rand, values []string, n int) []string {
	shuffled := append([]string(nil), values...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
