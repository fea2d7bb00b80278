// File: database/repository/presence/redis.go
package presenceRepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"gigmatch/models"

	"github.com/go-redis/redis/v8"
)

func (r *redisPresenceRepo) ReadPresence(ctx context.Context, musicianID string) (*models.PresenceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	data, err := r.client.Get(ctx, recordKey(musicianID)).Bytes()
	if err == redis.Nil {
		return nil, ErrPresenceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read presence for %s: %w", musicianID, err)
	}
	var record models.PresenceRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode presence for %s: %w", musicianID, err)
	}
	return &record, nil
}

// UpsertPresence merges update into the stored record inside a WATCH/MULTI
// transaction, retrying when another writer touched the record first.
func (r *redisPresenceRepo) UpsertPresence(ctx context.Context, musicianID string, update models.PresenceUpdate) (*models.PresenceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	key := recordKey(musicianID)
	var result models.PresenceRecord

	txf := func(tx *redis.Tx) error {
		var existing models.PresenceRecord
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case err == redis.Nil:
		case err != nil:
			return err
		default:
			if err := json.Unmarshal(data, &existing); err != nil {
				return fmt.Errorf("decode presence: %w", err)
			}
		}

		updated := existing.Apply(musicianID, update)
		payload, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("encode presence: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			pipe.ZAdd(ctx, heartbeatsKey, &redis.Z{
				Score:  float64(updated.LastHeartbeatAt.UnixMilli()),
				Member: musicianID,
			})
			return nil
		})
		if err == nil {
			result = updated
		}
		return err
	}

	for attempt := 0; attempt < maxUpsertRetries; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return &result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, fmt.Errorf("failed to upsert presence for %s: %w", musicianID, err)
	}
	return nil, fmt.Errorf("failed to upsert presence for %s: too many concurrent writers", musicianID)
}

func (r *redisPresenceRepo) ListOnline(ctx context.Context, since time.Time) ([]models.PresenceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ids, err := r.client.ZRangeByScore(ctx, heartbeatsKey, &redis.ZRangeBy{
		Min: strconv.FormatInt(since.UnixMilli(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list recent heartbeats: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = recordKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load presence records: %w", err)
	}

	records := make([]models.PresenceRecord, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Indexed but the record is gone; nothing to report.
			continue
		}
		var record models.PresenceRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, fmt.Errorf("failed to decode presence for %s: %w", ids[i], err)
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].MusicianID < records[j].MusicianID
	})
	return records, nil
}
