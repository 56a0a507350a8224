package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"cpainsight/internal/model"
)

// redisStore keeps run slots as JSON values in Redis with a TTL, so
// abandoned runs fall out on their own.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed pipeline store.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (s *redisStore) key(runID, slot string) string {
	return fmt.Sprintf("run:%s:%s", runID, slot)
}

func (s *redisStore) set(ctx context.Context, runID, slot string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(runID, slot), data, s.ttl).Err()
}

// get unmarshals a slot into out, reporting found=false on a missing key.
func (s *redisStore) get(ctx context.Context, runID, slot string, out any) (bool, error) {
	data, err := s.client.Get(ctx, s.key(runID, slot)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *redisStore) SetRecords(ctx context.Context, runID string, records []model.EvaluationRecord) error {
	return s.set(ctx, runID, slotRecords, records)
}

func (s *redisStore) Records(ctx context.Context, runID string) ([]model.EvaluationRecord, error) {
	var records []model.EvaluationRecord
	found, err := s.get(ctx, runID, slotRecords, &records)
	if err != nil || !found {
		return nil, err
	}
	return records, nil
}

func (s *redisStore) SetQuery(ctx context.Context, runID string, query *model.StructuredQuery) error {
	return s.set(ctx, runID, slotQuery, query)
}

func (s *redisStore) Query(ctx context.Context, runID string) (*model.StructuredQuery, error) {
	var query model.StructuredQuery
	found, err := s.get(ctx, runID, slotQuery, &query)
	if err != nil || !found {
		return nil, err
	}
	return &query, nil
}

func (s *redisStore) SetNumericAnalysis(ctx context.Context, runID string, analysis *model.NumericAnalysis) error {
	return s.set(ctx, runID, slotNumeric, analysis)
}

func (s *redisStore) NumericAnalysis(ctx context.Context, runID string) (*model.NumericAnalysis, error) {
	var analysis model.NumericAnalysis
	found, err := s.get(ctx, runID, slotNumeric, &analysis)
	if err != nil || !found {
		return nil, err
	}
	return &analysis, nil
}

func (s *redisStore) SetTextAnalysis(ctx context.Context, runID string, analysis *model.TextAnalysis) error {
	return s.set(ctx, runID, slotText, analysis)
}

func (s *redisStore) TextAnalysis(ctx context.Context, runID string) (*model.TextAnalysis, error) {
	var analysis model.TextAnalysis
	found, err := s.get(ctx, runID, slotText, &analysis)
	if err != nil || !found {
		return nil, err
	}
	return &analysis, nil
}

func (s *redisStore) SetSummary(ctx context.Context, runID string, summary *model.ConsolidatedSummary) error {
	return s.set(ctx, runID, slotSummary, summary)
}

func (s *redisStore) Summary(ctx context.Context, runID string) (*model.ConsolidatedSummary, error) {
	var summary model.ConsolidatedSummary
	found, err := s.get(ctx, runID, slotSummary, &summary)
	if err != nil || !found {
		return nil, err
	}
	return &summary, nil
}

func (s *redisStore) Clear(ctx context.Context, runID string) error {
	keys := make([]string, 0, len(allSlots))
	for _, slot := range allSlots {
		keys = append(keys, s.key(runID, slot))
	}
	return s.client.Del(ctx, keys...).Err()
}
