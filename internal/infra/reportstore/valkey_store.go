// Package reportstore persists uploaded lab reports per session so
// recommendation requests can reference earlier uploads without resending
// the metrics.
package reportstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/nuvia/nutrition-advisor/internal/domain/scoring"
)

// ValkeyStore keeps per-session lab metrics in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyStore constructs a store backed by Valkey. Entries expire after
// ttl; a non-positive ttl keeps them until explicitly evicted.
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "report"
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl}
}

// Put stores the session's lab metrics, replacing any earlier upload.
func (s *ValkeyStore) Put(ctx context.Context, sessionID string, metrics []scoring.LabMetric) error {
	payload, err := json.Marshal(metrics)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.key(sessionID)).Value(string(payload))
	var cmd valkey.Completed
	if s.ttl > 0 {
		ttl := s.ttl
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

// Get implements recommend.ReportStore. A session without an upload yields
// an empty slice, not an error.
func (s *ValkeyStore) Get(ctx context.Context, sessionID string) ([]scoring.LabMetric, error) {
	cmd := s.client.B().Get().Key(s.key(sessionID)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	var metrics []scoring.LabMetric
	if err := json.Unmarshal([]byte(payload), &metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}

// Delete evicts the session's report.
func (s *ValkeyStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.key(sessionID)).Build()).Error()
}

func (s *ValkeyStore) key(sessionID string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, sessionID)
}
