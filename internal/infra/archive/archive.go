// Package archive stores raw forecast snapshots as JSON objects so predictions can be audited
// after the cache entry has expired.
package archive

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/yanqian/pollen-calendar/internal/domain/allergy"
)

const contentType = "application/json"

// objectKey groups snapshots by season and fetch day, e.g. forecasts/2025/2025-09-01/<uuid>.json.
func objectKey(snap allergy.Snapshot) string {
	return fmt.Sprintf("forecasts/%d/%s/%s.json", snap.SeasonYear, snap.FetchedAt.UTC().Format("2006-01-02"), uuid.NewString())
}

func encodeSnapshot(snap allergy.Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot %s: %w", snap.Key, err)
	}
	return data, nil
}
