package index

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"docintel/internal/domain"
)

const (
	snapshotPrefix = "indexes/"
	snapshotSuffix = ".json"
)

// snapshot is the persisted form of a collection.
type snapshot struct {
	CollectionID string              `json:"collection_id"`
	Dimensions   int                 `json:"dimensions"`
	Entries      []domain.IndexEntry `json:"entries"`
}

func snapshotKey(id string) string {
	return snapshotPrefix + id + snapshotSuffix
}

func collectionIDFromKey(key string) (string, bool) {
	if !strings.HasPrefix(key, snapshotPrefix) || !strings.HasSuffix(key, snapshotSuffix) {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(key, snapshotPrefix), snapshotSuffix)
	if ValidateCollectionID(id) != nil {
		return "", false
	}
	return id, true
}

func encodeSnapshot(id string, dims int, entries []domain.IndexEntry) ([]byte, error) {
	data, err := json.Marshal(snapshot{CollectionID: id, Dimensions: dims, Entries: entries})
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot %s: %w", id, err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (*snapshot, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	for i, e := range snap.Entries {
		if len(e.Vector) != snap.Dimensions {
			return nil, fmt.Errorf("%w: entry %d has %d, snapshot declares %d",
				domain.ErrDimensionMismatch, i, len(e.Vector), snap.Dimensions)
		}
	}
	return &snap, nil
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func round(score float64) float64 {
	return math.Round(score*scoreScale) / scoreScale
}
