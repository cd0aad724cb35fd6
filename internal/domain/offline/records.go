package offline

import (
	"encoding/json"
	"fmt"
)

// EncodeRecords serializes a record list into a snapshot payload.
func EncodeRecords[T Keyed](records []T) ([]byte, error) {
	payload, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return payload, nil
}

// DecodeRecords deserializes a snapshot payload. A nil payload decodes to an
// empty list so callers treat cold caches and empty collections the same way.
func DecodeRecords[T Keyed](payload []byte) ([]T, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	var records []T
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return records, nil
}

// MergeByKey folds incoming records into base, replacing any base record that
// shares a key with an incoming one. Incoming records win.
func MergeByKey[T Keyed](base, incoming []T) []T {
	index := make(map[string]int, len(base))
	merged := make([]T, len(base))
	copy(merged, base)
	for i, record := range merged {
		index[record.Key()] = i
	}
	for _, record := range incoming {
		if i, ok := index[record.Key()]; ok {
			merged[i] = record
			continue
		}
		index[record.Key()] = len(merged)
		merged = append(merged, record)
	}
	return merged
}
