package cache

import (
	"fmt"
	"time"
)

type EntityType string

const (
	EntityReport EntityType = "report"
)

type KeyType string

const (
	KeyBestProfession KeyType = "best-profession"
	KeyBestClients    KeyType = "best-clients"
)

// GenerateKey creates a standardized cache key
func GenerateKey(entity EntityType, keyType KeyType, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entity, keyType, value)
}

// ReportKey keys a report by its window and, when positive, its row limit.
// Bounds are rendered in UTC with nanosecond precision so distinct windows
// never share a key.
func ReportKey(keyType KeyType, start, end time.Time, limit int) string {
	window := start.UTC().Format(time.RFC3339Nano) + "/" + end.UTC().Format(time.RFC3339Nano)
	if limit > 0 {
		window = fmt.Sprintf("%s/%d", window, limit)
	}
	return GenerateKey(EntityReport, keyType, window)
}
