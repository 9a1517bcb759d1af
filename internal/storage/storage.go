package storage

import (
	"context"
	"time"

	"github.com/Divyansh-9/Urja/internal/domain"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// PlanArchive stores superseded plan records as immutable JSON objects so a
// regeneration never loses the plan it replaced.
type PlanArchive interface {
	// Archive writes the record under a key derived from its (userId,
	// weekNumber, type) plus a timestamp, and returns the object key.
	Archive(ctx context.Context, record *domain.PlanRecord) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET
	// requests for a previously archived record.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an archived record (data-deletion requests).
	DeleteObject(ctx context.Context, objectKey string) error
}
