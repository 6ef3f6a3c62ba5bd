package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/phishguard/threatfeed/internal/domain"
)

// CorrelationStore defines the contract for the transactional core of the
// threat feed: merge-or-create on fingerprint, global indicator counters,
// and the voting write surface.
//
// Correctness requirements for implementations:
//   - Exactly one live entry per fingerprint hash, enforced by a storage
//     level uniqueness constraint, never by check-then-insert alone.
//   - The create path (entry + all indicator rows) commits atomically; a
//     concurrent duplicate lookup must never observe a partial create.
//   - Global occurrence counters are monotonic under concurrent writers.
type CorrelationStore interface {
	// Submit merges into the live entry for entry.FingerprintHash or
	// creates a new one. On the duplicate path it increments
	// SimilarSubmissions, advances LastSeen and returns the existing entry
	// unchanged otherwise; indicators is ignored. On the create path it
	// issues a collision-checked short id, persists entry and indicators
	// as one atomic unit and maintains each indicator's global occurrence
	// count.
	Submit(ctx context.Context, entry *domain.ThreatEntry, indicators []domain.ThreatIndicator) (*domain.ThreatEntry, error)

	// GetEntry retrieves an entry with its indicators, or (nil, nil) when
	// no entry exists
	GetEntry(ctx context.Context, id uuid.UUID) (*domain.ThreatEntry, error)

	// Vote records a community signal. At most one vote exists per
	// (voter, entry); a repeat vote overwrites the direction.
	Vote(ctx context.Context, vote *domain.ThreatVote) error

	// Lifecycle
	Close() error
}
