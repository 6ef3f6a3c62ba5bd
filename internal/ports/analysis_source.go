package ports

import (
	"context"

	"github.com/phishguard/threatfeed/internal/domain"
)

// AnalysisSource defines the contract for receiving completed email
// analyses from the upstream analysis service. The feed treats each
// record's classification and risk score as opaque.
type AnalysisSource interface {
	// GetPendingAnalyses fetches analyses flagged for auto-submission that
	// have not yet been correlated into the feed
	GetPendingAnalyses(ctx context.Context, limit int) ([]domain.AnalysisRecord, error)
}
