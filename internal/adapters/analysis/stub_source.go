package analysis

import (
	"context"

	"github.com/google/uuid"
	"github.com/phishguard/threatfeed/internal/domain"
)

// StubSource implements ports.AnalysisSource with canned analysis records.
// For this prototype: the real analysis service would push completed
// analyses over a queue or poll endpoint; the stub lets the correlation
// pipeline be demonstrated end to end without it.
type StubSource struct{}

// NewStubSource creates a new stub analysis source
func NewStubSource() *StubSource {
	return &StubSource{}
}

// GetPendingAnalyses returns sample analyses covering a credential-phishing
// lookalike campaign (submitted twice to demonstrate deduplication) and a
// BEC attempt with no extractable links
func (s *StubSource) GetPendingAnalyses(ctx context.Context, limit int) ([]domain.AnalysisRecord, error) {
	records := []domain.AnalysisRecord{
		{
			ID:      uuid.New(),
			Sender:  "security@micr0soft-support.tk",
			Subject: "Your password expires today",
			Body: "Your Microsoft account password expires in 24 hours. " +
				"Verify your account immediately at http://micr0soft-support.tk/verify " +
				"to avoid losing access.",
			Classification: "malicious",
			RiskScore:      0.93,
		},
		{
			// Same campaign seen by a second tenant: identical indicators,
			// should merge into the first entry.
			ID:      uuid.New(),
			Sender:  "security@micr0soft-support.tk",
			Subject: "Your password expires today",
			Body: "Your Microsoft account password expires in 24 hours. " +
				"Verify your account immediately at http://micr0soft-support.tk/verify " +
				"to avoid losing access.",
			Classification: "malicious",
			RiskScore:      0.91,
		},
		{
			ID:      uuid.New(),
			Sender:  "ceo-office@gmail.com",
			Subject: "Quick confidential request",
			Body: "I need you to process an urgent wire transfer before end of day. " +
				"This is confidential, do not discuss with anyone. I will authorize " +
				"it when I am back from the board meeting.",
			Classification: "malicious",
			RiskScore:      0.88,
		},
	}

	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}
