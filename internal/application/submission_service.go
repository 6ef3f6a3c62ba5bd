package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/phishguard/threatfeed/internal/domain"
	"github.com/phishguard/threatfeed/internal/domain/classify"
	"github.com/phishguard/threatfeed/internal/domain/detection"
	"github.com/phishguard/threatfeed/internal/domain/extraction"
	"github.com/phishguard/threatfeed/internal/domain/fingerprint"
	"github.com/phishguard/threatfeed/internal/domain/sanitize"
	"github.com/phishguard/threatfeed/internal/metrics"
	"github.com/phishguard/threatfeed/internal/ports"
)

// SubmissionService turns completed email analyses into community feed
// entries. Within one submission the pipeline always runs extract → detect
// → classify → canonicalize → store; across submissions the only
// coordination is the store's transactional contract, so submissions are
// safe to process on independent goroutines.
type SubmissionService struct {
	store    ports.CorrelationStore
	detector *detection.Detector
	logger   *zap.Logger
}

// NewSubmissionService creates a submission service with dependency injection
func NewSubmissionService(store ports.CorrelationStore, detector *detection.Detector, logger *zap.Logger) *SubmissionService {
	return &SubmissionService{
		store:    store,
		detector: detector,
		logger:   logger,
	}
}

// SubmitFromAnalysis is the auto-submission entry point. It is best-effort:
// every failure is logged and counted, and the caller only ever sees a nil
// entry; the originating email analysis must not be destabilized by feed
// trouble. Classification and risk score are copied onto the entry verbatim.
func (s *SubmissionService) SubmitFromAnalysis(ctx context.Context, rec domain.AnalysisRecord) *domain.ThreatEntry {
	if rec.Sender == "" && rec.Subject == "" && rec.Body == "" {
		metrics.SubmissionsTotal.WithLabelValues("skipped").Inc()
		s.logger.Warn("skipping empty analysis record", zap.String("analysis_id", rec.ID.String()))
		return nil
	}

	// Pure pipeline stages. Malformed fields degrade to empty results
	// inside each stage; none of them can fail.
	candidates := extraction.Extract(rec)
	detected := s.detector.Detect(rec.Sender, rec.Subject, rec.Body)
	threatType := classify.ThreatType(detected.Brands, detected.Tactics, candidates)
	fp := fingerprint.Compute(candidates, detected.Brands, threatType)

	now := time.Now().UTC()
	entry := &domain.ThreatEntry{
		FingerprintHash:    fp,
		IsAnonymous:        true,
		SubmissionSource:   domain.SourceAuto,
		RiskScore:          rec.RiskScore,
		Classification:     rec.Classification,
		SanitizedSubject:   sanitize.Subject(rec.Subject, detected.Brands),
		DetectedTactics:    detected.Tactics,
		DetectedBrands:     detected.Brands,
		ThreatType:         threatType,
		FirstSeen:          now,
		LastSeen:           now,
		SimilarSubmissions: 1,
	}
	if rec.ID != uuid.Nil {
		ref := rec.ID
		entry.SourceAnalysisRef = &ref
	}

	indicators := make([]domain.ThreatIndicator, 0, len(candidates))
	for _, c := range candidates {
		indicators = append(indicators, domain.ThreatIndicator{
			Type:           c.Type,
			Value:          c.Value,
			ValueHash:      fingerprint.IndicatorValueHash(c.Type, c.Value),
			Context:        c.Context,
			IsDefanged:     true,
			LocalRiskScore: c.RiskWeight,
		})
	}

	result, err := s.store.Submit(ctx, entry, indicators)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		s.logger.Error("auto-submission failed",
			zap.String("analysis_id", rec.ID.String()),
			zap.String("fingerprint", fp),
			zap.String("threat_type", string(threatType)),
			zap.Error(err),
		)
		return nil
	}

	outcome := "merged"
	if result.SimilarSubmissions == 1 {
		outcome = "created"
	}
	metrics.SubmissionsTotal.WithLabelValues(outcome).Inc()
	s.logger.Info("analysis correlated into feed",
		zap.String("short_id", result.ShortID),
		zap.String("threat_type", string(result.ThreatType)),
		zap.Int("similar_submissions", result.SimilarSubmissions),
		zap.Int("indicators", len(result.Indicators)),
		zap.String("outcome", outcome),
	)
	return result
}

// Vote records a community signal against an existing entry. Re-votes by
// the same voter overwrite the previous direction.
func (s *SubmissionService) Vote(ctx context.Context, entryID, voterID uuid.UUID, direction domain.VoteDirection) error {
	if direction != domain.VoteUp && direction != domain.VoteDown {
		return fmt.Errorf("invalid vote direction %q", direction)
	}

	err := s.store.Vote(ctx, &domain.ThreatVote{
		EntryID:   entryID,
		VoterID:   voterID,
		Direction: direction,
	})
	if err != nil {
		return fmt.Errorf("record vote: %w", err)
	}

	metrics.VotesTotal.WithLabelValues(string(direction)).Inc()
	return nil
}
