package domain

import (
	"time"

	"github.com/google/uuid"
)

// IndicatorType enumerates the kinds of observables we extract from emails
type IndicatorType string

const (
	IndicatorURL      IndicatorType = "url"
	IndicatorDomain   IndicatorType = "domain"
	IndicatorIP       IndicatorType = "ip"
	IndicatorEmail    IndicatorType = "email-address"
	IndicatorFileHash IndicatorType = "file-hash"
	IndicatorPhone    IndicatorType = "phone"
)

// ThreatType is the coarse category assigned to a submission
type ThreatType string

const (
	ThreatCredentialPhishing ThreatType = "credential-phishing"
	ThreatBEC                ThreatType = "business-email-compromise"
	ThreatMalwareDelivery    ThreatType = "malware-delivery"
	ThreatAdvanceFeeScam     ThreatType = "advance-fee-scam"
	ThreatUnknown            ThreatType = "unknown"
)

// SubmissionSource records how an entry reached the feed
type SubmissionSource string

const (
	SourceAuto   SubmissionSource = "auto"
	SourceManual SubmissionSource = "manual"
)

// VoteDirection is a community signal on a threat entry
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// AnalysisRecord is the input handed to us by the email-analysis service.
// Classification and RiskScore are opaque: we copy them onto the public
// entry verbatim and never reinterpret them.
type AnalysisRecord struct {
	ID             uuid.UUID         `json:"id"`
	Sender         string            `json:"sender"`
	Subject        string            `json:"subject"`
	Body           string            `json:"body"`
	Headers        map[string]string `json:"headers,omitempty"`
	Classification string            `json:"classification"`
	RiskScore      float64           `json:"risk_score"`
}

// IndicatorCandidate is an observable pulled out of a single email.
// Candidates live only for the duration of one submission; they have no
// identity beyond their tuple and are deduplicated per email by
// (Type, normalized Value).
type IndicatorCandidate struct {
	Type       IndicatorType `json:"type"`
	Value      string        `json:"value"`
	Context    string        `json:"context,omitempty"`
	RiskWeight int           `json:"risk_weight"` // 0-100 local score
}

// ThreatEntry is a public, PII-scrubbed record of a distinct phishing
// campaign. Exactly one live entry exists per fingerprint hash; duplicate
// submissions only bump SimilarSubmissions and LastSeen, keeping the first
// submission's framing canonical.
type ThreatEntry struct {
	ID                 uuid.UUID         `json:"id"`
	FingerprintHash    string            `json:"fingerprint_hash"`
	ShortID            string            `json:"short_id"`
	SourceAnalysisRef  *uuid.UUID        `json:"source_analysis_ref,omitempty"` // weak reference, never cascades
	SubmitterRef       *uuid.UUID        `json:"submitter_ref,omitempty"`       // nil = anonymous/auto
	IsAnonymous        bool              `json:"is_anonymous"`
	SubmissionSource   SubmissionSource  `json:"submission_source"`
	RiskScore          float64           `json:"risk_score"`
	Classification     string            `json:"classification"`
	SanitizedSubject   string            `json:"sanitized_subject"`
	DetectedTactics    []string          `json:"detected_tactics"`
	DetectedBrands     []string          `json:"detected_brands"`
	ThreatType         ThreatType        `json:"threat_type"`
	FirstSeen          time.Time         `json:"first_seen"`
	LastSeen           time.Time         `json:"last_seen"`
	SimilarSubmissions int               `json:"similar_submissions"` // >= 1
	Indicators         []ThreatIndicator `json:"indicators,omitempty"`
}

// ThreatIndicator is an indicator row owned by exactly one ThreatEntry.
// ValueHash is shared across entries: GlobalOccurrenceCount tracks how many
// entries (across the whole feed) have recorded an indicator with the same
// hash, and only ever grows.
type ThreatIndicator struct {
	ID                    uuid.UUID     `json:"id"`
	EntryID               uuid.UUID     `json:"entry_id"`
	Type                  IndicatorType `json:"type"`
	Value                 string        `json:"value"`
	ValueHash             string        `json:"value_hash"`
	Context               string        `json:"context,omitempty"`
	IsDefanged            bool          `json:"is_defanged"`
	LocalRiskScore        int           `json:"local_risk_score"`
	GlobalOccurrenceCount int           `json:"global_occurrence_count"` // >= 1
}

// ThreatVote is one voter's signal on one entry. At most one row exists per
// (voter, entry); re-voting overwrites the direction.
type ThreatVote struct {
	ID        uuid.UUID     `json:"id"`
	EntryID   uuid.UUID     `json:"entry_id"`
	VoterID   uuid.UUID     `json:"voter_id"`
	Direction VoteDirection `json:"direction"`
	CastAt    time.Time     `json:"cast_at"`
}
