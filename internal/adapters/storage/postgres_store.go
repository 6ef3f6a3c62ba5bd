package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/phishguard/threatfeed/internal/domain"
)

// ErrShortIDExhausted means repeated random generation could not find a free
// short id. This is a fatal configuration problem (ID space too small or a
// broken generator), never something to retry silently.
var ErrShortIDExhausted = errors.New("short id generation exhausted its retry limit")

// maxShortIDAttempts bounds the collision-check loop during entry creation
const maxShortIDAttempts = 5

// PostgresStore implements ports.CorrelationStore for PostgreSQL.
//
// All cross-submission coordination lives in the database: the uniqueness
// constraint on fingerprint_hash decides create-vs-merge races, and counter
// updates run as in-database increments inside the create transaction.
// In-process locks would not survive a multi-process deployment, so none
// are used.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL storage instance
func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	// In production, should be set based on workload
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// InitSchema creates database tables if they don't exist
// In production, use proper migration tools
func (s *PostgresStore) InitSchema() error {
	schema := `
	-- ============================================================================
	-- THREAT_ENTRIES TABLE
	-- ============================================================================
	-- One row per distinct campaign fingerprint. The UNIQUE constraint on
	-- fingerprint_hash is the dedup invariant: the application never decides
	-- create-vs-merge on its own, it inserts and lets the constraint arbitrate
	-- concurrent submissions.
	--
	-- source_analysis_ref is deliberately NOT a foreign key. It is a weak
	-- back-reference to the private analysis that produced this entry; deleting
	-- that analysis must never cascade into the public feed.
	--
	-- detected_tactics / detected_brands as JSONB string arrays: they are always
	-- read whole alongside the entry and their order is part of the recorded
	-- framing, which a join table would not preserve as cheaply.
	CREATE TABLE IF NOT EXISTS threat_entries (
		id UUID PRIMARY KEY,
		fingerprint_hash CHAR(64) NOT NULL UNIQUE,
		short_id VARCHAR(16) NOT NULL UNIQUE,
		source_analysis_ref UUID,
		submitter_ref UUID,
		is_anonymous BOOLEAN NOT NULL DEFAULT TRUE,
		submission_source VARCHAR(10) NOT NULL CHECK (submission_source IN ('auto', 'manual')),
		risk_score DOUBLE PRECISION NOT NULL,
		classification VARCHAR(50) NOT NULL,
		sanitized_subject TEXT,
		detected_tactics JSONB,
		detected_brands JSONB,
		threat_type VARCHAR(40) NOT NULL,
		first_seen TIMESTAMP NOT NULL,
		last_seen TIMESTAMP NOT NULL,
		similar_submissions INTEGER NOT NULL DEFAULT 1 CHECK (similar_submissions >= 1),
		CHECK (last_seen >= first_seen)
	);

	-- Feed browsing: recent activity per category
	CREATE INDEX IF NOT EXISTS idx_entries_type_seen ON threat_entries(threat_type, last_seen DESC);

	-- ============================================================================
	-- INDICATOR_OCCURRENCES TABLE
	-- ============================================================================
	-- Authoritative counter per value_hash. The create transaction bumps it
	-- with an ON CONFLICT upsert: the upsert's row lock (or in-flight index
	-- entry, for a brand-new hash) serializes concurrent creators, so two
	-- entries recording the same indicator at once always read distinct,
	-- consecutive totals. The denormalized rows below carry copies.
	CREATE TABLE IF NOT EXISTS indicator_occurrences (
		value_hash CHAR(64) PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 1 CHECK (count >= 1)
	);

	-- ============================================================================
	-- THREAT_INDICATORS TABLE
	-- ============================================================================
	-- Child rows owned by exactly one entry (composition: entry deletion takes
	-- its indicators with it). value_hash is shared across entries and keys the
	-- global occurrence counter.
	--
	-- Denormalized on purpose: each entry keeps its own indicator rows (original
	-- display value, context, local score) while global_occurrence_count is kept
	-- in step across all rows sharing a value_hash by the create transaction.
	-- A normalized design (one identity row, many links) would also work; this
	-- shape keeps entry reads to a single indexed lookup.
	CREATE TABLE IF NOT EXISTS threat_indicators (
		id UUID PRIMARY KEY,
		entry_id UUID NOT NULL REFERENCES threat_entries(id) ON DELETE CASCADE,
		type VARCHAR(20) NOT NULL,
		value TEXT NOT NULL,
		value_hash CHAR(64) NOT NULL,
		context TEXT,
		is_defanged BOOLEAN NOT NULL DEFAULT TRUE,
		local_risk_score INTEGER NOT NULL DEFAULT 0,
		global_occurrence_count INTEGER NOT NULL DEFAULT 1 CHECK (global_occurrence_count >= 1)
	);

	-- Backs the global counter update and cross-entry occurrence lookups
	CREATE INDEX IF NOT EXISTS idx_indicators_value_hash ON threat_indicators(value_hash);
	-- FK lookup for loading an entry's indicators
	CREATE INDEX IF NOT EXISTS idx_indicators_entry ON threat_indicators(entry_id);

	-- ============================================================================
	-- THREAT_VOTES TABLE
	-- ============================================================================
	-- At most one vote per (entry, voter); re-votes overwrite via ON CONFLICT.
	CREATE TABLE IF NOT EXISTS threat_votes (
		id UUID PRIMARY KEY,
		entry_id UUID NOT NULL REFERENCES threat_entries(id) ON DELETE CASCADE,
		voter_id UUID NOT NULL,
		direction VARCHAR(4) NOT NULL CHECK (direction IN ('up', 'down')),
		cast_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE(entry_id, voter_id)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

const entryColumns = `id, fingerprint_hash, short_id, source_analysis_ref, submitter_ref,
	       is_anonymous, submission_source, risk_score, classification,
	       sanitized_subject, detected_tactics, detected_brands, threat_type,
	       first_seen, last_seen, similar_submissions`

// Submit merges into the live entry for this fingerprint or creates a new
// one. See ports.CorrelationStore for the full contract.
func (s *PostgresStore) Submit(ctx context.Context, entry *domain.ThreatEntry, indicators []domain.ThreatIndicator) (*domain.ThreatEntry, error) {
	// Duplicate path first: one atomic UPDATE does the counter bump, the
	// timestamp advance and the read.
	merged, err := s.mergeDuplicate(ctx, entry.FingerprintHash)
	if err != nil {
		return nil, fmt.Errorf("duplicate lookup: %w", err)
	}
	if merged != nil {
		return merged, nil
	}

	created, err := s.createEntry(ctx, entry, indicators)
	if err == nil {
		return created, nil
	}

	// A concurrent submission with the same fingerprint won the create
	// race. The winner's row is committed, so this submission is now an
	// ordinary duplicate; retry the merge path once.
	if isUniqueViolation(err, "threat_entries_fingerprint_hash_key") {
		merged, mergeErr := s.mergeDuplicate(ctx, entry.FingerprintHash)
		if mergeErr != nil {
			return nil, fmt.Errorf("merge after fingerprint conflict: %w", mergeErr)
		}
		if merged != nil {
			return merged, nil
		}
	}

	return nil, fmt.Errorf("create entry: %w", err)
}

// mergeDuplicate bumps the counters on the live entry for a fingerprint and
// returns it with indicators loaded, or (nil, nil) when no entry exists.
// Descriptive fields are left exactly as first recorded: the first
// submission's framing stays canonical.
func (s *PostgresStore) mergeDuplicate(ctx context.Context, fingerprintHash string) (*domain.ThreatEntry, error) {
	query := `
		UPDATE threat_entries
		SET similar_submissions = similar_submissions + 1,
		    last_seen = NOW()
		WHERE fingerprint_hash = $1
		RETURNING ` + entryColumns

	entry, err := scanEntry(s.db.QueryRowContext(ctx, query, fingerprintHash))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	entry.Indicators, err = s.loadIndicators(ctx, s.db, entry.ID)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// createEntry runs the create path as one atomic unit: short id issuance,
// entry insert, counter updates and indicator inserts all commit together
// or not at all. A concurrent duplicate lookup can never observe a partial
// create.
func (s *PostgresStore) createEntry(ctx context.Context, entry *domain.ThreatEntry, indicators []domain.ThreatIndicator) (*domain.ThreatEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	shortID, err := s.issueShortID(ctx, tx)
	if err != nil {
		return nil, err
	}

	tacticsJSON, err := json.Marshal(entry.DetectedTactics)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tactics: %w", err)
	}
	brandsJSON, err := json.Marshal(entry.DetectedBrands)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal brands: %w", err)
	}

	created := *entry
	created.ID = uuid.New()
	created.ShortID = shortID
	created.SimilarSubmissions = 1

	insertEntry := `
		INSERT INTO threat_entries (
			id, fingerprint_hash, short_id, source_analysis_ref, submitter_ref,
			is_anonymous, submission_source, risk_score, classification,
			sanitized_subject, detected_tactics, detected_brands, threat_type,
			first_seen, last_seen, similar_submissions
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err = tx.ExecContext(ctx, insertEntry,
		created.ID, created.FingerprintHash, created.ShortID,
		created.SourceAnalysisRef, created.SubmitterRef, created.IsAnonymous,
		created.SubmissionSource, created.RiskScore, created.Classification,
		created.SanitizedSubject, tacticsJSON, brandsJSON, created.ThreatType,
		created.FirstSeen, created.LastSeen, created.SimilarSubmissions,
	)
	if err != nil {
		return nil, err
	}

	created.Indicators = make([]domain.ThreatIndicator, 0, len(indicators))
	for _, ind := range indicators {
		row, err := s.insertIndicator(ctx, tx, created.ID, ind)
		if err != nil {
			return nil, fmt.Errorf("insert indicator %s: %w", ind.ValueHash, err)
		}
		created.Indicators = append(created.Indicators, *row)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &created, nil
}

// insertIndicator maintains the global occurrence counter and inserts one
// indicator row.
//
// The counter discipline is a single atomic upsert against the
// indicator_occurrences table, never a read-modify-write: for an existing
// hash the DO UPDATE takes the counter row's lock, and for a brand-new hash
// a concurrent INSERT blocks on the in-flight index entry until the first
// creator commits, then falls through to DO UPDATE. Either way two
// transactions recording the same value_hash read distinct, consecutive
// totals and no increment is lost. Callers pass indicators in sorted order,
// which keeps lock acquisition order consistent across transactions.
func (s *PostgresStore) insertIndicator(ctx context.Context, tx *sql.Tx, entryID uuid.UUID, ind domain.ThreatIndicator) (*domain.ThreatIndicator, error) {
	var count int
	err := tx.QueryRowContext(ctx, `
		INSERT INTO indicator_occurrences (value_hash, count)
		VALUES ($1, 1)
		ON CONFLICT (value_hash) DO UPDATE
		SET count = indicator_occurrences.count + 1
		RETURNING count
	`, ind.ValueHash).Scan(&count)
	if err != nil {
		return nil, err
	}

	// Bring the denormalized copies on earlier entries' rows in step with
	// the authoritative counter.
	_, err = tx.ExecContext(ctx, `
		UPDATE threat_indicators
		SET global_occurrence_count = $2
		WHERE value_hash = $1
	`, ind.ValueHash, count)
	if err != nil {
		return nil, err
	}

	row := ind
	row.ID = uuid.New()
	row.EntryID = entryID
	row.IsDefanged = true
	row.GlobalOccurrenceCount = count

	_, err = tx.ExecContext(ctx, `
		INSERT INTO threat_indicators (
			id, entry_id, type, value, value_hash, context,
			is_defanged, local_risk_score, global_occurrence_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		row.ID, row.EntryID, row.Type, row.Value, row.ValueHash,
		row.Context, row.IsDefanged, row.LocalRiskScore, row.GlobalOccurrenceCount,
	)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// issueShortID generates random short ids until one is free, bounded by
// maxShortIDAttempts. The UNIQUE constraint on short_id remains the real
// guard; this loop only keeps the common case to a single attempt.
func (s *PostgresStore) issueShortID(ctx context.Context, tx *sql.Tx) (string, error) {
	for attempt := 0; attempt < maxShortIDAttempts; attempt++ {
		candidate, err := generateShortID()
		if err != nil {
			return "", fmt.Errorf("generate short id: %w", err)
		}

		var exists bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM threat_entries WHERE short_id = $1)`,
			candidate,
		).Scan(&exists)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrShortIDExhausted
}

// GetEntry retrieves an entry with its indicators, or (nil, nil) when absent
func (s *PostgresStore) GetEntry(ctx context.Context, id uuid.UUID) (*domain.ThreatEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM threat_entries WHERE id = $1`

	entry, err := scanEntry(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	entry.Indicators, err = s.loadIndicators(ctx, s.db, entry.ID)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Vote upserts a community signal; a repeat vote overwrites the direction
func (s *PostgresStore) Vote(ctx context.Context, vote *domain.ThreatVote) error {
	query := `
		INSERT INTO threat_votes (id, entry_id, voter_id, direction, cast_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (entry_id, voter_id) DO UPDATE
		SET direction = EXCLUDED.direction,
		    cast_at = NOW()
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.New(), vote.EntryID, vote.VoterID, vote.Direction,
	)
	return err
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// loadIndicators fetches an entry's indicator rows in a stable order
func (s *PostgresStore) loadIndicators(ctx context.Context, q queryer, entryID uuid.UUID) ([]domain.ThreatIndicator, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, entry_id, type, value, value_hash, context,
		       is_defanged, local_risk_score, global_occurrence_count
		FROM threat_indicators
		WHERE entry_id = $1
		ORDER BY type, value
	`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	indicators := make([]domain.ThreatIndicator, 0)
	for rows.Next() {
		var ind domain.ThreatIndicator
		var context sql.NullString
		err := rows.Scan(
			&ind.ID, &ind.EntryID, &ind.Type, &ind.Value, &ind.ValueHash,
			&context, &ind.IsDefanged, &ind.LocalRiskScore, &ind.GlobalOccurrenceCount,
		)
		if err != nil {
			return nil, err
		}
		ind.Context = context.String
		indicators = append(indicators, ind)
	}
	return indicators, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanEntry reads one entry row in entryColumns order
func scanEntry(row rowScanner) (*domain.ThreatEntry, error) {
	entry := &domain.ThreatEntry{}
	var tacticsJSON, brandsJSON []byte
	var subject sql.NullString

	err := row.Scan(
		&entry.ID, &entry.FingerprintHash, &entry.ShortID,
		&entry.SourceAnalysisRef, &entry.SubmitterRef, &entry.IsAnonymous,
		&entry.SubmissionSource, &entry.RiskScore, &entry.Classification,
		&subject, &tacticsJSON, &brandsJSON, &entry.ThreatType,
		&entry.FirstSeen, &entry.LastSeen, &entry.SimilarSubmissions,
	)
	if err != nil {
		return nil, err
	}

	entry.SanitizedSubject = subject.String
	if len(tacticsJSON) > 0 {
		if err := json.Unmarshal(tacticsJSON, &entry.DetectedTactics); err != nil {
			return nil, fmt.Errorf("decode detected_tactics: %w", err)
		}
	}
	if len(brandsJSON) > 0 {
		if err := json.Unmarshal(brandsJSON, &entry.DetectedBrands); err != nil {
			return nil, fmt.Errorf("decode detected_brands: %w", err)
		}
	}

	return entry, nil
}

// isUniqueViolation reports whether err is a Postgres unique_violation
// (23505) on the named constraint
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23505" && pqErr.Constraint == constraint
}
