package storage

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phishguard/threatfeed/internal/domain"
)

// stubEntryRow plays a single database row for scanEntry, assigning the
// destinations in entryColumns order.
type stubEntryRow struct {
	tactics []byte
	brands  []byte
}

func (r stubEntryRow) Scan(dest ...any) error {
	*(dest[0].(*uuid.UUID)) = uuid.MustParse("a2c7e3f0-0000-4000-8000-000000000001")
	*(dest[1].(*string)) = "deadbeef"
	*(dest[2].(*string)) = "TF-ABCD2345"
	// dest[3], dest[4]: SourceAnalysisRef / SubmitterRef stay nil
	*(dest[5].(*bool)) = true
	*(dest[6].(*domain.SubmissionSource)) = domain.SourceAuto
	*(dest[7].(*float64)) = 0.93
	*(dest[8].(*string)) = "malicious"
	*(dest[9].(*sql.NullString)) = sql.NullString{String: "[brand] account locked", Valid: true}
	*(dest[10].(*[]byte)) = r.tactics
	*(dest[11].(*[]byte)) = r.brands
	*(dest[12].(*domain.ThreatType)) = domain.ThreatCredentialPhishing
	*(dest[13].(*time.Time)) = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	*(dest[14].(*time.Time)) = time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC)
	*(dest[15].(*int)) = 3
	return nil
}

func TestScanEntry_DecodesJSONColumns(t *testing.T) {
	entry, err := scanEntry(stubEntryRow{
		tactics: []byte(`["urgency","credential-request"]`),
		brands:  []byte(`["Microsoft"]`),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"urgency", "credential-request"}, entry.DetectedTactics)
	assert.Equal(t, []string{"Microsoft"}, entry.DetectedBrands)
	assert.Equal(t, "[brand] account locked", entry.SanitizedSubject)
	assert.Equal(t, 3, entry.SimilarSubmissions)
}

func TestScanEntry_NullJSONColumns(t *testing.T) {
	entry, err := scanEntry(stubEntryRow{})
	require.NoError(t, err)

	assert.Nil(t, entry.DetectedTactics)
	assert.Nil(t, entry.DetectedBrands)
}

func TestScanEntry_CorruptJSONIsAnError(t *testing.T) {
	tests := []struct {
		name    string
		tactics []byte
		brands  []byte
	}{
		{
			name:    "Truncated tactics array",
			tactics: []byte(`["urgency"`),
			brands:  []byte(`["Microsoft"]`),
		},
		{
			name:    "Brands holds the wrong shape",
			tactics: []byte(`["urgency"]`),
			brands:  []byte(`{"name":"Microsoft"}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := scanEntry(stubEntryRow{tactics: tt.tactics, brands: tt.brands})
			require.Error(t, err, "a corrupt row must not be served as a clean entry")
			assert.Nil(t, entry)
		})
	}
}
