package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanRecordState(t *testing.T) {
	id := "abc123"
	report := ScanReport{Positives: 0, Total: 70}

	tests := []struct {
		name   string
		record ScanRecord
		want   ScanState
	}{
		{"fresh record", ScanRecord{FileURL: "/mods/x/1.0/x.rmod"}, ScanStateUnscanned},
		{"submitted", ScanRecord{FileURL: "/mods/x/1.0/x.rmod", SubmissionID: &id}, ScanStateSubmitted},
		{"complete", ScanRecord{FileURL: "/mods/x/1.0/x.rmod", SubmissionID: &id, Report: &report}, ScanStateComplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.State())
		})
	}
}

func TestScanRecordMarkSubmitted(t *testing.T) {
	t.Run("records the submission id", func(t *testing.T) {
		rec := ScanRecord{FileURL: "/mods/x/1.0/x.rmod"}

		require.NoError(t, rec.MarkSubmitted("scan-1"))

		require.NotNil(t, rec.SubmissionID)
		assert.Equal(t, "scan-1", *rec.SubmissionID)
	})

	t.Run("allows overwriting the id of a failed attempt", func(t *testing.T) {
		rec := ScanRecord{FileURL: "/mods/x/1.0/x.rmod"}
		require.NoError(t, rec.MarkSubmitted("scan-1"))

		require.NoError(t, rec.MarkSubmitted("scan-2"))

		assert.Equal(t, "scan-2", *rec.SubmissionID)
	})

	t.Run("rejects empty submission ids", func(t *testing.T) {
		rec := ScanRecord{FileURL: "/mods/x/1.0/x.rmod"}

		err := rec.MarkSubmitted("  ")

		require.ErrorIs(t, err, ErrEmptySubmissionID)
	})

	t.Run("rejects submission after completion", func(t *testing.T) {
		rec := ScanRecord{FileURL: "/mods/x/1.0/x.rmod"}
		require.NoError(t, rec.MarkSubmitted("scan-1"))
		require.NoError(t, rec.MarkComplete(ScanReport{Total: 70}))

		err := rec.MarkSubmitted("scan-2")

		require.ErrorIs(t, err, ErrScanAlreadyComplete)
	})
}

func TestScanRecordMarkComplete(t *testing.T) {
	t.Run("never writes a report before a submission id", func(t *testing.T) {
		rec := ScanRecord{FileURL: "/mods/x/1.0/x.rmod"}

		err := rec.MarkComplete(ScanReport{Total: 70})

		require.ErrorIs(t, err, ErrScanNotSubmitted)
		assert.Nil(t, rec.Report)
	})

	t.Run("sets the report at most once", func(t *testing.T) {
		rec := ScanRecord{FileURL: "/mods/x/1.0/x.rmod"}
		require.NoError(t, rec.MarkSubmitted("scan-1"))
		require.NoError(t, rec.MarkComplete(ScanReport{Positives: 2, Total: 70}))

		err := rec.MarkComplete(ScanReport{Positives: 0, Total: 70})

		require.ErrorIs(t, err, ErrScanAlreadyComplete)
		assert.Equal(t, 2, rec.Report.Positives)
	})
}

func TestScanReportMalicious(t *testing.T) {
	assert.False(t, (*ScanReport)(nil).Malicious())
	assert.False(t, (&ScanReport{Positives: 0, Total: 70}).Malicious())
	assert.True(t, (&ScanReport{Positives: 1, Total: 70}).Malicious())
}
