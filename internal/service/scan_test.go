package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hmodding/website-jobs/config"
	"github.com/hmodding/website-jobs/internal/core"
	"github.com/hmodding/website-jobs/internal/domain/model"
	"github.com/hmodding/website-jobs/internal/mocks"
)

const testFileURL = "https://files.example.com/mods/raft-extras/1.0.0/raft-extras.rmod"

// inlineDispatcher runs every task synchronously, bypassing rate limiting.
type inlineDispatcher struct{}

func (inlineDispatcher) Enqueue(task func()) { task() }

// holdingDispatcher accepts tasks without ever running them.
type holdingDispatcher struct {
	mu    sync.Mutex
	tasks []func()
}

func (d *holdingDispatcher) Enqueue(task func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tasks = append(d.tasks, task)
}

func (d *holdingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.tasks)
}

// newScanService wires a ScanService against gomock collaborators.
func newScanService(t *testing.T, dispatcher core.Dispatcher) (*mocks.MockScanRecordRepository, *mocks.MockScanProvider, *ScanService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	records := mocks.NewMockScanRecordRepository(ctrl)
	provider := mocks.NewMockScanProvider(ctrl)

	svc, err := NewScanService(ScanServiceOptions{
		Records:    records,
		Provider:   provider,
		Dispatcher: dispatcher,
		Config: config.ScanConfig{
			PollDelay:     5 * time.Millisecond,
			PublicBaseURL: "https://files.example.com",
		},
	})
	require.NoError(t, err)

	return records, provider, svc
}

func unscannedRecord() *model.ScanRecord {
	return &model.ScanRecord{FileURL: testFileURL}
}

func completeRecord() *model.ScanRecord {
	return &model.ScanRecord{
		FileURL: testFileURL,
		Report:  &model.ScanReport{Positives: 0, Total: 58},
	}
}

func TestNewScanService_RequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewScanService(ScanServiceOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ScanRecordRepository")
}

func TestScanService_EnsureRecord_IsIdempotent(t *testing.T) {
	t.Parallel()
	records, _, svc := newScanService(t, inlineDispatcher{})

	ctx := context.Background()
	rec := unscannedRecord()

	// The repository absorbs the duplicate; the service sees the same row twice.
	records.EXPECT().Create(ctx, testFileURL).Return(rec, nil).Times(2)

	first, err := svc.EnsureRecord(ctx, testFileURL)
	require.NoError(t, err)
	second, err := svc.EnsureRecord(ctx, testFileURL)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestScanService_SubmitForScan_SkipsCompletedRecords(t *testing.T) {
	t.Parallel()
	records, _, svc := newScanService(t, inlineDispatcher{})

	ctx := context.Background()
	records.EXPECT().Create(ctx, testFileURL).Return(completeRecord(), nil)

	// No provider expectations: a finished record must never be re-dispatched.
	err := svc.SubmitForScan(ctx, []byte("contents"), "raft-extras.rmod", testFileURL)
	require.NoError(t, err)
}

func TestScanService_SubmitForScan_RunsFullWorkflow(t *testing.T) {
	t.Parallel()
	records, provider, svc := newScanService(t, inlineDispatcher{})

	ctx := context.Background()
	contents := []byte("mod archive bytes")
	done := make(chan struct{})

	records.EXPECT().Create(ctx, testFileURL).Return(unscannedRecord(), nil)
	provider.EXPECT().Submit(gomock.Any(), contents, "raft-extras.rmod").Return("scan-abc", nil)
	records.EXPECT().MarkSubmitted(gomock.Any(), testFileURL, "scan-abc").Return(nil)
	provider.EXPECT().Report(gomock.Any(), "scan-abc").Return(&core.ScanOutcome{
		Ready:  true,
		Report: model.ScanReport{Positives: 0, Total: 61, Permalink: "https://vt.example/p"},
	}, nil)
	records.EXPECT().
		MarkComplete(gomock.Any(), testFileURL, gomock.Any()).
		DoAndReturn(func(context.Context, string, model.ScanReport) error {
			close(done)
			return nil
		})

	err := svc.SubmitForScan(ctx, contents, "raft-extras.rmod", testFileURL)
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("report was never persisted")
	}
}

func TestScanService_SubmitForScan_RetriesUntilReportReady(t *testing.T) {
	t.Parallel()
	records, provider, svc := newScanService(t, inlineDispatcher{})

	ctx := context.Background()
	done := make(chan struct{})

	records.EXPECT().Create(ctx, testFileURL).Return(unscannedRecord(), nil)
	provider.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Return("scan-abc", nil)
	records.EXPECT().MarkSubmitted(gomock.Any(), testFileURL, "scan-abc").Return(nil)

	gomock.InOrder(
		provider.EXPECT().Report(gomock.Any(), "scan-abc").Return(&core.ScanOutcome{Ready: false}, nil).Times(2),
		provider.EXPECT().Report(gomock.Any(), "scan-abc").Return(&core.ScanOutcome{
			Ready:  true,
			Report: model.ScanReport{Positives: 0, Total: 40},
		}, nil),
	)
	records.EXPECT().
		MarkComplete(gomock.Any(), testFileURL, gomock.Any()).
		DoAndReturn(func(context.Context, string, model.ScanReport) error {
			close(done)
			return nil
		})

	err := svc.SubmitForScan(ctx, []byte("x"), "f.rmod", testFileURL)
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("polling never reached a ready report")
	}
}

func TestScanService_SubmitForScan_SurvivesCallerContextCancellation(t *testing.T) {
	t.Parallel()
	records, provider, svc := newScanService(t, inlineDispatcher{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	records.EXPECT().Create(ctx, testFileURL).Return(unscannedRecord(), nil)
	provider.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Return("scan-abc", nil)
	records.EXPECT().
		MarkSubmitted(gomock.Any(), testFileURL, "scan-abc").
		DoAndReturn(func(context.Context, string, string) error {
			// The upload request ends as soon as the submission is stored,
			// so the delayed poll is armed under an already-dead caller
			// context.
			cancel()
			return nil
		})
	provider.EXPECT().Report(gomock.Any(), "scan-abc").Return(&core.ScanOutcome{
		Ready:  true,
		Report: model.ScanReport{Positives: 0, Total: 12},
	}, nil)
	records.EXPECT().
		MarkComplete(gomock.Any(), testFileURL, gomock.Any()).
		DoAndReturn(func(context.Context, string, model.ScanReport) error {
			close(done)
			return nil
		})

	require.NoError(t, svc.SubmitForScan(ctx, []byte("x"), "f.rmod", testFileURL))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cancelling the caller context killed the armed poll")
	}
}

func TestScanService_SubmitForScan_SuppressesDuplicateWhileInFlight(t *testing.T) {
	t.Parallel()
	dispatcher := &holdingDispatcher{}
	records, _, svc := newScanService(t, dispatcher)

	ctx := context.Background()
	records.EXPECT().Create(ctx, testFileURL).Return(unscannedRecord(), nil).Times(2)

	require.NoError(t, svc.SubmitForScan(ctx, []byte("x"), "f.rmod", testFileURL))
	require.NoError(t, svc.SubmitForScan(ctx, []byte("x"), "f.rmod", testFileURL))

	// Only the first call reached the dispatcher.
	assert.Equal(t, 1, dispatcher.count())
}

func TestScanService_SubmitForScan_AbandonsAttemptOnSubmitError(t *testing.T) {
	t.Parallel()
	records, provider, svc := newScanService(t, inlineDispatcher{})

	ctx := context.Background()
	records.EXPECT().Create(ctx, testFileURL).Return(unscannedRecord(), nil).Times(2)
	provider.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("api quota exceeded"))

	require.NoError(t, svc.SubmitForScan(ctx, []byte("x"), "f.rmod", testFileURL))

	// The failed attempt released the in-flight slot, so a retry dispatches again.
	provider.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("api quota exceeded"))
	require.NoError(t, svc.SubmitForScan(ctx, []byte("x"), "f.rmod", testFileURL))
}

func TestScanService_ResumePoll_PollsWithStoredSubmissionID(t *testing.T) {
	t.Parallel()
	records, provider, svc := newScanService(t, inlineDispatcher{})

	ctx := context.Background()
	done := make(chan struct{})

	provider.EXPECT().Report(gomock.Any(), "stored-id").Return(&core.ScanOutcome{
		Ready:  true,
		Report: model.ScanReport{Positives: 3, Total: 55},
	}, nil)
	records.EXPECT().
		MarkComplete(gomock.Any(), testFileURL, gomock.Any()).
		DoAndReturn(func(context.Context, string, model.ScanReport) error {
			close(done)
			return nil
		})

	svc.ResumePoll(ctx, testFileURL, "stored-id")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("resumed poll never persisted the report")
	}
}

func TestScanService_CompleteScan_ToleratesLostPersistRace(t *testing.T) {
	t.Parallel()
	records, provider, svc := newScanService(t, inlineDispatcher{})

	ctx := context.Background()
	done := make(chan struct{})

	provider.EXPECT().Report(gomock.Any(), "stored-id").Return(&core.ScanOutcome{
		Ready:  true,
		Report: model.ScanReport{Total: 10},
	}, nil)
	records.EXPECT().
		MarkComplete(gomock.Any(), testFileURL, gomock.Any()).
		DoAndReturn(func(context.Context, string, model.ScanReport) error {
			close(done)
			return model.ErrScanAlreadyComplete
		})

	svc.ResumePoll(ctx, testFileURL, "stored-id")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poll never completed")
	}
}

func TestScanService_LocalPath(t *testing.T) {
	t.Parallel()
	_, _, svc := newScanService(t, inlineDispatcher{})

	tests := []struct {
		name     string
		fileURL  string
		wantPath string
		wantOK   bool
	}{
		{
			name:     "site-hosted absolute URL",
			fileURL:  "https://files.example.com/mods/foo/1.0/foo.rmod",
			wantPath: "/mods/foo/1.0/foo.rmod",
			wantOK:   true,
		},
		{
			name:     "site-relative path",
			fileURL:  "/mods/foo/1.0/foo.rmod",
			wantPath: "/mods/foo/1.0/foo.rmod",
			wantOK:   true,
		},
		{
			name:    "externally hosted URL",
			fileURL: "https://elsewhere.example.org/foo.zip",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := svc.LocalPath(tt.fileURL)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPath, got)
		})
	}
}
