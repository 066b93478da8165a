package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hmodding/website-jobs/config"
	"github.com/hmodding/website-jobs/internal/core"
	"github.com/hmodding/website-jobs/internal/data"
	"github.com/hmodding/website-jobs/internal/domain/model"
	"github.com/hmodding/website-jobs/internal/mocks"
)

const (
	testCallerAddr   = "203.0.113.8"
	testDownloadPath = "/mods/raft-extras/1.0.0/raft-extras.rmod"
	testSalt         = "pepper"
)

// newDownloadService wires a DownloadService with a clock pinned to 2024-01-01.
func newDownloadService(t *testing.T) (*mocks.MockDownloadTrackerRepository, *data.FixedTimeProvider, *DownloadService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	trackers := mocks.NewMockDownloadTrackerRepository(ctrl)
	clock := data.NewFixedTimeProvider(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	svc, err := NewDownloadService(DownloadServiceOptions{
		Trackers: trackers,
		Config: config.DownloadsConfig{
			Window: time.Hour,
			Salt:   testSalt,
		},
		Time: clock,
	})
	require.NoError(t, err)

	return trackers, clock, svc
}

func TestNewDownloadService_RequiresRepository(t *testing.T) {
	t.Parallel()

	_, err := NewDownloadService(DownloadServiceOptions{})
	require.Error(t, err)
}

func TestDownloadService_TrackDownload_FirstViewRunsCallback(t *testing.T) {
	t.Parallel()
	trackers, clock, svc := newDownloadService(t)

	ctx := context.Background()
	trackers.EXPECT().
		Touch(ctx, core.TouchDownloadParams{
			IPHash:    model.HashCallerAddress(testCallerAddr, testSalt),
			Path:      testDownloadPath,
			Now:       clock.Now(),
			ExpiresAt: clock.Now().Add(time.Hour),
		}).
		Return(true, nil)

	counted := 0
	first, err := svc.TrackDownload(ctx, testCallerAddr, testDownloadPath, func() { counted++ })
	require.NoError(t, err)
	assert.True(t, first)
	assert.Equal(t, 1, counted)
}

func TestDownloadService_TrackDownload_DuplicateInsideWindowIsIgnored(t *testing.T) {
	t.Parallel()
	trackers, _, svc := newDownloadService(t)

	ctx := context.Background()
	trackers.EXPECT().Touch(ctx, gomock.Any()).Return(false, nil)

	counted := 0
	first, err := svc.TrackDownload(ctx, testCallerAddr, testDownloadPath, func() { counted++ })
	require.NoError(t, err)
	assert.False(t, first)
	assert.Zero(t, counted)
}

func TestDownloadService_TrackDownload_NewWindowAfterExpiry(t *testing.T) {
	t.Parallel()
	trackers, clock, svc := newDownloadService(t)

	ctx := context.Background()
	gomock.InOrder(
		trackers.EXPECT().Touch(ctx, gomock.Any()).Return(true, nil),
		trackers.EXPECT().Touch(ctx, gomock.Any()).Return(false, nil),
		trackers.EXPECT().
			Touch(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, params core.TouchDownloadParams) (bool, error) {
				assert.Equal(t, clock.Now(), params.Now)
				return true, nil
			}),
	)

	counted := 0
	cb := func() { counted++ }

	first, err := svc.TrackDownload(ctx, testCallerAddr, testDownloadPath, cb)
	require.NoError(t, err)
	assert.True(t, first)

	clock.AddTime(30 * time.Minute)
	first, err = svc.TrackDownload(ctx, testCallerAddr, testDownloadPath, cb)
	require.NoError(t, err)
	assert.False(t, first)

	clock.AddTime(45 * time.Minute)
	first, err = svc.TrackDownload(ctx, testCallerAddr, testDownloadPath, cb)
	require.NoError(t, err)
	assert.True(t, first)

	assert.Equal(t, 2, counted)
}

func TestDownloadService_TrackDownload_RequiresAddrAndPath(t *testing.T) {
	t.Parallel()
	_, _, svc := newDownloadService(t)

	_, err := svc.TrackDownload(context.Background(), "", testDownloadPath, nil)
	require.Error(t, err)

	_, err = svc.TrackDownload(context.Background(), testCallerAddr, "", nil)
	require.Error(t, err)
}

func TestDownloadService_CollectExpired(t *testing.T) {
	t.Parallel()

	t.Run("reports removed count", func(t *testing.T) {
		trackers, clock, svc := newDownloadService(t)

		trackers.EXPECT().DeleteExpired(gomock.Any(), clock.Now()).Return(int64(7), nil)

		removed, err := svc.CollectExpired(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(7), removed)
	})

	t.Run("wraps repository errors", func(t *testing.T) {
		trackers, _, svc := newDownloadService(t)

		trackers.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("connection reset"))

		_, err := svc.CollectExpired(context.Background())
		require.Error(t, err)
	})
}
