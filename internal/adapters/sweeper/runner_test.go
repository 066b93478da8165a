package sweeper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hmodding/website-jobs/config"
	"github.com/hmodding/website-jobs/internal/domain/model"
	"github.com/hmodding/website-jobs/internal/mocks"
)

func newTestRunner(t *testing.T, interval time.Duration) (*mocks.MockDeletionScheduleRepository, *Runner) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	schedules := mocks.NewMockDeletionScheduleRepository(ctrl)

	runner, err := NewRunner(RunnerOptions{
		Files:       mocks.NewMockFileStore(ctrl),
		ScanRecords: mocks.NewMockScanRecordRepository(ctrl),
		Mods:        mocks.NewMockModRepository(ctrl),
		Schedules:   schedules,
		Config: config.DeletionConfig{
			Interval:      240 * time.Hour,
			SweepInterval: interval,
			BatchSize:     100,
		},
	})
	require.NoError(t, err)
	return schedules, runner
}

func TestNewRunner_RequiresFileStore(t *testing.T) {
	t.Parallel()

	_, err := NewRunner(RunnerOptions{Config: config.DeletionConfig{SweepInterval: time.Hour}})
	require.Error(t, err)
}

func TestRunner_ReschedulesAfterEachSweep(t *testing.T) {
	t.Parallel()
	schedules, runner := newTestRunner(t, 10*time.Millisecond)

	sweeps := make(chan struct{}, 16)
	schedules.EXPECT().
		FindDue(gomock.Any(), gomock.Any(), 100).
		DoAndReturn(func(context.Context, time.Time, int) ([]*model.DeletionSchedule, error) {
			sweeps <- struct{}{}
			return nil, nil
		}).
		AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- runner.Run(ctx) }()

	// The first sweep fires immediately; subsequent ones follow the interval.
	for i := 0; i < 3; i++ {
		select {
		case <-sweeps:
		case <-time.After(2 * time.Second):
			t.Fatalf("sweep %d never ran", i+1)
		}
	}

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err, "graceful shutdown should not be an error")
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
