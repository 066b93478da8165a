// Package mocks provides mock implementations for testing the background job system.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our port
// interfaces. The mocks are generated using go:generate directives and provide a fluent
// API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	provider := mocks.NewMockScanProvider(ctrl)
//	provider.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Return("scan-id", nil)
package mocks

// Generate mock for ScanRecordRepository interface from internal/core package.
// This creates MockScanRecordRepository with methods for all ScanRecordRepository interface methods:
// Find, Create, MarkSubmitted, MarkComplete, ListUnfinished, DeleteByPathPrefix
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=scan_record_repository_mock.go github.com/hmodding/website-jobs/internal/core ScanRecordRepository

// Generate mock for DeletionScheduleRepository interface from internal/core package.
// This creates MockDeletionScheduleRepository with methods for all DeletionScheduleRepository interface methods:
// Create, FindDue, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=deletion_schedule_repository_mock.go github.com/hmodding/website-jobs/internal/core DeletionScheduleRepository

// Generate mock for DownloadTrackerRepository interface from internal/core package.
// This creates MockDownloadTrackerRepository with methods for all DownloadTrackerRepository interface methods:
// Touch, DeleteExpired
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=download_tracker_repository_mock.go github.com/hmodding/website-jobs/internal/core DownloadTrackerRepository

// Generate mock for ModRepository interface from internal/core package.
// This creates MockModRepository with methods for all ModRepository interface methods:
// DeleteVersions, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=mod_repository_mock.go github.com/hmodding/website-jobs/internal/core ModRepository

// Generate mock for ScanProvider interface from internal/core package.
// This creates MockScanProvider with methods for all ScanProvider interface methods:
// Submit, Report
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=scan_provider_mock.go github.com/hmodding/website-jobs/internal/core ScanProvider

// Generate mock for FileStore interface from internal/core package.
// This creates MockFileStore with methods for all FileStore interface methods:
// Read, DeleteTree
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=file_store_mock.go github.com/hmodding/website-jobs/internal/core FileStore
