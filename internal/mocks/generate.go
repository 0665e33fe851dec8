// Package mocks provides gomock implementations of the pipeline ports in internal/core.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	queue := mocks.NewMockQueueRepository(ctrl)
//	queue.EXPECT().Add(gomock.Any(), gomock.Any()).Return(job, nil)
package mocks

// Broker and persistence.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=queue_repository_mock.go github.com/target/photo-pipeline/internal/core QueueRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=photo_repository_mock.go github.com/target/photo-pipeline/internal/core PhotoRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=object_storage_mock.go github.com/target/photo-pipeline/internal/core ObjectStorage

// Realtime fan-out.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=status_channel_mock.go github.com/target/photo-pipeline/internal/core StatusChannel

// Processing collaborators. These are external services reached over HTTP in production.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=derivative_generator_mock.go github.com/target/photo-pipeline/internal/core DerivativeGenerator
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=ai_analyzer_mock.go github.com/target/photo-pipeline/internal/core AIAnalyzer
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auxiliary_asset_generator_mock.go github.com/target/photo-pipeline/internal/core AuxiliaryAssetGenerator
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=assessment_runner_mock.go github.com/target/photo-pipeline/internal/core AssessmentRunner
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=photo_processor_mock.go github.com/target/photo-pipeline/internal/core PhotoProcessor
