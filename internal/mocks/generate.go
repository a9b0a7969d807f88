// Package mocks provides mock implementations for testing the run console.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the
// repository contracts in internal/core and the ecosystem ports in internal/ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	searcher := mocks.NewMockRunSearcher(ctrl)
//	searcher.EXPECT().SearchRuns(gomock.Any(), gomock.Any()).Return(page, nil)
package mocks

// Ecosystem ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=run_searcher_mock.go github.com/target/runconsole/internal/ports RunSearcher
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=run_reader_mock.go github.com/target/runconsole/internal/ports RunReader
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=token_api_mock.go github.com/target/runconsole/internal/ports TokenAPI
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_api_mock.go github.com/target/runconsole/internal/ports UserAPI

// Repositories.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=preference_repository_mock.go github.com/target/runconsole/internal/core PreferenceRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=saved_query_repository_mock.go github.com/target/runconsole/internal/core SavedQueryRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/target/runconsole/internal/core CacheRepository
