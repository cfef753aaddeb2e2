package usecase

import (
	"github.com/positonic/exponential-sync/pkg/domain/interfaces"
	"github.com/positonic/exponential-sync/pkg/service/provider"
)

type UseCases struct {
	repo    interfaces.Repository
	clients ClientFactory
	Sync    *SyncUseCase
}

type Option func(*UseCases)

// WithClientFactory overrides how provider clients are built, used by
// tests to inject a fake provider.
func WithClientFactory(f ClientFactory) Option {
	return func(uc *UseCases) {
		uc.clients = f
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:    repo,
		clients: provider.New,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Sync = NewSyncUseCase(repo, uc.clients)

	return uc
}
