package reactions

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Teara-exe/starryCafeBot/models"
)

// MockReactionsUseCase is a mock implementation of ReactionsUseCaseInterface
type MockReactionsUseCase struct {
	mock.Mock
}

func (m *MockReactionsUseCase) ProcessMessageEvent(ctx context.Context, event models.MessageReceivedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockReactionsUseCase) ProcessReactionEvent(ctx context.Context, event models.ReactionEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
