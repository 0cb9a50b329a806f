package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/base62-shortener/internal/entity"
)

// MockUrlRepository is a testify mock of the use case URL repository.
type MockUrlRepository struct {
	mock.Mock
}

// NewMockUrlRepository creates a mock that asserts its expectations when the test finishes.
func NewMockUrlRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUrlRepository {
	m := new(MockUrlRepository)
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockUrlRepository) FindByOriginalURL(ctx context.Context, originalURL string) (*entity.URL, error) {
	args := m.Called(ctx, originalURL)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *MockUrlRepository) CreateAndAssignCode(ctx context.Context, originalURL string, encode func(uint64) string) (*entity.URL, error) {
	args := m.Called(ctx, originalURL, encode)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *MockUrlRepository) FindByShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	args := m.Called(ctx, shortCode)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}
