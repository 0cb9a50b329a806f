package http

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/base62-shortener/internal/entity"
)

// MockUrlUseCase is a testify mock of the use case consumed by the HTTP handlers.
type MockUrlUseCase struct {
	mock.Mock
}

func NewMockUrlUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUrlUseCase {
	m := new(MockUrlUseCase)
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockUrlUseCase) ShortenURL(ctx context.Context, originalURL string) (string, error) {
	args := m.Called(ctx, originalURL)
	return args.String(0), args.Error(1)
}

func (m *MockUrlUseCase) ResolveShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	args := m.Called(ctx, shortCode)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}
