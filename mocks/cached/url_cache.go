package cached

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/base62-shortener/internal/entity"
)

// MockUrlCache is a testify mock of the short code cache.
type MockUrlCache struct {
	mock.Mock
}

func NewMockUrlCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUrlCache {
	m := new(MockUrlCache)
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockUrlCache) Get(ctx context.Context, shortCode string) (*entity.URL, error) {
	args := m.Called(ctx, shortCode)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *MockUrlCache) Set(ctx context.Context, url *entity.URL) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}
