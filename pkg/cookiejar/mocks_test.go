package cookiejar_test

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/mock"
)

// MockNativeManager is a mock implementation of cookiejar.NativeManager.
type MockNativeManager struct {
	mock.Mock
}

func (m *MockNativeManager) Get(ctx context.Context, url string) (map[string]*http.Cookie, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*http.Cookie), args.Error(1)
}

func (m *MockNativeManager) Set(ctx context.Context, url string, cookie *http.Cookie) error {
	args := m.Called(ctx, url, cookie)
	return args.Error(0)
}

// MockStore is a mock implementation of cookiejar.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SetCookies(ctx context.Context, url string, cookies []*http.Cookie) error {
	args := m.Called(ctx, url, cookies)
	return args.Error(0)
}

func (m *MockStore) Cookies(ctx context.Context, url string) ([]*http.Cookie, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*http.Cookie), args.Error(1)
}
