package session_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/mongosession/pkg/session"
)

// MockCollection is a mock implementation of session.Collection.
type MockCollection struct {
	mock.Mock
}

func (m *MockCollection) FindOne(ctx context.Context, id string) (*session.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Document), args.Error(1)
}

func (m *MockCollection) Upsert(ctx context.Context, doc *session.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockCollection) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCollection) DeleteOlderThan(ctx context.Context, cutoff int64) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCollection) FindIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCollection) EnsureIndex(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
