package repository

import (
	"context"

	"authsvc/internal/domain/repository"

	"github.com/stretchr/testify/mock"
)

// MockTransactionManager is a mock of repository.TransactionManager.
// Set Factory to run the callback against it; otherwise only the recorded call is returned.
type MockTransactionManager struct {
	mock.Mock

	Factory repository.RepositoryFactory
}

var _ repository.TransactionManager = (*MockTransactionManager)(nil)

// NewMockTransactionManager creates a mock whose expectations are asserted at test cleanup.
func NewMockTransactionManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTransactionManager {
	m := &MockTransactionManager{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Execute records the call, runs fn against Factory when set, and returns fn's error
// unless the expectation overrides it with a non-nil one.
func (m *MockTransactionManager) Execute(ctx context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	if m.Factory == nil {
		return nil
	}

	return fn(m.Factory)
}

// MockRepositoryFactory is a mock of repository.RepositoryFactory.
type MockRepositoryFactory struct {
	mock.Mock
}

var _ repository.RepositoryFactory = (*MockRepositoryFactory)(nil)

// NewMockRepositoryFactory creates a mock whose expectations are asserted at test cleanup.
func NewMockRepositoryFactory(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRepositoryFactory {
	m := &MockRepositoryFactory{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRepositoryFactory) UserRepo() repository.UserRepository {
	args := m.Called()
	if v := args.Get(0); v != nil {
		return v.(repository.UserRepository)
	}

	return nil
}
