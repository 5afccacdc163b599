package testutil

import (
	"context"

	"github.com/dimitrije/leaderboard-api/internal/models"
	"github.com/dimitrije/leaderboard-api/internal/services"
	"github.com/stretchr/testify/mock"
)

// MockRecordService mocks the RecordService of a single schema
type MockRecordService struct {
	mock.Mock
	schema models.Schema
}

// NewMockRecordService returns a mock serving schema
func NewMockRecordService(schema models.Schema) *MockRecordService {
	return &MockRecordService{schema: schema}
}

func (m *MockRecordService) Schema() models.Schema {
	return m.schema
}

func (m *MockRecordService) List(ctx context.Context, page int) (*services.Page, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Page), args.Error(1)
}

func (m *MockRecordService) Get(ctx context.Context, id string) (*models.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Record), args.Error(1)
}

func (m *MockRecordService) Create(ctx context.Context, raw map[string]any) (*models.Record, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Record), args.Error(1)
}

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Save(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockProvider mocks an OAuth identity provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	return "auth0"
}

func (m *MockProvider) GetConsentURL(state string) string {
	return "https://idp.example.com/authorize?state=" + state
}

func (m *MockProvider) ExchangeCode(ctx context.Context, code string) (*models.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockProvider) LogoutURL(returnTo string) string {
	return "https://idp.example.com/v2/logout?returnTo=" + returnTo
}
