package gateway

import (
	"context"

	"github.com/cristianoliveira/pushdesk/internal/apiclient"
	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockAPI is a testify mock of API.
//
//	api := new(MockAPI)
//	api.On("ListClients", mock.Anything, mock.Anything).Return(apiclient.ListResponse{}, nil)
type MockAPI struct {
	mock.Mock
}

var _ API = (*MockAPI)(nil)

func (m *MockAPI) ListClients(ctx context.Context, params apiclient.ListParams) (apiclient.ListResponse, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(apiclient.ListResponse), args.Error(1)
}

func (m *MockAPI) CreateClient(ctx context.Context, draft domain.Draft) (domain.Client, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(domain.Client), args.Error(1)
}

func (m *MockAPI) SendPush(ctx context.Context, payload apiclient.PushPayload) (apiclient.PushResponse, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(apiclient.PushResponse), args.Error(1)
}
