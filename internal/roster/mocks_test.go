package roster

import (
	"context"
	"sync"

	"github.com/cristianoliveira/pushdesk/internal/gateway"
	"github.com/stretchr/testify/mock"
)

type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) Fetch(ctx context.Context, params gateway.FetchParams) (gateway.FetchResult, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(gateway.FetchResult), args.Error(1)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, req gateway.PushRequest) (gateway.Outcome, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(gateway.Outcome), args.Error(1)
}

type memoryRecorder struct {
	mu      sync.Mutex
	records []DispatchRecord
	err     error
}

func (r *memoryRecorder) RecordDispatch(_ context.Context, rec DispatchRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, rec)
	return nil
}
