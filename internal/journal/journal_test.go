package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cristianoliveira/pushdesk/internal/config"
	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/gateway"
	"github.com/cristianoliveira/pushdesk/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

func newTestJournal(t *testing.T) *Journal {
	t.Helper()

	j, err := Open(filepath.Join(t.TempDir(), "nested", FileName))
	require.NoError(t, err)
	j.now = func() time.Time { return base }
	t.Cleanup(func() {
		require.NoError(t, j.Close())
	})
	return j
}

func record(t *testing.T, j *Journal, at time.Time, outcome gateway.Outcome, ids ...domain.ClientID) {
	t.Helper()
	require.NoError(t, j.RecordDispatch(context.Background(), roster.DispatchRecord{
		At:        at,
		Title:     "Title " + at.Format("15:04"),
		Message:   "Body",
		ClientIDs: ids,
		Outcome:   outcome,
	}))
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestRecordAndList(t *testing.T) {
	j := newTestJournal(t)
	record(t, j, base.Add(-2*time.Hour), gateway.Outcome{Success: true, SentCount: 2}, "1", "2")
	record(t, j, base.Add(-time.Hour), gateway.Outcome{Success: true, SentCount: 1, Message: gateway.OfflineSentMessage, Offline: true}, "1700000000000")
	record(t, j, base, gateway.Outcome{Success: false, Message: "quota exceeded"}, "3")

	entries, err := j.List(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "quota exceeded", entries[0].OutcomeMessage)
	assert.False(t, entries[0].Success)
	assert.Equal(t, gateway.ModeServer, entries[0].Mode)

	assert.Equal(t, gateway.ModeOffline, entries[1].Mode)
	assert.Equal(t, []domain.ClientID{"1700000000000"}, entries[1].ClientIDs)

	assert.Equal(t, []domain.ClientID{"1", "2"}, entries[2].ClientIDs)
	assert.Equal(t, 2, entries[2].SentCount)
	assert.True(t, entries[2].DispatchedAt.Equal(base.Add(-2*time.Hour)))
}

func TestListFilters(t *testing.T) {
	j := newTestJournal(t)
	record(t, j, base.Add(-48*time.Hour), gateway.Outcome{Success: true, Mock: true}, "1")
	record(t, j, base.Add(-time.Hour), gateway.Outcome{Success: true, Mock: true}, "2")
	record(t, j, base, gateway.Outcome{Success: true}, "3")

	tests := []struct {
		name string
		opts ListOptions
		want int
	}{
		{name: "mode", opts: ListOptions{Mode: gateway.ModeMock}, want: 2},
		{name: "since", opts: ListOptions{Since: base.Add(-2 * time.Hour)}, want: 2},
		{name: "mode and since", opts: ListOptions{Mode: gateway.ModeMock, Since: base.Add(-2 * time.Hour)}, want: 1},
		{name: "limit", opts: ListOptions{Limit: 1}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := j.List(context.Background(), tt.opts)
			require.NoError(t, err)
			assert.Len(t, entries, tt.want)
		})
	}
}

func TestListRejectsUnknownMode(t *testing.T) {
	j := newTestJournal(t)
	_, err := j.List(context.Background(), ListOptions{Mode: "carrier-pigeon"})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestListEmpty(t *testing.T) {
	entries, err := newTestJournal(t).List(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestRecordWithoutTimestampUsesClock(t *testing.T) {
	j := newTestJournal(t)
	record(t, j, time.Time{}, gateway.Outcome{Success: true}, "1")

	entries, err := j.List(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].DispatchedAt.Equal(base))
}

func TestPrune(t *testing.T) {
	j := newTestJournal(t)
	record(t, j, base.AddDate(0, 0, -10), gateway.Outcome{Success: true}, "1")
	record(t, j, base.AddDate(0, 0, -3), gateway.Outcome{Success: true}, "2")
	record(t, j, base, gateway.Outcome{Success: true}, "3")

	n, err := j.Prune(context.Background(), 7, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	entries, _ := j.List(context.Background(), ListOptions{})
	assert.Len(t, entries, 3)

	n, err = j.Prune(context.Background(), 7, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	entries, _ = j.List(context.Background(), ListOptions{})
	assert.Len(t, entries, 2)

	n, err = j.Prune(context.Background(), 0, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = j.Prune(context.Background(), -1, false)
	assert.Error(t, err)
}

func TestBroadcasterRecordsIntoJournal(t *testing.T) {
	j := newTestJournal(t)
	b := roster.NewBroadcaster(senderFunc(func(_ context.Context, req gateway.PushRequest) (gateway.Outcome, error) {
		return gateway.Outcome{Success: true, SentCount: len(req.ClientIDs)}, nil
	}), roster.WithRecorder(j), roster.WithBroadcastClock(func() time.Time { return base }))

	_, err := b.Broadcast(context.Background(), []domain.ClientID{"4", "5"}, "Sale", "Everything -20%")
	require.NoError(t, err)

	entries, err := j.List(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Sale", entries[0].Title)
	assert.Equal(t, 2, entries[0].SentCount)
}

func TestDefaultPathUsesStateDir(t *testing.T) {
	dir := t.TempDir()
	config.Set("state_dir", dir)
	t.Cleanup(func() { config.Set("state_dir", "") })
	assert.Equal(t, filepath.Join(dir, FileName), DefaultPath())
}

type senderFunc func(ctx context.Context, req gateway.PushRequest) (gateway.Outcome, error)

func (f senderFunc) Send(ctx context.Context, req gateway.PushRequest) (gateway.Outcome, error) {
	return f(ctx, req)
}
