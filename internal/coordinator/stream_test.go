package coordinator

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/sales-sync-api/internal/coordinator/mocks"
	"github.com/vfg2006/sales-sync-api/internal/domain"
)

const sampleStream = `data: {"type":"connected","timestamp":"2024-01-01T00:00:00Z"}

: heartbeat

data: {"type":"sync_start","accountId":"a"}

data: nao e json

data: {"type":"sync_progress","accountId":"a",
data: "fetched":3,"expected":9}

data: {"type":"sync_complete","accountId":"a","fetched":9}
`

func TestStreamReader_Next(t *testing.T) {
	reader := NewStreamReader(strings.NewReader(strings.ReplaceAll(sampleStream, "\n", "\r\n") + "\r\n"))

	types := make([]domain.EventType, 0)
	var progress domain.ProgressEvent
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		types = append(types, event.Type)
		if event.Type == domain.EventSyncProgress {
			progress = event
		}
	}

	assert.Equal(t, []domain.EventType{
		domain.EventConnected,
		domain.EventSyncStart,
		domain.EventSyncProgress,
		domain.EventSyncComplete,
	}, types)
	fetched, expected := progress.Counts()
	assert.Equal(t, 3, fetched)
	assert.Equal(t, 9, expected)
}

func TestFollow_DrivesCoordinator(t *testing.T) {
	ctrl := gomock.NewController(t)
	reconciler := mocks.NewMockReconciler(ctrl)
	reconciler.EXPECT().Reconcile(gomock.Any()).Return(nil)

	c := New(reconciler, testOptions())
	require.NoError(t, c.Start(context.Background(), []string{"a"}))

	seen := 0
	err := Follow(context.Background(), strings.NewReader(sampleStream+"\n"), c, func(domain.ProgressEvent) { seen++ })
	require.NoError(t, err)
	assert.Equal(t, 4, seen)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	summary, err := c.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, summary.Accounts[0].Fetched)
}
