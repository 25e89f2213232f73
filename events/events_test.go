package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/openmusic/openmusic-api/events"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	rdb, err := events.NewRedisClient("redis://localhost:6379/2")
	require.NoError(t, err)
	defer rdb.Close()
	require.Equal(t, 2, rdb.Options().DB)

	_, err = events.NewRedisClient("http://not-redis")
	require.Error(t, err)
}

func TestRedisPublisher_ReportsUnreachableServer(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	p := events.NewRedisPublisher(rdb, "")
	err := p.Publish(context.Background(), events.Event{Type: events.SongAdded, PlaylistID: "playlist-1"})
	require.Error(t, err)
	require.Contains(t, err.Error(), events.DefaultChannel)
}

func TestRecorder(t *testing.T) {
	var r events.Recorder
	require.NoError(t, r.Publish(context.Background(), events.Event{Type: events.CollaboratorAdded}))
	require.NoError(t, events.NopPublisher{}.Publish(context.Background(), events.Event{}))

	got := r.Events()
	require.Len(t, got, 1)
	require.Equal(t, events.CollaboratorAdded, got[0].Type)
}
