// Package events publishes playlist activity so that other services can react
// to songs and collaborators being added or removed.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the Redis channel playlist events are published on.
const DefaultChannel = "openmusic:playlists"

type Type string

const (
	SongAdded           Type = "playlist.song_added"
	SongRemoved         Type = "playlist.song_removed"
	CollaboratorAdded   Type = "playlist.collaborator_added"
	CollaboratorRemoved Type = "playlist.collaborator_removed"
)

type Event struct {
	Type       Type      `json:"type"`
	PlaylistID string    `json:"playlistId"`
	ActorID    string    `json:"actorId"`
	SubjectID  string    `json:"subjectId"` // song id or collaborator user id
	Time       time.Time `json:"time"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// RedisPublisher publishes events as JSON over Redis pub/sub.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

var _ Publisher = (*RedisPublisher)(nil)

func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{rdb: rdb, channel: channel}
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "[NewRedisClient] ParseURL")
	}
	return redis.NewClient(opt), nil
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "[RedisPublisher.Publish] Marshal")
	}
	if err := p.rdb.Publish(ctx, p.channel, string(data)).Err(); err != nil {
		return errors.Wrapf(err, "[RedisPublisher.Publish] channel %s", p.channel)
	}
	return nil
}

// NopPublisher drops every event. It is used when Redis is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
