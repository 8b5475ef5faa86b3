package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	redis "github.com/redis/go-redis/v9"
)

// Store is the persistence port for the session state the original client
// kept in local storage: the user record, the current-room pointer and the
// theme preference. Entries never expire.
type Store interface {
	SaveUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (*User, error)
	DeleteUser(ctx context.Context, id string) error

	SetCurrentRoom(ctx context.Context, userID string, room CurrentRoom) error
	GetCurrentRoom(ctx context.Context, userID string) (*CurrentRoom, error)
	ClearCurrentRoom(ctx context.Context, userID string) error

	SetTheme(ctx context.Context, userID, theme string) error
	GetTheme(ctx context.Context, userID string) (string, error)
}

// key formats, fz_ prefix kept from the web client's storage keys
const (
	UserKey        = "fz_user:%s"
	CurrentRoomKey = "fz_current_room:%s"
	ThemeKey       = "fz_theme:%s"
)

func MakeUserKey(id string) string {
	return fmt.Sprintf(UserKey, id)
}

func MakeCurrentRoomKey(userID string) string {
	return fmt.Sprintf(CurrentRoomKey, userID)
}

func MakeThemeKey(userID string) string {
	return fmt.Sprintf(ThemeKey, userID)
}

type RedisStore struct {
	Client *redis.Client
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(addr string) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "",
		DB:       0,
	})
	return &RedisStore{Client: client}
}

func (s *RedisStore) SaveUser(ctx context.Context, user User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, MakeUserKey(user.ID), data, 0).Err()
}

func (s *RedisStore) GetUser(ctx context.Context, id string) (*User, error) {
	data, err := s.Client.Get(ctx, MakeUserKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *RedisStore) DeleteUser(ctx context.Context, id string) error {
	return s.Client.Del(ctx, MakeUserKey(id), MakeCurrentRoomKey(id), MakeThemeKey(id)).Err()
}

func (s *RedisStore) SetCurrentRoom(ctx context.Context, userID string, room CurrentRoom) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, MakeCurrentRoomKey(userID), data, 0).Err()
}

func (s *RedisStore) GetCurrentRoom(ctx context.Context, userID string) (*CurrentRoom, error) {
	data, err := s.Client.Get(ctx, MakeCurrentRoomKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var room CurrentRoom
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *RedisStore) ClearCurrentRoom(ctx context.Context, userID string) error {
	return s.Client.Del(ctx, MakeCurrentRoomKey(userID)).Err()
}

func (s *RedisStore) SetTheme(ctx context.Context, userID, theme string) error {
	return s.Client.Set(ctx, MakeThemeKey(userID), theme, 0).Err()
}

func (s *RedisStore) GetTheme(ctx context.Context, userID string) (string, error) {
	theme, err := s.Client.Get(ctx, MakeThemeKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return theme, nil
}

// MemoryStore backs handler tests and single-node dev runs without redis.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[string]User
	rooms  map[string]CurrentRoom
	themes map[string]string
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[string]User),
		rooms:  make(map[string]CurrentRoom),
		themes: make(map[string]string),
	}
}

func (s *MemoryStore) SaveUser(_ context.Context, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (s *MemoryStore) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	delete(s.rooms, id)
	delete(s.themes, id)
	return nil
}

func (s *MemoryStore) SetCurrentRoom(_ context.Context, userID string, room CurrentRoom) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[userID] = room
	return nil
}

func (s *MemoryStore) GetCurrentRoom(_ context.Context, userID string) (*CurrentRoom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[userID]
	if !ok {
		return nil, nil
	}
	return &room, nil
}

func (s *MemoryStore) ClearCurrentRoom(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, userID)
	return nil
}

func (s *MemoryStore) SetTheme(_ context.Context, userID, theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.themes[userID] = theme
	return nil
}

func (s *MemoryStore) GetTheme(_ context.Context, userID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.themes[userID], nil
}
