package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TokenStore persists the bearer token across restarts of the gateway.
// Load returns "" when no token is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
	// ClearIf removes the stored token only if it equals token, atomically.
	ClearIf(ctx context.Context, token string) (bool, error)
}

type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Load(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

func (s *MemoryTokenStore) ClearIf(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" || s.token != token {
		return false, nil
	}
	s.token = ""
	return true, nil
}

const RedisTokenKey = "assetshare:session:token"

var clearIfScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisTokenStore struct {
	client *redis.Client
	key    string
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client, key: RedisTokenKey}
}

func (s *RedisTokenStore) Load(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load session token: %w", err)
	}
	return token, nil
}

func (s *RedisTokenStore) Save(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) ClearIf(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	n, err := clearIfScript.Run(ctx, s.client, []string{s.key}, token).Int()
	if err != nil {
		return false, fmt.Errorf("failed to clear session token: %w", err)
	}
	return n > 0, nil
}

const (
	MongoSessionsCollection = "sessions"
	mongoSessionID          = "session"
)

type tokenDocument struct {
	ID        string    `bson:"_id"`
	Token     string    `bson:"token"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type MongoTokenStore struct {
	collection *mongo.Collection
}

func NewMongoTokenStore(client *mongo.Client, databaseName string) *MongoTokenStore {
	return &MongoTokenStore{
		collection: client.Database(databaseName).Collection(MongoSessionsCollection),
	}
}

func (s *MongoTokenStore) Load(ctx context.Context) (string, error) {
	var doc tokenDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": mongoSessionID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load session token: %w", err)
	}
	return doc.Token, nil
}

func (s *MongoTokenStore) Save(ctx context.Context, token string) error {
	doc := tokenDocument{ID: mongoSessionID, Token: token, UpdatedAt: time.Now().UTC()}
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": mongoSessionID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}
	return nil
}

func (s *MongoTokenStore) Clear(ctx context.Context) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": mongoSessionID}); err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	return nil
}

func (s *MongoTokenStore) ClearIf(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": mongoSessionID, "token": token})
	if err != nil {
		return false, fmt.Errorf("failed to clear session token: %w", err)
	}
	return res.DeletedCount > 0, nil
}
