package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const sessionsCollection = "sessions"

// sessionDoc is the persisted shape of a Session. UUIDs are stored as
// strings so documents stay readable in the shell.
type sessionDoc struct {
	ID        string    `bson:"_id"`
	Token     string    `bson:"token"`
	UserID    string    `bson:"user_id"`
	UserType  string    `bson:"user_type"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

// MongoStore implements Store backed by a MongoDB collection. A TTL index on
// expires_at lets the server reap expired sessions on its own.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a session store using the "sessions" collection of db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(sessionsCollection)}
}

// EnsureIndexes creates the unique token index and the TTL expiry index.
// Safe to call on every startup.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		return fmt.Errorf("create session indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Create(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}

	_, err := s.coll.InsertOne(ctx, sessionDoc{
		ID:        session.ID.String(),
		Token:     session.Token,
		UserID:    session.UserID.String(),
		UserType:  session.UserType,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, token string) (*Session, error) {
	var doc sessionDoc
	err := s.coll.FindOne(ctx, bson.M{"token": token}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}

	session, err := doc.toSession()
	if err != nil {
		return nil, err
	}
	// The TTL monitor runs once a minute, so expiry is still checked here.
	if session.IsExpired() {
		_ = s.Delete(ctx, token)
		return nil, ErrSessionExpired
	}
	return session, nil
}

func (s *MongoStore) Delete(ctx context.Context, token string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"token": token}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *MongoStore) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := s.coll.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}

func (s *MongoStore) DeleteExpired(ctx context.Context) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": time.Now()}})
	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	return nil
}

func (d sessionDoc) toSession() (*Session, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, ErrInvalidSession
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, ErrInvalidSession
	}
	return &Session{
		ID:        id,
		Token:     d.Token,
		UserID:    userID,
		UserType:  d.UserType,
		ExpiresAt: d.ExpiresAt,
		CreatedAt: d.CreatedAt,
	}, nil
}
