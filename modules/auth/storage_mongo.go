package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/volunhub/volunhub/pkg/geo"
)

const usersCollection = "users"

// accountDoc is the persisted shape of an Account. UUIDs are stored as
// strings so documents stay readable in the shell. Verification fields and
// the password hash never leave this package.
type accountDoc struct {
	ID           string `bson:"_id"`
	Name         string `bson:"name"`
	Username     string `bson:"username"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password"`

	PhoneNumber    string     `bson:"phone_number"`
	DateOfBirth    time.Time  `bson:"date_of_birth"`
	Gender         string     `bson:"gender"`
	Institution    string     `bson:"institution"`
	EducationLevel string     `bson:"education_level"`
	Address        string     `bson:"address"`
	Location       *geo.Point `bson:"location,omitempty"`

	UserType string `bson:"user_type"`
	Status   string `bson:"status"`

	VerificationCode string    `bson:"verification_code,omitempty"`
	CodeExpiresAt    time.Time `bson:"code_expires_at,omitempty"`

	TotalHoursVolunteered float64 `bson:"total_hours_volunteered"`
	TotalProjectsJoined   int     `bson:"total_projects_joined"`
	ImpactScore           float64 `bson:"impact_score"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStorage implements Storage backed by the "users" collection.
type MongoStorage struct {
	coll *mongo.Collection
}

// NewMongoStorage creates an account storage using db's users collection.
func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email and username indexes, the user
// type index, and the 2dsphere location index. Safe to call on every
// startup. Email and username are stored lowercased, so the unique indexes
// enforce case-insensitive uniqueness.
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_type", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "location", Value: "2dsphere"}},
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

func (s *MongoStorage) Create(ctx context.Context, account *Account) error {
	_, err := s.coll.InsertOne(ctx, toDoc(account))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *MongoStorage) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoStorage) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.findOne(ctx, bson.M{"_id": id.String()})
}

func (s *MongoStorage) Update(ctx context.Context, account *Account) error {
	doc := toDoc(account)
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStorage) findOne(ctx context.Context, filter bson.M) (*Account, error) {
	var doc accountDoc
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toAccount()
}

func toDoc(a *Account) accountDoc {
	return accountDoc{
		ID:           a.ID.String(),
		Name:         a.Name,
		Username:     a.Username,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,

		PhoneNumber:    a.PhoneNumber,
		DateOfBirth:    a.DateOfBirth,
		Gender:         a.Gender,
		Institution:    a.Institution,
		EducationLevel: a.EducationLevel,
		Address:        a.Address,
		Location:       a.Location,

		UserType: a.UserType,
		Status:   a.Status,

		VerificationCode: a.VerificationCode,
		CodeExpiresAt:    a.CodeExpiresAt,

		TotalHoursVolunteered: a.TotalHoursVolunteered,
		TotalProjectsJoined:   a.TotalProjectsJoined,
		ImpactScore:           a.ImpactScore,

		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (d accountDoc) toAccount() (*Account, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse account id: %w", err)
	}
	return &Account{
		ID:           id,
		Name:         d.Name,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,

		PhoneNumber:    d.PhoneNumber,
		DateOfBirth:    d.DateOfBirth,
		Gender:         d.Gender,
		Institution:    d.Institution,
		EducationLevel: d.EducationLevel,
		Address:        d.Address,
		Location:       d.Location,

		UserType: d.UserType,
		Status:   d.Status,

		VerificationCode: d.VerificationCode,
		CodeExpiresAt:    d.CodeExpiresAt,

		TotalHoursVolunteered: d.TotalHoursVolunteered,
		TotalProjectsJoined:   d.TotalProjectsJoined,
		ImpactScore:           d.ImpactScore,

		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}
