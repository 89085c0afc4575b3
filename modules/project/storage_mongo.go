package project

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/volunhub/volunhub/pkg/geo"
)

const projectsCollection = "projects"

// projectDoc is the persisted shape of a Project. UUIDs are stored as
// strings so documents stay readable in the shell.
type projectDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Location  geo.Point `bson:"location"`
	CreatedBy string    `bson:"created_by,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStorage implements Storage backed by the "projects" collection.
type MongoStorage struct {
	coll *mongo.Collection
}

// NewMongoStorage creates a project storage using db's projects collection.
func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{coll: db.Collection(projectsCollection)}
}

// EnsureIndexes creates the 2dsphere location index. Safe to call on every
// startup.
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "location", Value: "2dsphere"}},
	})
	if err != nil {
		return fmt.Errorf("create project indexes: %w", err)
	}
	return nil
}

func (s *MongoStorage) Create(ctx context.Context, project *Project) error {
	doc := projectDoc{
		ID:        project.ID.String(),
		Name:      project.Name,
		Location:  project.Location,
		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}
	if project.CreatedBy != uuid.Nil {
		doc.CreatedBy = project.CreatedBy.String()
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (s *MongoStorage) List(ctx context.Context) ([]*Project, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []*Project
	for cursor.Next(ctx) {
		var doc projectDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode project: %w", err)
		}
		project, err := doc.toProject()
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

func (d projectDoc) toProject() (*Project, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse project id: %w", err)
	}
	project := &Project{
		ID:        id,
		Name:      d.Name,
		Location:  d.Location,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.CreatedBy != "" {
		createdBy, err := uuid.Parse(d.CreatedBy)
		if err != nil {
			return nil, fmt.Errorf("parse project creator id: %w", err)
		}
		project.CreatedBy = createdBy
	}
	return project, nil
}
