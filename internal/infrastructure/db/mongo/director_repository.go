package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/domain"
)

const collectionDirectors = "directors"

type DirectorRepository struct {
	col *mongo.Collection
}

func NewDirectorRepository(db *mongo.Database) *DirectorRepository {
	return &DirectorRepository{col: db.Collection(collectionDirectors)}
}

type directorDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	BirthYear int                `bson:"birth_year"`
}

func (d directorDoc) toDomain() *domain.Director {
	return &domain.Director{ID: d.ID.Hex(), Name: d.Name, BirthYear: d.BirthYear}
}

func (r *DirectorRepository) List(ctx context.Context) ([]domain.Director, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list directors: %w", err)
	}
	defer cur.Close(ctx)

	var docs []directorDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode directors: %w", err)
	}

	directors := make([]domain.Director, 0, len(docs))
	for _, d := range docs {
		directors = append(directors, *d.toDomain())
	}
	return directors, nil
}

func (r *DirectorRepository) FindByID(ctx context.Context, id string) (*domain.Director, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc directorDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDirectorNotFound
		}
		return nil, fmt.Errorf("find director: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *DirectorRepository) Create(ctx context.Context, d *domain.Director) (*domain.Director, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := directorDoc{Name: d.Name, BirthYear: d.BirthYear}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert director: %w", err)
	}
	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *DirectorRepository) Update(ctx context.Context, id string, d *domain.Director) (*domain.Director, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"name":       d.Name,
		"birth_year": d.BirthYear,
	}})
	if err != nil {
		return nil, fmt.Errorf("update director: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrDirectorNotFound
	}
	return &domain.Director{ID: id, Name: d.Name, BirthYear: d.BirthYear}, nil
}

func (r *DirectorRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete director: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrDirectorNotFound
	}
	return nil
}
