package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/domain"
)

const collectionMovies = "movies"

type MovieRepository struct {
	col *mongo.Collection
}

func NewMovieRepository(db *mongo.Database) *MovieRepository {
	return &MovieRepository{col: db.Collection(collectionMovies)}
}

type movieDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Title      string             `bson:"title"`
	Year       int                `bson:"year"`
	DirectorID primitive.ObjectID `bson:"director_id"`
}

// movieView is a movie joined with its director by the listing pipeline.
type movieView struct {
	movieDoc `bson:",inline"`
	Director *directorDoc `bson:"director,omitempty"`
}

func (v movieView) toDomain() domain.Movie {
	m := domain.Movie{
		ID:         v.ID.Hex(),
		Title:      v.Title,
		Year:       v.Year,
		DirectorID: v.DirectorID.Hex(),
	}
	if v.Director != nil {
		name := v.Director.Name
		m.DirectorName = &name
	}
	return m
}

// joinDirector resolves director_id against the directors collection, keeping
// movies whose director does not exist.
func joinDirector(match bson.D) mongo.Pipeline {
	var p mongo.Pipeline
	if match != nil {
		p = append(p, bson.D{{Key: "$match", Value: match}})
	}
	return append(p,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionDirectors},
			{Key: "localField", Value: "director_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "director"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$director"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	)
}

func (r *MovieRepository) List(ctx context.Context) ([]domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, joinDirector(nil))
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer cur.Close(ctx)

	var views []movieView
	if err := cur.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("decode movies: %w", err)
	}

	movies := make([]domain.Movie, 0, len(views))
	for _, v := range views {
		movies = append(movies, v.toDomain())
	}
	return movies, nil
}

func (r *MovieRepository) FindByID(ctx context.Context, id string) (*domain.Movie, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, joinDirector(bson.D{{Key: "_id", Value: oid}}))
	if err != nil {
		return nil, fmt.Errorf("find movie: %w", err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, fmt.Errorf("find movie: %w", err)
		}
		return nil, domain.ErrMovieNotFound
	}

	var v movieView
	if err := cur.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode movie: %w", err)
	}
	m := v.toDomain()
	return &m, nil
}

func (r *MovieRepository) Create(ctx context.Context, m *domain.Movie) (*domain.Movie, error) {
	doc, err := newMovieDoc(m)
	if err != nil {
		return nil, err
	}

	insertCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(insertCtx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert movie: %w", err)
	}

	oid, _ := res.InsertedID.(primitive.ObjectID)
	return r.FindByID(ctx, oid.Hex())
}

func (r *MovieRepository) Update(ctx context.Context, id string, m *domain.Movie) (*domain.Movie, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	doc, err := newMovieDoc(m)
	if err != nil {
		return nil, err
	}

	updateCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(updateCtx, oid, bson.M{"$set": bson.M{
		"title":       doc.Title,
		"year":        doc.Year,
		"director_id": doc.DirectorID,
	}})
	if err != nil {
		return nil, fmt.Errorf("update movie: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrMovieNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *MovieRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMovieNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the movies collection.
func (r *MovieRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "director_id", Value: 1}}},
	})
	return err
}

func newMovieDoc(m *domain.Movie) (movieDoc, error) {
	directorID, err := primitive.ObjectIDFromHex(m.DirectorID)
	if err != nil {
		return movieDoc{}, domain.NewValidationError("director_id", "must be a valid id")
	}
	return movieDoc{Title: m.Title, Year: m.Year, DirectorID: directorID}, nil
}
