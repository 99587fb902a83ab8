package mongodb

import (
	"context"
	"errors"
	"fmt"
	"moviecatalog/movie"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const DefaultCollection = "movies"

type movieDocument struct {
	ID           bson.ObjectID `bson:"_id"`
	Title        string        `bson:"title"`
	Synopsis     string        `bson:"synopsis"`
	ReleasedDate time.Time     `bson:"releasedDate"`
	ReleaseYear  string        `bson:"releaseYear"`
	Rating       *float64      `bson:"rating,omitempty"`
	Poster       string        `bson:"poster"`
	Trailer      string        `bson:"trailer,omitempty"`
	Genre        []string      `bson:"genre"`
	Director     string        `bson:"director"`
	Cast         []string      `bson:"cast"`
	CreatedAt    time.Time     `bson:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt"`
}

// MovieRepository implements movie.Repository on a MongoDB collection.
type MovieRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMovieRepository(db *mongo.Database, collection string) *MovieRepository {
	if collection == "" {
		collection = DefaultCollection
	}
	return &MovieRepository{
		coll: db.Collection(collection),
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// EnsureIndexes creates the unique (title, releaseYear) index backing the
// duplicate check done by the usecase.
func (r *MovieRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "title", Value: 1}, {Key: "releaseYear", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("title_releaseYear_unique"),
	})
	if err != nil {
		return fmt.Errorf("mongodb: create movie indexes: %w", err)
	}
	return nil
}

func (r *MovieRepository) Find(ctx context.Context, q movie.Query) ([]movie.Movie, error) {
	opts := options.Find()
	if sort := buildSort(q.Sort); sort != nil {
		opts.SetSort(sort)
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	if projection := buildProjection(q.Fields); projection != nil {
		opts.SetProjection(projection)
	}

	cursor, err := r.coll.Find(ctx, buildFilter(q.Predicate), opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb: find movies: %w", err)
	}

	var docs []movieDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongodb: decode movies: %w", err)
	}

	movies := make([]movie.Movie, len(docs))
	for i, doc := range docs {
		movies[i] = toDomainMovie(doc)
	}
	return movies, nil
}

func (r *MovieRepository) Get(ctx context.Context, id string) (movie.Movie, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return movie.Movie{}, movie.ErrMovieNotFound
	}

	var doc movieDocument
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return movie.Movie{}, movie.ErrMovieNotFound
		}
		return movie.Movie{}, fmt.Errorf("mongodb: get movie: %w", err)
	}
	return toDomainMovie(doc), nil
}

func (r *MovieRepository) Exists(ctx context.Context, title, releaseYear string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx,
		bson.D{{Key: "title", Value: title}, {Key: "releaseYear", Value: releaseYear}},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, fmt.Errorf("mongodb: check movie exists: %w", err)
	}
	return n > 0, nil
}

func (r *MovieRepository) Create(ctx context.Context, m movie.Movie) error {
	doc := toMovieDocument(m)
	doc.ID = bson.NewObjectID()
	doc.CreatedAt = r.now()
	doc.UpdatedAt = doc.CreatedAt

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return movie.ErrMovieExists
		}
		return fmt.Errorf("mongodb: insert movie: %w", err)
	}
	return nil
}

func (r *MovieRepository) Update(ctx context.Context, m movie.Movie) error {
	oid, err := bson.ObjectIDFromHex(m.ID)
	if err != nil {
		return movie.ErrMovieNotFound
	}

	doc := toMovieDocument(m)
	doc.ID = oid
	doc.UpdatedAt = r.now()

	res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: oid}}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return movie.ErrMovieExists
		}
		return fmt.Errorf("mongodb: replace movie: %w", err)
	}
	if res.MatchedCount == 0 {
		return movie.ErrMovieNotFound
	}
	return nil
}

func (r *MovieRepository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return movie.ErrMovieNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("mongodb: delete movie: %w", err)
	}
	if res.DeletedCount == 0 {
		return movie.ErrMovieNotFound
	}
	return nil
}

func toDomainMovie(doc movieDocument) movie.Movie {
	return movie.Movie{
		ID:           doc.ID.Hex(),
		Title:        doc.Title,
		Synopsis:     doc.Synopsis,
		ReleasedDate: doc.ReleasedDate,
		ReleaseYear:  doc.ReleaseYear,
		Rating:       doc.Rating,
		Poster:       doc.Poster,
		Trailer:      doc.Trailer,
		Genre:        doc.Genre,
		Director:     doc.Director,
		Cast:         doc.Cast,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}

func toMovieDocument(m movie.Movie) movieDocument {
	genre := m.Genre
	if genre == nil {
		genre = []string{}
	}
	return movieDocument{
		Title:        m.Title,
		Synopsis:     m.Synopsis,
		ReleasedDate: m.ReleasedDate.UTC(),
		ReleaseYear:  m.ReleaseYear,
		Rating:       m.Rating,
		Poster:       m.Poster,
		Trailer:      m.Trailer,
		Genre:        genre,
		Director:     m.Director,
		Cast:         m.Cast,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
