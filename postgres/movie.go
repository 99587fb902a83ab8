package postgres

import (
	"context"
	"errors"
	"fmt"
	"moviecatalog/movie"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// MovieModel represents the database model for movies
type MovieModel struct {
	ID           string         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title        string         `gorm:"not null"`
	Synopsis     string         `gorm:"not null"`
	ReleasedDate time.Time      `gorm:"not null"`
	ReleaseYear  string         `gorm:"not null"`
	Rating       *float64       `gorm:"type:numeric(3,1)"`
	Poster       string         `gorm:"not null"`
	Trailer      string         `gorm:"not null;default:''"`
	Genre        pq.StringArray `gorm:"type:text[];not null"`
	Director     string         `gorm:"not null"`
	Cast         pq.StringArray `gorm:"column:cast_members;type:text[];not null"`
	CreatedAt    time.Time      `gorm:"not null;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"not null;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (MovieModel) TableName() string {
	return "movies"
}

var columnNames = map[movie.Field]string{
	movie.FieldID:       "id",
	movie.FieldTitle:    "title",
	movie.FieldSynopsis: "synopsis",
	movie.FieldGenre:    "genre",
	movie.FieldDirector: "director",
	movie.FieldPoster:   "poster",
}

// MovieRepository implements movie.Repository interface
type MovieRepository struct {
	db *gorm.DB
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Find implements [movie.Repository].
func (r *MovieRepository) Find(ctx context.Context, q movie.Query) ([]movie.Movie, error) {
	tx := r.db.WithContext(ctx).Model(&MovieModel{})

	if where, args := buildWhere(q.Predicate); where != "" {
		tx = tx.Where(where, args...)
	}
	if order := buildOrder(q.Sort); order != "" {
		tx = tx.Order(order)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if len(q.Fields) > 0 {
		tx = tx.Select(buildColumns(q.Fields))
	}

	var models []MovieModel
	if err := tx.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("postgres: find movies: %w", err)
	}

	movies := make([]movie.Movie, len(models))
	for i, model := range models {
		movies[i] = toDomainMovie(model)
	}
	return movies, nil
}

// Get implements [movie.Repository].
func (r *MovieRepository) Get(ctx context.Context, id string) (movie.Movie, error) {
	if _, err := uuid.Parse(id); err != nil {
		return movie.Movie{}, movie.ErrMovieNotFound
	}

	var model MovieModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return movie.Movie{}, movie.ErrMovieNotFound
		}
		return movie.Movie{}, fmt.Errorf("postgres: get movie: %w", err)
	}
	return toDomainMovie(model), nil
}

// Exists implements [movie.Repository].
func (r *MovieRepository) Exists(ctx context.Context, title, releaseYear string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&MovieModel{}).
		Where("title = ? AND release_year = ?", title, releaseYear).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("postgres: check movie exists: %w", err)
	}
	return count > 0, nil
}

// Create implements [movie.Repository].
func (r *MovieRepository) Create(ctx context.Context, m movie.Movie) error {
	model := toModelMovie(m)
	model.ID = ""
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return movie.ErrMovieExists
		}
		return fmt.Errorf("postgres: insert movie: %w", err)
	}
	return nil
}

// Update implements [movie.Repository]. Every column except the creation
// timestamp is overwritten with the values of m.
func (r *MovieRepository) Update(ctx context.Context, m movie.Movie) error {
	if _, err := uuid.Parse(m.ID); err != nil {
		return movie.ErrMovieNotFound
	}

	model := toModelMovie(m)
	result := r.db.WithContext(ctx).Model(&MovieModel{ID: m.ID}).
		Select("*").
		Omit("id", "created_at").
		Updates(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return movie.ErrMovieExists
		}
		return fmt.Errorf("postgres: update movie: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return movie.ErrMovieNotFound
	}
	return nil
}

// Delete implements [movie.Repository].
func (r *MovieRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return movie.ErrMovieNotFound
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&MovieModel{})
	if result.Error != nil {
		return fmt.Errorf("postgres: delete movie: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return movie.ErrMovieNotFound
	}
	return nil
}

// buildWhere renders p as a parameterised SQL condition. Values are escaped
// so that % and _ typed by users match literally.
func buildWhere(p movie.Predicate) (string, []interface{}) {
	if p.IsEmpty() {
		return "", nil
	}

	clauses := make([]string, 0, len(p.Conditions))
	args := make([]interface{}, 0, len(p.Conditions))
	for _, c := range p.Conditions {
		pattern := escapeLike(c.Value) + "%"
		if c.Match == movie.MatchContains {
			pattern = "%" + pattern
		}

		column := columnNames[c.Field]
		if c.Field == movie.FieldGenre {
			clauses = append(clauses, "EXISTS (SELECT 1 FROM unnest(genre) AS g WHERE g ILIKE ?)")
		} else {
			clauses = append(clauses, column+" ILIKE ?")
		}
		args = append(args, pattern)
	}

	sep := " AND "
	if p.Any {
		sep = " OR "
	}
	return "(" + strings.Join(clauses, sep) + ")", args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func buildOrder(s movie.Sort) string {
	switch s {
	case movie.SortRatingDesc:
		return "rating DESC NULLS LAST, id ASC"
	case movie.SortReleasedDesc:
		return "released_date DESC, id ASC"
	case movie.SortIDAsc:
		return "id ASC"
	default:
		return ""
	}
}

func buildColumns(fields []movie.Field) []string {
	columns := make([]string, 0, len(fields))
	for _, f := range fields {
		columns = append(columns, columnNames[f])
	}
	return columns
}

func toDomainMovie(model MovieModel) movie.Movie {
	return movie.Movie{
		ID:           model.ID,
		Title:        model.Title,
		Synopsis:     model.Synopsis,
		ReleasedDate: model.ReleasedDate.UTC(),
		ReleaseYear:  model.ReleaseYear,
		Rating:       model.Rating,
		Poster:       model.Poster,
		Trailer:      model.Trailer,
		Genre:        []string(model.Genre),
		Director:     model.Director,
		Cast:         []string(model.Cast),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func toModelMovie(m movie.Movie) MovieModel {
	genre := pq.StringArray(m.Genre)
	if genre == nil {
		genre = pq.StringArray{}
	}
	cast := pq.StringArray(m.Cast)
	if cast == nil {
		cast = pq.StringArray{}
	}
	return MovieModel{
		ID:           m.ID,
		Title:        m.Title,
		Synopsis:     m.Synopsis,
		ReleasedDate: m.ReleasedDate.UTC(),
		ReleaseYear:  m.ReleaseYear,
		Rating:       m.Rating,
		Poster:       m.Poster,
		Trailer:      m.Trailer,
		Genre:        genre,
		Director:     m.Director,
		Cast:         cast,
	}
}
