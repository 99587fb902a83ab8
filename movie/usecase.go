package movie

import (
	"context"
	"math/rand"
	"strings"
)

const (
	RankingLimit    = 8
	SuggestionLimit = 5
)

type Sort int

const (
	SortNatural Sort = iota
	SortRatingDesc
	SortReleasedDesc
	SortIDAsc
)

// Query is what the usecase hands to a Repository. Limit <= 0 means no
// limit; empty Fields means every field.
type Query struct {
	Predicate Predicate
	Sort      Sort
	Limit     int
	Fields    []Field
}

func (q Query) includes(f Field) bool {
	if len(q.Fields) == 0 {
		return true
	}
	for _, field := range q.Fields {
		if field == f {
			return true
		}
	}
	return false
}

type Service interface {
	Create(ctx context.Context, m Movie) error
	Update(ctx context.Context, id string, p Patch) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (Movie, error)
	Search(ctx context.Context, params SearchParams) ([]Movie, error)
	SearchByKeyword(ctx context.Context, keyword string) ([]Movie, error)
	All(ctx context.Context) ([]Movie, error)
	Random(ctx context.Context) ([]Movie, error)
	TopRated(ctx context.Context) ([]Movie, error)
	Latest(ctx context.Context) ([]Movie, error)
	Suggest(ctx context.Context, filter, prefix string) ([]Suggestion, error)
}

// Repository is implemented by the store adapters. Get, Update and Delete
// return ErrMovieNotFound for unknown ids; Create and Update return
// ErrMovieExists when the (title, releaseYear) pair is taken.
type Repository interface {
	Find(ctx context.Context, q Query) ([]Movie, error)
	Get(ctx context.Context, id string) (Movie, error)
	Exists(ctx context.Context, title, releaseYear string) (bool, error)
	Create(ctx context.Context, m Movie) error
	Update(ctx context.Context, m Movie) error
	Delete(ctx context.Context, id string) error
}

type Usecase struct {
	r       Repository
	posters PosterDecorator
	intN    func(n int) int
}

type Option func(uc *Usecase)

// WithRandom replaces the random source used by Random.
func WithRandom(intN func(n int) int) Option {
	return func(uc *Usecase) {
		uc.intN = intN
	}
}

func NewUsecase(r Repository, posters PosterDecorator, opts ...Option) *Usecase {
	uc := &Usecase{
		r:       r,
		posters: posters,
		intN:    rand.Intn,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *Usecase) Create(ctx context.Context, m Movie) error {
	m.Title = strings.TrimSpace(m.Title)
	if !m.ReleasedDate.IsZero() {
		m.ReleaseYear = ReleaseYearOf(m.ReleasedDate)
	}
	if err := m.Validate(); err != nil {
		return err
	}

	exists, err := uc.r.Exists(ctx, m.Title, m.ReleaseYear)
	if err != nil {
		return err
	}
	if exists {
		return ErrMovieExists
	}
	return uc.r.Create(ctx, m)
}

func (uc *Usecase) Update(ctx context.Context, id string, p Patch) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidID
	}

	m, err := uc.r.Get(ctx, id)
	if err != nil {
		return err
	}
	// a form carrying no known fields still has to name an existing movie
	if changed := p.Apply(&m); len(changed) == 0 {
		return nil
	}
	if err := m.Validate(); err != nil {
		return err
	}
	return uc.r.Update(ctx, m)
}

func (uc *Usecase) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidID
	}
	return uc.r.Delete(ctx, id)
}

func (uc *Usecase) Get(ctx context.Context, id string) (Movie, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Movie{}, ErrMovieNotFound
	}
	m, err := uc.r.Get(ctx, id)
	if err != nil {
		return Movie{}, err
	}
	return uc.posters.Decorate(m), nil
}

func (uc *Usecase) Search(ctx context.Context, params SearchParams) ([]Movie, error) {
	return uc.find(ctx, Query{Predicate: SearchPredicate(params)})
}

func (uc *Usecase) SearchByKeyword(ctx context.Context, keyword string) ([]Movie, error) {
	p, err := KeywordPredicate(keyword)
	if err != nil {
		return nil, err
	}
	return uc.find(ctx, Query{Predicate: p})
}

func (uc *Usecase) All(ctx context.Context) ([]Movie, error) {
	return uc.find(ctx, Query{})
}

func (uc *Usecase) Random(ctx context.Context) ([]Movie, error) {
	all, err := uc.find(ctx, Query{})
	if err != nil {
		return nil, err
	}
	return Sample(all, RankingLimit, uc.intN), nil
}

func (uc *Usecase) TopRated(ctx context.Context) ([]Movie, error) {
	return uc.find(ctx, Query{Sort: SortRatingDesc, Limit: RankingLimit})
}

func (uc *Usecase) Latest(ctx context.Context) ([]Movie, error) {
	return uc.find(ctx, Query{Sort: SortReleasedDesc, Limit: RankingLimit})
}

func (uc *Usecase) Suggest(ctx context.Context, filter, prefix string) ([]Suggestion, error) {
	p, err := SuggestionPredicate(filter, prefix)
	if err != nil {
		return nil, err
	}

	movies, err := uc.find(ctx, Query{
		Predicate: p,
		Sort:      SortIDAsc,
		Limit:     SuggestionLimit,
		Fields:    []Field{FieldID, FieldTitle, FieldGenre, FieldDirector},
	})
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, len(movies))
	for i, m := range movies {
		suggestions[i] = Suggestion{
			ID:       m.ID,
			Title:    m.Title,
			Genre:    m.Genre,
			Director: m.Director,
		}
	}
	return suggestions, nil
}

// find runs q and decorates posters unless the projection leaves them out.
func (uc *Usecase) find(ctx context.Context, q Query) ([]Movie, error) {
	movies, err := uc.r.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []Movie{}
	}
	if q.includes(FieldPoster) {
		movies = uc.posters.DecorateAll(movies)
	}
	return movies, nil
}
