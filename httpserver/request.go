package httpserver

import (
	"moviecatalog/movie"
	"net/url"
	"strings"
)

type AddMovieRequest struct {
	Title        string   `form:"title" validate:"required,notblank,max=25"`
	Synopsis     string   `form:"synopsis" validate:"required,notblank"`
	ReleasedDate string   `form:"releasedDate" validate:"required,isodate"`
	Rating       string   `form:"rating" validate:"omitempty,rating"`
	Trailer      string   `form:"trailer" validate:"omitempty,url"`
	Genre        []string `form:"genre" validate:"dive,genre"`
	Director     string   `form:"director" validate:"required,notblank"`
	Cast         []string `form:"cast" validate:"required,min=1,dive,required,notblank"`
}

// applyFormAliases fills the fields the binder cannot reach: "genre[]" and
// "cast[]" list keys and the "releaseDate" spelling. The edit form accepts
// the same keys.
func (r *AddMovieRequest) applyFormAliases(form url.Values) {
	if values, ok := list(form, "genre"); ok {
		r.Genre = values
	}
	if values, ok := list(form, "cast"); ok {
		r.Cast = values
	}
	if r.ReleasedDate == "" {
		r.ReleasedDate, _ = first(form, "releasedDate", "releaseDate")
	}
}

// ToMovie converts the validated request. poster is the stored path of the
// uploaded file.
func (r AddMovieRequest) ToMovie(poster string) (movie.Movie, error) {
	released, err := parseDate(r.ReleasedDate)
	if err != nil {
		return movie.Movie{}, err
	}

	m := movie.Movie{
		Title:        strings.TrimSpace(r.Title),
		Synopsis:     r.Synopsis,
		ReleasedDate: released,
		ReleaseYear:  movie.ReleaseYearOf(released),
		Poster:       poster,
		Trailer:      strings.TrimSpace(r.Trailer),
		Genre:        r.Genre,
		Director:     strings.TrimSpace(r.Director),
		Cast:         r.Cast,
	}
	if strings.TrimSpace(r.Rating) != "" {
		rating, err := movie.ParseRating(r.Rating)
		if err != nil {
			return movie.Movie{}, err
		}
		m.Rating = &rating
	}
	return m, nil
}

type DeleteMovieRequest struct {
	ID string `json:"id" form:"id" query:"id" validate:"required,notblank"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=72"`
}

// parseEditForm builds a patch from the fields present in form. Absent keys
// leave the stored value untouched; list fields accept both "cast" and
// "cast[]" keys.
func parseEditForm(form url.Values) (string, movie.Patch, error) {
	var p movie.Patch
	id := strings.TrimSpace(form.Get("id"))

	if v, ok := first(form, "title"); ok {
		v = strings.TrimSpace(v)
		p.Title = &v
	}
	if v, ok := first(form, "synopsis"); ok {
		p.Synopsis = &v
	}
	if v, ok := first(form, "releasedDate", "releaseDate"); ok {
		released, err := parseDate(v)
		if err != nil {
			return "", movie.Patch{}, err
		}
		p.ReleasedDate = &released
	}
	if v, ok := first(form, "rating"); ok && strings.TrimSpace(v) != "" {
		rating, err := movie.ParseRating(v)
		if err != nil {
			return "", movie.Patch{}, err
		}
		p.Rating = &rating
	}
	if v, ok := first(form, "trailer"); ok {
		v = strings.TrimSpace(v)
		p.Trailer = &v
	}
	if v, ok := first(form, "director"); ok {
		v = strings.TrimSpace(v)
		p.Director = &v
	}
	if values, ok := list(form, "genre"); ok {
		p.Genre = values
	}
	if values, ok := list(form, "cast"); ok {
		p.Cast = values
	}
	return id, p, nil
}

func first(form url.Values, keys ...string) (string, bool) {
	for _, key := range keys {
		if values, ok := form[key]; ok && len(values) > 0 {
			return values[0], true
		}
	}
	return "", false
}

func list(form url.Values, key string) ([]string, bool) {
	var out []string
	found := false
	for _, k := range []string{key, key + "[]"} {
		if values, ok := form[k]; ok {
			found = true
			out = append(out, values...)
		}
	}
	if !found {
		return nil, false
	}
	if out == nil {
		out = []string{}
	}
	return out, true
}
