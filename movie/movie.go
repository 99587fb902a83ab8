package movie

import (
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"moviecatalog/errs"
)

const MaxTitleLength = 25

var (
	ErrMovieNotFound   = errs.Errorf(errs.ENOTFOUND, "Movie not found")
	ErrMovieExists     = errs.Errorf(errs.ECONFLICT, "Movie with the same title and release year already exists")
	ErrInvalidFilter   = errs.Errorf(errs.EINVALID, "invalid suggestion filter")
	ErrInvalidID       = errs.Errorf(errs.EINVALID, "movie: id is required")
	ErrInvalidTitle    = errs.Errorf(errs.EINVALID, "movie: title is required and can be at most 25 characters long")
	ErrInvalidSynopsis = errs.Errorf(errs.EINVALID, "movie: synopsis is required")
	ErrInvalidDate     = errs.Errorf(errs.EINVALID, "movie: released date must be a valid date")
	ErrInvalidYear     = errs.Errorf(errs.EINVALID, "movie: release year must be a valid 4-digit year")
	ErrInvalidRating   = errs.Errorf(errs.EINVALID, "movie: rating should be a number from 0 to 10 with up to one decimal place")
	ErrInvalidPoster   = errs.Errorf(errs.EINVALID, "movie: poster is required")
	ErrInvalidTrailer  = errs.Errorf(errs.EINVALID, "movie: trailer must be a valid URL")
	ErrInvalidGenre    = errs.Errorf(errs.EINVALID, "movie: genre must be one of the predefined values")
	ErrInvalidDirector = errs.Errorf(errs.EINVALID, "movie: director is required")
	ErrInvalidCast     = errs.Errorf(errs.EINVALID, "movie: cast must be a non-empty list of names")
	ErrInvalidKeyword  = errs.Errorf(errs.EINVALID, "movie: keyword is required")
	ErrInvalidPrefix   = errs.Errorf(errs.EINVALID, "movie: suggestion prefix is required")
)

// Movie is the catalog entry. Poster holds the relative storage path; it is
// only turned into an absolute URL on read.
type Movie struct {
	ID           string
	Title        string
	Synopsis     string
	ReleasedDate time.Time
	ReleaseYear  string
	Rating       *float64
	Poster       string
	Trailer      string
	Genre        []string
	Director     string
	Cast         []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Suggestion is the reduced projection returned by autocomplete.
type Suggestion struct {
	ID       string
	Title    string
	Genre    []string
	Director string
}

// ReleaseYearOf returns the 4-digit year of d.
func ReleaseYearOf(d time.Time) string {
	return strconv.Itoa(d.UTC().Year())
}

func (m Movie) Validate() error {
	title := strings.TrimSpace(m.Title)
	if title == "" || utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrInvalidTitle
	}
	if strings.TrimSpace(m.Synopsis) == "" {
		return ErrInvalidSynopsis
	}
	if m.ReleasedDate.IsZero() {
		return ErrInvalidDate
	}
	if len(m.ReleaseYear) != 4 || m.ReleaseYear != ReleaseYearOf(m.ReleasedDate) {
		return ErrInvalidYear
	}
	if m.Rating != nil && !ValidRating(*m.Rating) {
		return ErrInvalidRating
	}
	if strings.TrimSpace(m.Poster) == "" {
		return ErrInvalidPoster
	}
	if m.Trailer != "" && !validURL(m.Trailer) {
		return ErrInvalidTrailer
	}
	for _, g := range m.Genre {
		if !ValidGenre(g) {
			return ErrInvalidGenre
		}
	}
	if strings.TrimSpace(m.Director) == "" {
		return ErrInvalidDirector
	}
	if len(m.Cast) == 0 {
		return ErrInvalidCast
	}
	for _, c := range m.Cast {
		if strings.TrimSpace(c) == "" {
			return ErrInvalidCast
		}
	}
	return nil
}

func validURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
