package httpserver

import (
	"moviecatalog/movie"
	"time"

	"github.com/labstack/echo/v4"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

func writeData(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, APIResponse{
		Data:    data,
		Message: message,
	})
}

func writeMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, APIResponse{Message: message})
}

type MovieResponse struct {
	ID           string    `json:"_id"`
	Title        string    `json:"title"`
	Synopsis     string    `json:"synopsis"`
	ReleasedDate time.Time `json:"releasedDate"`
	ReleaseYear  string    `json:"releaseYear"`
	Rating       string    `json:"rating,omitempty"`
	Poster       string    `json:"poster"`
	Trailer      string    `json:"trailer,omitempty"`
	Genre        []string  `json:"genre"`
	Director     string    `json:"director"`
	Cast         []string  `json:"cast"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type SuggestionResponse struct {
	ID       string   `json:"_id"`
	Title    string   `json:"title"`
	Genre    []string `json:"genre"`
	Director string   `json:"director"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func toMovieResponse(m movie.Movie) MovieResponse {
	resp := MovieResponse{
		ID:           m.ID,
		Title:        m.Title,
		Synopsis:     m.Synopsis,
		ReleasedDate: m.ReleasedDate,
		ReleaseYear:  m.ReleaseYear,
		Poster:       m.Poster,
		Trailer:      m.Trailer,
		Genre:        nonNil(m.Genre),
		Director:     m.Director,
		Cast:         nonNil(m.Cast),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Rating != nil {
		resp.Rating = movie.FormatRating(*m.Rating)
	}
	return resp
}

func toMovieResponses(movies []movie.Movie) []MovieResponse {
	out := make([]MovieResponse, len(movies))
	for i, m := range movies {
		out[i] = toMovieResponse(m)
	}
	return out
}

func toSuggestionResponses(suggestions []movie.Suggestion) []SuggestionResponse {
	out := make([]SuggestionResponse, len(suggestions))
	for i, s := range suggestions {
		out[i] = SuggestionResponse{
			ID:       s.ID,
			Title:    s.Title,
			Genre:    nonNil(s.Genre),
			Director: s.Director,
		}
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
