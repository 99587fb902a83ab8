package httpserver_test

import (
	"encoding/json"
	"moviecatalog/httpserver"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagingTheCatalog(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	db := MustCreateTestDatabase(t)
	MigrateTestDatabase(t, db, "../migrations")
	server := MustCreateServer(t, db)

	var token string
	t.Run("admin logs in", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"email": "Admin@Example.com", "password": testAdminPassword})
		rec := serve(server, loginRequest(string(body)))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var data httpserver.TokenResponse
		decodeData(t, rec, &data)
		token = data.Token
		require.NotEmpty(t, token)
	})

	authed := func(req *http.Request) *http.Request {
		req.Header.Set("Authorization", "Bearer "+token)
		return req
	}

	t.Run("admin adds movies", func(t *testing.T) {
		rec := serve(server, authed(multipartRequest(t, "/api/v1/movie/add", validMovieForm(), true)))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		other := validMovieForm()
		other.Set("title", "Dunkirk")
		other.Set("releasedDate", "2017-07-21")
		other.Set("rating", "7.8")
		other["genre"] = []string{"War", "History"}
		rec = serve(server, authed(multipartRequest(t, "/api/v1/movie/add", other, true)))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("duplicate title and year conflicts", func(t *testing.T) {
		rec := serve(server, authed(multipartRequest(t, "/api/v1/movie/add", validMovieForm(), true)))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	var inception httpserver.MovieResponse
	t.Run("public reads decorate posters", func(t *testing.T) {
		rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/v1/movie/top-rating", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var movies []httpserver.MovieResponse
		decodeData(t, rec, &movies)
		require.Len(t, movies, 2)
		assert.Equal(t, "Inception", movies[0].Title)
		assert.Equal(t, "Dunkirk", movies[1].Title)
		assert.True(t, strings.HasPrefix(movies[0].Poster, testPublicBaseURL+"public/images/"), movies[0].Poster)
		inception = movies[0]
	})

	t.Run("stored poster is served statically", func(t *testing.T) {
		path := "/" + strings.TrimPrefix(inception.Poster, testPublicBaseURL)
		rec := serve(server, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "\x89PNG fake image", rec.Body.String())
	})

	t.Run("keyword and suggestion search", func(t *testing.T) {
		rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/v1/movie/war", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var movies []httpserver.MovieResponse
		decodeData(t, rec, &movies)
		require.Len(t, movies, 1)
		assert.Equal(t, "Dunkirk", movies[0].Title)

		rec = serve(server, httptest.NewRequest(http.MethodGet, "/api/v1/movie/suggestion/title/ince", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var suggestions []httpserver.SuggestionResponse
		decodeData(t, rec, &suggestions)
		require.Len(t, suggestions, 1)
		assert.Equal(t, inception.ID, suggestions[0].ID)
	})

	t.Run("admin edits a movie", func(t *testing.T) {
		form := url.Values{"id": {inception.ID}, "releaseDate": {"2011-03-04"}}
		rec := serve(server, authed(multipartRequest(t, "/api/v1/movie/edit", form, false)))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = serve(server, httptest.NewRequest(http.MethodGet, "/api/v1/movie/detail/"+inception.ID, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var updated httpserver.MovieResponse
		decodeData(t, rec, &updated)
		assert.Equal(t, "2011", updated.ReleaseYear)
		assert.Equal(t, inception.Cast, updated.Cast)
	})

	t.Run("admin deletes a movie", func(t *testing.T) {
		req := authed(httptest.NewRequest(http.MethodDelete, "/api/v1/movie", strings.NewReader(`{"id":"`+inception.ID+`"}`)))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(server, req)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = serve(server, httptest.NewRequest(http.MethodGet, "/api/v1/movie/detail/"+inception.ID, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
