package httpserver_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"moviecatalog/httpserver"
	"moviecatalog/movie"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) Create(ctx context.Context, mv movie.Movie) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}

func (m *MockMovieService) Update(ctx context.Context, id string, p movie.Patch) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}

func (m *MockMovieService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMovieService) Get(ctx context.Context, id string) (movie.Movie, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(movie.Movie), args.Error(1)
}

func (m *MockMovieService) Search(ctx context.Context, params movie.SearchParams) ([]movie.Movie, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]movie.Movie), args.Error(1)
}

func (m *MockMovieService) SearchByKeyword(ctx context.Context, keyword string) ([]movie.Movie, error) {
	args := m.Called(ctx, keyword)
	return args.Get(0).([]movie.Movie), args.Error(1)
}

func (m *MockMovieService) All(ctx context.Context) ([]movie.Movie, error) {
	args := m.Called(ctx)
	return args.Get(0).([]movie.Movie), args.Error(1)
}

func (m *MockMovieService) Random(ctx context.Context) ([]movie.Movie, error) {
	args := m.Called(ctx)
	return args.Get(0).([]movie.Movie), args.Error(1)
}

func (m *MockMovieService) TopRated(ctx context.Context) ([]movie.Movie, error) {
	args := m.Called(ctx)
	return args.Get(0).([]movie.Movie), args.Error(1)
}

func (m *MockMovieService) Latest(ctx context.Context) ([]movie.Movie, error) {
	args := m.Called(ctx)
	return args.Get(0).([]movie.Movie), args.Error(1)
}

func (m *MockMovieService) Suggest(ctx context.Context, filter, prefix string) ([]movie.Suggestion, error) {
	args := m.Called(ctx, filter, prefix)
	return args.Get(0).([]movie.Suggestion), args.Error(1)
}

type MockPosterStore struct {
	mock.Mock
}

func (m *MockPosterStore) Save(fh *multipart.FileHeader) (string, error) {
	args := m.Called(fh)
	return args.String(0), args.Error(1)
}

func (m *MockPosterStore) Remove(stored string) error {
	args := m.Called(stored)
	return args.Error(0)
}

func newMovieServer(t *testing.T) (*httpserver.Server, *MockMovieService, *MockPosterStore) {
	t.Helper()
	svc := new(MockMovieService)
	posters := new(MockPosterStore)
	server := httpserver.Default(testConfig())
	server.MovieService = svc
	server.Posters = posters
	t.Cleanup(func() {
		svc.AssertExpectations(t)
		posters.AssertExpectations(t)
	})
	return server, svc, posters
}

func serve(server *httpserver.Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)
	return rec
}

func withAdmin(t *testing.T, req *http.Request) *http.Request {
	t.Helper()
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "admin"))
	return req
}

func multipartRequest(t *testing.T, path string, fields url.Values, withPoster bool) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for key, values := range fields {
		for _, v := range values {
			require.NoError(t, w.WriteField(key, v))
		}
	}
	if withPoster {
		part, err := w.CreateFormFile("poster", "inception.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG fake image"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func validMovieForm() url.Values {
	return url.Values{
		"title":        {"Inception"},
		"synopsis":     {"A thief who steals corporate secrets through dreams."},
		"releasedDate": {"2010-07-16"},
		"rating":       {"8.8"},
		"trailer":      {"https://www.youtube.com/watch?v=YoHD9XEInc0"},
		"genre":        {"Action", "Sci-Fi"},
		"director":     {"Christopher Nolan"},
		"cast":         {"Leonardo DiCaprio", "Elliot Page"},
	}
}

func sampleMovies() []movie.Movie {
	rating := 8.8
	return []movie.Movie{{
		ID:           "65a1f0c2e4b0a1b2c3d4e5f6",
		Title:        "Inception",
		Synopsis:     "Dreams within dreams.",
		ReleasedDate: time.Date(2010, 7, 16, 0, 0, 0, 0, time.UTC),
		ReleaseYear:  "2010",
		Rating:       &rating,
		Poster:       "http://localhost:8080/public/images/inception.png",
		Genre:        []string{"Action", "Sci-Fi"},
		Director:     "Christopher Nolan",
		Cast:         []string{"Leonardo DiCaprio"},
	}}
}

func TestMovieRoutes_Search(t *testing.T) {
	server, svc, _ := newMovieServer(t)
	svc.On("Search", mock.Anything, movie.SearchParams{Genre: "sci", Director: "nolan"}).
		Return(sampleMovies(), nil).Once()

	rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/v1/movie?genre=sci&director=nolan", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var data []httpserver.MovieResponse
	decodeData(t, rec, &data)
	require.Len(t, data, 1)
	assert.Equal(t, "Filtered results", decodeAPIResponse(t, rec).Message)
	assert.Equal(t, "8.8", data[0].Rating)
	assert.Equal(t, "http://localhost:8080/public/images/inception.png", data[0].Poster)
	assert.Equal(t, "65a1f0c2e4b0a1b2c3d4e5f6", data[0].ID)
}

func TestMovieRoutes_Listings(t *testing.T) {
	tests := []struct {
		path    string
		method  string
		message string
	}{
		{path: "/api/v1/movie/all", method: "All", message: "All Movie fetched"},
		{path: "/api/v1/movie/random", method: "Random", message: "Random movies fetched successfully"},
		{path: "/api/v1/movie/top-rating", method: "TopRated", message: "Top rated movies fetched successfully"},
		{path: "/api/v1/movie/latest", method: "Latest", message: "Latest movies fetched successfully"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			server, svc, _ := newMovieServer(t)
			svc.On(tt.method, mock.Anything).Return(sampleMovies(), nil).Once()

			rec := serve(server, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.message, decodeAPIResponse(t, rec).Message)
		})
	}
}

func TestMovieRoutes_EmptyListIsArray(t *testing.T) {
	server, svc, _ := newMovieServer(t)
	svc.On("All", mock.Anything).Return([]movie.Movie{}, nil).Once()

	rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/v1/movie/all", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[],"message":"All Movie fetched"}`, rec.Body.String())
}

func TestMovieRoutes_KeywordSearch(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		keyword string
	}{
		{name: "escaped space", path: "/api/v1/movie/star%20wars", keyword: "star wars"},
		{name: "literal percent sequence is decoded once", path: "/api/v1/movie/a%2541", keyword: "a%41"},
		{name: "escaped slash", path: "/api/v1/movie/AC%2FDC", keyword: "AC/DC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, svc, _ := newMovieServer(t)
			svc.On("SearchByKeyword", mock.Anything, tt.keyword).Return(sampleMovies(), nil).Once()

			rec := serve(server, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "Filtered movies", decodeAPIResponse(t, rec).Message)
			svc.AssertExpectations(t)
		})
	}
}

func TestMovieRoutes_Suggestion(t *testing.T) {
	t.Run("returns the reduced projection", func(t *testing.T) {
		server, svc, _ := newMovieServer(t)
		svc.On("Suggest", mock.Anything, "title", "Godf").Return([]movie.Suggestion{
			{ID: "1", Title: "The Godfather", Genre: []string{"Crime"}, Director: "Francis Ford Coppola"},
		}, nil).Once()

		rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/v1/movie/suggestion/title/Godf", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Search Suggestion", decodeAPIResponse(t, rec).Message)
		assert.NotContains(t, rec.Body.String(), "poster")
		assert.NotContains(t, rec.Body.String(), "synopsis")
	})

	t.Run("unknown filter is rejected", func(t *testing.T) {
		server, svc, _ := newMovieServer(t)
		svc.On("Suggest", mock.Anything, "year", "19").Return([]movie.Suggestion(nil), movie.ErrInvalidFilter).Once()

		rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/v1/movie/suggestion/year/19", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid suggestion filter", decodeAPIResponse(t, rec).Message)
	})
}

func TestMovieRoutes_Detail(t *testing.T) {
	server, svc, _ := newMovieServer(t)
	svc.On("Get", mock.Anything, "missing").Return(movie.Movie{}, movie.ErrMovieNotFound).Once()

	rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/v1/movie/detail/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Movie not found", decodeAPIResponse(t, rec).Message)
}

func TestMovieRoutes_Add(t *testing.T) {
	t.Run("creates the movie", func(t *testing.T) {
		server, svc, posters := newMovieServer(t)
		posters.On("Save", mock.Anything).Return("public/images/abc.png", nil).Once()
		svc.On("Create", mock.Anything, mock.MatchedBy(func(m movie.Movie) bool {
			return m.Title == "Inception" &&
				m.ReleaseYear == "2010" &&
				m.Poster == "public/images/abc.png" &&
				m.Rating != nil && *m.Rating == 8.8 &&
				assert.ObjectsAreEqual([]string{"Action", "Sci-Fi"}, m.Genre) &&
				assert.ObjectsAreEqual([]string{"Leonardo DiCaprio", "Elliot Page"}, m.Cast)
		})).Return(nil).Once()

		req := withAdmin(t, multipartRequest(t, "/api/v1/movie/add", validMovieForm(), true))
		rec := serve(server, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "Movie Created", decodeAPIResponse(t, rec).Message)
	})

	t.Run("accepts bracketed list keys and releaseDate", func(t *testing.T) {
		server, svc, posters := newMovieServer(t)
		posters.On("Save", mock.Anything).Return("public/images/abc.png", nil).Once()
		svc.On("Create", mock.Anything, mock.MatchedBy(func(m movie.Movie) bool {
			return m.ReleaseYear == "2010" &&
				assert.ObjectsAreEqual([]string{"Action", "Sci-Fi"}, m.Genre) &&
				assert.ObjectsAreEqual([]string{"Leonardo DiCaprio", "Elliot Page"}, m.Cast)
		})).Return(nil).Once()

		form := validMovieForm()
		form["genre[]"] = form["genre"]
		form["cast[]"] = form["cast"]
		form["releaseDate"] = form["releasedDate"]
		delete(form, "genre")
		delete(form, "cast")
		delete(form, "releasedDate")

		rec := serve(server, withAdmin(t, multipartRequest(t, "/api/v1/movie/add", form, true)))

		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("requires a token", func(t *testing.T) {
		server, _, _ := newMovieServer(t)

		rec := serve(server, multipartRequest(t, "/api/v1/movie/add", validMovieForm(), true))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("requires the admin role", func(t *testing.T) {
		server, _, _ := newMovieServer(t)
		req := multipartRequest(t, "/api/v1/movie/add", validMovieForm(), true)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "viewer"))

		rec := serve(server, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("reports field messages", func(t *testing.T) {
		server, _, _ := newMovieServer(t)
		form := validMovieForm()
		form.Del("title")
		form.Set("rating", "11")

		rec := serve(server, withAdmin(t, multipartRequest(t, "/api/v1/movie/add", form, true)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		msg := decodeAPIResponse(t, rec).Message
		assert.Contains(t, msg, "Title is a mandatory field")
		assert.Contains(t, msg, "Rating should be a number from 0 to 10")
	})

	t.Run("rejects unknown genres", func(t *testing.T) {
		server, _, _ := newMovieServer(t)
		form := validMovieForm()
		form["genre"] = []string{"Cooking"}

		rec := serve(server, withAdmin(t, multipartRequest(t, "/api/v1/movie/add", form, true)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Genre must be one of the predefined values", decodeAPIResponse(t, rec).Message)
	})

	t.Run("requires a poster", func(t *testing.T) {
		server, _, _ := newMovieServer(t)

		rec := serve(server, withAdmin(t, multipartRequest(t, "/api/v1/movie/add", validMovieForm(), false)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Poster is a mandatory field", decodeAPIResponse(t, rec).Message)
	})

	t.Run("duplicate removes the stored poster", func(t *testing.T) {
		server, svc, posters := newMovieServer(t)
		posters.On("Save", mock.Anything).Return("public/images/abc.png", nil).Once()
		posters.On("Remove", "public/images/abc.png").Return(nil).Once()
		svc.On("Create", mock.Anything, mock.Anything).Return(movie.ErrMovieExists).Once()

		rec := serve(server, withAdmin(t, multipartRequest(t, "/api/v1/movie/add", validMovieForm(), true)))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestMovieRoutes_Edit(t *testing.T) {
	t.Run("applies only the supplied fields", func(t *testing.T) {
		server, svc, _ := newMovieServer(t)
		svc.On("Update", mock.Anything, "65a1f0c2e4b0a1b2c3d4e5f6", mock.MatchedBy(func(p movie.Patch) bool {
			return p.Title == nil &&
				p.ReleasedDate != nil && p.ReleasedDate.Year() == 2011 &&
				assert.ObjectsAreEqual([]string{"Tom Hardy"}, p.Cast) &&
				p.Genre == nil && p.Poster == nil
		})).Return(nil).Once()

		form := url.Values{
			"id":          {"65a1f0c2e4b0a1b2c3d4e5f6"},
			"releaseDate": {"2011-01-02"},
			"cast":        {"Tom Hardy"},
		}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/movie/edit", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := serve(server, withAdmin(t, req))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Movie updated successfully", decodeAPIResponse(t, rec).Message)
	})

	t.Run("stores a replacement poster", func(t *testing.T) {
		server, svc, posters := newMovieServer(t)
		posters.On("Save", mock.Anything).Return("public/images/new.png", nil).Once()
		svc.On("Update", mock.Anything, "65a1f0c2e4b0a1b2c3d4e5f6", mock.MatchedBy(func(p movie.Patch) bool {
			return p.Poster != nil && *p.Poster == "public/images/new.png"
		})).Return(nil).Once()

		form := url.Values{"id": {"65a1f0c2e4b0a1b2c3d4e5f6"}}
		rec := serve(server, withAdmin(t, multipartRequest(t, "/api/v1/movie/edit", form, true)))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown movie is not found", func(t *testing.T) {
		server, svc, _ := newMovieServer(t)
		svc.On("Update", mock.Anything, "missing", mock.Anything).Return(movie.ErrMovieNotFound).Once()

		form := url.Values{"id": {"missing"}, "title": {"Tenet"}}
		rec := serve(server, withAdmin(t, multipartRequest(t, "/api/v1/movie/edit", form, false)))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("id is required", func(t *testing.T) {
		server, _, _ := newMovieServer(t)

		form := url.Values{"title": {"Tenet"}}
		rec := serve(server, withAdmin(t, multipartRequest(t, "/api/v1/movie/edit", form, false)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMovieRoutes_Delete(t *testing.T) {
	t.Run("deletes by id", func(t *testing.T) {
		server, svc, _ := newMovieServer(t)
		svc.On("Delete", mock.Anything, "65a1f0c2e4b0a1b2c3d4e5f6").Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/movie", strings.NewReader(`{"id":"65a1f0c2e4b0a1b2c3d4e5f6"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(server, withAdmin(t, req))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Movie deleted Successfully", decodeAPIResponse(t, rec).Message)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		server, svc, _ := newMovieServer(t)
		svc.On("Delete", mock.Anything, "missing").Return(movie.ErrMovieNotFound).Once()

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/movie/", strings.NewReader(`{"id":"missing"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(server, withAdmin(t, req))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing id is rejected", func(t *testing.T) {
		server, _, _ := newMovieServer(t)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/movie", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(server, withAdmin(t, req))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Id is a mandatory field", decodeAPIResponse(t, rec).Message)
	})
}

func TestMovieRoutes_ServiceNotConfigured(t *testing.T) {
	server := httpserver.Default(testConfig())

	rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/v1/movie/all", nil))

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
