package httpserver

import (
	"errors"
	"moviecatalog/errs"
	"moviecatalog/movie"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var (
	errPosterRequired = errs.Errorf(errs.EINVALID, "Poster is a mandatory field")
	errMovieService   = errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
)

// RegisterMovieRoutes mounts the catalog routes. Static segments win over
// the catalog-wide /:keyword route.
func (s *Server) RegisterMovieRoutes(g *echo.Group) {
	admin := s.adminMiddlewares()

	g.POST("/add", s.handleAddMovie, admin...)
	g.POST("/edit", s.handleEditMovie, admin...)
	g.DELETE("", s.handleDeleteMovie, admin...)
	g.DELETE("/", s.handleDeleteMovie, admin...)

	g.GET("", s.handleSearchMovies)
	g.GET("/", s.handleSearchMovies)
	g.GET("/all", s.handleAllMovies)
	g.GET("/random", s.handleRandomMovies)
	g.GET("/top-rating", s.handleTopRatedMovies)
	g.GET("/latest", s.handleLatestMovies)
	g.GET("/suggestion/:filter/:suggestion", s.handleSuggestion)
	g.GET("/detail/:id", s.handleMovieDetail)
	g.GET("/:keyword", s.handleKeywordSearch)
}

// handleAddMovie godoc
// @Summary Add Movie
// @Description Create a movie from multipart form data with a poster image
// @Tags movies
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title (max 25 characters)"
// @Param synopsis formData string true "Synopsis"
// @Param releasedDate formData string true "Release date (YYYY-MM-DD)"
// @Param rating formData string false "Rating from 0 to 10"
// @Param trailer formData string false "Trailer URL"
// @Param genre formData []string false "Genres" collectionFormat(multi)
// @Param director formData string true "Director"
// @Param cast formData []string true "Cast" collectionFormat(multi)
// @Param poster formData file true "Poster image"
// @Success 201 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /api/v1/movie/add [post]
func (s *Server) handleAddMovie(c echo.Context) error {
	if s.MovieService == nil || s.Posters == nil {
		return errMovieService
	}

	var req AddMovieRequest
	if err := c.Bind(&req); err != nil {
		return errs.Errorf(errs.EINVALID, "invalid request body")
	}
	form, err := c.FormParams()
	if err != nil {
		return errs.Errorf(errs.EINVALID, "invalid request body")
	}
	req.applyFormAliases(form)
	if err := c.Validate(&req); err != nil {
		return err
	}

	fh, err := c.FormFile("poster")
	if err != nil {
		return errPosterRequired
	}
	poster, err := s.Posters.Save(fh)
	if err != nil {
		return err
	}

	m, err := req.ToMovie(poster)
	if err == nil {
		err = s.MovieService.Create(c.Request().Context(), m)
	}
	if err != nil {
		s.discardPoster(poster)
		return err
	}

	return writeMessage(c, http.StatusCreated, "Movie Created")
}

// handleEditMovie godoc
// @Summary Edit Movie
// @Description Partially update a movie. Only the supplied fields change; genre and cast replace the stored lists.
// @Tags movies
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id formData string true "Movie ID"
// @Param title formData string false "Title"
// @Param releasedDate formData string false "Release date (YYYY-MM-DD)"
// @Param poster formData file false "New poster image"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /api/v1/movie/edit [post]
func (s *Server) handleEditMovie(c echo.Context) error {
	if s.MovieService == nil {
		return errMovieService
	}

	form, err := c.FormParams()
	if err != nil {
		return errs.Errorf(errs.EINVALID, "invalid request body")
	}
	id, patch, err := parseEditForm(form)
	if err != nil {
		return err
	}
	if id == "" {
		return movie.ErrInvalidID
	}

	var poster string
	if fh, err := c.FormFile("poster"); err == nil {
		if s.Posters == nil {
			return errMovieService
		}
		if poster, err = s.Posters.Save(fh); err != nil {
			return err
		}
		patch.Poster = &poster
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		return errs.Errorf(errs.EINVALID, "invalid poster upload")
	}

	if err := s.MovieService.Update(c.Request().Context(), id, patch); err != nil {
		if poster != "" {
			s.discardPoster(poster)
		}
		return err
	}

	return writeMessage(c, http.StatusOK, "Movie updated successfully")
}

// handleDeleteMovie godoc
// @Summary Delete Movie
// @Description Delete a movie by id
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body DeleteMovieRequest true "Movie to delete"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /api/v1/movie [delete]
func (s *Server) handleDeleteMovie(c echo.Context) error {
	if s.MovieService == nil {
		return errMovieService
	}

	var req DeleteMovieRequest
	if err := c.Bind(&req); err != nil {
		return errs.Errorf(errs.EINVALID, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := s.MovieService.Delete(c.Request().Context(), req.ID); err != nil {
		return err
	}
	return writeMessage(c, http.StatusOK, "Movie deleted Successfully")
}

// handleSearchMovies godoc
// @Summary Search Movies
// @Description Filter movies by genre, title and director. Blank parameters are ignored.
// @Tags movies
// @Produce json
// @Param genre query string false "Genre contains"
// @Param title query string false "Title contains"
// @Param director query string false "Director contains"
// @Success 200 {object} APIResponse{data=[]MovieResponse}
// @Failure 500 {object} APIResponse
// @Router /api/v1/movie [get]
func (s *Server) handleSearchMovies(c echo.Context) error {
	if s.MovieService == nil {
		return errMovieService
	}

	movies, err := s.MovieService.Search(c.Request().Context(), movie.SearchParams{
		Genre:    c.QueryParam("genre"),
		Title:    c.QueryParam("title"),
		Director: c.QueryParam("director"),
	})
	if err != nil {
		return err
	}
	return writeData(c, http.StatusOK, "Filtered results", toMovieResponses(movies))
}

// handleAllMovies godoc
// @Summary List Movies
// @Tags movies
// @Produce json
// @Success 200 {object} APIResponse{data=[]MovieResponse}
// @Failure 500 {object} APIResponse
// @Router /api/v1/movie/all [get]
func (s *Server) handleAllMovies(c echo.Context) error {
	if s.MovieService == nil {
		return errMovieService
	}

	movies, err := s.MovieService.All(c.Request().Context())
	if err != nil {
		return err
	}
	return writeData(c, http.StatusOK, "All Movie fetched", toMovieResponses(movies))
}

// handleRandomMovies godoc
// @Summary Random Movies
// @Description Up to 8 movies sampled uniformly at random
// @Tags movies
// @Produce json
// @Success 200 {object} APIResponse{data=[]MovieResponse}
// @Failure 500 {object} APIResponse
// @Router /api/v1/movie/random [get]
func (s *Server) handleRandomMovies(c echo.Context) error {
	if s.MovieService == nil {
		return errMovieService
	}

	movies, err := s.MovieService.Random(c.Request().Context())
	if err != nil {
		return err
	}
	return writeData(c, http.StatusOK, "Random movies fetched successfully", toMovieResponses(movies))
}

// handleTopRatedMovies godoc
// @Summary Top Rated Movies
// @Tags movies
// @Produce json
// @Success 200 {object} APIResponse{data=[]MovieResponse}
// @Failure 500 {object} APIResponse
// @Router /api/v1/movie/top-rating [get]
func (s *Server) handleTopRatedMovies(c echo.Context) error {
	if s.MovieService == nil {
		return errMovieService
	}

	movies, err := s.MovieService.TopRated(c.Request().Context())
	if err != nil {
		return err
	}
	return writeData(c, http.StatusOK, "Top rated movies fetched successfully", toMovieResponses(movies))
}

// handleLatestMovies godoc
// @Summary Latest Movies
// @Tags movies
// @Produce json
// @Success 200 {object} APIResponse{data=[]MovieResponse}
// @Failure 500 {object} APIResponse
// @Router /api/v1/movie/latest [get]
func (s *Server) handleLatestMovies(c echo.Context) error {
	if s.MovieService == nil {
		return errMovieService
	}

	movies, err := s.MovieService.Latest(c.Request().Context())
	if err != nil {
		return err
	}
	return writeData(c, http.StatusOK, "Latest movies fetched successfully", toMovieResponses(movies))
}

// handleSuggestion godoc
// @Summary Autocomplete
// @Description Up to 5 movies whose field starts with the given prefix
// @Tags movies
// @Produce json
// @Param filter path string true "title, genre, director or all"
// @Param suggestion path string true "Prefix"
// @Success 200 {object} APIResponse{data=[]SuggestionResponse}
// @Failure 400 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /api/v1/movie/suggestion/{filter}/{suggestion} [get]
func (s *Server) handleSuggestion(c echo.Context) error {
	if s.MovieService == nil {
		return errMovieService
	}

	suggestions, err := s.MovieService.Suggest(c.Request().Context(), pathParam(c, "filter"), pathParam(c, "suggestion"))
	if err != nil {
		return err
	}
	return writeData(c, http.StatusOK, "Search Suggestion", toSuggestionResponses(suggestions))
}

// handleMovieDetail godoc
// @Summary Movie Detail
// @Tags movies
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} APIResponse{data=MovieResponse}
// @Failure 404 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /api/v1/movie/detail/{id} [get]
func (s *Server) handleMovieDetail(c echo.Context) error {
	if s.MovieService == nil {
		return errMovieService
	}

	m, err := s.MovieService.Get(c.Request().Context(), pathParam(c, "id"))
	if err != nil {
		return err
	}
	return writeData(c, http.StatusOK, "Movie fetched", toMovieResponse(m))
}

// handleKeywordSearch godoc
// @Summary Keyword Search
// @Description Movies whose title, synopsis or genre contains the keyword
// @Tags movies
// @Produce json
// @Param keyword path string true "Keyword"
// @Success 200 {object} APIResponse{data=[]MovieResponse}
// @Failure 400 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /api/v1/movie/{keyword} [get]
func (s *Server) handleKeywordSearch(c echo.Context) error {
	if s.MovieService == nil {
		return errMovieService
	}

	movies, err := s.MovieService.SearchByKeyword(c.Request().Context(), pathParam(c, "keyword"))
	if err != nil {
		return err
	}
	return writeData(c, http.StatusOK, "Filtered movies", toMovieResponses(movies))
}

// pathParam returns the decoded value of a path parameter. echo routes on
// the already decoded URL.Path unless the request carries a RawPath, in
// which case the parameter is still escaped.
func pathParam(c echo.Context, name string) string {
	raw := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func (s *Server) discardPoster(poster string) {
	if err := s.Posters.Remove(poster); err != nil {
		s.Logger.Warn("remove orphaned poster", zap.String("poster", poster), zap.Error(err))
	}
}
