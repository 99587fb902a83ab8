package movie

// PosterDecorator turns the stored relative poster path into a public URL.
type PosterDecorator struct {
	BaseURL string
}

func NewPosterDecorator(baseURL string) PosterDecorator {
	return PosterDecorator{BaseURL: baseURL}
}

func (d PosterDecorator) Decorate(m Movie) Movie {
	if m.Poster == "" {
		return m
	}
	m.Poster = d.BaseURL + m.Poster
	return m
}

func (d PosterDecorator) DecorateAll(movies []Movie) []Movie {
	for i := range movies {
		movies[i] = d.Decorate(movies[i])
	}
	return movies
}
