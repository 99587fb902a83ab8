package movie

// Genres is the fixed genre enumeration.
var Genres = []string{
	"Action", "Adventure", "Animation", "Biography", "Comedy", "Crime",
	"Documentary", "Drama", "Family", "Fantasy", "History", "Horror",
	"Music", "Musical", "Mystery", "Romance", "Sci-Fi", "Sport",
	"Thriller", "War", "Western",
}

var genreSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Genres))
	for _, g := range Genres {
		set[g] = struct{}{}
	}
	return set
}()

func ValidGenre(g string) bool {
	_, ok := genreSet[g]
	return ok
}
