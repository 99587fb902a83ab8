package movie

import "time"

// Patch is a partial update. Nil fields are left untouched; Genre and Cast
// replace the stored lists wholesale when non-nil.
type Patch struct {
	Title        *string
	Synopsis     *string
	ReleasedDate *time.Time
	Rating       *float64
	Poster       *string
	Trailer      *string
	Genre        []string
	Cast         []string
	Director     *string
}

// Apply merges the present fields of p into m and reports the names of the
// fields it changed.
func (p Patch) Apply(m *Movie) []string {
	var applied []string
	for _, rule := range patchRules {
		if !rule.present(p) {
			continue
		}
		rule.apply(p, m)
		applied = append(applied, rule.name)
	}
	return applied
}

type patchRule struct {
	name    string
	present func(p Patch) bool
	apply   func(p Patch, m *Movie)
}

var patchRules = []patchRule{
	{
		name:    "title",
		present: func(p Patch) bool { return p.Title != nil },
		apply:   func(p Patch, m *Movie) { m.Title = *p.Title },
	},
	{
		name:    "synopsis",
		present: func(p Patch) bool { return p.Synopsis != nil },
		apply:   func(p Patch, m *Movie) { m.Synopsis = *p.Synopsis },
	},
	{
		// releaseYear always follows the released date.
		name:    "releasedDate",
		present: func(p Patch) bool { return p.ReleasedDate != nil },
		apply: func(p Patch, m *Movie) {
			m.ReleasedDate = *p.ReleasedDate
			m.ReleaseYear = ReleaseYearOf(*p.ReleasedDate)
		},
	},
	{
		name:    "rating",
		present: func(p Patch) bool { return p.Rating != nil },
		apply: func(p Patch, m *Movie) {
			r := *p.Rating
			m.Rating = &r
		},
	},
	{
		name:    "poster",
		present: func(p Patch) bool { return p.Poster != nil },
		apply:   func(p Patch, m *Movie) { m.Poster = *p.Poster },
	},
	{
		name:    "trailer",
		present: func(p Patch) bool { return p.Trailer != nil },
		apply:   func(p Patch, m *Movie) { m.Trailer = *p.Trailer },
	},
	{
		name:    "director",
		present: func(p Patch) bool { return p.Director != nil },
		apply:   func(p Patch, m *Movie) { m.Director = *p.Director },
	},
	{
		name:    "genre",
		present: func(p Patch) bool { return p.Genre != nil },
		apply:   func(p Patch, m *Movie) { m.Genre = append([]string(nil), p.Genre...) },
	},
	{
		name:    "cast",
		present: func(p Patch) bool { return p.Cast != nil },
		apply:   func(p Patch, m *Movie) { m.Cast = append([]string(nil), p.Cast...) },
	},
}
