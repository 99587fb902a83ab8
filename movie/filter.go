package movie

import "strings"

type Field string

const (
	FieldID       Field = "id"
	FieldTitle    Field = "title"
	FieldSynopsis Field = "synopsis"
	FieldGenre    Field = "genre"
	FieldDirector Field = "director"
	FieldPoster   Field = "poster"
)

// Match selects how a condition value is compared against a field. Both
// kinds are case-insensitive and treat the value literally.
type Match int

const (
	MatchContains Match = iota
	MatchPrefix
)

// Condition matches one field. On FieldGenre it is satisfied when any
// element of the genre set matches.
type Condition struct {
	Field Field
	Match Match
	Value string
}

// Predicate is a store-independent description of the records to select.
// Conditions are AND-ed unless Any is set. An empty predicate matches
// every record.
type Predicate struct {
	Conditions []Condition
	Any        bool
}

func (p Predicate) IsEmpty() bool {
	return len(p.Conditions) == 0
}

type SearchParams struct {
	Genre    string
	Title    string
	Director string
}

// SearchPredicate builds the general search predicate. Blank parameters
// are left out rather than matched against the empty string.
func SearchPredicate(params SearchParams) Predicate {
	var p Predicate
	for _, c := range []struct {
		field Field
		value string
	}{
		{FieldGenre, params.Genre},
		{FieldTitle, params.Title},
		{FieldDirector, params.Director},
	} {
		value := strings.TrimSpace(c.value)
		if value == "" {
			continue
		}
		p.Conditions = append(p.Conditions, Condition{Field: c.field, Match: MatchContains, Value: value})
	}
	return p
}

// KeywordPredicate matches the keyword anywhere in title, synopsis or genre.
func KeywordPredicate(keyword string) (Predicate, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return Predicate{}, ErrInvalidKeyword
	}
	return Predicate{
		Any: true,
		Conditions: []Condition{
			{Field: FieldTitle, Match: MatchContains, Value: keyword},
			{Field: FieldSynopsis, Match: MatchContains, Value: keyword},
			{Field: FieldGenre, Match: MatchContains, Value: keyword},
		},
	}, nil
}

var suggestionFields = map[string]Field{
	"all":      FieldTitle,
	"title":    FieldTitle,
	"genre":    FieldGenre,
	"director": FieldDirector,
}

// SuggestionPredicate builds the autocomplete predicate for a single field
// selected by filter. Unknown filters are rejected.
func SuggestionPredicate(filter, prefix string) (Predicate, error) {
	field, ok := suggestionFields[strings.ToLower(strings.TrimSpace(filter))]
	if !ok {
		return Predicate{}, ErrInvalidFilter
	}
	if strings.TrimSpace(prefix) == "" {
		return Predicate{}, ErrInvalidPrefix
	}
	return Predicate{
		Conditions: []Condition{{Field: field, Match: MatchPrefix, Value: prefix}},
	}, nil
}
