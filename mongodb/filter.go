package mongodb

import (
	"moviecatalog/movie"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var fieldNames = map[movie.Field]string{
	movie.FieldID:       "_id",
	movie.FieldTitle:    "title",
	movie.FieldSynopsis: "synopsis",
	movie.FieldGenre:    "genre",
	movie.FieldDirector: "director",
	movie.FieldPoster:   "poster",
}

// buildFilter translates p into a query document. Values are quoted so
// user input never acts as a regular expression. A regex on the genre
// array matches when any element matches.
func buildFilter(p movie.Predicate) bson.D {
	if p.IsEmpty() {
		return bson.D{}
	}

	clauses := make(bson.A, 0, len(p.Conditions))
	for _, c := range p.Conditions {
		clauses = append(clauses, bson.D{{Key: fieldNames[c.Field], Value: conditionRegex(c)}})
	}

	if len(clauses) == 1 {
		return clauses[0].(bson.D)
	}
	if p.Any {
		return bson.D{{Key: "$or", Value: clauses}}
	}
	return bson.D{{Key: "$and", Value: clauses}}
}

func conditionRegex(c movie.Condition) bson.Regex {
	pattern := regexp.QuoteMeta(c.Value)
	if c.Match == movie.MatchPrefix {
		pattern = "^" + pattern
	}
	return bson.Regex{Pattern: pattern, Options: "i"}
}

func buildSort(s movie.Sort) bson.D {
	switch s {
	case movie.SortRatingDesc:
		// documents without a rating sort last in descending order
		return bson.D{{Key: "rating", Value: -1}, {Key: "_id", Value: 1}}
	case movie.SortReleasedDesc:
		return bson.D{{Key: "releasedDate", Value: -1}, {Key: "_id", Value: 1}}
	case movie.SortIDAsc:
		return bson.D{{Key: "_id", Value: 1}}
	default:
		return nil
	}
}

func buildProjection(fields []movie.Field) bson.D {
	if len(fields) == 0 {
		return nil
	}
	projection := make(bson.D, 0, len(fields))
	for _, f := range fields {
		projection = append(projection, bson.E{Key: fieldNames[f], Value: 1})
	}
	return projection
}
