package httpserver

import (
	"fmt"
	"moviecatalog/errs"
	"moviecatalog/movie"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const dateLayout = "2006-01-02"

type CustomValidator struct {
	validate *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("rating", validateRating)
	_ = v.RegisterValidation("genre", validateGenre)
	_ = v.RegisterValidation("isodate", validateISODate)
	return &CustomValidator{validate: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validate.Struct(i); err != nil {
		return errs.Errorf(errs.EINVALID, "%s", formatValidationError(err))
	}
	return nil
}

func validateRating(fl validator.FieldLevel) bool {
	_, err := movie.ParseRating(fl.Field().String())
	return err == nil
}

func validateGenre(fl validator.FieldLevel) bool {
	return movie.ValidGenre(fl.Field().String())
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := parseDate(fl.Field().String())
	return err == nil
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, movie.ErrInvalidDate
	}
	return t.UTC(), nil
}

func formatValidationError(err error) string {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, fieldMessage(fe))
		}
		return strings.Join(parts, "; ")
	}
	return "validation error"
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	if field == "" {
		field = fe.StructField()
	}
	label := displayName(field)

	switch fe.Tag() {
	case "required", "notblank":
		return label + " is a mandatory field"
	case "max":
		return fmt.Sprintf("%s can be at most %s characters long", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return label + " must be a non-empty list"
		}
		return fmt.Sprintf("%s length is at least %s characters", label, fe.Param())
	case "email":
		return "Enter a valid Email address"
	case "url":
		return label + " must be a valid URL"
	case "isodate":
		return label + " must be a valid date"
	case "rating":
		return "Rating should be a number from 0 to 10 with up to one decimal place"
	case "genre":
		return "Genre must be one of the predefined values"
	default:
		return label + " failed on " + fe.Tag()
	}
}

// displayName turns "releasedDate" or "cast[0]" into "Released date" / "Cast".
func displayName(field string) string {
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	if field == "" {
		return field
	}
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteString(strings.ToUpper(string(r)))
		case r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteString(strings.ToLower(string(r)))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
