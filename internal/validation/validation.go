// Package validation checks articles against the constraints declared in
// their `validate` struct tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"

	"github.com/SergeyParamoshkin/publisher/internal/model"
)

// Violation is a single failed constraint.
type Violation struct {
	Field   string
	Message string
}

// Error is returned when an article breaks one or more constraints.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}

	return strings.Join(parts, ", ")
}

// TagMaxUTF16 limits a string to a number of UTF-16 code units, the way
// JSON clients measure length. Runes outside the BMP count as two.
const TagMaxUTF16 = "maxutf16"

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})
	if err := v.RegisterValidation(TagMaxUTF16, maxUTF16); err != nil {
		panic(err)
	}

	return &Validator{validate: v}
}

func maxUTF16(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		panic(fmt.Sprintf("%s: bad limit %q", TagMaxUTF16, fl.Param()))
	}

	return UTF16Len(fl.Field().String()) <= limit
}

// UTF16Len returns the length of s in UTF-16 code units.
func UTF16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// Validate returns *Error if the article is not valid.
func (v *Validator) Validate(a *model.Article) error {
	err := v.validate.Struct(a)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &Error{}
	for _, fe := range fieldErrs {
		verr.Violations = append(verr.Violations, Violation{
			Field:   fieldPath(fe),
			Message: message(fe),
		})
	}
	sort.SliceStable(verr.Violations, func(i, j int) bool {
		return verr.Violations[i].Field < verr.Violations[j].Field
	})

	return verr
}

// fieldPath drops the struct name prefix: "Article.authors[0]" -> "authors[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}

	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "max", TagMaxUTF16:
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at most %s elements", fe.Param())
		}
		return fmt.Sprintf("size must be between 0 and %s", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s elements", fe.Param())
	default:
		return fmt.Sprintf("failed on the %q constraint", fe.Tag())
	}
}
