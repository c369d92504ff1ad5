// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules (like
// required fields or date formats) defined in struct tags
// and extracts validation errors into a format the client can
// understand
package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the only accepted calendar date format.
const DateLayout = "2006-01-02"

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the shared validator instance.
//
// Field errors are reported under the name the client used: the json
// tag for bodies, the query or param tag otherwise.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(clientFieldName)
	})
	return validate
}

// Struct validates s with the shared validator.
func Struct(s any) error {
	return Validator().Struct(s)
}

func clientFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "query", "param"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return fld.Name
}
