// Package validation runs struct-tag checks on request payloads and turns the
// first failure into a clienterr.ValidationError with a user-facing message.
package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/hongminglow/clevo-client/internal/clienterr"
)

// Messages maps a struct field name to the text reported when it fails.
type Messages map[string]string

var (
	once     sync.Once
	instance *validator.Validate
)

func validate() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return instance
}

// Struct validates v and returns the first failing field as a ValidationError.
// Fields absent from messages fall back to "<field> is invalid".
func Struct(v any, messages Messages) error {
	err := validate().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.Wrap(err, "validate payload")
	}
	fe := fieldErrs[0]
	msg, ok := messages[fe.StructField()]
	if !ok {
		msg = fe.Field() + " is invalid"
	}
	return clienterr.NewValidation(fe.Field(), msg)
}

// TrimStrings returns a copy of the struct pointed to by v with every exported
// string field trimmed, except those named in keep.
func TrimStrings[T any](v T, keep ...string) T {
	rv := reflect.ValueOf(&v).Elem()
	if rv.Kind() != reflect.Struct {
		return v
	}
	skip := make(map[string]bool, len(keep))
	for _, k := range keep {
		skip[k] = true
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rv.Field(i)
		if !rt.Field(i).IsExported() || skip[rt.Field(i).Name] || f.Kind() != reflect.String {
			continue
		}
		f.SetString(strings.TrimSpace(f.String()))
	}
	return v
}
