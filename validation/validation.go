// Package validation collects field-level violations. Struct tags are checked
// with go-playground/validator; cross-field rules use the helpers below.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Violations maps a JSON field path to a short machine-readable reason.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records reason for field unless the field already has one.
func (v Violations) Add(field, reason string) {
	if _, ok := v[field]; !ok {
		v[field] = reason
	}
}

// Merge copies other into v under prefix ("" for none).
func (v Violations) Merge(prefix string, other Violations) {
	for k, reason := range other {
		if prefix != "" {
			k = prefix + "." + k
		}
		v.Add(k, reason)
	}
}

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "required")
	}
}

// NonNegative accepts a nil amount.
func NonNegative(field string, val *decimal.Decimal, v Violations) {
	if val != nil && val.IsNegative() {
		v.Add(field, "must_not_be_negative")
	}
}

func RequiredDate(field string, val time.Time, v Violations) {
	if val.IsZero() {
		v.Add(field, "required")
	}
}

// NotBefore flags end when it is set and earlier than start.
func NotBefore(field string, end *time.Time, start time.Time, v Violations) {
	if end != nil && end.Before(start) {
		v.Add(field, "before_start_date")
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	vd := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so messages line up with payloads.
	vd.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return vd
}

// Struct validates the `validate` tags of s and returns the violations keyed
// by JSON field path, without the top-level struct name.
func Struct(s any) Violations {
	v := make(Violations)
	err := validate.Struct(s)
	if err == nil {
		return v
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		v.Add("_", "invalid")
		return v
	}
	for _, fe := range verrs {
		v.Add(fieldPath(fe.Namespace()), fe.Tag())
	}
	return v
}

// fieldPath drops the leading struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
