package shared

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire and form format for calendar dates.
const DateLayout = "2006-01-02"

var phonePattern = regexp.MustCompile(`^\(\d{3}\) \d{3}-\d{4}$`)

// FieldErrors maps form field names to a human readable message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (fe FieldErrors) Unwrap() error { return ErrValidation }

// Has reports whether field carries an error.
func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// AsFieldErrors extracts FieldErrors from err.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Validator runs struct tag validation over form values.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewValidator registers the pharmacy rules on a fresh validator:
// phone, futuredate, posint and decimalgt0.
func NewValidator() *Validator {
	v := &Validator{validate: validator.New(validator.WithRequiredStructEnabled()), now: time.Now}
	v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	v.validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	_ = v.validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.validate.RegisterValidation("futuredate", func(fl validator.FieldLevel) bool {
		return IsFutureDate(fl.Field().String(), v.now())
	})
	_ = v.validate.RegisterValidation("posint", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil && n > 0
	})
	_ = v.validate.RegisterValidation("decimalgt0", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && d.IsPositive()
	})
	return v
}

// WithClock overrides the clock used by futuredate.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	if now != nil {
		v.now = now
	}
	return v
}

// Today returns the validator's current calendar date.
func (v *Validator) Today() time.Time {
	return truncateDay(v.now())
}

// Struct validates form and returns FieldErrors keyed by form field name, or
// nil when the form is valid.
func (v *Validator) Struct(form any) error {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	labels := fieldLabels(form)
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		label := labels[fe.StructField()]
		if label == "" {
			label = humanize(fe.StructField())
		}
		out[fe.Field()] = messageFor(label, fe)
	}
	return out
}

// IsFutureDate reports whether value (YYYY-MM-DD) falls strictly after the
// calendar day of now.
func IsFutureDate(value string, now time.Time) bool {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), now.Location())
	if err != nil {
		return false
	}
	return d.After(truncateDay(now))
}

// IsValidPhone reports whether value matches (XXX) XXX-XXXX.
func IsValidPhone(value string) bool {
	return phonePattern.MatchString(value)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func messageFor(label string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "email":
		return "Please enter a valid email address"
	case "phone":
		return "Phone number must be in format (XXX) XXX-XXXX"
	case "futuredate":
		return label + " must be a future date"
	case "posint":
		return label + " must be a positive number"
	case "decimalgt0":
		return label + " must be greater than 0"
	case "datetime":
		return label + " must be a valid date (YYYY-MM-DD)"
	case "eqfield":
		return label + " does not match"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(oneofChoices(fe.Param()), ", "))
	default:
		return label + " is invalid"
	}
}

func oneofChoices(param string) []string {
	var out []string
	for param != "" {
		param = strings.TrimLeft(param, " ")
		if param == "" {
			break
		}
		if param[0] == '\'' {
			end := strings.IndexByte(param[1:], '\'')
			if end < 0 {
				out = append(out, param[1:])
				break
			}
			out = append(out, param[1:end+1])
			param = param[end+2:]
			continue
		}
		end := strings.IndexByte(param, ' ')
		if end < 0 {
			out = append(out, param)
			break
		}
		out = append(out, param[:end])
		param = param[end:]
	}
	return out
}

func fieldLabels(form any) map[string]string {
	t := reflect.TypeOf(form)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	labels := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if label := f.Tag.Get("label"); label != "" {
			labels[f.Name] = label
		}
	}
	return labels
}

func humanize(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
