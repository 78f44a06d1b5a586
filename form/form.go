// Package form decodes and validates the venue, artist, and show forms
package form

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// DateTimeLayouts are the accepted layouts for a show's start time. the
// first is used when prefilling
//
//nolint:gochecknoglobals
var DateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

type FieldError struct {
	Field   string
	Message string
}

// Errors is every failed field in struct order
type Errors []*FieldError

func (e Errors) Error() string {
	var msgs []string
	for _, fe := range e {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return strings.Join(msgs, "; ")
}

// For returns the messages for a single field, for use in templates
func (e Errors) For(field string) []string {
	var ret []string
	for _, fe := range e {
		if fe.Field == field {
			ret = append(ret, fe.Message)
		}
	}
	return ret
}

func (e Errors) Fields() []string {
	var ret []string
	for _, fe := range e {
		if !contains(ret, fe.Field) {
			ret = append(ret, fe.Field)
		}
	}
	return ret
}

// Decode reads a submitted form into dst, which must be a pointer to one of
// the form structs. repeated keys are kept only for slice fields
func Decode(values url.Values, dst interface{}) error {
	input := make(map[string]interface{}, len(values))
	for k, v := range values {
		input[k] = v
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			firstValueHook,
			checkboxHook,
		),
		Result: dst,
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decode form: %w", err)
	}
	return nil
}

func firstValueHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	values, ok := data.([]string)
	if !ok || to.Kind() == reflect.Slice {
		return data, nil
	}
	if len(values) == 0 {
		return "", nil
	}
	return strings.TrimSpace(values[0]), nil
}

func checkboxHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
		return data, nil
	}
	switch strings.ToLower(data.(string)) {
	case "y", "yes", "on", "true", "1":
		return true, nil
	default:
		return false, nil
	}
}

func parseDateTime(in string) (time.Time, error) {
	for _, layout := range DateTimeLayouts {
		if t, err := time.ParseInLocation(layout, in, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("no layout matches %q", in)
}
