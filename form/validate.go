package form

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/fatih/structs"
)

type rule func(value interface{}) string

//nolint:gochecknoglobals
var rules = map[string]rule{
	"required": ruleRequired,
	"url":      ruleURL,
	"phone":    rulePhone,
	"state":    ruleState,
	"genres":   ruleGenres,
	"id":       ruleID,
	"datetime": ruleDateTime,
}

// Validate checks every field of a form struct against its `valid` tag. a
// field stops at its first failing rule
func Validate(form interface{}) error {
	var errs Errors
	for _, field := range structs.Fields(form) {
		tag := field.Tag("valid")
		if tag == "" {
			continue
		}
		name := field.Tag("mapstructure")
		if name == "" {
			name = field.Name()
		}
		for _, ruleName := range strings.Split(tag, ",") {
			check, ok := rules[ruleName]
			if !ok {
				panic(fmt.Sprintf("unknown rule %q on field %q", ruleName, name))
			}
			if msg := check(field.Value()); msg != "" {
				errs = append(errs, &FieldError{Field: name, Message: msg})
				break
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func nonBlank(values []string) []string {
	var ret []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			ret = append(ret, v)
		}
	}
	return ret
}

func ruleRequired(value interface{}) string {
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return "This field is required."
		}
	case []string:
		if len(nonBlank(v)) == 0 {
			return "This field is required."
		}
	}
	return ""
}

func ruleURL(value interface{}) string {
	in, _ := value.(string)
	if in == "" {
		return ""
	}
	u, err := url.Parse(in)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "Invalid URL."
	}
	return ""
}

var phoneExpr = regexp.MustCompile(`^\+?[0-9][0-9 ().-]{5,18}[0-9]$`)

func rulePhone(value interface{}) string {
	in, _ := value.(string)
	if in == "" {
		return ""
	}
	if !phoneExpr.MatchString(in) {
		return "Invalid phone number."
	}
	return ""
}

func ruleState(value interface{}) string {
	in, _ := value.(string)
	if in == "" {
		return ""
	}
	if !contains(States, in) {
		return "Not a valid choice."
	}
	return ""
}

func ruleGenres(value interface{}) string {
	in, _ := value.([]string)
	for _, genre := range nonBlank(in) {
		if !contains(Genres, strings.TrimSpace(genre)) {
			return fmt.Sprintf("'%s' is not a valid choice for this field.", genre)
		}
	}
	return ""
}

func ruleID(value interface{}) string {
	in, _ := value.(string)
	if in == "" {
		return ""
	}
	if id, err := strconv.Atoi(in); err != nil || id <= 0 {
		return "Not a valid id."
	}
	return ""
}

func ruleDateTime(value interface{}) string {
	in, _ := value.(string)
	if in == "" {
		return ""
	}
	if _, err := parseDateTime(in); err != nil {
		return "Not a valid datetime value."
	}
	return ""
}
