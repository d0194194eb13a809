// Package check holds the response assertions used by the test suites. Each
// check returns nil on success or an error naming the path and the value it
// observed.
package check

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/storecheck/storecheck/internal/api"
	"github.com/storecheck/storecheck/internal/order"
)

// Status requires the HTTP status code to be want.
func Status(resp *api.Response, want int) error {
	if resp.StatusCode != want {
		return fmt.Errorf("status: expected %d, got %d", want, resp.StatusCode)
	}
	return nil
}

// NotEmpty requires the body to be a non-empty JSON array or object.
func NotEmpty(resp *api.Response) error {
	root := resp.JSON()
	switch {
	case root.IsArray() && len(root.Array()) > 0:
		return nil
	case root.IsObject() && len(root.Map()) > 0:
		return nil
	}
	return fmt.Errorf("body: expected non-empty JSON, got %q", abbreviate(string(resp.Body)))
}

// NotNull requires path to exist and not be JSON null.
func NotNull(resp *api.Response, path string) error {
	v := resp.Path(path)
	if !v.Exists() || v.Type == gjson.Null {
		return fmt.Errorf("%s: expected not null", path)
	}
	return nil
}

// Equals requires path to hold want. Numbers compare numerically, everything
// else by its string form.
func Equals(resp *api.Response, path string, want any) error {
	v := resp.Path(path)
	if !v.Exists() {
		return fmt.Errorf("%s: expected %v, got nothing", path, want)
	}
	if !matches(v, want) {
		return fmt.Errorf("%s: expected %v, got %s", path, want, v.Raw)
	}
	return nil
}

// EveryItemNotNull requires the field to be present and non-null in every
// element of the top-level array.
func EveryItemNotNull(resp *api.Response, field string) error {
	items, err := elements(resp)
	if err != nil {
		return err
	}
	for i, it := range items {
		v := it.Get(field)
		if !v.Exists() || v.Type == gjson.Null {
			return fmt.Errorf("[%d].%s: expected not null", i, field)
		}
	}
	return nil
}

// EveryItemEquals requires field to equal want in every array element.
func EveryItemEquals(resp *api.Response, field string, want any) error {
	items, err := elements(resp)
	if err != nil {
		return err
	}
	for i, it := range items {
		v := it.Get(field)
		if !matches(v, want) {
			return fmt.Errorf("[%d].%s: expected %v, got %s", i, field, want, orNothing(v))
		}
	}
	return nil
}

// BodyEquals requires the raw body, trimmed of surrounding whitespace, to be want.
func BodyEquals(resp *api.Response, want string) error {
	got := strings.TrimSpace(string(resp.Body))
	if got != want {
		return fmt.Errorf("body: expected %q, got %q", want, abbreviate(got))
	}
	return nil
}

// Sorted requires the integer field of each array element to be ordered in
// dir. Every element must carry the field.
func Sorted(resp *api.Response, field string, dir order.Direction) error {
	els, err := elements(resp)
	if err != nil {
		return err
	}
	values := make([]int64, 0, len(els))
	for i, el := range els {
		v := el.Get(field)
		if v.Type != gjson.Number {
			return fmt.Errorf("[%d].%s: expected a number, got %s", i, field, orNothing(v))
		}
		values = append(values, v.Int())
	}
	if i := order.FirstViolation(values, dir); i >= 0 {
		return fmt.Errorf("%s: not sorted %s at index %d (%d then %d)", field, dir, i, values[i-1], values[i])
	}
	return nil
}

// All joins the non-nil errors, or returns nil.
func All(errs ...error) error { return errors.Join(errs...) }

func elements(resp *api.Response) ([]gjson.Result, error) {
	root := resp.JSON()
	if !root.IsArray() {
		return nil, fmt.Errorf("body: expected JSON array, got %q", abbreviate(string(resp.Body)))
	}
	return root.Array(), nil
}

func matches(v gjson.Result, want any) bool {
	switch w := want.(type) {
	case int:
		return v.Type == gjson.Number && v.Int() == int64(w)
	case int64:
		return v.Type == gjson.Number && v.Int() == w
	case float64:
		return v.Type == gjson.Number && v.Float() == w
	case bool:
		return v.IsBool() && v.Bool() == w
	case nil:
		return v.Type == gjson.Null
	default:
		return v.Exists() && v.String() == fmt.Sprint(w)
	}
}

func orNothing(v gjson.Result) string {
	if !v.Exists() {
		return "nothing"
	}
	return v.Raw
}

func abbreviate(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
