package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// Response is a fully read HTTP response.
type Response struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
	Header     http.Header
	Duration   time.Duration
}

// JSON parses the body. Invalid JSON yields a Result whose Exists() is false.
func (r *Response) JSON() gjson.Result { return gjson.ParseBytes(r.Body) }

// Path evaluates a gjson path against the body, e.g. "title" or "#.id".
func (r *Response) Path(p string) gjson.Result { return gjson.GetBytes(r.Body, p) }

// Ints evaluates p and returns its values as integers. p must select a number
// or an array of numbers.
func (r *Response) Ints(p string) ([]int, error) {
	res := r.Path(p)
	if !res.Exists() {
		return nil, fmt.Errorf("path %q: not found", p)
	}
	items := []gjson.Result{res}
	if res.IsArray() {
		items = res.Array()
	}
	out := make([]int, 0, len(items))
	for i, v := range items {
		if v.Type != gjson.Number {
			return nil, fmt.Errorf("path %q: element %d is %s, not a number", p, i, v.Type)
		}
		out = append(out, int(v.Int()))
	}
	return out, nil
}

// RequestLine is "METHOD URL", as shown in reports.
func (r *Response) RequestLine() string { return r.Method + " " + r.URL }

func (r *Response) String() string {
	return fmt.Sprintf("%s %s -> %d (%s)", r.Method, r.URL, r.StatusCode, r.Duration.Round(time.Millisecond))
}
