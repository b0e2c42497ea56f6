package common

import (
	"encoding/json"
	"maps"
	"net/http"
)

// Response is the value produced by a Handler. It is immutable in the
// copy-on-write sense: the With* methods return a shallow clone with the
// change applied, so a middleware downstream cannot mutate what an upstream
// middleware already holds.
type Response struct {
	status int
	header http.Header
	body   []byte
}

// NewResponse creates an empty response with the given status code.
func NewResponse(status int) *Response {
	return &Response{
		status: status,
		header: make(http.Header),
	}
}

// TextResponse creates a text/plain response.
func TextResponse(status int, body string) *Response {
	r := NewResponse(status)
	r.header.Set("Content-Type", "text/plain; charset=utf-8")
	r.body = []byte(body)
	return r
}

// JSONResponse creates an application/json response by marshaling v.
func JSONResponse(status int, v any) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	r := NewResponse(status)
	r.header.Set("Content-Type", "application/json")
	r.body = body
	return r, nil
}

// RedirectResponse creates a response with a Location header.
func RedirectResponse(status int, location string) *Response {
	r := NewResponse(status)
	r.header.Set("Location", location)
	return r
}

// Status returns the HTTP status code.
func (r *Response) Status() int {
	return r.status
}

// Header returns the response headers. The returned map must not be mutated;
// use WithHeader to derive a changed response.
func (r *Response) Header() http.Header {
	return r.header
}

// Body returns the response body bytes.
func (r *Response) Body() []byte {
	return r.body
}

// WithStatus returns a copy of the response with the status code replaced.
func (r *Response) WithStatus(status int) *Response {
	c := r.clone()
	c.status = status
	return c
}

// WithHeader returns a copy of the response with the header set.
func (r *Response) WithHeader(key, value string) *Response {
	c := r.clone()
	c.header.Set(key, value)
	return c
}

// WithBody returns a copy of the response with the body replaced.
// A nil body yields an empty-bodied response with status and headers intact.
func (r *Response) WithBody(body []byte) *Response {
	c := r.clone()
	c.body = body
	return c
}

// Write emits the response onto an http.ResponseWriter.
func (r *Response) Write(w http.ResponseWriter) error {
	for k, vs := range r.header {
		w.Header()[k] = vs
	}
	w.WriteHeader(r.status)
	if len(r.body) == 0 {
		return nil
	}
	_, err := w.Write(r.body)
	return err
}

func (r *Response) clone() *Response {
	c := &Response{
		status: r.status,
		header: make(http.Header, len(r.header)),
	}
	maps.Copy(c.header, r.header)
	if r.body != nil {
		c.body = make([]byte, len(r.body))
		copy(c.body, r.body)
	}
	return c
}
