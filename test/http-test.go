package test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
)

type RoundTripFunc func(req *http.Request) *http.Response

func (r RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return r(req), nil }

// NewTestServer returns a client whose requests are served in-process by h,
// whatever host the request names.
func NewTestServer(h http.Handler) *http.Client {
	return &http.Client{
		Transport: RoundTripFunc(func(req *http.Request) *http.Response {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			return rec.Result()
		}),
	}
}

// StaticFile answers every request with body.
func StaticFile(body []byte) *http.Client {
	return &http.Client{
		Transport: RoundTripFunc(func(req *http.Request) *http.Response {
			rec := httptest.NewRecorder()
			rec.WriteHeader(http.StatusOK)
			rec.Write(body)
			return rec.Result()
		}),
	}
}

func WriteRequestToLine(req *http.Request) string {
	buf := new(bytes.Buffer)
	if err := req.Write(buf); err != nil {
		panic(err)
	}
	return buf.String()
}
