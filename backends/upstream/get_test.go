// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/DomZippilli/http-forward-cloud-function/filter"
	"github.com/DomZippilli/http-forward-cloud-function/httpclient"
	"github.com/DomZippilli/http-forward-cloud-function/outcome"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newUpstream starts a fake upstream answering every request with status
// and body, and points the backend at it.
func newUpstream(t *testing.T, status int, contentType, body string) *int32 {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	Setup(srv.URL, nil)
	return &hits
}

func TestHandle(t *testing.T) {
	type TestCase struct {
		name        string
		status      int
		contentType string
		body        string
		want        string
	}

	tcs := []TestCase{
		{"ok", http.StatusOK, "", "OK", "Status Code: 200, Response: OK"},
		// error statuses are reported, not treated as failures
		{"not found", http.StatusNotFound, "", "Not Found", "Status Code: 404, Response: Not Found"},
		{"server error", http.StatusInternalServerError, "", "oops", "Status Code: 500, Response: oops"},
		{"empty", http.StatusNoContent, "", "", "Status Code: 204, Response: "},
		// the body is neither trimmed nor escaped
		{"raw body", http.StatusOK, "text/html", "  <p>\"hi\" & bye</p>\n", "Status Code: 200, Response:   <p>\"hi\" & bye</p>\n"},
		{"latin-1", http.StatusOK, "text/plain; charset=iso-8859-1", "caf\xe9", "Status Code: 200, Response: café"},
		// undeclared charsets are detected from the body
		{"undeclared latin-1", http.StatusOK, "text/html", "caf\xe9", "Status Code: 200, Response: café"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			hits := newUpstream(t, tc.status, tc.contentType, tc.body)
			assert.Equal(t, tc.want, Handle(context.Background(), nil))
			assert.Equal(t, int32(1), atomic.LoadInt32(hits))
		})
	}
}

func TestHandleAlwaysValidText(t *testing.T) {
	for _, body := range []string{"\xff\xfebody", "\x80\x81\xc0\xff"} {
		newUpstream(t, http.StatusOK, "", body)
		got := Handle(context.Background(), nil)
		assert.True(t, strings.HasPrefix(got, "Status Code: 200, Response: "), got)
		assert.True(t, utf8.ValidString(got), "%q", got)
	}
}

func TestHandleIgnoresTrigger(t *testing.T) {
	newUpstream(t, http.StatusOK, "", "OK")
	triggers := []interface{}{nil, "", 42, httptest.NewRequest(http.MethodPost, "/?x=1", strings.NewReader("payload"))}
	for _, trigger := range triggers {
		assert.Equal(t, "Status Code: 200, Response: OK", Handle(context.Background(), trigger))
	}
}

func TestHandleUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	Setup(srv.URL, nil)
	srv.Close()

	result := Fetch(context.Background())
	failure, ok := result.(outcome.Failure)
	require.True(t, ok, "want Failure, got %T", result)
	assert.Equal(t, outcome.KindConnectionRefused, failure.Cause.Kind)

	got := Handle(context.Background(), nil)
	assert.True(t, strings.HasPrefix(got, "Error: "), got)
	assert.Greater(t, len(got), len("Error: "))
}

func TestHandleMalformedTarget(t *testing.T) {
	for _, target := range []string{"http://[::1:80/", "http://<placeholder>:80/"} {
		Setup(target, nil)
		got := Handle(context.Background(), nil)
		assert.True(t, strings.HasPrefix(got, "Error: "), got)
		assert.Greater(t, len(got), len("Error: "))
	}
	Setup("http://[::1:80/", nil)
	assert.Equal(t, "malformed_url", Fetch(context.Background()).Kind())
}

// stubClient lets tests decide what the transport does.
type stubClient struct {
	resp httpclient.Response
	err  error
	hook func()
}

func (s stubClient) Get(ctx context.Context, url string) (httpclient.Response, error) {
	if s.hook != nil {
		s.hook()
	}
	return s.resp, s.err
}

func TestFetchNeverPanics(t *testing.T) {
	Setup("http://upstream.test/", stubClient{hook: func() { panic("transport exploded") }})
	defer Setup("", nil)

	got := Handle(context.Background(), nil)
	assert.Equal(t, "Error: transport exploded", got)
}

func TestFetchKeepsErrorText(t *testing.T) {
	Setup("http://upstream.test/", stubClient{err: errors.New("Get \"http://upstream.test/\": EOF")})
	defer Setup("", nil)

	assert.Equal(t, "Error: Get \"http://upstream.test/\": EOF", Handle(context.Background(), nil))
	assert.Equal(t, "http://upstream.test/", Target())
}

func TestForward(t *testing.T) {
	newUpstream(t, http.StatusNotFound, "", "Not Found")

	response := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPut, "/anything", strings.NewReader("ignored"))
	Forward(context.Background(), response, request, filter.Pipeline{filter.LogRequest})

	// the invocation succeeds even though the upstream said 404
	assert.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "text/plain; charset=utf-8", response.Header().Get("Content-Type"))
	assert.Equal(t, "Status Code: 404, Response: Not Found", response.Body.String())
}

func TestForwardTransportFailure(t *testing.T) {
	Setup("http://[::1:80/", nil)

	response := httptest.NewRecorder()
	Forward(context.Background(), response, httptest.NewRequest(http.MethodGet, "/", nil), filter.Pipeline{})

	assert.Equal(t, http.StatusOK, response.Code)
	assert.True(t, strings.HasPrefix(response.Body.String(), "Error: "), response.Body.String())
}
