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
package function

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DomZippilli/http-forward-cloud-function/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFor(t *testing.T, targetURL, pipeline string) {
	t.Helper()
	require.NoError(t, Setup(&config.Config{
		TargetURL:        targetURL,
		LogLevel:         "disabled",
		LogFormat:        "json",
		ResponsePipeline: pipeline,
	}))
}

func TestForwardRequest(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("OK"))
	}))
	defer upstream.Close()

	type TestCase struct {
		method string
		path   string
		body   string
	}
	tcs := []TestCase{
		{http.MethodGet, "/", ""},
		{http.MethodPost, "/ignored/path", "{\"ignored\": true}"},
		{http.MethodDelete, "/?q=1", ""},
	}

	setupFor(t, upstream.URL+"/", "logging")
	for _, tc := range tcs {
		response := httptest.NewRecorder()
		ForwardRequest(response, httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)))
		assert.Equal(t, http.StatusOK, response.Code)
		assert.Equal(t, "Status Code: 200, Response: OK", response.Body.String(), tc.method)
	}
}

func TestForwardRequestUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	target := upstream.URL
	upstream.Close()

	setupFor(t, target, "none")
	response := httptest.NewRecorder()
	ForwardRequest(response, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, response.Code)
	assert.True(t, strings.HasPrefix(response.Body.String(), "Error: "), response.Body.String())
}

func TestSetupRejectsUnknownPipeline(t *testing.T) {
	err := Setup(&config.Config{TargetURL: "http://x/", LogLevel: "disabled", ResponsePipeline: "bogus"})
	assert.Error(t, err)
}
