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
package config

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/DomZippilli/http-forward-cloud-function/filter"
)

// DEFAULT: Log every invocation.
var LoggingOnly = filter.Pipeline{
	filter.LogRequest,
}

// No funny stuff.
var NoFilters = filter.Pipeline{}

// Compress the result for callers that accept gzip.
var ZippingProxy = filter.Pipeline{
	gzipIfAccepted,
	filter.LogRequest,
}

// gzipIfAccepted applies the GZip filter, but only if the caller sent
// Accept-Encoding: gzip.
func gzipIfAccepted(c context.Context, rh filter.ResultHandle) error {
	return filter.FilterIf(c, rh, acceptsGzip, filter.GZip)
}

// acceptsGzip tests whether the caller will take a gzipped response.
func acceptsGzip(r http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		if strings.TrimSpace(strings.SplitN(enc, ";", 2)[0]) == "gzip" {
			return true
		}
	}
	return false
}

// PipelineByName returns one of the named pipelines.
func PipelineByName(name string) (filter.Pipeline, error) {
	if pipeline, ok := pipelines[strings.ToLower(name)]; ok {
		return pipeline, nil
	}
	names := make([]string, 0, len(pipelines))
	for n := range pipelines {
		names = append(names, n)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("unknown response_pipeline %q (want one of %v)", name, strings.Join(names, ", "))
}
