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
package httpclient

import (
	"context"
	"net/http"
)

// Response is what the forwarder needs from an upstream response.
type Response interface {
	StatusCode() int
	Body() []byte
	Header() http.Header
}

// Client issues plain GET requests. Implementations must not retry and must
// return an error only when no HTTP response was received.
type Client interface {
	Get(ctx context.Context, url string) (Response, error)
}
