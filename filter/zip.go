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
package filter

import (
	"compress/gzip"
	"context"
	"io"
)

// GZip applies gzip encoding to the result.
//
// This is a streaming filter. It must run before anything is written to the
// response, since it changes the response headers.
func GZip(ctx context.Context, handle ResultHandle) error {
	defer handle.input.Close()
	defer handle.output.Close()
	// delete content-length header. It is no longer accurate.
	handle.response.Header().Del("Content-Length")
	handle.response.Header().Set("Content-Encoding", "gzip")
	handle.response.Header().Add("Vary", "Accept-Encoding")
	gz, err := gzip.NewWriterLevel(handle.output, gzip.BestCompression)
	if err != nil {
		return FilterError(handle, "gzip filter: %v", err)
	}
	if _, err := io.Copy(gz, handle.input); err != nil {
		gz.Close()
		return FilterError(handle, "gzip filter: %v", err)
	}
	return gz.Close()
}
