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
package common

import (
	"fmt"
	"strings"

	"cloud.google.com/go/compute/metadata"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// DecodeText converts a response body to a valid UTF-8 string. The
// encoding is taken from a byte order mark, then the charset declared in
// contentType, then sniffed from the body itself (windows-1252 when nothing
// else fits). Bytes that cannot be decoded become U+FFFD.
func DecodeText(body []byte, contentType string) string {
	if len(body) == 0 {
		return ""
	}
	encoding, name, _ := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" {
		return strings.ToValidUTF8(string(body), "\uFFFD")
	}
	decoded, _, err := transform.Bytes(encoding.NewDecoder(), body)
	if err != nil {
		return strings.ToValidUTF8(string(body), "\uFFFD")
	}
	return strings.ToValidUTF8(string(decoded), "\uFFFD")
}

// GetRuntimeProjectId returns the project this function runs in, from the
// metadata server. Off GCP it returns an error without waiting on the
// metadata server.
func GetRuntimeProjectId() (string, error) {
	if !metadata.OnGCE() {
		return "", fmt.Errorf("get project id: not running on GCP")
	}
	projectID, err := metadata.ProjectID()
	if err != nil {
		return "", fmt.Errorf("get project id: %w", err)
	}
	return projectID, nil
}
