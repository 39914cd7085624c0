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
package outcome

import "fmt"

// Outcome is the result of one forwarded request. It is either a Success or
// a Failure; no other implementations exist.
type Outcome interface {
	fmt.Stringer
	// Kind is a short label for logs: "success" or the failure's Kind.
	Kind() string
	sealed()
}

// Success is any HTTP response, whatever its status code.
type Success struct {
	StatusCode int
	Body       string
}

// String renders the success shape, e.g. "Status Code: 200, Response: OK".
func (s Success) String() string {
	return fmt.Sprintf("Status Code: %d, Response: %s", s.StatusCode, s.Body)
}

func (s Success) Kind() string { return "success" }

func (Success) sealed() {}

// Failure is a request that never produced an HTTP response.
type Failure struct {
	Cause *TransportError
}

// String renders the failure shape, e.g. "Error: dial tcp ...".
func (f Failure) String() string {
	if f.Cause == nil {
		return "Error: unknown transport failure"
	}
	return fmt.Sprintf("Error: %v", f.Cause)
}

func (f Failure) Kind() string {
	if f.Cause == nil {
		return string(KindTransport)
	}
	return string(f.Cause.Kind)
}

func (Failure) sealed() {}
