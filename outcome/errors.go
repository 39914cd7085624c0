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

import (
	"context"
	"errors"
	"net"
	"net/url"
	"syscall"
)

// FailureKind categorizes a transport failure. It is informational only;
// every kind renders the same way.
type FailureKind string

const (
	KindMalformedURL      FailureKind = "malformed_url"
	KindDNS               FailureKind = "dns"
	KindTimeout           FailureKind = "timeout"
	KindConnectionRefused FailureKind = "connection_refused"
	KindConnectionReset   FailureKind = "connection_reset"
	KindCanceled          FailureKind = "canceled"
	KindTransport         FailureKind = "transport"
)

// TransportError is a failure below the HTTP response level.
type TransportError struct {
	URL  string
	Kind FailureKind
	Err  error
}

// Error returns the underlying error text unchanged, so callers see the
// same description the HTTP client produced.
func (e *TransportError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Classify wraps err in a TransportError, guessing its kind from the error
// chain.
func Classify(target string, err error) *TransportError {
	return &TransportError{
		URL:  target,
		Kind: kindOf(err),
		Err:  err,
	}
}

func kindOf(err error) FailureKind {
	if err == nil {
		return KindTransport
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Op == "parse" {
		return KindMalformedURL
	}
	var hostErr url.InvalidHostError
	if errors.As(err, &hostErr) {
		return KindMalformedURL
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindDNS
	}
	switch {
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		return KindConnectionRefused
	case errors.Is(err, syscall.ECONNRESET):
		return KindConnectionReset
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindTransport
}
