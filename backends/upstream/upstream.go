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
	"github.com/DomZippilli/http-forward-cloud-function/httpclient"
)

var target string
var client httpclient.Client

// Setup performs one-time setup for the upstream backend. A nil client gets
// the default resty client.
func Setup(targetURL string, c httpclient.Client) {
	target = targetURL
	if c == nil {
		c = httpclient.NewRestyClient()
	}
	client = c
}

// Target returns the URL every invocation is forwarded to.
func Target() string {
	return target
}
