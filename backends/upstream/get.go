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
	"fmt"
	"net/http"
	"strings"

	"github.com/DomZippilli/http-forward-cloud-function/common"
	"github.com/DomZippilli/http-forward-cloud-function/filter"
	"github.com/DomZippilli/http-forward-cloud-function/httpclient"
	"github.com/DomZippilli/http-forward-cloud-function/outcome"

	"github.com/rs/zerolog/log"
)

// Fetch issues one GET to the target URL and reports what happened. Any
// HTTP response is a Success; only failures to get one are Failures.
func Fetch(ctx context.Context) (result outcome.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			result = outcome.Failure{Cause: outcome.Classify(target, fmt.Errorf("%v", r))}
		}
	}()
	c := client
	if c == nil {
		c = httpclient.NewRestyClient()
	}
	resp, err := c.Get(ctx, target)
	if err != nil {
		cause := outcome.Classify(target, err)
		log.Debug().Str("target", target).Str("kind", string(cause.Kind)).Msgf("fetch: %v", err)
		return outcome.Failure{Cause: cause}
	}
	log.Debug().Str("target", target).Int("status", resp.StatusCode()).Msg("fetch: response")
	return outcome.Success{
		StatusCode: resp.StatusCode(),
		Body:       common.DecodeText(resp.Body(), resp.Header().Get("Content-Type")),
	}
}

// Handle forwards one invocation and renders the outcome. trigger is never
// inspected and may be nil.
func Handle(ctx context.Context, trigger interface{}) string {
	return Fetch(ctx).String()
}

// Forward answers an HTTP invocation with the rendered outcome of forwarding
// it, written through pipeline. The invocation itself always succeeds.
func Forward(ctx context.Context, response http.ResponseWriter,
	request *http.Request, pipeline filter.Pipeline) {
	result := Fetch(ctx)
	rendered := result.String()

	response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	response.Header().Set("Content-Length", fmt.Sprint(len(rendered)))
	if _, err := filter.PipelineCopy(ctx, response, strings.NewReader(rendered),
		request, result, pipeline); err != nil {
		log.Error().Msgf("forward: %v", err)
	}
}
