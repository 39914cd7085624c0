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

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// RestyClient adapts resty.Client to the Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient returns a client with resty's defaults: no timeout and no
// retries.
func NewRestyClient() *RestyClient {
	c := resty.New()
	c.SetRetryCount(0)
	c.SetLogger(zerologAdapter{})
	return &RestyClient{client: c}
}

// NewRestyClientFrom wraps an existing http.Client, e.g. one built by a test
// server.
func NewRestyClientFrom(hc *http.Client) *RestyClient {
	c := resty.NewWithClient(hc)
	c.SetRetryCount(0)
	c.SetLogger(zerologAdapter{})
	return &RestyClient{client: c}
}

// Get performs one HTTP GET. Any response, whatever its status, is returned
// without error.
func (r *RestyClient) Get(ctx context.Context, url string) (Response, error) {
	resp, err := r.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) StatusCode() int     { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Body() []byte        { return r.resp.Body() }
func (r *restyResponseAdapter) Header() http.Header { return r.resp.Header() }

// zerologAdapter routes resty's own diagnostics to the global logger.
type zerologAdapter struct{}

func (zerologAdapter) Errorf(format string, v ...interface{}) {
	log.Error().Msgf("resty: "+format, v...)
}

func (zerologAdapter) Warnf(format string, v ...interface{}) {
	log.Warn().Msgf("resty: "+format, v...)
}

func (zerologAdapter) Debugf(format string, v ...interface{}) {
	log.Debug().Msgf("resty: "+format, v...)
}
