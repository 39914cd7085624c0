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

// Package function is the Cloud Function that forwards each invocation as a
// GET to a fixed upstream and answers with what happened.
package function

import (
	"context"
	"net/http"

	"github.com/DomZippilli/http-forward-cloud-function/backends/upstream"
	"github.com/DomZippilli/http-forward-cloud-function/config"
	"github.com/DomZippilli/http-forward-cloud-function/logger"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/rs/zerolog/log"
)

func init() {
	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatal().Msgf("init: %v", err)
	}
	if err := Setup(cfg); err != nil {
		log.Fatal().Msgf("init: %v", err)
	}
	functions.HTTP("ForwardRequest", ForwardRequest)
}

// Setup applies cfg to logging, the upstream backend and the response
// pipeline.
func Setup(cfg *config.Config) error {
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := config.Apply(cfg); err != nil {
		return err
	}
	upstream.Setup(cfg.TargetURL, nil)
	log.Debug().Str("target", cfg.TargetURL).Str("pipeline", cfg.ResponsePipeline).Msg("function ready")
	return nil
}

// ForwardRequest is the entry point for the cloud function. Every
// invocation, whatever its method or body, triggers one GET to the
// configured upstream.
func ForwardRequest(output http.ResponseWriter, input *http.Request) {
	ctx := context.Background()
	config.Forward(ctx, output, input)
}
