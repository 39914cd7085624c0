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
package main

import (
	"context"
	"fmt"
	"os"

	function "github.com/DomZippilli/http-forward-cloud-function"
	"github.com/DomZippilli/http-forward-cloud-function/common"
	"github.com/DomZippilli/http-forward-cloud-function/config"
	"github.com/DomZippilli/http-forward-cloud-function/logger"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "forwarder",
		Short:         "Forward invocations as a GET to a fixed upstream",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.String("target-url", "", "upstream URL (env TARGET_URL)")
	flags.String("log-level", "", "log level (env LOG_LEVEL)")
	flags.String("log-format", "", "json or pretty (env LOG_FORMAT)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the function over HTTP, as on Cloud Run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadAndSetup(cmd)
			if err != nil {
				return err
			}
			return serveFunction(cfg)
		},
	}
	serve.Flags().String("port", "", "listen port (env PORT, default 8080)")
	serve.Flags().String("response-pipeline", "", "logging, none or gzip (env RESPONSE_PIPELINE)")
	serve.Flags().Bool("local-only", false, "listen on 127.0.0.1 only (env LOCAL_ONLY)")

	invoke := &cobra.Command{
		Use:   "invoke",
		Short: "Run one invocation and print its result",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadAndSetup(cmd); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), config.Invoke(context.Background()))
			return nil
		},
	}

	root.AddCommand(serve, invoke)
	// bare "forwarder" serves, like the container entrypoint always did
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())
	return root
}

// loadAndSetup loads configuration, with cmd's flags taking precedence, and
// applies it to the function.
func loadAndSetup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		log.Error().Msgf("config: %v", err)
		return nil, err
	}
	if err := function.Setup(cfg); err != nil {
		log.Error().Msgf("setup: %v", err)
		return nil, err
	}
	return cfg, nil
}

// serveFunction starts the Functions Framework server for ForwardRequest.
func serveFunction(cfg *config.Config) error {
	if os.Getenv("FUNCTION_TARGET") == "" {
		os.Setenv("FUNCTION_TARGET", "ForwardRequest")
	}
	if projectID, err := common.GetRuntimeProjectId(); err == nil {
		logger.With("project", projectID)
	}

	// By default, listen on all interfaces.
	hostname := ""
	if cfg.LocalOnly {
		hostname = "127.0.0.1"
	}
	log.Info().Str("target", cfg.TargetURL).Msgf("listening on port %s", cfg.Port)
	if err := funcframework.StartHostPort(hostname, cfg.Port); err != nil {
		log.Error().Msgf("funcframework.StartHostPort: %v", err)
		return err
	}
	return nil
}
