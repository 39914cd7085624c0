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
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/DomZippilli/http-forward-cloud-function/backends/upstream"
	"github.com/DomZippilli/http-forward-cloud-function/filter"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultTargetURL is the upstream contacted when TARGET_URL is unset.
const DefaultTargetURL = "http://34.123.129.36:80/"

// dotenvPath is the optional .env file read by Load.
var dotenvPath = ".env"

// Config holds settings read from flags, the environment and an optional
// .env file, in that order of precedence.
type Config struct {
	TargetURL        string `mapstructure:"target_url"`
	LogLevel         string `mapstructure:"log_level"`
	LogFormat        string `mapstructure:"log_format"`
	ResponsePipeline string `mapstructure:"response_pipeline"`
	Port             string `mapstructure:"port"`
	LocalOnly        bool   `mapstructure:"local_only"`
}

// Load reads the configuration. flags may be nil; when given, any flag whose
// name matches a key (with "-" for "_") overrides the environment.
func Load(flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %v: %w", dotenvPath, err)
	}

	v := viper.New()
	v.SetDefault("target_url", DefaultTargetURL)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("response_pipeline", "logging")
	v.SetDefault("port", "8080")
	v.SetDefault("local_only", false)
	v.AutomaticEnv()

	if flags != nil {
		for _, key := range v.AllKeys() {
			if f := flags.Lookup(flagName(key)); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %v: %w", f.Name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if _, err := PipelineByName(cfg.ResponsePipeline); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// responsePipeline is applied by Forward. Set by Apply.
var responsePipeline = LoggingOnly

// Apply installs cfg's response pipeline for Forward.
func Apply(cfg *Config) error {
	pipeline, err := PipelineByName(cfg.ResponsePipeline)
	if err != nil {
		return err
	}
	responsePipeline = pipeline
	return nil
}

// Forward is called by the function entry point for every invocation,
// whatever its method.
func Forward(ctx context.Context, output http.ResponseWriter, input *http.Request) {
	upstream.Forward(ctx, output, input, responsePipeline)
}

// Invoke runs one invocation outside of HTTP and returns its result.
func Invoke(ctx context.Context) string {
	return upstream.Handle(ctx, nil)
}

// pipelines are looked up by the response_pipeline setting.
var pipelines = map[string]filter.Pipeline{
	"logging": LoggingOnly,
	"none":    NoFilters,
	"gzip":    ZippingProxy,
}
