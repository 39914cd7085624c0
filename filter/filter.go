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
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/DomZippilli/http-forward-cloud-function/outcome"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ResultFilter functions can transform the rendered result on its way to
// the caller.
type ResultFilter func(context.Context, ResultHandle) error

// Pipeline is just a slice of ResultFilters, applied in order.
type Pipeline []ResultFilter

// ResultHandle is a pair of input and output for the filter to read and write.
// The invocation request, its response and the forwarding outcome are also
// included in case the filter needs to refer to or modify those. request may
// be nil.
type ResultHandle struct {
	input    *io.PipeReader
	output   *io.PipeWriter
	request  *http.Request
	response http.ResponseWriter
	outcome  outcome.Outcome
}

// PipelineCopy copies input to response with the pipeline's filters applied,
// and returns the bytes written to response.
func PipelineCopy(ctx context.Context, response http.ResponseWriter, input io.Reader,
	request *http.Request, result outcome.Outcome, pipeline Pipeline) (int64, error) {
	if len(pipeline) == 0 {
		return io.Copy(response, input)
	}
	var g errgroup.Group
	inputReader, inputWriter := io.Pipe()
	// prime the pump by writing the input to the first pipe
	go func() {
		_, err := io.Copy(inputWriter, input)
		inputWriter.CloseWithError(err)
	}()
	// each filter reads the previous filter's pipe
	source := inputReader
	for _, filter := range pipeline {
		filterReader, filterWriter := io.Pipe()
		handle := ResultHandle{
			input:    source,
			output:   filterWriter,
			request:  request,
			response: response,
			outcome:  result,
		}
		g.Go(func() error {
			return filter(ctx, handle)
		})
		source = filterReader
	}
	written, err := io.Copy(response, source)
	if err != nil {
		// unblock the filters so they can return
		source.CloseWithError(err)
	}
	if ferr := g.Wait(); ferr != nil && err == nil {
		err = ferr
	}
	return written, err
}

// NoOp does nothing to the result.
func NoOp(ctx context.Context, handle ResultHandle) error {
	defer handle.input.Close()
	defer handle.output.Close()
	if _, err := io.Copy(handle.output, handle.input); err != nil {
		return fmt.Errorf("noop filter: %w", err)
	}
	return nil
}

// FilterIf applies filter to the result when condition holds for the
// invocation request, and passes the result through unchanged otherwise.
// Without a request the condition is not consulted.
func FilterIf(ctx context.Context, handle ResultHandle,
	condition func(http.Request) bool, filter ResultFilter) error {
	if handle.request != nil && condition(*handle.request) {
		return filter(ctx, handle)
	}
	return NoOp(ctx, handle)
}

// FilterError is the preferred way to return errors from filters. It logs
// the error with the outcome being delivered and returns it; the response
// is left to PipelineCopy's caller, since another goroutine may be writing
// to it.
func FilterError(handle ResultHandle, msg string, v ...interface{}) error {
	err := fmt.Errorf(msg, v...)
	event := log.Error()
	if handle.outcome != nil {
		event = event.Str("outcome", handle.outcome.Kind())
	}
	event.Msgf("filter error! %v", err)
	return err
}
