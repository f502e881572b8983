/*
Copyright 2024-2025 the Unikorn Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package openapi

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
)

// Validator checks responses against the published contract.
type Validator struct {
	router routers.Router
}

// NewValidator builds a validator from the embedded schema.
func NewValidator() (*Validator, error) {
	spec, err := GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	router, err := legacy.NewRouter(spec)
	if err != nil {
		return nil, fmt.Errorf("building schema router: %w", err)
	}

	return &Validator{
		router: router,
	}, nil
}

// ValidateResponse checks the status, headers and body of a response to
// the given request.  Only JSON bodies are checked, and requests that don't
// map to a documented operation are let through, the service deliberately
// answers those with error codes that suites assert on directly.
func (v *Validator) ValidateResponse(ctx context.Context, r *http.Request, status int, header http.Header, body []byte) error {
	if contentType := header.Get("Content-Type"); contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return fmt.Errorf("parsing response content type %q: %w", contentType, err)
		}

		if mediaType != "application/json" {
			return nil
		}
	}

	route, pathParams, err := v.router.FindRoute(r)
	if err != nil {
		var routeError *routers.RouteError
		if errors.As(err, &routeError) {
			return nil
		}

		return fmt.Errorf("finding route: %w", err)
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
		},
		Status: status,
		Header: header,
		Options: &openapi3filter.Options{
			MultiError: true,
		},
	}

	input.SetBodyBytes(body)

	if err := openapi3filter.ValidateResponse(ctx, input); err != nil {
		return fmt.Errorf("%s %s: response does not match schema: %w", r.Method, r.URL.Path, err)
	}

	return nil
}
