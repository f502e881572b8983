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

package client

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"mime"
	"net/http"
	"slices"
	"time"

	"github.com/nscaledev/apichallenges/pkg/constants"
)

// Response is a fully read reply.  The body is always consumed so callers
// never need to close anything.
type Response struct {
	StatusCode  int
	Header      http.Header
	Body        []byte
	TraceParent string
	Duration    time.Duration

	method string
	path   string
}

// TraceID returns the trace ID the request was sent with.
func (r *Response) TraceID() string {
	return ExtractTraceID(r.TraceParent)
}

// MediaType is the Content-Type without parameters, lower cased.
func (r *Response) MediaType() string {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return ""
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentType
	}

	return mediaType
}

// ExpectStatus returns an UnexpectedStatusError unless the status is one of
// those given.
func (r *Response) ExpectStatus(expected ...int) error {
	if slices.Contains(expected, r.StatusCode) {
		return nil
	}

	return &UnexpectedStatusError{
		Method:   r.method,
		Path:     r.path,
		Expected: expected,
		Actual:   r.StatusCode,
		Body:     string(r.Body),
		TraceID:  r.TraceID(),
	}
}

// RequireHeader returns the value of a header the contract says must be
// present.
func (r *Response) RequireHeader(name string) (string, error) {
	value := r.Header.Get(name)
	if value == "" {
		return "", r.violation(fmt.Sprintf("response header %s missing", name), nil)
	}

	return value, nil
}

// Decode unmarshals the body according to its media type, JSON being the
// default.
func (r *Response) Decode(v any) error {
	var err error

	switch r.MediaType() {
	case constants.MIMEXML:
		err = xml.Unmarshal(r.Body, v)
	default:
		err = json.Unmarshal(r.Body, v)
	}

	if err != nil {
		return r.violation("response body could not be decoded", err)
	}

	return nil
}

func (r *Response) violation(detail string, err error) error {
	return &ContractViolationError{
		Method:     r.method,
		Path:       r.path,
		StatusCode: r.StatusCode,
		Detail:     detail,
		TraceID:    r.TraceID(),
		Err:        err,
	}
}
