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
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"

	"github.com/nscaledev/apichallenges/pkg/constants"
)

// Request describes a single call against the service.  The body is either
// a structured payload that is serialized for the caller, or a raw string
// sent exactly as given, which is how malformed documents are produced.
type Request struct {
	Method string
	// Path is relative to the base URL and may carry a query string.
	Path   string
	Header http.Header

	payload     any
	payloadMIME string
	raw         *string
}

// NewRequest returns a request with no body.
func NewRequest(method, path string) *Request {
	return &Request{
		Method: method,
		Path:   path,
		Header: http.Header{},
	}
}

// WithHeader sets a header, replacing any previous value.
func (r *Request) WithHeader(key, value string) *Request {
	r.Header.Set(key, value)

	return r
}

// WithChallenger attaches the session identity.
func (r *Request) WithChallenger(id string) *Request {
	if id == "" {
		return r
	}

	return r.WithHeader(constants.ChallengerHeader, id)
}

// WithAccept sets the Accept header.
func (r *Request) WithAccept(mediaType string) *Request {
	return r.WithHeader("Accept", mediaType)
}

// WithJSON sets a structured body serialized as JSON.
func (r *Request) WithJSON(payload any) *Request {
	r.payload = payload
	r.payloadMIME = constants.MIMEJSON
	r.raw = nil

	return r
}

// WithXML sets a structured body serialized as XML.
func (r *Request) WithXML(payload any) *Request {
	r.payload = payload
	r.payloadMIME = constants.MIMEXML
	r.raw = nil

	return r
}

// WithRaw sets a pre-serialized body.  No Content-Type is implied, callers
// that want one set it explicitly.
func (r *Request) WithRaw(body string) *Request {
	r.raw = &body
	r.payload = nil
	r.payloadMIME = ""

	return r
}

// HasBody tells whether anything will be sent.
func (r *Request) HasBody() bool {
	return r.raw != nil || r.payload != nil
}

// encode returns the body reader and the content type it implies, if any.
func (r *Request) encode() (io.Reader, string, error) {
	if r.raw != nil {
		return bytes.NewBufferString(*r.raw), "", nil
	}

	if r.payload == nil {
		return nil, "", nil
	}

	var (
		data []byte
		err  error
	)

	switch r.payloadMIME {
	case constants.MIMEXML:
		data, err = xml.Marshal(r.payload)
	default:
		data, err = json.Marshal(r.payload)
	}

	if err != nil {
		return nil, "", fmt.Errorf("marshaling request body: %w", err)
	}

	return bytes.NewBuffer(data), r.payloadMIME, nil
}
