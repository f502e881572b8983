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

package handler

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"mime"
	"net/http"
	"strings"

	"github.com/nscaledev/apichallenges/pkg/constants"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

type mediaTypeKey struct{}

type outcomeKey struct{}

// Outcome is filled in by handlers for middleware that runs afterwards.
type Outcome struct {
	// Message is the first error message reported, if any.
	Message string
}

// NewOutcomeContext attaches an empty outcome to the request context.
func NewOutcomeContext(ctx context.Context) (context.Context, *Outcome) {
	outcome := &Outcome{}

	return context.WithValue(ctx, outcomeKey{}, outcome), outcome
}

func outcomeFromContext(ctx context.Context) *Outcome {
	if outcome, ok := ctx.Value(outcomeKey{}).(*Outcome); ok {
		return outcome
	}

	return nil
}

func mediaTypeFromContext(ctx context.Context) string {
	if mediaType, ok := ctx.Value(mediaTypeKey{}).(string); ok {
		return mediaType
	}

	return constants.MIMEJSON
}

// negotiate picks the response representation.  Accept entries are taken
// in the order given, quality values are not considered.
func negotiate(accept string) (string, bool) {
	if strings.TrimSpace(accept) == "" {
		return constants.MIMEJSON, true
	}

	for _, entry := range strings.Split(accept, ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(entry))
		if err != nil {
			continue
		}

		switch mediaType {
		case constants.MIMEJSON, "*/*", "application/*":
			return constants.MIMEJSON, true
		case constants.MIMEXML:
			return constants.MIMEXML, true
		}
	}

	return "", false
}

// Negotiate is middleware that rejects requests whose Accept header cannot
// be satisfied and records the choice for writeResponse.
func Negotiate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, ok := negotiate(r.Header.Get("Accept"))
		if !ok {
			HandleError(w, r, HTTPNotAcceptable("Unrecognised Accept Type"))
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), mediaTypeKey{}, mediaType)))
	})
}

// writeResponse encodes a body in the negotiated representation, a nil body
// writes only the status.
func writeResponse(w http.ResponseWriter, r *http.Request, status int, body any) {
	writeResponseAs(w, r, status, body, mediaTypeFromContext(r.Context()))
}

// writeJSONResponse is for documents that have no XML form.
func writeJSONResponse(w http.ResponseWriter, r *http.Request, status int, body any) {
	writeResponseAs(w, r, status, body, constants.MIMEJSON)
}

func writeResponseAs(w http.ResponseWriter, r *http.Request, status int, body any, mediaType string) {
	if body == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", mediaType)
	w.WriteHeader(status)

	var err error

	switch mediaType {
	case constants.MIMEXML:
		err = xml.NewEncoder(w).Encode(body)
	default:
		err = json.NewEncoder(w).Encode(body)
	}

	if err != nil {
		// Headers are gone, all that can be done is log it.
		log.FromContext(r.Context()).Error(err, "failed to write response")
	}
}
