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
	"errors"
	"fmt"
	"net/http"

	"github.com/nscaledev/apichallenges/pkg/openapi"
	"github.com/nscaledev/apichallenges/pkg/server/store"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Error is a response the handlers generate themselves.
type Error struct {
	status   int
	messages []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %v", e.status, e.messages)
}

func newError(status int, messages ...string) *Error {
	return &Error{
		status:   status,
		messages: messages,
	}
}

func HTTPBadRequest(messages ...string) *Error {
	return newError(http.StatusBadRequest, messages...)
}

func HTTPUnauthorized(messages ...string) *Error {
	return newError(http.StatusUnauthorized, messages...)
}

func HTTPNotFound(messages ...string) *Error {
	return newError(http.StatusNotFound, messages...)
}

func HTTPNotAcceptable(messages ...string) *Error {
	return newError(http.StatusNotAcceptable, messages...)
}

func HTTPRequestEntityTooLarge(messages ...string) *Error {
	return newError(http.StatusRequestEntityTooLarge, messages...)
}

func HTTPUnsupportedMediaType(messages ...string) *Error {
	return newError(http.StatusUnsupportedMediaType, messages...)
}

// statusAndMessages maps any error onto what the service would say.
func statusAndMessages(err error) (int, []string) {
	var handlerError *Error
	if errors.As(err, &handlerError) {
		return handlerError.status, handlerError.messages
	}

	var storeError *store.Error
	if errors.As(err, &storeError) {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return http.StatusNotFound, storeError.Messages
		case errors.Is(err, store.ErrTokenMissing):
			return http.StatusUnauthorized, storeError.Messages
		case errors.Is(err, store.ErrTokenInvalid):
			return http.StatusForbidden, storeError.Messages
		case errors.Is(err, store.ErrValidation), errors.Is(err, store.ErrLimit):
			return http.StatusBadRequest, storeError.Messages
		}
	}

	return http.StatusInternalServerError, []string{"Internal Server Error"}
}

// HandleError writes the error body in the negotiated representation.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	status, messages := statusAndMessages(err)

	if status == http.StatusInternalServerError {
		log.FromContext(r.Context()).Error(err, "unhandled error")
	}

	if messages == nil {
		messages = []string{}
	}

	if outcome := outcomeFromContext(r.Context()); outcome != nil && len(messages) > 0 {
		outcome.Message = messages[0]
	}

	writeResponse(w, r, status, &openapi.ErrorResponse{ErrorMessages: messages})
}
