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

package store

import (
	"errors"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrLimit        = errors.New("limit reached")
	ErrTokenMissing = errors.New("auth token missing")
	ErrTokenInvalid = errors.New("auth token invalid")
)

// Error carries the messages the service reports to the user alongside a
// sentinel that decides the status code.
type Error struct {
	Err      error
	Messages []string
}

func newError(err error, messages ...string) *Error {
	return &Error{
		Err:      err,
		Messages: messages,
	}
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, ", ")
}

func (e *Error) Unwrap() error {
	return e.Err
}
