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
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransport is raised when no response was received at all.
	ErrTransport = errors.New("transport failure")

	// ErrContractViolation is raised when a well formed response is missing
	// something the contract promises, e.g. a header or a schema field.
	ErrContractViolation = errors.New("contract violation")

	// ErrUnexpectedStatus is raised when a caller asked for a specific status
	// and got something else.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// TransportError wraps a network or connection failure.
type TransportError struct {
	Method  string
	Path    string
	TraceID string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v: %v (trace ID: %s)", e.Method, e.Path, ErrTransport, e.Err, e.TraceID)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// ContractViolationError reports a response that parsed but did not carry
// what the service documents.
type ContractViolationError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
	TraceID    string
	Err        error
}

func (e *ContractViolationError) Error() string {
	message := fmt.Sprintf("%s %s: %v: %s (status: %d, trace ID: %s)", e.Method, e.Path, ErrContractViolation, e.Detail, e.StatusCode, e.TraceID)

	if e.Err != nil {
		message += ": " + e.Err.Error()
	}

	return message
}

func (e *ContractViolationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrContractViolation}
	}

	return []error{ErrContractViolation, e.Err}
}

// UnexpectedStatusError carries the literal expected and actual outcome so a
// failure report can print both.
type UnexpectedStatusError struct {
	Method   string
	Path     string
	Expected []int
	Actual   int
	Body     string
	TraceID  string
}

func (e *UnexpectedStatusError) Error() string {
	expected := make([]string, len(e.Expected))

	for i, status := range e.Expected {
		expected[i] = fmt.Sprint(status)
	}

	return fmt.Sprintf("%s %s: unexpected status code: expected %s, got %d, body: %s (trace ID: %s)", e.Method, e.Path, strings.Join(expected, " or "), e.Actual, e.Body, e.TraceID)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return ErrUnexpectedStatus
}
