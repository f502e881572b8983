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

//nolint:revive // naming conventions acceptable in test code
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/onsi/ginkgo/v2"

	"github.com/nscaledev/apichallenges/pkg/client"
	"github.com/nscaledev/apichallenges/pkg/openapi"
	"github.com/nscaledev/apichallenges/pkg/session"
)

var (
	// ErrEmptyList is a single todo read that returned no todos.
	ErrEmptyList = errors.New("todo list is empty")
)

// APIClient wraps the HTTP client adapter with session binding and the
// logging the suites want on GinkgoWriter.  It implements session.Sender so
// session traffic is logged the same way.
type APIClient struct {
	client    *client.Client
	config    *TestConfig
	endpoints *Endpoints
	run       *session.RunContext
}

// NewAPIClientWithConfig creates a client for the service at baseURL, which
// may differ from the configured one when the twin is in use.
func NewAPIClientWithConfig(config *TestConfig, baseURL string) (*APIClient, error) {
	options := &client.Options{
		Timeout: config.RequestTimeout,
	}

	if config.ValidateResponses {
		validator, err := openapi.NewValidator()
		if err != nil {
			return nil, err
		}

		options.Validator = validator
	}

	c, err := client.New(baseURL, options)
	if err != nil {
		return nil, err
	}

	a := &APIClient{
		client:    c,
		config:    config,
		endpoints: NewEndpoints(),
	}

	a.run = &session.RunContext{}

	return a, nil
}

// Manager returns a session manager that sends through this client.
func (c *APIClient) Manager() *session.Manager {
	return session.NewManager(c)
}

// RunContext returns the session and token requests are bound to.
func (c *APIClient) RunContext() *session.RunContext {
	return c.run
}

// SetRunContext binds the client to a session.
func (c *APIClient) SetRunContext(run *session.RunContext) {
	c.run = run
}

// WithRunContext returns a client sharing the connection but bound to a
// different session or token.
func (c *APIClient) WithRunContext(run *session.RunContext) *APIClient {
	out := *c
	out.run = run

	return &out
}

func (c *APIClient) Endpoints() *Endpoints {
	return c.endpoints
}

// Request starts a request bound to the current session.
func (c *APIClient) Request(method, path string) *client.Request {
	return c.run.Request(method, path)
}

// AuthorizedRequest starts a request that presents the current token.
func (c *APIClient) AuthorizedRequest(method, path string) *client.Request {
	return c.run.AuthorizedRequest(method, path)
}

// logError logs a generic error with trace context.
func (c *APIClient) logError(request *client.Request, err error) {
	ginkgo.GinkgoWriter.Printf("[%s %s] ERROR error=%v\n", request.Method, request.Path, err)

	var transportError *client.TransportError
	if errors.As(err, &transportError) {
		c.logTraceContext(transportError.TraceID)
	}
}

// logUnexpectedStatus logs an unexpected HTTP status code.
func (c *APIClient) logUnexpectedStatus(err *client.UnexpectedStatusError) {
	ginkgo.GinkgoWriter.Printf("[%s %s] UNEXPECTED STATUS expected=%v got=%d body=%s\n", err.Method, err.Path, err.Expected, err.Actual, err.Body)
	c.logTraceContext(err.TraceID)
}

// logTraceContext logs the trace context information.
func (c *APIClient) logTraceContext(traceID string) {
	ginkgo.GinkgoWriter.Printf("TRACE CONTEXT: Use trace ID '%s' to search logs for this request\n", traceID)
}

// Send issues a request as is.  Schema violations are returned as errors
// along with the response.
func (c *APIClient) Send(ctx context.Context, request *client.Request) (*client.Response, error) {
	response, err := c.client.Send(ctx, request)
	if err != nil {
		c.logError(request, err)

		if response == nil {
			return nil, err
		}
	}

	if c.config.LogRequests {
		ginkgo.GinkgoWriter.Printf("[%s %s] status=%d duration=%s traceparent=%s\n", request.Method, request.Path, response.StatusCode, response.Duration, response.TraceParent)
	}

	if c.config.LogResponses && len(response.Body) > 0 {
		ginkgo.GinkgoWriter.Printf("[%s %s] response body: %s\n", request.Method, request.Path, string(response.Body))
	}

	return response, err
}

// Expect sends a request and checks the status is one of those given.
func (c *APIClient) Expect(ctx context.Context, request *client.Request, expected ...int) (*client.Response, error) {
	response, err := c.Send(ctx, request)
	if err != nil {
		return response, err
	}

	if err := response.ExpectStatus(expected...); err != nil {
		var statusError *client.UnexpectedStatusError
		if errors.As(err, &statusError) {
			c.logUnexpectedStatus(statusError)
		}

		return response, err
	}

	return response, nil
}

func (c *APIClient) decodeTodos(response *client.Response) ([]openapi.TodoRead, error) {
	var list openapi.TodoList

	if err := response.Decode(&list); err != nil {
		return nil, err
	}

	return list.Todos, nil
}

// ListTodos returns every todo in the session.
func (c *APIClient) ListTodos(ctx context.Context) ([]openapi.TodoRead, error) {
	response, err := c.Expect(ctx, c.Request(http.MethodGet, c.endpoints.Todos()), http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}

	return c.decodeTodos(response)
}

// ListTodosFiltered returns todos with the given done status.
func (c *APIClient) ListTodosFiltered(ctx context.Context, doneStatus bool) ([]openapi.TodoRead, error) {
	response, err := c.Expect(ctx, c.Request(http.MethodGet, c.endpoints.TodosFiltered(doneStatus)), http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}

	return c.decodeTodos(response)
}

// GetTodo reads a single todo, which the service returns as a one element
// list.
func (c *APIClient) GetTodo(ctx context.Context, id int) (*openapi.TodoRead, error) {
	response, err := c.Expect(ctx, c.Request(http.MethodGet, c.endpoints.Todo(id)), http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("getting todo: %w", err)
	}

	todos, err := c.decodeTodos(response)
	if err != nil {
		return nil, err
	}

	if len(todos) == 0 {
		return nil, fmt.Errorf("%w: todo %d (trace ID: %s)", ErrEmptyList, id, response.TraceID())
	}

	return &todos[0], nil
}

func (c *APIClient) writeTodo(ctx context.Context, method, path string, body *openapi.TodoWrite, expected int) (*openapi.TodoRead, error) {
	response, err := c.Expect(ctx, c.Request(method, path).WithJSON(body), expected)
	if err != nil {
		return nil, err
	}

	todo := &openapi.TodoRead{}

	if err := response.Decode(todo); err != nil {
		return nil, err
	}

	return todo, nil
}

// CreateTodo creates a todo and returns the service's view of it.
func (c *APIClient) CreateTodo(ctx context.Context, body *openapi.TodoWrite) (*openapi.TodoRead, error) {
	todo, err := c.writeTodo(ctx, http.MethodPost, c.endpoints.Todos(), body, http.StatusCreated)
	if err != nil {
		return nil, fmt.Errorf("creating todo: %w", err)
	}

	return todo, nil
}

// AmendTodo applies a partial update.
func (c *APIClient) AmendTodo(ctx context.Context, id int, body *openapi.TodoWrite) (*openapi.TodoRead, error) {
	todo, err := c.writeTodo(ctx, http.MethodPost, c.endpoints.Todo(id), body, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("amending todo: %w", err)
	}

	return todo, nil
}

// ReplaceTodo applies a full update.
func (c *APIClient) ReplaceTodo(ctx context.Context, id int, body *openapi.TodoWrite) (*openapi.TodoRead, error) {
	todo, err := c.writeTodo(ctx, http.MethodPut, c.endpoints.Todo(id), body, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("replacing todo: %w", err)
	}

	return todo, nil
}

func (c *APIClient) DeleteTodo(ctx context.Context, id int) error {
	if _, err := c.Expect(ctx, c.Request(http.MethodDelete, c.endpoints.Todo(id)), http.StatusOK); err != nil {
		return fmt.Errorf("deleting todo: %w", err)
	}

	return nil
}

// ListChallenges returns the catalogue with the session's progress.
func (c *APIClient) ListChallenges(ctx context.Context) ([]openapi.Challenge, error) {
	response, err := c.Expect(ctx, c.Request(http.MethodGet, c.endpoints.Challenges()), http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("listing challenges: %w", err)
	}

	var list openapi.ChallengeList

	if err := response.Decode(&list); err != nil {
		return nil, err
	}

	return list.Challenges, nil
}

// GetSecretNote reads the note with the current token.
func (c *APIClient) GetSecretNote(ctx context.Context) (string, error) {
	response, err := c.Expect(ctx, c.AuthorizedRequest(http.MethodGet, c.endpoints.SecretNote()), http.StatusOK)
	if err != nil {
		return "", fmt.Errorf("getting secret note: %w", err)
	}

	var note openapi.SecretNote

	if err := response.Decode(&note); err != nil {
		return "", err
	}

	return note.Note, nil
}

// SetSecretNote writes the note with the current token.
func (c *APIClient) SetSecretNote(ctx context.Context, note string) error {
	request := c.AuthorizedRequest(http.MethodPost, c.endpoints.SecretNote()).WithJSON(&openapi.SecretNote{Note: note})

	if _, err := c.Expect(ctx, request, http.StatusOK); err != nil {
		return fmt.Errorf("setting secret note: %w", err)
	}

	return nil
}
