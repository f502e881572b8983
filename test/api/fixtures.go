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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spjmurray/go-util/pkg/set"

	"github.com/nscaledev/apichallenges/pkg/client"
	"github.com/nscaledev/apichallenges/pkg/generator"
	"github.com/nscaledev/apichallenges/pkg/openapi"
	"github.com/nscaledev/apichallenges/pkg/session"
)

// Scenario is everything a scenario may use, handed to it explicitly so
// nothing about the session lives in package state.
type Scenario struct {
	Client    *APIClient
	Config    *TestConfig
	Generator *generator.Generator
}

// Run is the scenario's session and optional token.
func (s *Scenario) Run() *session.RunContext {
	return s.Client.RunContext()
}

// WithToken returns a scenario whose requests present the token.
func (s *Scenario) WithToken(token *session.AuthToken) *Scenario {
	out := *s
	out.Client = s.Client.WithRunContext(s.Run().WithToken(token))

	return &out
}

// AcquireToken exchanges the configured credentials for a token presented
// with the given scheme, a token from configuration is reused if present.
func (s *Scenario) AcquireToken(ctx context.Context, scheme session.Scheme) *session.AuthToken {
	if s.Config.AuthToken != "" && s.Config.Challenger == s.Run().Session.ID {
		return &session.AuthToken{
			Value:       s.Config.AuthToken,
			Scheme:      scheme,
			Acquisition: session.AcquisitionBasic,
		}
	}

	token, err := s.Client.Manager().AcquireAuthToken(ctx, s.Run().Session, s.Config.Credentials, scheme)
	Expect(err).NotTo(HaveOccurred())

	return token
}

// ConfiguredToken is AcquireToken presented the way API_AUTH_SCHEME asks,
// for scenarios that don't care how the token travels.
func (s *Scenario) ConfiguredToken(ctx context.Context) *session.AuthToken {
	return s.AcquireToken(ctx, s.Config.AuthScheme)
}

// CreateTodoWithCleanup creates a todo and schedules its deletion whether
// the spec passes or fails.
func CreateTodoWithCleanup(ctx context.Context, c *APIClient, payload *openapi.TodoWrite) *openapi.TodoRead {
	todo, err := c.CreateTodo(ctx, payload)
	Expect(err).NotTo(HaveOccurred())

	GinkgoWriter.Printf("Created todo with ID: %d\n", todo.Id)

	DeferCleanup(func(ctx SpecContext) {
		deleteTodoIfPresent(ctx, c, todo.Id)
	})

	return todo
}

// deleteTodoIfPresent tolerates the spec having deleted it already.
func deleteTodoIfPresent(ctx context.Context, c *APIClient, id int) {
	err := c.DeleteTodo(ctx, id)
	if err == nil {
		GinkgoWriter.Printf("Successfully deleted todo: %d\n", id)
		return
	}

	var statusError *client.UnexpectedStatusError
	if errors.As(err, &statusError) && statusError.Actual == http.StatusNotFound {
		return
	}

	GinkgoWriter.Printf("Warning: Failed to delete todo %d: %v\n", id, err)
}

// ReconcileTodoCount brings the session up to exactly target todos.  It
// reads the current count first so it is safe whatever previous runs left
// behind, and returns how many were created, which may be zero.
func ReconcileTodoCount(ctx context.Context, c *APIClient, target int) int {
	todos, err := c.ListTodos(ctx)
	Expect(err).NotTo(HaveOccurred())

	remaining := max(target-len(todos), 0)

	GinkgoWriter.Printf("Reconciling todos: have %d, target %d, creating %d\n", len(todos), target, remaining)

	for range remaining {
		CreateTodoWithCleanup(ctx, c, NewTodoPayload().Build())
	}

	return remaining
}

// AllowedMethods parses an Allow header into a set.
func AllowedMethods(header string) set.Set[string] {
	var methods []string

	for _, method := range strings.Split(header, ",") {
		if method = strings.TrimSpace(method); method != "" {
			methods = append(methods, strings.ToUpper(method))
		}
	}

	return set.New[string](methods...)
}

// VerifyTodoMatches checks the echoable fields of a todo against what was
// sent, an omitted done status must default to false.
func VerifyTodoMatches(todo *openapi.TodoRead, payload *openapi.TodoWrite) {
	Expect(todo.Id).To(BeNumerically(">", 0))

	if payload.Title != nil {
		Expect(todo.Title).To(Equal(*payload.Title))
	}

	if payload.Description != nil {
		Expect(todo.Description).To(Equal(*payload.Description))
	}

	if payload.DoneStatus != nil {
		Expect(todo.DoneStatus).To(Equal(*payload.DoneStatus))
	} else {
		Expect(todo.DoneStatus).To(BeFalse())
	}
}

// ExpectClientError is an expected-negative outcome: a 4xx, never a 5xx.
func ExpectClientError(response *client.Response) {
	Expect(response.StatusCode).To(And(BeNumerically(">=", http.StatusBadRequest), BeNumerically("<", http.StatusInternalServerError)),
		"expected a client error, got %d: %s", response.StatusCode, string(response.Body))
}
