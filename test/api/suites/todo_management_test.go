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

//nolint:testpackage,revive // test package in suites is standard for these tests, dot imports standard for Ginkgo
package suites

import (
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/apichallenges/pkg/client"
	"github.com/nscaledev/apichallenges/pkg/constants"
	"github.com/nscaledev/apichallenges/pkg/generator"
	"github.com/nscaledev/apichallenges/pkg/openapi"
	"github.com/nscaledev/apichallenges/test/api"
)

var _ = Describe("Todo Management", func() {
	Context("When creating a todo", func() {
		Describe("Given a valid payload", func() {
			It("should echo the fixed todo with an assigned ID", func() {
				payload := api.NewTodoPayload().Build()

				response, err := scenario.Client.Expect(ctx, scenario.Client.Request(http.MethodPost, scenario.Client.Endpoints().Todos()).WithJSON(payload), http.StatusCreated)
				Expect(err).NotTo(HaveOccurred())

				var todo openapi.TodoRead

				Expect(response.Decode(&todo)).To(Succeed())

				DeferCleanup(func() {
					Expect(scenario.Client.DeleteTodo(ctx, todo.Id)).To(Succeed())
				})

				Expect(todo.Id).To(BeNumerically(">", 0))
				Expect(todo.Title).To(Equal(generator.FixedTitle))
				Expect(todo.Description).To(Equal(generator.FixedDescription))
				Expect(todo.DoneStatus).To(BeFalse())
				Expect(response.Header.Get("Location")).To(HaveSuffix("todos/%d", todo.Id))
			})

			It("should default the done status to false when omitted", func() {
				payload := api.NewTodoPayload().WithoutDoneStatus().Build()

				todo := api.CreateTodoWithCleanup(ctx, scenario.Client, payload)

				api.VerifyTodoMatches(todo, payload)
			})

			It("should read back exactly what was created", func() {
				// Given: a random todo
				payload := api.NewRandomTodoPayload(scenario.Generator).Build()

				// When: it is created and fetched by ID
				created := api.CreateTodoWithCleanup(ctx, scenario.Client, payload)
				api.VerifyTodoMatches(created, payload)

				// Then: both representations agree
				todo, err := scenario.Client.GetTodo(ctx, created.Id)
				Expect(err).NotTo(HaveOccurred())
				Expect(todo).To(Equal(created))
			})
		})
	})

	Context("When reading todos", func() {
		Describe("Given the collection", func() {
			It("should list todos including new ones", func() {
				created := api.CreateTodoWithCleanup(ctx, scenario.Client, api.NewTodoPayload().Build())

				todos, err := scenario.Client.ListTodos(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(todos).To(ContainElement(*created))
			})

			It("should filter by done status", func() {
				done := api.CreateTodoWithCleanup(ctx, scenario.Client, api.NewTodoPayload().WithDoneStatus(true).Build())
				notDone := api.CreateTodoWithCleanup(ctx, scenario.Client, api.NewTodoPayload().WithDoneStatus(false).Build())

				todos, err := scenario.Client.ListTodosFiltered(ctx, true)
				Expect(err).NotTo(HaveOccurred())
				Expect(todos).To(ContainElement(*done))
				Expect(todos).NotTo(ContainElement(*notDone))

				for _, todo := range todos {
					Expect(todo.DoneStatus).To(BeTrue())
				}
			})

			It("should answer HEAD without a body", func() {
				response, err := scenario.Client.Expect(ctx, scenario.Client.Request(http.MethodHead, scenario.Client.Endpoints().Todos()), http.StatusOK)
				Expect(err).NotTo(HaveOccurred())
				Expect(response.Body).To(BeEmpty())
			})
		})

		Describe("Given a missing todo", func() {
			It("should not find the singular noun", func() {
				_, err := scenario.Client.Expect(ctx, scenario.Client.Request(http.MethodGet, scenario.Client.Endpoints().TodoSingular()), http.StatusNotFound)
				Expect(err).NotTo(HaveOccurred())
			})

			It("should not find an ID that was never issued", func() {
				response, err := scenario.Client.Expect(ctx, scenario.Client.Request(http.MethodGet, scenario.Client.Endpoints().Todo(999999)), http.StatusNotFound)
				Expect(err).NotTo(HaveOccurred())
				Expect(response.MediaType()).To(Equal(constants.MIMEJSON))
			})
		})
	})

	Context("When updating a todo", func() {
		Describe("Given a full replacement", func() {
			It("should replace every field", func() {
				created := api.CreateTodoWithCleanup(ctx, scenario.Client, api.NewTodoPayload().WithDoneStatus(true).Build())

				replacement := api.NewTodoPayload().WithTitle("replaced title").WithoutDescription().WithoutDoneStatus().Build()

				todo, err := scenario.Client.ReplaceTodo(ctx, created.Id, replacement)
				Expect(err).NotTo(HaveOccurred())
				Expect(todo.Id).To(Equal(created.Id))
				Expect(todo.Title).To(Equal("replaced title"))
				Expect(todo.Description).To(BeEmpty())
				Expect(todo.DoneStatus).To(BeFalse())
			})

			It("should refuse to create with PUT", func() {
				response, err := scenario.Client.Send(ctx, scenario.Client.Request(http.MethodPut, scenario.Client.Endpoints().Todo(999999)).WithJSON(api.NewTodoPayload().Build()))
				Expect(err).NotTo(HaveOccurred())
				Expect(response.StatusCode).To(Equal(http.StatusBadRequest))
			})
		})

		Describe("Given a partial amendment", func() {
			It("should change only the fields sent", func() {
				created := api.CreateTodoWithCleanup(ctx, scenario.Client, api.NewTodoPayload().Build())

				todo, err := scenario.Client.AmendTodo(ctx, created.Id, api.NewEmptyTodoPayload().WithDoneStatus(true).Build())
				Expect(err).NotTo(HaveOccurred())
				Expect(todo.DoneStatus).To(BeTrue())
				Expect(todo.Title).To(Equal(created.Title))
				Expect(todo.Description).To(Equal(created.Description))
			})

			It("should not find an unknown todo", func() {
				_, err := scenario.Client.Expect(ctx, scenario.Client.Request(http.MethodPost, scenario.Client.Endpoints().Todo(999999)).WithJSON(api.NewEmptyTodoPayload().WithTitle("x").Build()), http.StatusNotFound)
				Expect(err).NotTo(HaveOccurred())
			})
		})
	})

	Context("When deleting a todo", func() {
		Describe("Given an existing todo", func() {
			It("should be absent afterwards", func() {
				created := api.CreateTodoWithCleanup(ctx, scenario.Client, api.NewTodoPayload().Build())

				Expect(scenario.Client.DeleteTodo(ctx, created.Id)).To(Succeed())

				_, err := scenario.Client.GetTodo(ctx, created.Id)

				Expect(err).To(MatchError(client.ErrUnexpectedStatus))

				var statusError *client.UnexpectedStatusError

				Expect(errors.As(err, &statusError)).To(BeTrue())
				Expect(statusError.Actual).To(Equal(http.StatusNotFound))
			})

			It("should not find it a second time", func() {
				created := api.CreateTodoWithCleanup(ctx, scenario.Client, api.NewTodoPayload().Build())

				Expect(scenario.Client.DeleteTodo(ctx, created.Id)).To(Succeed())

				_, err := scenario.Client.Expect(ctx, scenario.Client.Request(http.MethodDelete, scenario.Client.Endpoints().Todo(created.Id)), http.StatusNotFound)
				Expect(err).NotTo(HaveOccurred())
			})
		})
	})
})
