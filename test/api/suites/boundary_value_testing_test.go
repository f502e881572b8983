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
	"fmt"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/apichallenges/pkg/constants"
	"github.com/nscaledev/apichallenges/pkg/generator"
	"github.com/nscaledev/apichallenges/pkg/openapi"
	"github.com/nscaledev/apichallenges/test/api"
)

// rawTodo sends a literal JSON body, for payloads the typed builder can't
// express.
func rawTodo(method, path, body string) (int, string) {
	request := scenario.Client.Request(method, path).
		WithRaw(body).
		WithHeader("Content-Type", constants.MIMEJSON)

	response, err := scenario.Client.Send(ctx, request)
	Expect(err).NotTo(HaveOccurred())

	api.ExpectClientError(response)

	return response.StatusCode, string(response.Body)
}

var _ = Describe("Boundary Value Testing", func() {
	Context("When field lengths are at their bounds", func() {
		Describe("Given the title bound", func() {
			It("should accept a title of exactly the maximum length", func() {
				payload := api.NewTodoPayload().WithTitle(generator.LongString(constants.MaxTitleLength)).Build()

				todo := api.CreateTodoWithCleanup(ctx, scenario.Client, payload)
				Expect(todo.Title).To(HaveLen(constants.MaxTitleLength))
			})

			DescribeTable("should reject titles over the maximum length",
				func(length int) {
					payload := api.NewTodoPayload().WithTitle(generator.LongString(length)).Build()

					response, err := scenario.Client.Send(ctx, scenario.Client.Request(http.MethodPost, scenario.Client.Endpoints().Todos()).WithJSON(payload))
					Expect(err).NotTo(HaveOccurred())

					api.ExpectClientError(response)
					Expect(response.StatusCode).To(Equal(http.StatusBadRequest))
				},
				Entry("just over", constants.MaxTitleLength+1),
				Entry("far over", 201),
			)
		})

		Describe("Given the description bound", func() {
			It("should accept a description of exactly the maximum length", func() {
				payload := api.NewTodoPayload().WithDescription(generator.LongString(constants.MaxDescriptionLength)).Build()

				todo := api.CreateTodoWithCleanup(ctx, scenario.Client, payload)
				Expect(todo.Description).To(HaveLen(constants.MaxDescriptionLength))
			})

			It("should reject a description over the maximum length", func() {
				status, body := rawTodo(http.MethodPost, scenario.Client.Endpoints().Todos(), fmt.Sprintf(`{"title":"x","description":%q}`, generator.LongString(constants.MaxDescriptionLength+1)))
				Expect(status).To(Equal(http.StatusBadRequest))
				Expect(body).To(ContainSubstring("description"))
			})
		})

		Describe("Given the request size bound", func() {
			It("should reject a body over the size limit", func() {
				status, _ := rawTodo(http.MethodPost, scenario.Client.Endpoints().Todos(), fmt.Sprintf(`{"title":"x","description":%q}`, generator.LongString(constants.DefaultMaxBodyBytes)))
				Expect(status).To(Equal(http.StatusRequestEntityTooLarge))
			})
		})
	})

	Context("When payloads are invalid", func() {
		DescribeTable("should reject the todo with a client error",
			func(body string, fragment string) {
				status, message := rawTodo(http.MethodPost, scenario.Client.Endpoints().Todos(), body)
				Expect(status).To(Equal(http.StatusBadRequest))
				Expect(message).To(ContainSubstring(fragment))
			},
			Entry("non boolean done status", `{"title":"x","doneStatus":"bob"}`, "doneStatus"),
			Entry("null done status", `{"title":"x","doneStatus":null}`, "doneStatus"),
			Entry("unknown field", `{"title":"x","priority":"high"}`, "priority"),
			Entry("empty title", `{"title":""}`, "title"),
			Entry("missing title", `{"description":"no title"}`, "title"),
			Entry("client assigned ID", `{"id":1234,"title":"x"}`, "id"),
		)

		It("should reject malformed JSON", func() {
			status, _ := rawTodo(http.MethodPost, scenario.Client.Endpoints().Todos(), `{"title": "x"`)
			Expect(status).To(Equal(http.StatusBadRequest))
		})
	})

	Context("When updating with invalid payloads", func() {
		var todo *openapi.TodoRead

		BeforeEach(func() {
			todo = api.CreateTodoWithCleanup(ctx, scenario.Client, api.NewTodoPayload().Build())
		})

		It("should reject a full replacement without a title", func() {
			payload := api.NewTodoPayload().WithoutTitle().Build()

			response, err := scenario.Client.Send(ctx, scenario.Client.Request(http.MethodPut, scenario.Client.Endpoints().Todo(todo.Id)).WithJSON(payload))
			Expect(err).NotTo(HaveOccurred())

			api.ExpectClientError(response)
		})

		DescribeTable("should reject a body ID that differs from the path",
			func(method string) {
				payload := api.NewTodoPayload().WithID(todo.Id + 1).Build()

				response, err := scenario.Client.Send(ctx, scenario.Client.Request(method, scenario.Client.Endpoints().Todo(todo.Id)).WithJSON(payload))
				Expect(err).NotTo(HaveOccurred())

				api.ExpectClientError(response)
				Expect(response.StatusCode).To(Equal(http.StatusBadRequest))
			},
			Entry("replace", http.MethodPut),
			Entry("amend", http.MethodPost),
		)

		It("should leave the todo unchanged after a rejected amendment", func() {
			status, _ := rawTodo(http.MethodPost, scenario.Client.Endpoints().Todo(todo.Id), `{"doneStatus":"yes"}`)
			Expect(status).To(Equal(http.StatusBadRequest))

			current, err := scenario.Client.GetTodo(ctx, todo.Id)
			Expect(err).NotTo(HaveOccurred())
			Expect(current).To(Equal(todo))
		})
	})
})
