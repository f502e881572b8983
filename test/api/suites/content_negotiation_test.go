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
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/apichallenges/pkg/constants"
	"github.com/nscaledev/apichallenges/pkg/openapi"
	"github.com/nscaledev/apichallenges/test/api"
)

const xmlTodo = `<todo><doneStatus>true</doneStatus><title>file paperwork today</title></todo>`

var _ = Describe("Content Negotiation", func() {
	Context("When choosing the response representation", func() {
		DescribeTable("should honour the Accept header",
			func(accept string, mediaType string) {
				request := scenario.Client.Request(http.MethodGet, scenario.Client.Endpoints().Todos())
				if accept != "" {
					request.WithAccept(accept)
				}

				response, err := scenario.Client.Expect(ctx, request, http.StatusOK)
				Expect(err).NotTo(HaveOccurred())
				Expect(response.MediaType()).To(Equal(mediaType))

				var list openapi.TodoList

				Expect(response.Decode(&list)).To(Succeed())
				Expect(list.Todos).NotTo(BeNil())
			},
			Entry("XML", constants.MIMEXML, constants.MIMEXML),
			Entry("JSON", constants.MIMEJSON, constants.MIMEJSON),
			Entry("any", "*/*", constants.MIMEJSON),
			Entry("preferred XML", "application/xml, application/json", constants.MIMEXML),
			Entry("absent", "", constants.MIMEJSON),
		)

		It("should refuse an unsupported Accept type", func() {
			_, err := scenario.Client.Expect(ctx, scenario.Client.Request(http.MethodGet, scenario.Client.Endpoints().Todos()).WithAccept("application/gzip"), http.StatusNotAcceptable)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Context("When choosing the request representation", func() {
		It("should create from XML and answer in XML", func() {
			request := scenario.Client.Request(http.MethodPost, scenario.Client.Endpoints().Todos()).
				WithRaw(xmlTodo).
				WithHeader("Content-Type", constants.MIMEXML).
				WithAccept(constants.MIMEXML)

			response, err := scenario.Client.Expect(ctx, request, http.StatusCreated)
			Expect(err).NotTo(HaveOccurred())
			Expect(response.MediaType()).To(Equal(constants.MIMEXML))

			var todo openapi.TodoRead

			Expect(response.Decode(&todo)).To(Succeed())

			DeferCleanup(func() {
				Expect(scenario.Client.DeleteTodo(ctx, todo.Id)).To(Succeed())
			})

			Expect(todo.Title).To(Equal("file paperwork today"))
			Expect(todo.DoneStatus).To(BeTrue())
		})

		It("should create from a typed XML payload", func() {
			payload := api.NewTodoPayload().Build()

			response, err := scenario.Client.Expect(ctx, scenario.Client.Request(http.MethodPost, scenario.Client.Endpoints().Todos()).WithXML(payload).WithAccept(constants.MIMEXML), http.StatusCreated)
			Expect(err).NotTo(HaveOccurred())

			var todo openapi.TodoRead

			Expect(response.Decode(&todo)).To(Succeed())

			DeferCleanup(func() {
				Expect(scenario.Client.DeleteTodo(ctx, todo.Id)).To(Succeed())
			})

			api.VerifyTodoMatches(&todo, payload)
		})

		It("should convert XML to JSON", func() {
			request := scenario.Client.Request(http.MethodPost, scenario.Client.Endpoints().Todos()).
				WithRaw(xmlTodo).
				WithHeader("Content-Type", constants.MIMEXML).
				WithAccept(constants.MIMEJSON)

			response, err := scenario.Client.Expect(ctx, request, http.StatusCreated)
			Expect(err).NotTo(HaveOccurred())
			Expect(response.MediaType()).To(Equal(constants.MIMEJSON))

			var todo openapi.TodoRead

			Expect(response.Decode(&todo)).To(Succeed())

			DeferCleanup(func() {
				Expect(scenario.Client.DeleteTodo(ctx, todo.Id)).To(Succeed())
			})
		})

		It("should convert JSON to XML", func() {
			request := scenario.Client.Request(http.MethodPost, scenario.Client.Endpoints().Todos()).
				WithJSON(api.NewTodoPayload().Build()).
				WithAccept(constants.MIMEXML)

			response, err := scenario.Client.Expect(ctx, request, http.StatusCreated)
			Expect(err).NotTo(HaveOccurred())
			Expect(response.MediaType()).To(Equal(constants.MIMEXML))
			Expect(string(response.Body)).To(ContainSubstring("<todo>"))

			var todo openapi.TodoRead

			Expect(response.Decode(&todo)).To(Succeed())

			DeferCleanup(func() {
				Expect(scenario.Client.DeleteTodo(ctx, todo.Id)).To(Succeed())
			})
		})

		It("should refuse an unsupported content type", func() {
			request := scenario.Client.Request(http.MethodPost, scenario.Client.Endpoints().Todos()).
				WithRaw("title=x").
				WithHeader("Content-Type", "application/x-www-form-urlencoded")

			response, err := scenario.Client.Expect(ctx, request, http.StatusUnsupportedMediaType)
			Expect(err).NotTo(HaveOccurred())

			api.ExpectClientError(response)
		})
	})
})
