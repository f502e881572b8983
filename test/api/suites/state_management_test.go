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

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/apichallenges/pkg/session"
	"github.com/nscaledev/apichallenges/test/api"
)

var _ = Describe("State Management", func() {
	Context("When exporting and importing challenger progress", func() {
		Describe("Given the current session", func() {
			It("should export the session's progress", func() {
				progress, err := scenario.Client.Manager().ExportState(ctx, scenario.Run().Session)
				Expect(err).NotTo(HaveOccurred())
				Expect(progress.XChallenger).To(Equal(scenario.Run().Session.ID))
				Expect(progress.ChallengeStatus).NotTo(BeEmpty())
			})

			It("should restore the same progress", func() {
				manager := scenario.Client.Manager()

				progress, err := manager.ExportState(ctx, scenario.Run().Session)
				Expect(err).NotTo(HaveOccurred())

				Expect(manager.ImportState(ctx, scenario.Run().Session, progress)).To(Succeed())

				restored, err := manager.ExportState(ctx, scenario.Run().Session)
				Expect(err).NotTo(HaveOccurred())
				Expect(restored.XChallenger).To(Equal(progress.XChallenger))
				Expect(restored.SecretNote).To(Equal(progress.SecretNote))
			})

			It("should reject progress for a different challenger", func() {
				progress, err := scenario.Client.Manager().ExportState(ctx, scenario.Run().Session)
				Expect(err).NotTo(HaveOccurred())

				progress.XChallenger = uuid.NewString()

				request := scenario.Client.Request(http.MethodPut, scenario.Client.Endpoints().ChallengerState(scenario.Run().Session.ID)).WithJSON(progress)

				response, err := scenario.Client.Send(ctx, request)
				Expect(err).NotTo(HaveOccurred())

				api.ExpectClientError(response)
			})
		})

		Describe("Given an unknown challenger", func() {
			It("should create the challenger from restored progress", func() {
				// Given: progress exported from the current session
				progress, err := scenario.Client.Manager().ExportState(ctx, scenario.Run().Session)
				Expect(err).NotTo(HaveOccurred())

				// When: it is restored under a GUID the service has never seen
				guid := uuid.NewString()
				progress.XChallenger = guid

				request := scenario.Client.Request(http.MethodPut, scenario.Client.Endpoints().ChallengerState(guid)).WithJSON(progress)

				_, err = scenario.Client.Expect(ctx, request, http.StatusCreated)
				Expect(err).NotTo(HaveOccurred())

				// Then: the new challenger's progress can be read back
				restored, err := scenario.Client.Manager().ExportState(ctx, &session.Session{ID: guid})
				Expect(err).NotTo(HaveOccurred())
				Expect(restored.XChallenger).To(Equal(guid))
			})

			It("should not find its progress", func() {
				_, err := scenario.Client.Expect(ctx, scenario.Client.Request(http.MethodGet, scenario.Client.Endpoints().ChallengerState(uuid.NewString())), http.StatusNotFound)
				Expect(err).NotTo(HaveOccurred())
			})
		})
	})

	Context("When exporting and importing the todo database", func() {
		Describe("Given the current session", func() {
			It("should export todos matching the list", func() {
				api.CreateTodoWithCleanup(ctx, scenario.Client, api.NewTodoPayload().Build())

				database, err := scenario.Client.Manager().ExportDatabase(ctx, scenario.Run().Session)
				Expect(err).NotTo(HaveOccurred())

				todos, err := scenario.Client.ListTodos(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(database.Todos).To(ConsistOf(todos))
			})

			It("should list no todos once every todo is deleted", func() {
				// Given: the database is saved so other specs keep their data
				manager := scenario.Client.Manager()

				saved, err := manager.ExportDatabase(ctx, scenario.Run().Session)
				Expect(err).NotTo(HaveOccurred())

				DeferCleanup(func(ctx SpecContext) {
					Expect(manager.ImportDatabase(ctx, scenario.Run().Session, saved)).To(Succeed())
				})

				// When: each todo is deleted in turn
				todos, err := scenario.Client.ListTodos(ctx)
				Expect(err).NotTo(HaveOccurred())

				for _, todo := range todos {
					Expect(scenario.Client.DeleteTodo(ctx, todo.Id)).To(Succeed())
				}

				// Then: the collection is empty
				remaining, err := scenario.Client.ListTodos(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(remaining).To(BeEmpty())
			})

			It("should leave the todo list unchanged after a round trip", func() {
				api.CreateTodoWithCleanup(ctx, scenario.Client, api.NewRandomTodoPayload(scenario.Generator).Build())

				before, err := scenario.Client.ListTodos(ctx)
				Expect(err).NotTo(HaveOccurred())

				// Twice, the round trip must be idempotent.
				for range 2 {
					roundTrip(scenario.Client.Manager(), scenario.Run().Session)
				}

				after, err := scenario.Client.ListTodos(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(after).To(Equal(before))
			})
		})
	})
})

// roundTrip exports then reimports both progress and todos.
func roundTrip(manager *session.Manager, s *session.Session) {
	progress, err := manager.ExportState(ctx, s)
	Expect(err).NotTo(HaveOccurred())
	Expect(manager.ImportState(ctx, s, progress)).To(Succeed())

	database, err := manager.ExportDatabase(ctx, s)
	Expect(err).NotTo(HaveOccurred())
	Expect(manager.ImportDatabase(ctx, s, database)).To(Succeed())
}
