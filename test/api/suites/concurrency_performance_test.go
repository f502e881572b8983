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
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/apichallenges/pkg/openapi"
	"github.com/nscaledev/apichallenges/pkg/session"
	"github.com/nscaledev/apichallenges/test/api"
)

// sessionCount is kept small, every session is real state on the service.
const sessionCount = 3

var _ = Describe("Concurrency and Performance", func() {
	Context("When several sessions work at once", func() {
		Describe("Given one todo per session", func() {
			It("should keep each session's todos private", func() {
				clients := make([]*api.APIClient, sessionCount)
				created := make([]*openapi.TodoRead, sessionCount)

				var wg sync.WaitGroup

				for i := range sessionCount {
					wg.Add(1)

					go func() {
						defer GinkgoRecover()
						defer wg.Done()

						c, err := api.NewAPIClientWithConfig(config, baseURL)
						Expect(err).NotTo(HaveOccurred())

						s, err := c.Manager().OpenSession(ctx)
						Expect(err).NotTo(HaveOccurred())

						c.SetRunContext(&session.RunContext{Session: s})

						todo, err := c.CreateTodo(ctx, api.NewTodoPayload().WithTitle(fmt.Sprintf("session %d todo", i)).Build())
						Expect(err).NotTo(HaveOccurred())

						clients[i] = c
						created[i] = todo
					}()
				}

				wg.Wait()

				for i, c := range clients {
					DeferCleanup(func() {
						Expect(c.DeleteTodo(ctx, created[i].Id)).To(Succeed())
					})

					todos, err := c.ListTodos(ctx)
					Expect(err).NotTo(HaveOccurred())
					Expect(todos).To(ContainElement(HaveField("Title", created[i].Title)))

					for j := range sessionCount {
						if j != i {
							Expect(todos).NotTo(ContainElement(HaveField("Title", created[j].Title)))
						}
					}
				}
			})
		})
	})
})
