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
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spjmurray/go-util/pkg/set"

	"github.com/nscaledev/apichallenges/pkg/constants"
	"github.com/nscaledev/apichallenges/test/api"
)

var _ = Describe("Method Support", func() {
	Context("When asking what a collection supports", func() {
		Describe("Given OPTIONS on the todo collection", func() {
			It("should list exactly the supported verbs", func() {
				response, err := scenario.Client.Expect(ctx, scenario.Client.Request(http.MethodOptions, scenario.Client.Endpoints().Todos()), http.StatusOK)
				Expect(err).NotTo(HaveOccurred())

				allowed := api.AllowedMethods(response.Header.Get("Allow"))
				expected := set.New[string](http.MethodOptions, http.MethodGet, http.MethodHead, http.MethodPost)

				Expect(slices.Collect(expected.Difference(allowed).All())).To(BeEmpty(), "missing from Allow")
				Expect(slices.Collect(allowed.Difference(expected).All())).To(BeEmpty(), "unexpected in Allow")
			})
		})
	})

	Context("When probing the heartbeat", func() {
		DescribeTable("should answer each verb as documented",
			func(method string, status int) {
				response, err := scenario.Client.Expect(ctx, scenario.Client.Request(method, scenario.Client.Endpoints().Heartbeat()), status)
				Expect(err).NotTo(HaveOccurred())

				if status == http.StatusNoContent {
					Expect(response.Body).To(BeEmpty())
				}
			},
			Entry("GET", http.MethodGet, http.StatusNoContent),
			Entry("HEAD", http.MethodHead, http.StatusNoContent),
			Entry("DELETE is not allowed", http.MethodDelete, http.StatusMethodNotAllowed),
			Entry("PATCH is mishandled", http.MethodPatch, http.StatusInternalServerError),
			Entry("TRACE is not implemented", http.MethodTrace, http.StatusNotImplemented),
		)

		DescribeTable("should apply a method override on POST",
			func(override string, status int) {
				request := scenario.Client.Request(http.MethodPost, scenario.Client.Endpoints().Heartbeat()).
					WithHeader(constants.MethodOverrideHeader, override)

				_, err := scenario.Client.Expect(ctx, request, status)
				Expect(err).NotTo(HaveOccurred())
			},
			Entry("DELETE", "DELETE", http.StatusMethodNotAllowed),
			Entry("PATCH", "PATCH", http.StatusInternalServerError),
			Entry("TRACE", "TRACE", http.StatusNotImplemented),
		)
	})
})
