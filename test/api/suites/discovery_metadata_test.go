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

	"github.com/nscaledev/apichallenges/pkg/constants"
)

var _ = Describe("Discovery and Metadata", func() {
	Context("When listing challenges", func() {
		Describe("Given an open session", func() {
			It("should return the whole catalogue", func() {
				challenges, err := scenario.Client.ListChallenges(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(challenges).To(HaveLen(config.ChallengeCount))

				GinkgoWriter.Printf("Found %d challenges\n", len(challenges))

				ids := map[string]bool{}

				for _, challenge := range challenges {
					Expect(challenge.Id).NotTo(BeEmpty())
					Expect(challenge.Name).NotTo(BeEmpty())
					Expect(ids).NotTo(HaveKey(challenge.Id), "duplicate challenge %s", challenge.Id)

					ids[challenge.Id] = true
				}
			})

			It("should record progress for the session", func() {
				challenges, err := scenario.Client.ListChallenges(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(challenges).To(ContainElement(HaveField("Status", BeTrue())))
			})
		})
	})

	Context("When opening a session", func() {
		Describe("Given a new challenger", func() {
			It("should issue a GUID and point at the progress page", func() {
				response, err := scenario.Client.Expect(ctx, scenario.Client.Request(http.MethodPost, scenario.Client.Endpoints().Challenger()), http.StatusCreated)
				Expect(err).NotTo(HaveOccurred())

				id, err := response.RequireHeader(constants.ChallengerHeader)
				Expect(err).NotTo(HaveOccurred())

				_, err = uuid.Parse(id)
				Expect(err).NotTo(HaveOccurred())

				Expect(response.Header.Get("Location")).To(ContainSubstring(id))
			})

			It("should identify the session in use", func() {
				_, err := uuid.Parse(scenario.Run().Session.ID)
				Expect(err).NotTo(HaveOccurred())
			})
		})
	})
})
