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

// Package api provides the scenario harness for the todo service suites.
//
// # Separate Client Implementation
//
// Suites talk to the service through pkg/client rather than a generated
// client.  Having an independent client serves as a form of triangulation
// on API correctness: a legitimate change to the published schema must have
// a compensating change here, making API evolution explicit and reviewable.
//
// The harness adds what scenarios need on top of the adapter:
//   - Session binding, every request carries X-Challenger
//   - Schema validation of JSON responses when VALIDATE_RESPONSES is set
//   - Logging to GinkgoWriter with trace IDs for failed requests
//   - Fixtures that clean up after themselves with DeferCleanup
//
// # Targets
//
// With API_BASE_URL unset the suites start the in-process twin from
// pkg/server, so they run hermetically.  Pointing API_BASE_URL at the live
// service runs the same scenarios against it.
package api
