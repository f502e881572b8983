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

package constants

import (
	"fmt"
	"os"
	"path"
)

var (
	// Application is the application name.
	//nolint:gochecknoglobals
	Application = path.Base(os.Args[0])

	// Version is the application version set via the Makefile.
	//nolint:gochecknoglobals
	Version string

	// Revision is the git revision set via the Makefile.
	//nolint:gochecknoglobals
	Revision string
)

// VersionString returns a canonical version string.  It's based on
// HTTP's User-Agent so can be used to set that too, if this ever has to
// call out ot other micro services.
func VersionString() string {
	return fmt.Sprintf("%s/%s (revision/%s)", Application, Version, Revision)
}

const (
	// ChallengerHeader identifies the session a request belongs to.
	ChallengerHeader = "X-Challenger"

	// AuthTokenHeader carries the secret note token issued by /secret/token.
	AuthTokenHeader = "X-Auth-Token"

	// MethodOverrideHeader lets a POST masquerade as another verb.
	MethodOverrideHeader = "X-Http-Method-Override"

	// MIMEJSON and MIMEXML are the two representations the service speaks.
	MIMEJSON = "application/json"
	MIMEXML  = "application/xml"
)

// Session routes, shared by the session manager and the test harness.
const (
	ChallengerPath         = "/challenger"
	ChallengerDatabasePath = "/challenger/database"
	SecretTokenPath        = "/secret/token"
)

const (
	// DefaultTodoLimit is the maximum number of todos a challenger may hold.
	DefaultTodoLimit = 20

	// MaxTitleLength is the documented title bound.
	MaxTitleLength = 50

	// MaxDescriptionLength is the documented description bound.
	MaxDescriptionLength = 200

	// MaxNoteLength is the documented secret note bound.
	MaxNoteLength = 100

	// DefaultMaxBodyBytes is the request payload ceiling, beyond which
	// the service answers 413.
	DefaultMaxBodyBytes = 5000

	// ChallengeCount is the size of the published challenge catalogue.
	ChallengeCount = 59
)
