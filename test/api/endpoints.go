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

package api

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/nscaledev/apichallenges/pkg/constants"
)

// Endpoints contains all API endpoint patterns.
type Endpoints struct{}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

// Session endpoints.
func (e *Endpoints) Challenger() string {
	return constants.ChallengerPath
}

func (e *Endpoints) ChallengerState(guid string) string {
	return constants.ChallengerPath + "/" + url.PathEscape(guid)
}

func (e *Endpoints) ChallengerDatabase(guid string) string {
	return constants.ChallengerDatabasePath + "/" + url.PathEscape(guid)
}

func (e *Endpoints) Challenges() string {
	return "/challenges"
}

// Todo endpoints.
func (e *Endpoints) Todos() string {
	return "/todos"
}

func (e *Endpoints) TodosFiltered(doneStatus bool) string {
	return "/todos?doneStatus=" + strconv.FormatBool(doneStatus)
}

func (e *Endpoints) Todo(id int) string {
	return e.TodoByName(strconv.Itoa(id))
}

// TodoByName allows IDs that aren't numbers.
func (e *Endpoints) TodoByName(id string) string {
	return fmt.Sprintf("/todos/%s", url.PathEscape(id))
}

// TodoSingular is the wrong noun, it should never exist.
func (e *Endpoints) TodoSingular() string {
	return "/todo"
}

// Infrastructure endpoints.
func (e *Endpoints) Heartbeat() string {
	return "/heartbeat"
}

// Secret note endpoints.
func (e *Endpoints) SecretToken() string {
	return constants.SecretTokenPath
}

func (e *Endpoints) SecretNote() string {
	return "/secret/note"
}
