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

package store

import (
	"strings"
	"time"
)

// Todo is a stored todo item.
type Todo struct {
	ID          int    `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	DoneStatus  bool   `yaml:"doneStatus"`
}

// Fields is a parsed write request.  Nil means the field was absent.
type Fields struct {
	ID          *int
	Title       *string
	Description *string
	DoneStatus  *bool
}

// Challenger is the state owned by one session.
type Challenger struct {
	GUID       string
	CreatedAt  time.Time
	AuthToken  string
	SecretNote string
	// Completed maps challenge IDs to whether they have been completed.
	Completed map[string]bool

	todos  map[int]*Todo
	nextID int
}

// Progress is the exportable part of a challenger.
type Progress struct {
	GUID       string
	AuthToken  string
	SecretNote string
	Completed  map[string]bool
}

// Matcher selects the requests that complete a challenge.  Empty fields
// match anything.
type Matcher struct {
	Method string `yaml:"method"`
	Route  string `yaml:"route"`
	Status int    `yaml:"status"`
	// Accept matches the request Accept header verbatim, "none" requires
	// it to be absent.
	Accept string `yaml:"accept,omitempty"`
	// ContentType matches the request media type.
	ContentType string `yaml:"contentType,omitempty"`
	// ResponseType matches the response media type.
	ResponseType string `yaml:"responseType,omitempty"`
	// Override matches the X-HTTP-Method-Override header.
	Override string `yaml:"override,omitempty"`
	// Bearer requires the token to have been presented as a bearer.
	Bearer bool `yaml:"bearer,omitempty"`
	// Query requires a query string.
	Query bool `yaml:"query,omitempty"`
	// Message is a substring of the first error message.
	Message string `yaml:"message,omitempty"`
	// When is evaluated against the challenger after the request, one
	// of "empty" or "full".
	When string `yaml:"when,omitempty"`
}

// Challenge is one entry of the catalogue.
type Challenge struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Match       Matcher `yaml:"match"`
}

// Event describes a handled request for challenge matching.
type Event struct {
	Method       string
	Route        string
	Status       int
	Accept       string
	ContentType  string
	ResponseType string
	Override     string
	Bearer       bool
	Query        bool
	Message      string
}

func (m *Matcher) matches(e *Event) bool {
	switch {
	case m.Method != e.Method, m.Route != e.Route, m.Status != e.Status:
		return false
	case m.Accept == "none" && e.Accept != "":
		return false
	case m.Accept != "" && m.Accept != "none" && m.Accept != e.Accept:
		return false
	case m.ContentType != "" && m.ContentType != e.ContentType:
		return false
	case m.ResponseType != "" && m.ResponseType != e.ResponseType:
		return false
	case m.Override != e.Override:
		return false
	case m.Bearer && !e.Bearer:
		return false
	case m.Query && !e.Query:
		return false
	case m.Message != "" && !strings.Contains(e.Message, m.Message):
		return false
	}

	return true
}
