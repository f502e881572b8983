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

//nolint:revive,stylecheck // field names follow the generated client conventions
package openapi

import (
	"encoding/xml"
)

// TodoRead is a todo as returned by the service.
type TodoRead struct {
	XMLName     xml.Name `json:"-" xml:"todo"`
	Id          int      `json:"id" xml:"id"`
	Title       string   `json:"title" xml:"title"`
	DoneStatus  bool     `json:"doneStatus" xml:"doneStatus"`
	Description string   `json:"description" xml:"description"`
}

// TodoWrite is a todo as sent to the service.  Every field is optional
// so partial amendments and negative cases can be expressed.
type TodoWrite struct {
	XMLName     xml.Name `json:"-" xml:"todo"`
	Id          *int     `json:"id,omitempty" xml:"id,omitempty"`
	Title       *string  `json:"title,omitempty" xml:"title,omitempty"`
	DoneStatus  *bool    `json:"doneStatus,omitempty" xml:"doneStatus,omitempty"`
	Description *string  `json:"description,omitempty" xml:"description,omitempty"`
}

// TodoList is the collection representation, also used for single item
// reads which the service wraps in a one element list.
type TodoList struct {
	XMLName xml.Name   `json:"-" xml:"todos"`
	Todos   []TodoRead `json:"todos" xml:"todo"`
}

// SecretNote is the single note held per challenger.
type SecretNote struct {
	XMLName xml.Name `json:"-" xml:"secretNote"`
	Note    string   `json:"note" xml:"note"`
}

// Challenge is one entry of the challenge catalogue.
type Challenge struct {
	XMLName     xml.Name `json:"-" xml:"challenge"`
	Id          string   `json:"id" xml:"id"`
	Name        string   `json:"name" xml:"name"`
	Description string   `json:"description" xml:"description"`
	Status      bool     `json:"status" xml:"status"`
}

// ChallengeList is the challenge catalogue with per-challenger status.
type ChallengeList struct {
	XMLName    xml.Name    `json:"-" xml:"challenges"`
	Challenges []Challenge `json:"challenges" xml:"challenge"`
}

// ChallengerProgress is the exportable session state of a challenger.
type ChallengerProgress struct {
	XChallenger     string          `json:"xChallenger"`
	XAuthToken      string          `json:"xAuthToken"`
	SecretNote      string          `json:"secretNote"`
	ChallengeStatus map[string]bool `json:"challengeStatus"`
}

// TodoDatabase is the exportable todo database of a challenger.
type TodoDatabase struct {
	Todos []TodoRead `json:"todos"`
}

// ErrorResponse is returned with every 4xx the service generates.
type ErrorResponse struct {
	XMLName       xml.Name `json:"-" xml:"errorMessages"`
	ErrorMessages []string `json:"errorMessages" xml:"errorMessage"`
}

// GuidParameter is a challenger GUID path parameter.
type GuidParameter = string

// IdParameter is a todo ID path parameter.
type IdParameter = string

// GetTodosParams defines parameters for GetTodos.
type GetTodosParams struct {
	DoneStatus *bool `form:"doneStatus,omitempty" json:"doneStatus,omitempty"`
}
