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

// Package generator produces todo and note payloads for scenarios.
package generator

import (
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"k8s.io/utils/ptr"

	"github.com/nscaledev/apichallenges/pkg/constants"
	"github.com/nscaledev/apichallenges/pkg/openapi"
)

const (
	FixedTitle       = "Test todo"
	FixedDescription = "Test description"
)

// Generator wraps a faker so runs can be made reproducible with a seed.
type Generator struct {
	faker *gofakeit.Faker
}

// New returns a generator, a zero seed picks a random one.
func New(seed uint64) *Generator {
	return &Generator{
		faker: gofakeit.New(seed),
	}
}

// RandomTodo returns a payload with pseudo-random text that always fits the
// documented field bounds.
func (g *Generator) RandomTodo() *openapi.TodoWrite {
	title := truncate(g.faker.Sentence(3), constants.MaxTitleLength)
	description := truncate(g.faker.Paragraph(1, 2, 10, " "), constants.MaxDescriptionLength)

	return &openapi.TodoWrite{
		Title:       ptr.To(title),
		Description: ptr.To(description),
		DoneStatus:  ptr.To(g.faker.Bool()),
	}
}

// RandomNote returns a secret note within bounds.
func (g *Generator) RandomNote() string {
	return truncate(g.faker.Sentence(8), constants.MaxNoteLength)
}

// FixedTodo returns a stable payload for deterministic scenarios.
func FixedTodo() *openapi.TodoWrite {
	return &openapi.TodoWrite{
		Title:       ptr.To(FixedTitle),
		Description: ptr.To(FixedDescription),
		DoneStatus:  ptr.To(false),
	}
}

// LongString returns length repetitions of "A", for bound probing.
func LongString(length int) string {
	if length <= 0 {
		return ""
	}

	return strings.Repeat("A", length)
}

// truncate cuts on a rune boundary and never leaves trailing space.
func truncate(s string, length int) string {
	runes := []rune(s)
	if len(runes) <= length {
		return s
	}

	return strings.TrimSpace(string(runes[:length]))
}
