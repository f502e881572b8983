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
	"k8s.io/utils/ptr"

	"github.com/nscaledev/apichallenges/pkg/generator"
	"github.com/nscaledev/apichallenges/pkg/openapi"
)

// TodoPayloadBuilder builds todo payloads for testing.
type TodoPayloadBuilder struct {
	payload openapi.TodoWrite
}

// NewTodoPayload creates a builder starting from the fixed todo.
func NewTodoPayload() *TodoPayloadBuilder {
	return &TodoPayloadBuilder{
		payload: *generator.FixedTodo(),
	}
}

// NewRandomTodoPayload creates a builder starting from a generated todo.
func NewRandomTodoPayload(g *generator.Generator) *TodoPayloadBuilder {
	return &TodoPayloadBuilder{
		payload: *g.RandomTodo(),
	}
}

// NewEmptyTodoPayload creates a builder with no fields set, for amendments.
func NewEmptyTodoPayload() *TodoPayloadBuilder {
	return &TodoPayloadBuilder{}
}

func (b *TodoPayloadBuilder) WithID(id int) *TodoPayloadBuilder {
	b.payload.Id = ptr.To(id)
	return b
}

func (b *TodoPayloadBuilder) WithTitle(title string) *TodoPayloadBuilder {
	b.payload.Title = ptr.To(title)
	return b
}

// WithoutTitle omits the title entirely, which is not the same as empty.
func (b *TodoPayloadBuilder) WithoutTitle() *TodoPayloadBuilder {
	b.payload.Title = nil
	return b
}

func (b *TodoPayloadBuilder) WithDescription(description string) *TodoPayloadBuilder {
	b.payload.Description = ptr.To(description)
	return b
}

func (b *TodoPayloadBuilder) WithoutDescription() *TodoPayloadBuilder {
	b.payload.Description = nil
	return b
}

func (b *TodoPayloadBuilder) WithDoneStatus(doneStatus bool) *TodoPayloadBuilder {
	b.payload.DoneStatus = ptr.To(doneStatus)
	return b
}

func (b *TodoPayloadBuilder) WithoutDoneStatus() *TodoPayloadBuilder {
	b.payload.DoneStatus = nil
	return b
}

// Build returns the completed payload.
func (b *TodoPayloadBuilder) Build() *openapi.TodoWrite {
	out := b.payload

	return &out
}
