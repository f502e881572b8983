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

package handler

import (
	"github.com/nscaledev/apichallenges/pkg/openapi"
	"github.com/nscaledev/apichallenges/pkg/server/store"
)

func convertTodo(in *store.Todo) *openapi.TodoRead {
	return &openapi.TodoRead{
		Id:          in.ID,
		Title:       in.Title,
		DoneStatus:  in.DoneStatus,
		Description: in.Description,
	}
}

func convertTodos(in []store.Todo) *openapi.TodoList {
	out := &openapi.TodoList{
		Todos: make([]openapi.TodoRead, len(in)),
	}

	for i := range in {
		out.Todos[i] = *convertTodo(&in[i])
	}

	return out
}

func generateTodos(in []openapi.TodoRead) []store.Todo {
	out := make([]store.Todo, len(in))

	for i, todo := range in {
		out[i] = store.Todo{
			ID:          todo.Id,
			Title:       todo.Title,
			Description: todo.Description,
			DoneStatus:  todo.DoneStatus,
		}
	}

	return out
}

func convertProgress(in *store.Progress) *openapi.ChallengerProgress {
	out := &openapi.ChallengerProgress{
		XChallenger:     in.GUID,
		XAuthToken:      in.AuthToken,
		SecretNote:      in.SecretNote,
		ChallengeStatus: map[string]bool{},
	}

	for id, done := range in.Completed {
		out.ChallengeStatus[id] = done
	}

	return out
}

func generateProgress(guid string, in *openapi.ChallengerProgress) *store.Progress {
	return &store.Progress{
		GUID:       guid,
		AuthToken:  in.XAuthToken,
		SecretNote: in.SecretNote,
		Completed:  in.ChallengeStatus,
	}
}

func convertChallenges(in []store.ChallengeStatus) *openapi.ChallengeList {
	out := &openapi.ChallengeList{
		Challenges: make([]openapi.Challenge, len(in)),
	}

	for i, challenge := range in {
		out.Challenges[i] = openapi.Challenge{
			Id:          challenge.ID,
			Name:        challenge.Name,
			Description: challenge.Description,
			Status:      challenge.Completed,
		}
	}

	return out
}
