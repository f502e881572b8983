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

//nolint:revive
package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/nscaledev/apichallenges/pkg/openapi"
	"github.com/nscaledev/apichallenges/pkg/server/handler"
)

// wrapper binds parameters before calling the handler, the same way a
// generated server interface wrapper does.
type wrapper struct {
	handler *handler.Handler
}

func (w *wrapper) pathParameter(name string, r *http.Request) (string, error) {
	var value string

	if err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &value, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true}); err != nil {
		return "", fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}

	return value, nil
}

// withGUID adapts a handler taking a challenger GUID.
func (w *wrapper) withGUID(f func(http.ResponseWriter, *http.Request, openapi.GuidParameter)) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		guid, err := w.pathParameter("guid", r)
		if err != nil {
			handler.HandleError(rw, r, handler.HTTPBadRequest(err.Error()))
			return
		}

		f(rw, r, guid)
	}
}

// withID adapts a handler taking a todo ID.
func (w *wrapper) withID(f func(http.ResponseWriter, *http.Request, openapi.IdParameter)) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		id, err := w.pathParameter("id", r)
		if err != nil {
			handler.HandleError(rw, r, handler.HTTPNotFound(err.Error()))
			return
		}

		f(rw, r, id)
	}
}

func (w *wrapper) GetTodos(rw http.ResponseWriter, r *http.Request) {
	var params openapi.GetTodosParams

	if err := runtime.BindQueryParameter("form", true, false, "doneStatus", r.URL.Query(), &params.DoneStatus); err != nil {
		handler.HandleError(rw, r, handler.HTTPBadRequest(fmt.Sprintf("Invalid format for parameter doneStatus: %v", err)))
		return
	}

	w.handler.GetTodos(rw, r, params)
}

// routes mounts every endpoint.  The representation negotiating group covers
// everything that may return a body.
func routes(router chi.Router, h *handler.Handler) {
	w := &wrapper{
		handler: h,
	}

	router.Post("/challenger", h.PostChallenger)
	router.Get("/challenger/{guid}", w.withGUID(h.GetChallengerGuid))
	router.Put("/challenger/{guid}", w.withGUID(h.PutChallengerGuid))
	router.Get("/challenger/database/{guid}", w.withGUID(h.GetChallengerDatabaseGuid))
	router.Put("/challenger/database/{guid}", w.withGUID(h.PutChallengerDatabaseGuid))

	router.Get("/heartbeat", h.GetHeartbeat)
	router.Head("/heartbeat", h.HeadHeartbeat)
	router.Delete("/heartbeat", h.DeleteHeartbeat)
	router.Patch("/heartbeat", h.PatchHeartbeat)
	router.Trace("/heartbeat", h.TraceHeartbeat)

	router.Group(func(r chi.Router) {
		r.Use(handler.Negotiate)

		r.Get("/challenges", h.GetChallenges)

		r.Get("/todos", w.GetTodos)
		r.Head("/todos", h.HeadTodos)
		r.Post("/todos", h.PostTodos)
		r.Options("/todos", h.OptionsTodos)
		r.Get("/todo", h.GetTodo)

		r.Get("/todos/{id}", w.withID(h.GetTodosId))
		r.Head("/todos/{id}", w.withID(h.HeadTodosId))
		r.Post("/todos/{id}", w.withID(h.PostTodosId))
		r.Put("/todos/{id}", w.withID(h.PutTodosId))
		r.Delete("/todos/{id}", w.withID(h.DeleteTodosId))

		r.Post("/secret/token", h.PostSecretToken)
		r.Get("/secret/note", h.GetSecretNote)
		r.Post("/secret/note", h.PostSecretNote)
	})
}
