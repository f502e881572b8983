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
package handler

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/spjmurray/go-util/pkg/set"

	"github.com/nscaledev/apichallenges/pkg/constants"
	"github.com/nscaledev/apichallenges/pkg/openapi"
	"github.com/nscaledev/apichallenges/pkg/server/store"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

const (
	maxStateBytes = 1 << 20
)

type Handler struct {
	// store holds all challenger state.
	store *store.Store

	// options allows behaviour to be defined on the CLI.
	options *Options
}

func New(store *store.Store, options *Options) *Handler {
	return &Handler{
		store:   store,
		options: options,
	}
}

func challenger(r *http.Request) string {
	return r.Header.Get(constants.ChallengerHeader)
}

func (h *Handler) setUncacheable(w http.ResponseWriter) {
	w.Header().Add("Cache-Control", "no-cache")
}

// todoID parses a path ID, anything that isn't a number can't exist.
func todoID(id openapi.IdParameter) (int, error) {
	i, err := strconv.Atoi(id)
	if err != nil {
		return 0, HTTPNotFound("Could not find an instance with todos/" + id)
	}

	return i, nil
}

func (h *Handler) PostChallenger(w http.ResponseWriter, r *http.Request) {
	guid := h.store.CreateChallenger()

	log.FromContext(r.Context()).Info("challenger created", "challenger", guid)

	w.Header().Set(constants.ChallengerHeader, guid)
	w.Header().Set("Location", "/gui/challenges/"+guid)

	writeResponse(w, r, http.StatusCreated, nil)
}

func (h *Handler) GetChallengerGuid(w http.ResponseWriter, r *http.Request, guid openapi.GuidParameter) {
	progress, err := h.store.Progress(guid)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	h.setUncacheable(w)
	writeJSONResponse(w, r, http.StatusOK, convertProgress(progress))
}

func (h *Handler) PutChallengerGuid(w http.ResponseWriter, r *http.Request, guid openapi.GuidParameter) {
	request := &openapi.ChallengerProgress{}

	if err := h.readJSONBody(r, request); err != nil {
		HandleError(w, r, err)
		return
	}

	if request.XChallenger != "" && request.XChallenger != guid {
		HandleError(w, r, HTTPBadRequest("xChallenger "+request.XChallenger+" does not match "+guid))
		return
	}

	created, err := h.store.RestoreProgress(generateProgress(guid, request))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	progress, err := h.store.Progress(guid)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	w.Header().Set(constants.ChallengerHeader, guid)

	writeJSONResponse(w, r, status, convertProgress(progress))
}

func (h *Handler) GetChallengerDatabaseGuid(w http.ResponseWriter, r *http.Request, guid openapi.GuidParameter) {
	todos, err := h.store.Database(guid)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	h.setUncacheable(w)
	writeJSONResponse(w, r, http.StatusOK, convertTodos(todos))
}

func (h *Handler) PutChallengerDatabaseGuid(w http.ResponseWriter, r *http.Request, guid openapi.GuidParameter) {
	request := &openapi.TodoDatabase{}

	if err := h.readJSONBody(r, request); err != nil {
		HandleError(w, r, err)
		return
	}

	if err := h.store.RestoreDatabase(guid, generateTodos(request.Todos)); err != nil {
		HandleError(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusNoContent, nil)
}

func (h *Handler) GetChallenges(w http.ResponseWriter, r *http.Request) {
	h.setUncacheable(w)
	writeResponse(w, r, http.StatusOK, convertChallenges(h.store.Challenges(challenger(r))))
}

func (h *Handler) GetTodos(w http.ResponseWriter, r *http.Request, params openapi.GetTodosParams) {
	h.setUncacheable(w)
	writeResponse(w, r, http.StatusOK, convertTodos(h.store.ListTodos(challenger(r), params.DoneStatus)))
}

func (h *Handler) HeadTodos(w http.ResponseWriter, r *http.Request) {
	h.GetTodos(w, r, openapi.GetTodosParams{})
}

func (h *Handler) PostTodos(w http.ResponseWriter, r *http.Request) {
	d, err := h.readDocument(r)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	fields, err := todoFields(d)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	todo, err := h.store.CreateTodo(challenger(r), fields)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	w.Header().Set("Location", "todos/"+strconv.Itoa(todo.ID))

	writeResponse(w, r, http.StatusCreated, convertTodo(todo))
}

// todoMethods are what /todos supports.
func todoMethods() set.Set[string] {
	return set.New[string](http.MethodOptions, http.MethodGet, http.MethodHead, http.MethodPost)
}

func (h *Handler) OptionsTodos(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", strings.Join(slices.Sorted(todoMethods().All()), ", "))

	writeResponse(w, r, http.StatusOK, nil)
}

// GetTodo exists so the singular noun is a documented 404.
func (h *Handler) GetTodo(w http.ResponseWriter, r *http.Request) {
	HandleError(w, r, HTTPNotFound("Could not find an instance with todo, use todos"))
}

func (h *Handler) GetTodosId(w http.ResponseWriter, r *http.Request, id openapi.IdParameter) {
	i, err := todoID(id)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	todo, err := h.store.GetTodo(challenger(r), i)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	h.setUncacheable(w)
	writeResponse(w, r, http.StatusOK, convertTodos([]store.Todo{*todo}))
}

func (h *Handler) HeadTodosId(w http.ResponseWriter, r *http.Request, id openapi.IdParameter) {
	h.GetTodosId(w, r, id)
}

func (h *Handler) PostTodosId(w http.ResponseWriter, r *http.Request, id openapi.IdParameter) {
	h.updateTodo(w, r, id, h.store.AmendTodo)
}

func (h *Handler) PutTodosId(w http.ResponseWriter, r *http.Request, id openapi.IdParameter) {
	h.updateTodo(w, r, id, h.store.ReplaceTodo)
}

type updateFunc func(guid string, id int, f *store.Fields) (*store.Todo, error)

func (h *Handler) updateTodo(w http.ResponseWriter, r *http.Request, id openapi.IdParameter, update updateFunc) {
	i, err := todoID(id)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	d, err := h.readDocument(r)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	fields, err := todoFields(d)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	todo, err := update(challenger(r), i, fields)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, convertTodo(todo))
}

func (h *Handler) DeleteTodosId(w http.ResponseWriter, r *http.Request, id openapi.IdParameter) {
	i, err := todoID(id)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	if err := h.store.DeleteTodo(challenger(r), i); err != nil {
		HandleError(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, nil)
}

func (h *Handler) GetHeartbeat(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, r, http.StatusNoContent, nil)
}

func (h *Handler) HeadHeartbeat(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, r, http.StatusNoContent, nil)
}

// DeleteHeartbeat, PatchHeartbeat and TraceHeartbeat reproduce the service's
// deliberate failures.
func (h *Handler) DeleteHeartbeat(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, r, http.StatusMethodNotAllowed, nil)
}

func (h *Handler) PatchHeartbeat(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, r, http.StatusInternalServerError, nil)
}

func (h *Handler) TraceHeartbeat(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, r, http.StatusNotImplemented, nil)
}

func (h *Handler) PostSecretToken(w http.ResponseWriter, r *http.Request) {
	username, password, ok := r.BasicAuth()
	if !ok || username != h.options.AuthUsername || password != h.options.AuthPassword {
		w.Header().Set("WWW-Authenticate", `Basic realm="User Visible Realm"`)
		HandleError(w, r, HTTPUnauthorized("Invalid username or password"))

		return
	}

	w.Header().Set(constants.AuthTokenHeader, h.store.IssueToken(challenger(r)))

	writeResponse(w, r, http.StatusCreated, nil)
}

// presentedToken accepts either X-Auth-Token or a bearer token.
func presentedToken(r *http.Request) string {
	if token := r.Header.Get(constants.AuthTokenHeader); token != "" {
		return token
	}

	// The scheme name is case-insensitive.
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}

	return ""
}

func (h *Handler) GetSecretNote(w http.ResponseWriter, r *http.Request) {
	guid := challenger(r)

	if err := h.store.Authorize(guid, presentedToken(r)); err != nil {
		HandleError(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, &openapi.SecretNote{Note: h.store.Note(guid)})
}

func (h *Handler) PostSecretNote(w http.ResponseWriter, r *http.Request) {
	guid := challenger(r)

	if err := h.store.Authorize(guid, presentedToken(r)); err != nil {
		HandleError(w, r, err)
		return
	}

	d, err := h.readDocument(r)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	if err := d.only("note"); err != nil {
		HandleError(w, r, err)
		return
	}

	note, err := d.stringField("note")
	if err != nil {
		HandleError(w, r, err)
		return
	}

	if note == nil {
		HandleError(w, r, HTTPBadRequest("note : field is mandatory"))
		return
	}

	if err := h.store.SetNote(guid, *note); err != nil {
		HandleError(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, &openapi.SecretNote{Note: *note})
}

// readJSONBody decodes the JSON only state documents.  These hold whole
// databases so aren't subject to the todo payload limit.
func (h *Handler) readJSONBody(r *http.Request, v any) error {
	data, _, err := readBody(r, maxStateBytes, false)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return HTTPBadRequest("Failed Validation: Invalid JSON")
	}

	return nil
}
