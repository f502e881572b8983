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

// Package store holds the state of the in-process service twin.
package store

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/nscaledev/apichallenges/pkg/constants"
)

const (
	whenEmpty = "empty"
	whenFull  = "full"
)

// Store is a concurrency safe set of challengers.  Requests without a known
// challenger are served from a shared anonymous one.
type Store struct {
	lock        sync.Mutex
	seed        *Seed
	limit       int
	challengers map[string]*Challenger
	anonymous   *Challenger
}

// New creates a store, limit bounds the todos a challenger may hold.
func New(seed *Seed, limit int) *Store {
	s := &Store{
		seed:        seed,
		limit:       limit,
		challengers: map[string]*Challenger{},
	}

	s.anonymous = s.newChallenger("")

	return s
}

func (s *Store) newChallenger(guid string) *Challenger {
	c := &Challenger{
		GUID:      guid,
		CreatedAt: time.Now(),
		Completed: map[string]bool{},
		todos:     map[int]*Todo{},
		nextID:    1,
	}

	c.load(s.seed.Todos)

	return c
}

// load replaces the todos, ID allocation continues after the highest one.
func (c *Challenger) load(todos []Todo) {
	c.todos = make(map[int]*Todo, len(todos))
	c.nextID = 1

	for _, todo := range todos {
		c.todos[todo.ID] = &todo

		if todo.ID >= c.nextID {
			c.nextID = todo.ID + 1
		}
	}
}

func (c *Challenger) list() []Todo {
	out := make([]Todo, 0, len(c.todos))

	for _, id := range slices.Sorted(maps.Keys(c.todos)) {
		out = append(out, *c.todos[id])
	}

	return out
}

// resolve must be called with the lock held.
func (s *Store) resolve(guid string) *Challenger {
	if c, ok := s.challengers[guid]; ok {
		return c
	}

	return s.anonymous
}

// CreateChallenger starts a new session with the seed todos.
func (s *Store) CreateChallenger() string {
	s.lock.Lock()
	defer s.lock.Unlock()

	guid := uuid.NewString()

	s.challengers[guid] = s.newChallenger(guid)

	return guid
}

// ListTodos returns todos in ID order, optionally filtered by status.
func (s *Store) ListTodos(guid string, doneStatus *bool) []Todo {
	s.lock.Lock()
	defer s.lock.Unlock()

	todos := s.resolve(guid).list()

	if doneStatus == nil {
		return todos
	}

	return slices.DeleteFunc(todos, func(todo Todo) bool {
		return todo.DoneStatus != *doneStatus
	})
}

func notFound(id int) error {
	return newError(ErrNotFound, fmt.Sprintf("Could not find an instance with todos/%d", id))
}

// GetTodo returns a single todo.
func (s *Store) GetTodo(guid string, id int) (*Todo, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	todo, ok := s.resolve(guid).todos[id]
	if !ok {
		return nil, notFound(id)
	}

	out := *todo

	return &out, nil
}

// validate returns every problem with the fields, title is only mandatory
// when asked.
func validate(f *Fields, requireTitle bool) []string {
	var messages []string

	switch {
	case f.Title == nil:
		if requireTitle {
			messages = append(messages, "title : field is mandatory")
		}
	case strings.TrimSpace(*f.Title) == "":
		messages = append(messages, "Failed Validation: title : can not be empty")
	case utf8.RuneCountInString(*f.Title) > constants.MaxTitleLength:
		messages = append(messages, fmt.Sprintf("Failed Validation: Maximum allowable length exceeded for title - maximum allowed is %d", constants.MaxTitleLength))
	}

	if f.Description != nil && utf8.RuneCountInString(*f.Description) > constants.MaxDescriptionLength {
		messages = append(messages, fmt.Sprintf("Failed Validation: Maximum allowable length exceeded for description - maximum allowed is %d", constants.MaxDescriptionLength))
	}

	return messages
}

func apply(todo *Todo, f *Fields) {
	if f.Title != nil {
		todo.Title = *f.Title
	}

	if f.Description != nil {
		todo.Description = *f.Description
	}

	if f.DoneStatus != nil {
		todo.DoneStatus = *f.DoneStatus
	}
}

// CreateTodo adds a todo, the ID is always allocated by the store.
func (s *Store) CreateTodo(guid string, f *Fields) (*Todo, error) {
	if f.ID != nil {
		return nil, newError(ErrValidation, "Invalid Creation: Failed Validation: Not allowed to create with id")
	}

	if messages := validate(f, true); len(messages) != 0 {
		return nil, newError(ErrValidation, messages...)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	c := s.resolve(guid)

	if len(c.todos) >= s.limit {
		return nil, newError(ErrLimit, fmt.Sprintf("ERROR: Cannot add instance, maximum limit of %d reached", s.limit))
	}

	todo := &Todo{
		ID: c.nextID,
	}

	apply(todo, f)

	c.todos[todo.ID] = todo
	c.nextID++

	out := *todo

	return &out, nil
}

func checkID(id int, f *Fields) error {
	if f.ID != nil && *f.ID != id {
		return newError(ErrValidation, fmt.Sprintf("Can not amend id from %d to %d", id, *f.ID))
	}

	return nil
}

// AmendTodo applies a partial update.
func (s *Store) AmendTodo(guid string, id int, f *Fields) (*Todo, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	todo, ok := s.resolve(guid).todos[id]
	if !ok {
		return nil, newError(ErrNotFound, fmt.Sprintf("No such todo entity instance with id == %d found", id))
	}

	if err := checkID(id, f); err != nil {
		return nil, err
	}

	if messages := validate(f, false); len(messages) != 0 {
		return nil, newError(ErrValidation, messages...)
	}

	apply(todo, f)

	out := *todo

	return &out, nil
}

// ReplaceTodo is a full update, absent optional fields reset to their
// defaults.  It never creates.
func (s *Store) ReplaceTodo(guid string, id int, f *Fields) (*Todo, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	todo, ok := s.resolve(guid).todos[id]
	if !ok {
		return nil, newError(ErrValidation, "Cannot create todo with PUT due to Auto fields id")
	}

	if err := checkID(id, f); err != nil {
		return nil, err
	}

	if messages := validate(f, true); len(messages) != 0 {
		return nil, newError(ErrValidation, messages...)
	}

	*todo = Todo{
		ID: id,
	}

	apply(todo, f)

	out := *todo

	return &out, nil
}

// DeleteTodo removes a todo.
func (s *Store) DeleteTodo(guid string, id int) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	c := s.resolve(guid)

	if _, ok := c.todos[id]; !ok {
		return notFound(id)
	}

	delete(c.todos, id)

	return nil
}

// IssueToken returns the challenger's note token, creating it on first use.
func (s *Store) IssueToken(guid string) string {
	s.lock.Lock()
	defer s.lock.Unlock()

	c := s.resolve(guid)

	if c.AuthToken == "" {
		c.AuthToken = uuid.NewString()
	}

	return c.AuthToken
}

// Authorize checks a presented note token.
func (s *Store) Authorize(guid, token string) error {
	if token == "" {
		return newError(ErrTokenMissing, "Auth token not found")
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	c := s.resolve(guid)

	if c.AuthToken == "" || c.AuthToken != token {
		return newError(ErrTokenInvalid, "Auth token invalid")
	}

	return nil
}

// Note returns the secret note.
func (s *Store) Note(guid string) string {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.resolve(guid).SecretNote
}

// SetNote replaces the secret note.
func (s *Store) SetNote(guid, note string) error {
	if utf8.RuneCountInString(note) > constants.MaxNoteLength {
		return newError(ErrValidation, fmt.Sprintf("Failed Validation: Maximum allowable length exceeded for note - maximum allowed is %d", constants.MaxNoteLength))
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.resolve(guid).SecretNote = note

	return nil
}

func unknownChallenger(guid string) error {
	return newError(ErrNotFound, fmt.Sprintf("Challenger not found: %s", guid))
}

// Progress exports a known challenger's state.
func (s *Store) Progress(guid string) (*Progress, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	c, ok := s.challengers[guid]
	if !ok {
		return nil, unknownChallenger(guid)
	}

	return &Progress{
		GUID:       c.GUID,
		AuthToken:  c.AuthToken,
		SecretNote: c.SecretNote,
		Completed:  maps.Clone(c.Completed),
	}, nil
}

// RestoreProgress imports state, creating the challenger if need be.  It
// reports whether a challenger was created.
func (s *Store) RestoreProgress(p *Progress) (bool, error) {
	if p.GUID == "" {
		return false, newError(ErrValidation, "Invalid challenger: xChallenger is required")
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	c, ok := s.challengers[p.GUID]
	if !ok {
		c = s.newChallenger(p.GUID)
		s.challengers[p.GUID] = c
	}

	c.AuthToken = p.AuthToken
	c.SecretNote = p.SecretNote
	c.Completed = map[string]bool{}

	for id, done := range p.Completed {
		if done {
			c.Completed[id] = true
		}
	}

	return !ok, nil
}

// Database exports a known challenger's todos.
func (s *Store) Database(guid string) ([]Todo, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	c, ok := s.challengers[guid]
	if !ok {
		return nil, unknownChallenger(guid)
	}

	return c.list(), nil
}

// RestoreDatabase replaces a known challenger's todos wholesale.
func (s *Store) RestoreDatabase(guid string, todos []Todo) error {
	seen := map[int]bool{}

	for _, todo := range todos {
		if todo.ID <= 0 || seen[todo.ID] {
			return newError(ErrValidation, fmt.Sprintf("Invalid todo id %d", todo.ID))
		}

		if messages := validate(&Fields{Title: &todo.Title, Description: &todo.Description}, true); len(messages) != 0 {
			return newError(ErrValidation, messages...)
		}

		seen[todo.ID] = true
	}

	if len(todos) > s.limit {
		return newError(ErrLimit, fmt.Sprintf("ERROR: Cannot add instance, maximum limit of %d reached", s.limit))
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	c, ok := s.challengers[guid]
	if !ok {
		return unknownChallenger(guid)
	}

	c.load(todos)

	return nil
}

// ChallengeStatus is a catalogue entry with its completion state.
type ChallengeStatus struct {
	Challenge
	Completed bool
}

// Challenges returns the catalogue as seen by a challenger.
func (s *Store) Challenges(guid string) []ChallengeStatus {
	s.lock.Lock()
	defer s.lock.Unlock()

	c := s.resolve(guid)

	out := make([]ChallengeStatus, len(s.seed.Challenges))

	for i, challenge := range s.seed.Challenges {
		out[i] = ChallengeStatus{
			Challenge: challenge,
			Completed: c.Completed[challenge.ID],
		}
	}

	return out
}

// Record marks challenges completed by a request, returning those newly
// completed.  Anonymous requests complete nothing.
func (s *Store) Record(guid string, e *Event) []string {
	s.lock.Lock()
	defer s.lock.Unlock()

	c, ok := s.challengers[guid]
	if !ok {
		return nil
	}

	var completed []string

	for i := range s.seed.Challenges {
		challenge := &s.seed.Challenges[i]

		if c.Completed[challenge.ID] || !challenge.Match.matches(e) {
			continue
		}

		switch challenge.Match.When {
		case whenEmpty:
			if len(c.todos) != 0 {
				continue
			}
		case whenFull:
			if len(c.todos) < s.limit {
				continue
			}
		}

		c.Completed[challenge.ID] = true

		completed = append(completed, challenge.ID)
	}

	return completed
}
