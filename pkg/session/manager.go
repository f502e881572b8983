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

package session

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nscaledev/apichallenges/pkg/client"
	"github.com/nscaledev/apichallenges/pkg/constants"
	"github.com/nscaledev/apichallenges/pkg/openapi"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

var (
	// ErrMissingSessionID is a session open that succeeded without an identity.
	ErrMissingSessionID = fmt.Errorf("%w: no session ID issued", client.ErrContractViolation)

	// ErrCredentialsRejected is an ordinary 401 from the token exchange.
	ErrCredentialsRejected = errors.New("credentials rejected")

	// ErrMissingAuthToken is a token exchange that succeeded without a token.
	ErrMissingAuthToken = fmt.Errorf("%w: no auth token issued", client.ErrContractViolation)
)

// Manager opens sessions and acquires tokens.  It holds no session state
// itself, callers keep what it returns in a RunContext.
type Manager struct {
	sender Sender
}

func NewManager(sender Sender) *Manager {
	return &Manager{
		sender: sender,
	}
}

// OpenSession asks the service for a new challenger identity.
func (m *Manager) OpenSession(ctx context.Context) (*Session, error) {
	log := log.FromContext(ctx)

	response, err := m.sender.Send(ctx, client.NewRequest(http.MethodPost, constants.ChallengerPath))
	if err != nil {
		return nil, err
	}

	if err := response.ExpectStatus(http.StatusCreated); err != nil {
		return nil, err
	}

	id := response.Header.Get(constants.ChallengerHeader)
	if id == "" {
		return nil, fmt.Errorf("%w (trace ID: %s)", ErrMissingSessionID, response.TraceID())
	}

	log.Info("session opened", "challenger", id)

	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
	}, nil
}

// AcquireAuthToken exchanges basic credentials for a note token.
func (m *Manager) AcquireAuthToken(ctx context.Context, session *Session, credentials Credentials, scheme Scheme) (*AuthToken, error) {
	log := log.FromContext(ctx)

	basic := base64.StdEncoding.EncodeToString([]byte(credentials.Username + ":" + credentials.Password))

	request := client.NewRequest(http.MethodPost, constants.SecretTokenPath).
		WithChallenger(session.ID).
		WithHeader("Authorization", "Basic "+basic)

	response, err := m.sender.Send(ctx, request)
	if err != nil {
		return nil, err
	}

	if response.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w for user %q", ErrCredentialsRejected, credentials.Username)
	}

	if err := response.ExpectStatus(http.StatusCreated); err != nil {
		return nil, err
	}

	value := response.Header.Get(constants.AuthTokenHeader)
	if value == "" {
		log.Error(ErrMissingAuthToken, "token exchange returned no token", "traceID", response.TraceID())

		return nil, fmt.Errorf("%w (trace ID: %s)", ErrMissingAuthToken, response.TraceID())
	}

	return &AuthToken{
		Value:       value,
		Scheme:      scheme,
		Acquisition: AcquisitionBasic,
		AcquiredAt:  time.Now(),
	}, nil
}

// ExportState reads the challenger's progress record.
func (m *Manager) ExportState(ctx context.Context, session *Session) (*openapi.ChallengerProgress, error) {
	progress := &openapi.ChallengerProgress{}

	if err := m.get(ctx, session, session.statePath(), progress); err != nil {
		return nil, fmt.Errorf("exporting challenger state: %w", err)
	}

	return progress, nil
}

// ImportState restores a progress record.  The service answers 200 when the
// challenger is known and 201 when the import recreated it.
func (m *Manager) ImportState(ctx context.Context, session *Session, progress *openapi.ChallengerProgress) error {
	if err := m.put(ctx, session, session.statePath(), progress, http.StatusOK, http.StatusCreated); err != nil {
		return fmt.Errorf("importing challenger state: %w", err)
	}

	return nil
}

// ExportDatabase reads the challenger's todo database.
func (m *Manager) ExportDatabase(ctx context.Context, session *Session) (*openapi.TodoDatabase, error) {
	database := &openapi.TodoDatabase{}

	if err := m.get(ctx, session, session.databasePath(), database); err != nil {
		return nil, fmt.Errorf("exporting todo database: %w", err)
	}

	return database, nil
}

// ImportDatabase replaces the challenger's todo database.
func (m *Manager) ImportDatabase(ctx context.Context, session *Session, database *openapi.TodoDatabase) error {
	if err := m.put(ctx, session, session.databasePath(), database, http.StatusNoContent); err != nil {
		return fmt.Errorf("importing todo database: %w", err)
	}

	return nil
}

func (m *Manager) get(ctx context.Context, session *Session, path string, out any) error {
	request := client.NewRequest(http.MethodGet, path).
		WithChallenger(session.ID).
		WithAccept(constants.MIMEJSON)

	response, err := m.sender.Send(ctx, request)
	if err != nil {
		return err
	}

	if err := response.ExpectStatus(http.StatusOK); err != nil {
		return err
	}

	return response.Decode(out)
}

func (m *Manager) put(ctx context.Context, session *Session, path string, in any, expected ...int) error {
	request := client.NewRequest(http.MethodPut, path).
		WithChallenger(session.ID).
		WithJSON(in)

	response, err := m.sender.Send(ctx, request)
	if err != nil {
		return err
	}

	return response.ExpectStatus(expected...)
}
