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
	"errors"
	"fmt"
	"time"

	"github.com/nscaledev/apichallenges/pkg/client"
	"github.com/nscaledev/apichallenges/pkg/constants"
)

var (
	ErrScheme = errors.New("unknown token scheme")
)

// Session identifies one run against the service.
type Session struct {
	ID        string
	CreatedAt time.Time
}

func (s *Session) statePath() string {
	return constants.ChallengerPath + "/" + s.ID
}

func (s *Session) databasePath() string {
	return constants.ChallengerDatabasePath + "/" + s.ID
}

// Scheme is how a token is presented on later requests.
type Scheme string

const (
	// SchemeHeader presents the token in X-Auth-Token.
	SchemeHeader Scheme = "header"
	// SchemeBearer presents the token as Authorization: Bearer.
	SchemeBearer Scheme = "bearer"
)

// ParseScheme validates a scheme name from flags or configuration.
func ParseScheme(s string) (Scheme, error) {
	switch scheme := Scheme(s); scheme {
	case SchemeHeader, SchemeBearer:
		return scheme, nil
	}

	return "", fmt.Errorf("%w: %q", ErrScheme, s)
}

// Acquisition records how a token was obtained.
type Acquisition string

const (
	AcquisitionBasic Acquisition = "basic-credential-exchange"
)

// AuthToken grants access to the secret note.
type AuthToken struct {
	Value       string
	Scheme      Scheme
	Acquisition Acquisition
	AcquiredAt  time.Time
}

// Present attaches the token to a request according to its scheme.
func (t *AuthToken) Present(request *client.Request) *client.Request {
	if t.Scheme == SchemeBearer {
		return request.WithHeader("Authorization", "Bearer "+t.Value)
	}

	return request.WithHeader(constants.AuthTokenHeader, t.Value)
}

// Credentials are exchanged for a token with HTTP basic authentication.
type Credentials struct {
	Username string
	Password string
}

// RunContext is handed to every scenario explicitly, nothing about the
// session lives in package state.
type RunContext struct {
	Session *Session
	// Token is optional, only authenticated scenarios carry one.
	Token *AuthToken
}

// Request starts a request bound to the session.
func (r *RunContext) Request(method, path string) *client.Request {
	request := client.NewRequest(method, path)

	if r.Session != nil {
		request.WithChallenger(r.Session.ID)
	}

	return request
}

// AuthorizedRequest is Request with the token presented.
func (r *RunContext) AuthorizedRequest(method, path string) *client.Request {
	request := r.Request(method, path)

	if r.Token != nil {
		r.Token.Present(request)
	}

	return request
}

// WithToken returns a copy of the context carrying the given token.
func (r *RunContext) WithToken(token *AuthToken) *RunContext {
	out := *r
	out.Token = token

	return &out
}
