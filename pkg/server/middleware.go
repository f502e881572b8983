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

package server

import (
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nscaledev/apichallenges/pkg/constants"
	"github.com/nscaledev/apichallenges/pkg/server/handler"
	"github.com/nscaledev/apichallenges/pkg/server/store"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// override returns the verb a POST asks to be treated as.
func override(r *http.Request) string {
	if r.Method != http.MethodPost {
		return ""
	}

	return strings.ToUpper(strings.TrimSpace(r.Header.Get(constants.MethodOverrideHeader)))
}

// methodOverride must run before routing.
func methodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if method := override(r); method != "" {
			r = r.WithContext(r.Context())
			r.Method = method
		}

		next.ServeHTTP(w, r)
	})
}

func mediaType(header string) string {
	if header == "" {
		return ""
	}

	t, _, err := mime.ParseMediaType(header)
	if err != nil {
		return header
	}

	return t
}

// observer logs, measures and scores every request.
type observer struct {
	store   *store.Store
	metrics *metrics
}

func (o *observer) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx, outcome := handler.NewOutcomeContext(r.Context())
		r = r.WithContext(ctx)

		// The challenger is echoed, POST /challenger replaces it with a new one.
		if guid := r.Header.Get(constants.ChallengerHeader); guid != "" {
			w.Header().Set(constants.ChallengerHeader, guid)
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		method := r.Method
		overridden := override(r)

		if overridden != "" {
			method = overridden
		}

		route := chi.RouteContext(r.Context()).RoutePattern()

		event := &store.Event{
			Method:       method,
			Route:        route,
			Status:       status,
			Accept:       r.Header.Get("Accept"),
			ContentType:  mediaType(r.Header.Get("Content-Type")),
			ResponseType: mediaType(ww.Header().Get("Content-Type")),
			Override:     overridden,
			Bearer:       strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "),
			Query:        r.URL.RawQuery != "",
			Message:      outcome.Message,
		}

		completed := o.store.Record(ww.Header().Get(constants.ChallengerHeader), event)

		o.metrics.observe(method, route, status, duration, len(completed))

		log := log.FromContext(r.Context())
		log.Info("request", "method", method, "path", r.URL.Path, "route", route, "status", status, "duration", duration)

		if len(completed) != 0 {
			log.V(1).Info("challenges completed", "challenger", ww.Header().Get(constants.ChallengerHeader), "ids", completed)
		}
	})
}
