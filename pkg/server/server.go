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

// Package server is an in-process twin of the apichallenges service.  It is
// what the suites run against when no live service is configured.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nscaledev/apichallenges/pkg/constants"
	"github.com/nscaledev/apichallenges/pkg/server/handler"
	"github.com/nscaledev/apichallenges/pkg/server/store"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

type Server struct {
	// Options are exposed so they can be bound to flags.
	Options Options

	store   *store.Store
	metrics *metrics
}

// New creates a server with default options, call AddFlags on the options
// to override them.
func New() *Server {
	return &Server{
		Options: *DefaultOptions(),
	}
}

// Handler builds the HTTP handler, loading seed data on first use.
func (s *Server) Handler() (http.Handler, error) {
	if s.store == nil {
		seed, err := s.loadSeed()
		if err != nil {
			return nil, err
		}

		s.store = store.New(seed, s.Options.TodoLimit)
		s.metrics = newMetrics()
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use((&observer{store: s.store, metrics: s.metrics}).middleware)
	router.Use(methodOverride)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handler.HandleError(w, r, handler.HTTPNotFound("Could not find a route for "+r.URL.Path))
	})

	router.Method(http.MethodGet, "/metrics", s.metrics.handler())

	routes(router, handler.New(s.store, &s.Options.Handler))

	return router, nil
}

func (s *Server) loadSeed() (*store.Seed, error) {
	if s.Options.SeedFile == "" {
		return store.DefaultSeed()
	}

	seed, err := store.LoadSeedFile(s.Options.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("loading seed file: %w", err)
	}

	return seed, nil
}

// Run serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	log := log.FromContext(ctx)

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              s.Options.ListenAddress,
		ReadTimeout:       s.Options.ReadTimeout,
		ReadHeaderTimeout: s.Options.ReadTimeout,
		WriteTimeout:      s.Options.WriteTimeout,
		Handler:           handler,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error(err, "server shutdown failed")
		}
	}()

	log.Info("server listening", "address", s.Options.ListenAddress, "version", constants.VersionString())

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
