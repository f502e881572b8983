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
	"time"

	"github.com/spf13/pflag"

	"github.com/nscaledev/apichallenges/pkg/constants"
	"github.com/nscaledev/apichallenges/pkg/server/handler"
)

// Options configure the twin.
type Options struct {
	// ListenAddress is where the HTTP server binds.
	ListenAddress string

	// ReadTimeout and WriteTimeout bound a single request.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// TodoLimit caps each challenger's todos.
	TodoLimit int

	// SeedFile replaces the built in seed when set.
	SeedFile string

	Handler handler.Options
}

func (o *Options) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&o.ListenAddress, "listen-address", ":4567", "API listener address")
	f.DurationVar(&o.ReadTimeout, "read-timeout", time.Second, "How long to wait for the client to send the request body")
	f.DurationVar(&o.WriteTimeout, "write-timeout", 10*time.Second, "How long to wait for the API to respond to the client")
	f.IntVar(&o.TodoLimit, "todo-limit", constants.DefaultTodoLimit, "Maximum todos a challenger may hold")
	f.StringVar(&o.SeedFile, "seed-file", "", "YAML file of default todos and challenges, empty uses the built in set")

	o.Handler.AddFlags(f)
}

// DefaultOptions match the flag defaults, for in-process use.
func DefaultOptions() *Options {
	return &Options{
		ListenAddress: ":4567",
		ReadTimeout:   time.Second,
		WriteTimeout:  10 * time.Second,
		TodoLimit:     constants.DefaultTodoLimit,
		Handler:       *handler.DefaultOptions(),
	}
}
