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
	"github.com/spf13/pflag"

	"github.com/nscaledev/apichallenges/pkg/constants"
)

// Options control handler behaviour.
type Options struct {
	// AuthUsername and AuthPassword are the only credentials that
	// /secret/token accepts.
	AuthUsername string
	AuthPassword string

	// MaxBodyBytes is the largest write body accepted.
	MaxBodyBytes int64
}

func (o *Options) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&o.AuthUsername, "auth-username", "admin", "Username accepted by /secret/token")
	f.StringVar(&o.AuthPassword, "auth-password", "password", "Password accepted by /secret/token")
	f.Int64Var(&o.MaxBodyBytes, "max-body-bytes", constants.DefaultMaxBodyBytes, "Largest request body accepted before answering 413")
}

// DefaultOptions are what the flags default to, for in-process use.
func DefaultOptions() *Options {
	return &Options{
		AuthUsername: "admin",
		AuthPassword: "password",
		MaxBodyBytes: constants.DefaultMaxBodyBytes,
	}
}
