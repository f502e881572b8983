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

package main

import (
	"github.com/spf13/cobra"

	"github.com/nscaledev/apichallenges/pkg/constants"
	"github.com/nscaledev/apichallenges/pkg/server"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

func serveCmd() *cobra.Command {
	s := server.New()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the service twin",
		Long: `Run an in-process implementation of the todo service.

Every challenger gets a private todo database seeded with the default todos,
and challenge completion is tracked as requests arrive.  Prometheus metrics
are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			log.FromContext(ctx).WithName("init").Info("service starting", "application", constants.Application, "version", constants.Version, "revision", constants.Revision)

			return s.Run(ctx)
		},
	}

	s.Options.AddFlags(cmd.Flags())

	return cmd
}
