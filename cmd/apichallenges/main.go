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
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nscaledev/apichallenges/pkg/client"
	"github.com/nscaledev/apichallenges/pkg/constants"
	"github.com/nscaledev/apichallenges/pkg/openapi"

	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/controller-runtime/pkg/manager/signals"
)

// clientOptions are shared by commands that talk to a running service.
type clientOptions struct {
	baseURL  string
	timeout  time.Duration
	validate bool
}

func (o *clientOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.baseURL, "base-url", "http://localhost:4567", "Base URL of the service")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 30*time.Second, "Per request timeout")
	cmd.Flags().BoolVar(&o.validate, "validate", true, "Check JSON responses against the published schema")
}

func (o *clientOptions) client() (*client.Client, error) {
	options := &client.Options{
		Timeout: o.timeout,
	}

	if o.validate {
		validator, err := openapi.NewValidator()
		if err != nil {
			return nil, err
		}

		options.Validator = validator
	}

	return client.New(o.baseURL, options)
}

func main() {
	var zapOptions zap.Options

	goflags := flag.NewFlagSet(constants.Application, flag.ExitOnError)
	zapOptions.BindFlags(goflags)

	root := &cobra.Command{
		Use:           constants.Application,
		Short:         "Contract tests and service twin for the API challenges todo service",
		Version:       constants.VersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger := zap.New(zap.UseFlagOptions(&zapOptions))
			log.SetLogger(logger)

			// Only one command runs, so the handler is installed once.
			cmd.SetContext(log.IntoContext(signals.SetupSignalHandler(), logger))
		},
	}

	root.PersistentFlags().AddGoFlagSet(goflags)

	root.AddCommand(
		serveCmd(),
		sessionCmd(),
		exportCmd(),
		importCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
