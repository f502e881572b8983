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
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nscaledev/apichallenges/pkg/openapi"
	"github.com/nscaledev/apichallenges/pkg/session"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

var (
	errNoChallenger = errors.New("no challenger given and none recorded in the snapshot")
)

// snapshot is what export writes and import reads.
type snapshot struct {
	Progress *openapi.ChallengerProgress `json:"progress"`
	Database *openapi.TodoDatabase       `json:"database,omitempty"`
}

func exportCmd() *cobra.Command {
	var (
		options    clientOptions
		challenger string
		database   bool
		output     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Save a challenger's progress, and optionally its todos, to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			c, err := options.client()
			if err != nil {
				return err
			}

			manager := session.NewManager(c)
			s := &session.Session{ID: challenger}

			var out snapshot

			if out.Progress, err = manager.ExportState(ctx, s); err != nil {
				return fmt.Errorf("exporting state: %w", err)
			}

			if database {
				if out.Database, err = manager.ExportDatabase(ctx, s); err != nil {
					return fmt.Errorf("exporting database: %w", err)
				}
			}

			data, err := json.MarshalIndent(&out, "", "  ")
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}

			if err := os.WriteFile(output, data, 0o600); err != nil {
				return err
			}

			log.FromContext(ctx).Info("state exported", "challenger", challenger, "file", output)

			return nil
		},
	}

	options.addFlags(cmd)

	cmd.Flags().StringVar(&challenger, "challenger", "", "Challenger GUID to export")
	cmd.Flags().BoolVar(&database, "database", false, "Include the todo database")
	cmd.Flags().StringVar(&output, "output", "-", "File to write, - for standard output")

	if err := cmd.MarkFlagRequired("challenger"); err != nil {
		panic(err)
	}

	return cmd
}

func importCmd() *cobra.Command {
	var (
		options    clientOptions
		challenger string
		input      string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Restore a challenger from a file written by export",
		Long: `Restore a challenger from a file written by export.  The challenger is
created if the service doesn't know it.  Progress is restored first so the
database has a challenger to belong to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(input)
			if err != nil {
				return err
			}

			var in snapshot

			if err := json.Unmarshal(data, &in); err != nil {
				return fmt.Errorf("parsing %s: %w", input, err)
			}

			if in.Progress == nil {
				return fmt.Errorf("%s: snapshot has no progress", input)
			}

			if challenger == "" {
				challenger = in.Progress.XChallenger
			}

			if challenger == "" {
				return errNoChallenger
			}

			in.Progress.XChallenger = challenger

			c, err := options.client()
			if err != nil {
				return err
			}

			manager := session.NewManager(c)
			s := &session.Session{ID: challenger}

			if err := manager.ImportState(ctx, s, in.Progress); err != nil {
				return fmt.Errorf("importing state: %w", err)
			}

			if in.Database != nil {
				if err := manager.ImportDatabase(ctx, s, in.Database); err != nil {
					return fmt.Errorf("importing database: %w", err)
				}
			}

			log.FromContext(ctx).Info("state imported", "challenger", challenger, "file", input)

			return nil
		},
	}

	options.addFlags(cmd)

	cmd.Flags().StringVar(&challenger, "challenger", "", "Challenger GUID to restore as, defaults to the one in the file")
	cmd.Flags().StringVar(&input, "input", "", "File written by export")

	if err := cmd.MarkFlagRequired("input"); err != nil {
		panic(err)
	}

	return cmd
}
