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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nscaledev/apichallenges/pkg/session"
)

func sessionCmd() *cobra.Command {
	var (
		options     clientOptions
		credentials session.Credentials
		schemeName  string
	)

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Open a session and acquire a secret note token",
		Long: `Open a session against a running service and acquire a token for the
secret note endpoints.  The output is in dotenv format so it can be appended
to test/.env to make the suites reuse the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			scheme, err := session.ParseScheme(schemeName)
			if err != nil {
				return err
			}

			c, err := options.client()
			if err != nil {
				return err
			}

			manager := session.NewManager(c)

			s, err := manager.OpenSession(ctx)
			if err != nil {
				return fmt.Errorf("opening session: %w", err)
			}

			token, err := manager.AcquireAuthToken(ctx, s, credentials, scheme)
			if err != nil {
				return fmt.Errorf("acquiring token: %w", err)
			}

			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "API_BASE_URL=%s\n", c.BaseURL())
			fmt.Fprintf(out, "API_CHALLENGER=%s\n", s.ID)
			fmt.Fprintf(out, "API_AUTH_TOKEN=%s\n", token.Value)
			fmt.Fprintf(out, "API_AUTH_SCHEME=%s\n", token.Scheme)

			return nil
		},
	}

	options.addFlags(cmd)

	cmd.Flags().StringVar(&credentials.Username, "username", "admin", "Username for the token exchange")
	cmd.Flags().StringVar(&credentials.Password, "password", "password", "Password for the token exchange")
	cmd.Flags().StringVar(&schemeName, "scheme", string(session.SchemeHeader), "How the token is presented, header or bearer")

	return cmd
}
