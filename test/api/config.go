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

package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/nscaledev/apichallenges/pkg/constants"
	"github.com/nscaledev/apichallenges/pkg/session"
)

var (
	ErrConfig = errors.New("invalid test configuration")
)

type TestConfig struct {
	// BaseURL is the service under test, empty runs the suites against
	// the in-process twin.
	BaseURL            string
	Challenger         string
	AuthToken          string
	AuthScheme         session.Scheme
	Credentials        session.Credentials
	RequestTimeout     time.Duration
	TestTimeout        time.Duration
	TodoLimit          int
	ChallengeCount     int
	InvalidTokenStatus int
	ValidateResponses  bool
	DebugLogging       bool
	LogRequests        bool
	LogResponses       bool
}

// UseTwin tells whether no live service is configured.
func (c *TestConfig) UseTwin() bool {
	return c.BaseURL == ""
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Every problem found is reported in the returned error.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	var errs []error

	config := &TestConfig{
		BaseURL:            os.Getenv("API_BASE_URL"),
		Challenger:         os.Getenv("API_CHALLENGER"),
		AuthToken:          os.Getenv("API_AUTH_TOKEN"),
		AuthScheme:         session.SchemeHeader,
		Credentials:        session.Credentials{Username: getWithDefault("AUTH_USERNAME", "admin"), Password: getWithDefault("AUTH_PASSWORD", "password")},
		RequestTimeout:     getDurationWithDefault("REQUEST_TIMEOUT", 30*time.Second, &errs),
		TestTimeout:        getDurationWithDefault("TEST_TIMEOUT", 5*time.Minute, &errs),
		TodoLimit:          getIntWithDefault("TODO_LIMIT", constants.DefaultTodoLimit, &errs),
		ChallengeCount:     getIntWithDefault("CHALLENGE_COUNT", constants.ChallengeCount, &errs),
		InvalidTokenStatus: getIntWithDefault("INVALID_TOKEN_STATUS", http.StatusForbidden, &errs),
		ValidateResponses:  getBoolWithDefault("VALIDATE_RESPONSES", true),
		DebugLogging:       getBoolWithDefault("DEBUG_LOGGING", false),
		LogRequests:        getBoolWithDefault("LOG_REQUESTS", false),
		LogResponses:       getBoolWithDefault("LOG_RESPONSES", false),
	}

	if value := os.Getenv("API_AUTH_SCHEME"); value != "" {
		scheme, err := session.ParseScheme(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("API_AUTH_SCHEME: %w", err))
		}

		config.AuthScheme = scheme
	}

	errs = append(errs, validate(config)...)

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrConfig, errors.Join(errs...))
	}

	return config, nil
}

func getWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func getDurationWithDefault(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}

	return duration
}

func getIntWithDefault(key string, defaultValue int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	i, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}

	return i
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func loadEnvFile() {
	envPaths := []string{
		"../../.env",    // From test/api directory
		"../../../.env", // From test/api/suites directory
	}

	var envPath string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}

// validate checks values that parsed but make no sense.
func validate(config *TestConfig) []error {
	var errs []error

	if config.BaseURL != "" {
		u, err := url.Parse(config.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("API_BASE_URL: %q is not an http(s) URL", config.BaseURL))
		}
	}

	if config.InvalidTokenStatus != http.StatusUnauthorized && config.InvalidTokenStatus != http.StatusForbidden {
		errs = append(errs, fmt.Errorf("INVALID_TOKEN_STATUS: must be 401 or 403, got %d", config.InvalidTokenStatus))
	}

	if config.TodoLimit <= 0 {
		errs = append(errs, fmt.Errorf("TODO_LIMIT: must be positive, got %d", config.TodoLimit))
	}

	if config.ChallengeCount <= 0 {
		errs = append(errs, fmt.Errorf("CHALLENGE_COUNT: must be positive, got %d", config.ChallengeCount))
	}

	if config.AuthToken != "" && config.Challenger == "" {
		errs = append(errs, errors.New("API_AUTH_TOKEN: only meaningful with API_CHALLENGER"))
	}

	if config.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT: must be positive"))
	}

	return errs
}
