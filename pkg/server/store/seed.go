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

package store

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrSeed = errors.New("invalid seed data")
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the initial state given to every challenger, and the challenge
// catalogue.
type Seed struct {
	Todos      []Todo      `yaml:"todos"`
	Challenges []Challenge `yaml:"challenges"`
}

// DefaultSeed returns the built in seed.
func DefaultSeed() (*Seed, error) {
	return LoadSeed(defaultSeed)
}

// LoadSeedFile reads a seed from disk.
func LoadSeedFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return LoadSeed(data)
}

// LoadSeed parses and checks a YAML seed.
func LoadSeed(data []byte) (*Seed, error) {
	seed := &Seed{}

	if err := yaml.Unmarshal(data, seed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSeed, err)
	}

	todoIDs := map[int]bool{}

	for _, todo := range seed.Todos {
		if todo.ID <= 0 || todoIDs[todo.ID] {
			return nil, fmt.Errorf("%w: todo ID %d invalid or duplicated", ErrSeed, todo.ID)
		}

		if messages := validate(&Fields{Title: &todo.Title, Description: &todo.Description}, true); len(messages) != 0 {
			return nil, fmt.Errorf("%w: todo %d: %v", ErrSeed, todo.ID, messages)
		}

		todoIDs[todo.ID] = true
	}

	challengeIDs := map[string]bool{}

	for _, challenge := range seed.Challenges {
		if challenge.ID == "" || challengeIDs[challenge.ID] {
			return nil, fmt.Errorf("%w: challenge ID %q empty or duplicated", ErrSeed, challenge.ID)
		}

		switch challenge.Match.When {
		case "", whenEmpty, whenFull:
		default:
			return nil, fmt.Errorf("%w: challenge %s: unknown condition %q", ErrSeed, challenge.ID, challenge.Match.When)
		}

		challengeIDs[challenge.ID] = true
	}

	return seed, nil
}
