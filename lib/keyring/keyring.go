// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keyring

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/binx/lib/sealed"
	"github.com/bureau-foundation/binx/lib/secret"
)

// SecretBytes is the amount of randomness in a generated secret.
const SecretBytes = 32

// Keyring maps kids to secrets.
type Keyring struct {
	// Active is the kid used for encryption, if set.
	Active *int `yaml:"active,omitempty"`

	// Keys maps each kid to its secret.
	Keys map[int]string `yaml:"keys"`
}

// Parse decodes and validates a YAML keyring.
func Parse(data []byte) (*Keyring, error) {
	var keyring Keyring
	if err := yaml.Unmarshal(data, &keyring); err != nil {
		return nil, fmt.Errorf("parsing keyring: %w", err)
	}
	if err := keyring.Validate(); err != nil {
		return nil, err
	}
	return &keyring, nil
}

// Load reads a keyring file. When identityPath is non-empty the file
// is an age-sealed keyring opened with that identity file.
func Load(path, identityPath string) (*Keyring, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keyring: %w", err)
	}
	if identityPath == "" {
		return Parse(data)
	}

	identity, err := secret.ReadFromPath(identityPath)
	if err != nil {
		return nil, fmt.Errorf("reading identity: %w", err)
	}
	defer identity.Close()

	plaintext, err := sealed.Open(data, identity)
	if err != nil {
		return nil, fmt.Errorf("opening sealed keyring %s: %w", path, err)
	}
	defer plaintext.Close()

	return Parse(plaintext.Bytes())
}

// Validate checks kid ranges, secrets and the active kid.
func (k *Keyring) Validate() error {
	if len(k.Keys) == 0 {
		return errors.New("keyring has no keys")
	}
	var errs []error
	for _, kid := range k.KIDs() {
		if kid < 0 || kid > 255 {
			errs = append(errs, fmt.Errorf("kid %d is outside 0-255", kid))
		}
		if k.Keys[kid] == "" {
			errs = append(errs, fmt.Errorf("kid %d has an empty secret", kid))
		}
	}
	if k.Active != nil {
		if _, ok := k.Keys[*k.Active]; !ok {
			errs = append(errs, fmt.Errorf("active kid %d is not in the keyring", *k.Active))
		}
	}
	return errors.Join(errs...)
}

// KIDs returns the kids in ascending order.
func (k *Keyring) KIDs() []int {
	kids := make([]int, 0, len(k.Keys))
	for kid := range k.Keys {
		kids = append(kids, kid)
	}
	slices.Sort(kids)
	return kids
}

// KeyMap returns a copy of the kid-to-secret map.
func (k *Keyring) KeyMap() map[int]string {
	keyMap := make(map[int]string, len(k.Keys))
	for kid, material := range k.Keys {
		keyMap[kid] = material
	}
	return keyMap
}

// Secret returns the secret for kid.
func (k *Keyring) Secret(kid int) (string, bool) {
	material, ok := k.Keys[kid]
	return material, ok
}

// ActiveKey returns the kid and secret used for encryption: the active
// kid if set, otherwise the only key in a single-key keyring.
func (k *Keyring) ActiveKey() (int, string, error) {
	if k.Active != nil {
		material, ok := k.Keys[*k.Active]
		if !ok {
			return 0, "", fmt.Errorf("active kid %d is not in the keyring", *k.Active)
		}
		return *k.Active, material, nil
	}
	if len(k.Keys) == 1 {
		kid := k.KIDs()[0]
		return kid, k.Keys[kid], nil
	}
	return 0, "", fmt.Errorf("keyring has %d keys and no active kid", len(k.Keys))
}

// Add inserts a freshly generated secret under kid and makes it active.
func (k *Keyring) Add(kid int, random io.Reader) error {
	if kid < 0 || kid > 255 {
		return fmt.Errorf("kid %d is outside 0-255", kid)
	}
	if _, exists := k.Keys[kid]; exists {
		return fmt.Errorf("kid %d already exists", kid)
	}
	material, err := NewSecret(random)
	if err != nil {
		return err
	}
	if k.Keys == nil {
		k.Keys = make(map[int]string)
	}
	k.Keys[kid] = material
	k.Active = &kid
	return nil
}

// Marshal encodes the keyring as YAML with kids in ascending order.
func (k *Keyring) Marshal() ([]byte, error) {
	return yaml.Marshal(k)
}

// NewSecret returns SecretBytes of randomness as unpadded base64url
// text. A nil random means crypto/rand.
func NewSecret(random io.Reader) (string, error) {
	if random == nil {
		random = rand.Reader
	}
	material := make([]byte, SecretBytes)
	if _, err := io.ReadFull(random, material); err != nil {
		return "", fmt.Errorf("generating secret: %w", err)
	}
	defer secret.Zero(material)
	return base64.RawURLEncoding.EncodeToString(material), nil
}
