// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/binx/cmd/binx/cli"
	"github.com/bureau-foundation/binx/lib/config"
	"github.com/bureau-foundation/binx/lib/keyring"
	"github.com/bureau-foundation/binx/lib/secret"
)

// kidFlag is an optional kid: unset means "from config" when
// encrypting and "from the envelope header" when decrypting.
type kidFlag struct {
	value int
	set   bool
}

func (k *kidFlag) String() string {
	if !k.set {
		return ""
	}
	return strconv.Itoa(k.value)
}

func (k *kidFlag) Set(text string) error {
	value, err := strconv.Atoi(text)
	if err != nil || value < 0 || value > 255 {
		return fmt.Errorf("kid must be an integer in range 0-255")
	}
	k.value = value
	k.set = true
	return nil
}

func (k *kidFlag) Type() string { return "kid" }

// keyFlags selects the secret or keyring a command uses.
type keyFlags struct {
	key       string
	keyFile   string
	keyPrompt bool
	keyring   string
	identity  string
	kid       kidFlag
}

func (k *keyFlags) register(flagSet *pflag.FlagSet) {
	k.kid = kidFlag{}
	flagSet.StringVar(&k.key, "key", "", "secret given directly (visible in process listings; prefer --key-file)")
	flagSet.StringVar(&k.keyFile, "key-file", "", "read the secret from a file (- for stdin)")
	flagSet.BoolVar(&k.keyPrompt, "key-prompt", false, "prompt for the secret without echo")
	flagSet.StringVar(&k.keyring, "keyring", "", "YAML keyring mapping kids to secrets")
	flagSet.StringVar(&k.identity, "identity", "", "age identity file that opens a sealed keyring")
	flagSet.Var(&k.kid, "kid", "key identifier 0-255")
}

// given reports whether a key source was given on the command line.
func (k *keyFlags) given() bool {
	return k.key != "" || k.keyFile != "" || k.keyPrompt || k.keyring != ""
}

// single returns the secret from --key, --key-file or --key-prompt.
// ok is false when none of them was given.
func (k *keyFlags) single(a *app) (material string, ok bool, err error) {
	sources := 0
	for _, given := range []bool{k.key != "", k.keyFile != "", k.keyPrompt, k.keyring != ""} {
		if given {
			sources++
		}
	}
	if sources > 1 {
		return "", false, cli.Validation("--key, --key-file, --key-prompt and --keyring are mutually exclusive")
	}

	switch {
	case k.key != "":
		return k.key, true, nil
	case k.keyFile != "":
		material, err := readKeyFile(a, k.keyFile)
		if err != nil {
			return "", false, err
		}
		return material, true, nil
	case k.keyPrompt:
		line, err := a.readPassword("Secret: ")
		if err != nil {
			return "", false, fmt.Errorf("reading secret: %w", err)
		}
		defer secret.Zero(line)
		if len(line) == 0 {
			return "", false, cli.Validation("empty secret")
		}
		return string(line), true, nil
	}
	return "", false, nil
}

// maxKeyFileBytes bounds --key-file.
const maxKeyFileBytes = 64 << 10

// readKeyFile returns the secret in path, or on stdin for "-", with
// surrounding whitespace trimmed. The binx API takes secrets as
// strings, so the result is an ordinary heap string; only the raw read
// is zeroed.
func readKeyFile(a *app, path string) (string, error) {
	source := a.stdin
	if path != "-" {
		file, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			return "", cli.NotFound("key file %s does not exist", path)
		}
		if err != nil {
			return "", fmt.Errorf("opening --key-file: %w", err)
		}
		defer file.Close()
		source = file
	}

	data, err := io.ReadAll(io.LimitReader(source, maxKeyFileBytes+1))
	defer secret.Zero(data)
	if err != nil {
		return "", fmt.Errorf("reading --key-file: %w", err)
	}
	if len(data) > maxKeyFileBytes {
		return "", cli.Validation("--key-file exceeds %d bytes", maxKeyFileBytes)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return "", cli.Validation("--key-file %s is empty", path)
	}
	return string(trimmed), nil
}

// loadKeyring opens --keyring, or the keyring named in the config.
// It returns nil when neither names one.
func (k *keyFlags) loadKeyring(cfg *config.Config) (*keyring.Keyring, error) {
	path, identity := cfg.Keyring.Path, cfg.Keyring.Identity
	if k.keyring != "" {
		path, identity = k.keyring, ""
	}
	if k.identity != "" {
		identity = k.identity
	}
	if path == "" {
		return nil, nil
	}
	ring, err := keyring.Load(path, identity)
	if err != nil {
		return nil, err
	}
	return ring, nil
}

// encryptionKey returns the kid and secret to seal with.
func (k *keyFlags) encryptionKey(a *app, cfg *config.Config) (int, string, error) {
	material, ok, err := k.single(a)
	if err != nil {
		return 0, "", err
	}
	if ok {
		if k.kid.set {
			return k.kid.value, material, nil
		}
		return cfg.Defaults.KID, material, nil
	}

	ring, err := k.loadKeyring(cfg)
	if err != nil {
		return 0, "", err
	}
	if ring == nil {
		return 0, "", cli.Validation("no key given: use --key, --key-file, --key-prompt or --keyring")
	}
	if k.kid.set {
		material, ok := ring.Secret(k.kid.value)
		if !ok {
			return 0, "", cli.NotFound("kid %d is not in the keyring", k.kid.value)
		}
		return k.kid.value, material, nil
	}
	return ring.ActiveKey()
}

// decryptionKeys returns the key map to open with. A single secret is
// filed under --kid, or under headerKID when --kid is not given.
func (k *keyFlags) decryptionKeys(a *app, cfg *config.Config, headerKID func() int) (map[int]string, error) {
	material, ok, err := k.single(a)
	if err != nil {
		return nil, err
	}
	if ok {
		kid := headerKID()
		if k.kid.set {
			kid = k.kid.value
		}
		return map[int]string{kid: material}, nil
	}

	ring, err := k.loadKeyring(cfg)
	if err != nil {
		return nil, err
	}
	if ring == nil {
		return nil, cli.Validation("no key given: use --key, --key-file, --key-prompt or --keyring")
	}
	keyMap := ring.KeyMap()
	if k.kid.set {
		material, ok := keyMap[k.kid.value]
		if !ok {
			return nil, cli.NotFound("kid %d is not in the keyring", k.kid.value)
		}
		keyMap = map[int]string{k.kid.value: material}
	}
	return keyMap, nil
}
