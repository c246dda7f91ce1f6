package profile

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// Default returns the built-in profile
func Default() *Profile {
	var p Profile
	if err := defaults.Set(&p); err != nil {
		panic(fmt.Sprintf("profile defaults: %v", err))
	}
	return &p
}

// Load reads a YAML profile over the defaults. An empty path yields Default().
// ⭐ SSOT: KnownFields(true) so typos fail instead of being ignored
func Load(path string) (*Profile, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes over the defaults and validates the result
func Parse(data []byte) (*Profile, error) {
	p := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Hash is the SHA-256 of the canonical JSON form, printed next to every analysis
func Hash(p *Profile) (string, error) {
	jsonBytes, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
