package policy

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML policy file and returns the policy with its raw bytes
// KnownFields(true): 오타/미사용 필드 즉시 실패
func Load(path string) (*Policy, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read policy %s: %w", path, err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, data, err
	}
	return p, data, nil
}

// Parse decodes and validates a YAML policy document
func Parse(data []byte) (*Policy, error) {
	var p Policy
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode policy: %w", err)
	}

	if err := Validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadOrDefault loads path, or returns Default() when path is empty
func LoadOrDefault(path string) (*Policy, error) {
	if path == "" {
		return Default(), nil
	}
	p, _, err := Load(path)
	return p, err
}

// Hash generates SHA256 hash from Policy (canonical JSON)
// 주의: map 대신 struct 사용으로 해시 재현성 보장
func Hash(p *Policy) (string, error) {
	jsonBytes, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// NormalizeLotType lowercases and joins words with underscores ("Structural Work" → "structural_work")
func NormalizeLotType(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}
