package sieve

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config mirrors the YAML options file for building a sieve:
//
//	compression: 6
//	max_value: 1000000000
//	reference_file: /data/primes_till_4000000000
//
// compression 0 means DefaultCompression. reference_file is optional and
// only consulted by debug verification.
type Config struct {
	Compression   int    `yaml:"compression"`
	MaxValue      uint64 `yaml:"max_value"`
	ReferenceFile string `yaml:"reference_file"`
}

// Source is the streaming surface a built sieve exposes, independent of the
// grid word width the configuration selected.
type Source interface {
	Reset()
	NextPrime() (uint64, error)
	MakeVector() []uint64
	Count() uint64
	MaxValue() uint64
	IsPrime(n uint64) bool
}

// LoadConfig reads and parses the YAML options file at path. Environment
// variables in the file are expanded, and decoding runs in strict mode
// (KnownFields) so typos fail loudly instead of being ignored.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read configuration file '%s': %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))

	var config Config
	decoder := yaml.NewDecoder(strings.NewReader(expanded))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("YAML syntax error in '%s': %w", path, err)
	}

	return &config, nil
}

// Open validates the configuration and builds the sieve, choosing the word
// width that fits the wheel: 8-bit words for compressions 3-5, 64-bit words
// for compressions 6-7.
func (c *Config) Open() (Source, error) {
	compression := c.Compression
	if compression == 0 {
		compression = DefaultCompression
	}
	if c.MaxValue == 0 {
		return nil, fmt.Errorf("sieve: config is missing max_value")
	}

	switch compression {
	case 3, 4, 5:
		return NewCompressed[uint8](c.MaxValue, compression)
	case 6, 7:
		return NewCompressed[uint64](c.MaxValue, compression)
	default:
		return nil, fmt.Errorf("sieve: no word width fits compression %d (want 3..7)", compression)
	}
}
