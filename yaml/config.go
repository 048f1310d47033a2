// Package yaml loads crawl configuration files using gopkg.in/yaml.v3.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/fwojciec/crawlstat"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads and validates the config file at path. Unknown keys are
// rejected so typos surface as errors instead of silently using defaults.
func LoadConfig(path string) (*crawlstat.Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, crawlstat.Errorf(crawlstat.ECONFIG, "config file not found: %s", path)
	} else if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML config data.
func ParseConfig(data []byte) (*crawlstat.Config, error) {
	var cfg crawlstat.Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, crawlstat.Errorf(crawlstat.ECONFIG, "invalid config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
