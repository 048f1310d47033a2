package crawlstat

import "time"

// DefaultSeeds are the start pages of the academic crawl.
var DefaultSeeds = []string{
	"https://www.ics.uci.edu",
	"https://www.cs.uci.edu",
	"https://www.informatics.uci.edu",
	"https://www.stat.uci.edu",
}

// Config holds crawl settings loaded from a config file. Zero values mean
// "use the default" and are filled in by Defaults.
type Config struct {
	Seeds []string `yaml:"seeds"`
	Scope Scope    `yaml:"scope"`

	// BlockedHosts are extra host fragments rejected by the filter.
	BlockedHosts []string `yaml:"blocked_hosts"`
	// BlockedExtensions replace the default blocked file extensions.
	BlockedExtensions []string `yaml:"blocked_extensions"`
	MaxURLLength      int      `yaml:"max_url_length"`

	UserAgent   string        `yaml:"user_agent"`
	Delay       time.Duration `yaml:"delay"`
	Concurrency int           `yaml:"concurrency"`
	MaxPages    int           `yaml:"max_pages"`

	Stopwords string `yaml:"stopwords"`
	Snapshot  string `yaml:"snapshot"`
	Database  string `yaml:"database"`
}

// Validate returns an error if the configuration contains invalid data.
func (c *Config) Validate() error {
	if c.Delay < 0 {
		return Errorf(EINVALID, "delay must not be negative")
	}
	if c.Concurrency < 0 {
		return Errorf(EINVALID, "concurrency must not be negative")
	}
	if c.MaxPages < 0 {
		return Errorf(EINVALID, "max_pages must not be negative")
	}
	if c.MaxURLLength < 0 {
		return Errorf(EINVALID, "max_url_length must not be negative")
	}
	return nil
}

// Defaults fills unset fields with the academic crawl defaults.
func (c *Config) Defaults() {
	if len(c.Seeds) == 0 {
		c.Seeds = append([]string{}, DefaultSeeds...)
	}
	if len(c.Scope) == 0 {
		c.Scope = append(Scope{}, DefaultScope...)
	}
}
