package main

import (
	"fmt"

	"github.com/fwojciec/crawlstat/crawl"
)

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	filter := newFilter(deps.Config)
	for _, raw := range c.URLs {
		v := crawl.NormalizeLink(raw, raw)
		if v.Accepted() {
			v = filter.Check(v.URL)
		}
		if v.Accepted() {
			fmt.Fprintf(deps.Stdout, "ok      %s\n", v.URL)
			continue
		}
		fmt.Fprintf(deps.Stdout, "reject  %s (%s)\n", raw, v.Reason)
	}
	return nil
}
