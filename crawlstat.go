// Package crawlstat provides the page-processing core of a focused web
// crawler. For each fetched page it extracts and normalizes outbound links,
// filters them against a fixed academic scope and a set of crawl-trap
// heuristics, and accumulates crawl-wide statistics for a post-crawl report.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, robotstxt/).
package crawlstat
