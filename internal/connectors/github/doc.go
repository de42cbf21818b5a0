// Package github implements the issue tracker source for a single GitHub
// repository.
//
// # Architecture
//
// The package satisfies [driven.Tracker] and [driven.PagedSource]. It
// comprises the following components:
//
//   - Tracker: opens watermark-filtered listings over one repository
//   - IssueSource: fetches listing pages and flattened comment threads
//   - Client: handles GitHub API communication with rate limiting
//   - Config: validated connection settings
//
// # Listing Order
//
// Issues are listed with state=all, sorted by update time ascending, so a
// run that stops early has committed a prefix of the timeline. The since
// filter is inclusive: the issue at the watermark is listed again on the
// next run.
//
// Pull requests are returned by the issues endpoint too. They are marked on
// the summary and filtered by the caller when excluded.
//
// # Authentication
//
// Requests carry a personal access token (classic or fine-grained) through
// an oauth2 static token source. Read access to issues is sufficient.
//
// # Rate Limiting
//
// Every API call first sleeps a fixed politeness delay, then passes a
// token bucket sized to the authenticated hourly quota. Rate limit headers
// are tracked from every response, and when fewer than MinBuffer requests
// remain the next call waits for the window to reset.
//
// Offset pagination over a moving sort key can skip an issue that is
// updated while a run is in progress; the next run picks it up.
package github
