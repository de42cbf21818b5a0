package github

import (
	gh "github.com/google/go-github/v80/github"
)

// pageNumber maps a zero-based page index onto GitHub's one-based page
// parameter.
func pageNumber(index uint32) int {
	return int(index) + 1
}

// totalPages derives the page count from the Link header of the response
// for page index. GitHub omits rel="last" on the final page, in which case
// the current page is the last one.
func totalPages(resp *gh.Response, index uint32) uint32 {
	if resp != nil && resp.LastPage > 0 {
		return uint32(resp.LastPage) //nolint:gosec // page counts are small and positive
	}
	if resp != nil && resp.NextPage > 0 {
		return index + 2
	}
	return index + 1
}
