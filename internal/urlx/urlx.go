// Copyright 2025 The Rundistro Authors
// SPDX-License-Identifier: Apache-2.0

// Package urlx provides small net/url helpers.
package urlx

import "net/url"

// MustParse calls url.Parse and panics on error. Intended for URL constants.
func MustParse(rawURL string) *url.URL {
	u, err := url.Parse(rawURL)
	if err != nil {
		panic(err)
	}
	return u
}
