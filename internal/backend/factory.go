// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"mealtrack/cli/internal/endpoints"
)

// New creates the HTTP-backed API client for the given base URL and
// endpoint table.
func New(baseURL string, paths endpoints.Table) API {
	return newHTTP(baseURL, paths)
}
