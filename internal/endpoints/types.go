// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package endpoints handles backend endpoint configuration.
package endpoints

import "strings"

// Table contains the REST API endpoint paths, relative to the base URL.
type Table struct {
	Login      string // POST credentials, returns access token + user
	Register   string // POST new account
	Me         string // GET/PUT profile of the authenticated account
	Food       string // GET a food item by id (path parameter appended)
	FoodSearch string // GET food items matching a query
	FoodLog    string // POST a food log entry; DELETE by id (path parameter appended)
	FoodLogs   string // GET food log history
	Summary    string // GET aggregated nutrition statistics
	Health     string // GET service liveness and version
}

// Defaults returns the path table of the current API surface.
func Defaults() Table {
	return Table{
		Login:      "/auth/login",
		Register:   "/auth/register",
		Me:         "/users/me",
		Food:       "/food",
		FoodSearch: "/food/search",
		FoodLog:    "/food/log",
		FoodLogs:   "/food/logs",
		Summary:    "/analytics/nutrition-summary",
		Health:     "/health",
	}
}

// Resolved pairs a base URL with the path table the client should use.
type Resolved struct {
	BaseURL string
	Paths   Table
}

func newResolved(baseURL string) *Resolved {
	return &Resolved{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Paths:   Defaults(),
	}
}
