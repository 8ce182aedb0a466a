// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides the client for the Mealtrack REST API.
// It defines the API contract for authentication, profile, food catalog,
// food logging and analytics operations, plus the HTTP implementation.
// All calls carry a request id and a bounded timeout, and map failures to
// the apperrors taxonomy: server rejections keep the server's detail
// message, transport problems become network errors.
package backend

import (
	"context"
	"time"
)

// API defines backend operations the CLI depends on.
// Implementations may call the real HTTP endpoints or provide mocks for tests.
type API interface {
	// Login exchanges credentials for an access token and the account record.
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Register creates a new account. The response body is discarded;
	// callers establish a session with a subsequent Login.
	Register(ctx context.Context, fullName, email, password string) error
	// Me retrieves the profile of the authenticated account. Results are
	// cached briefly and served stale when the service is unreachable.
	Me(ctx context.Context, token string) (*Profile, error)
	// UpdateMe applies a partial profile update and returns the new profile.
	UpdateMe(ctx context.Context, token string, update ProfileUpdate) (*Profile, error)
	// Food fetches one food record by id.
	Food(ctx context.Context, token string, id int) (*FoodItem, error)
	// SearchFoods returns food records matching the query.
	SearchFoods(ctx context.Context, token, query string, limit int) ([]FoodItem, error)
	// LogFood records a consumed food and returns the stored entry.
	LogFood(ctx context.Context, token string, entry FoodLogEntry) (*FoodLog, error)
	// Logs returns the food log history matching the query.
	Logs(ctx context.Context, token string, q LogQuery) ([]FoodLog, error)
	// DeleteLog removes one food log entry by id.
	DeleteLog(ctx context.Context, token string, id int) error
	// Summary returns aggregated nutrition statistics for a date range.
	Summary(ctx context.Context, token string, from, to time.Time) (*NutritionSummary, error)
	// Health checks service reachability and returns the service version
	// when available. No authentication required.
	Health(ctx context.Context) (string, error)
}
