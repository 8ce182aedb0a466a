// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"
	"time"

	"mealtrack/cli/internal/apperrors"
)

// Profile is the account record served by /users/me.
type Profile struct {
	ID                 int      `json:"id"`
	Email              string   `json:"email"`
	FullName           string   `json:"full_name"`
	Age                *int     `json:"age,omitempty"`
	Gender             *string  `json:"gender,omitempty"`
	Height             *float64 `json:"height,omitempty"`
	Weight             *float64 `json:"weight,omitempty"`
	ActivityLevel      *string  `json:"activity_level,omitempty"`
	DietaryPreferences *string  `json:"dietary_preferences,omitempty"`
	Goals              *string  `json:"goals,omitempty"`
	CreatedAt          APITime  `json:"created_at"`
}

// ProfileUpdate carries a partial profile edit. Nil fields are left alone
// server-side, so only the attributes the user actually changed go on the
// wire.
type ProfileUpdate struct {
	FullName           *string  `json:"full_name,omitempty"`
	Age                *int     `json:"age,omitempty"`
	Gender             *string  `json:"gender,omitempty"`
	Height             *float64 `json:"height,omitempty"`
	Weight             *float64 `json:"weight,omitempty"`
	ActivityLevel      *string  `json:"activity_level,omitempty"`
	DietaryPreferences *string  `json:"dietary_preferences,omitempty"`
	Goals              *string  `json:"goals,omitempty"`
}

// Me fetches the signed-in account's profile. Results are cached for a few
// minutes, and when the service is unreachable a stale cached profile is
// served instead of failing, so `whoami` keeps working offline.
func (h *HTTP) Me(ctx context.Context, token string) (*Profile, error) {
	h.meMu.Lock()
	if h.meCache != nil && time.Since(h.meCacheTime) < meCacheTTL {
		cached := *h.meCache
		h.meMu.Unlock()
		return &cached, nil
	}
	h.meMu.Unlock()

	req, err := h.newRequest(ctx, http.MethodGet, h.paths.Me, token, nil)
	if err != nil {
		return nil, err
	}

	var out Profile
	if err := h.do(req, &out, "Could not load your profile"); err != nil {
		if apperrors.IsNetwork(err) {
			h.meMu.Lock()
			stale := h.meCache
			h.meMu.Unlock()
			if stale != nil {
				cached := *stale
				return &cached, nil
			}
		}
		return nil, err
	}

	h.meMu.Lock()
	h.meCache = &out
	h.meCacheTime = time.Now()
	h.meMu.Unlock()

	cached := out
	return &cached, nil
}

// UpdateMe submits a partial profile edit and returns the updated record.
// The profile cache is refreshed with the response.
func (h *HTTP) UpdateMe(ctx context.Context, token string, update ProfileUpdate) (*Profile, error) {
	req, err := h.newRequest(ctx, http.MethodPut, h.paths.Me, token, update)
	if err != nil {
		return nil, err
	}

	var out Profile
	if err := h.do(req, &out, "Could not update your profile"); err != nil {
		return nil, err
	}

	h.meMu.Lock()
	h.meCache = &out
	h.meCacheTime = time.Now()
	h.meMu.Unlock()

	cached := out
	return &cached, nil
}
