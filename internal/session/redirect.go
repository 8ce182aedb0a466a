// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

// Area names a surface of the client: the sign-in surface or the
// session-gated application surface.
type Area string

const (
	// AreaAuth is the login/register surface.
	AreaAuth Area = "auth"
	// AreaApp is everything behind authentication.
	AreaApp Area = "app"
)

// Redirect is a derived navigation intent.
type Redirect string

const (
	// RedirectNone means stay where you are.
	RedirectNone Redirect = "none"
	// RedirectToLogin sends an unauthenticated caller to the sign-in surface.
	RedirectToLogin Redirect = "to-login"
	// RedirectToHome sends an authenticated caller off the sign-in surface.
	RedirectToHome Redirect = "to-home"
)

// Decide computes the navigation intent from the authentication state and
// the caller's current surface. It is pure: no reads beyond its arguments,
// no side effects, and the same inputs always produce the same intent.
// While loading, the decision is always to stay put; acting on a snapshot
// taken before restore completes would bounce a valid session to login.
//
// Applying the returned redirect changes the current area such that a
// recomputation yields RedirectNone, so redirect loops cannot occur.
func Decide(authenticated, loading bool, current Area) Redirect {
	if loading {
		return RedirectNone
	}
	if !authenticated && current != AreaAuth {
		return RedirectToLogin
	}
	if authenticated && current == AreaAuth {
		return RedirectToHome
	}
	return RedirectNone
}
