package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"mealtrack/cli/internal/apperrors"
	"mealtrack/cli/internal/backend"
	"mealtrack/cli/internal/endpoints"
	"mealtrack/cli/internal/httperrors"
	"mealtrack/cli/internal/keychain"
	"mealtrack/cli/internal/logging"
	"mealtrack/cli/internal/session"
)

// openSession builds the session manager backed by the resolved API and the
// OS keychain, then restores any stored session. Commands call this first.
func openSession() (*session.Manager, backend.API, error) {
	res, err := endpoints.Resolve()
	if err != nil {
		return nil, nil, err
	}
	api := backend.New(res.BaseURL, res.Paths)

	km, err := keychain.GetManager()
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.Persistence,
			"secure storage is not available on this system", err)
	}

	sess := session.NewManager(api, km, logging.Reporter{})
	sess.Restore()
	return sess, api, nil
}

// ensureSignedIn reports whether a session-gated command may proceed,
// printing the sign-in hint when it may not.
func ensureSignedIn(sess *session.Manager) bool {
	if sess.RedirectFor(session.AreaApp) != session.RedirectToLogin {
		return true
	}
	fmt.Println("🔒 You're not logged in yet!")
	fmt.Println("   Run 'mealtrack login' to get started.")
	return false
}

// accountRecord is the slice of the stored user record commands display.
type accountRecord struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// sessionAccount decodes the stored user record of the current session.
// Returns a zero record when no session exists or the record cannot be read.
func sessionAccount(sess *session.Manager) accountRecord {
	var u accountRecord
	_ = json.Unmarshal(sess.Snapshot().User, &u)
	return u
}

// showOperationError prints a friendly explanation for a failed operation.
// Connectivity problems get troubleshooting guidance; everything else shows
// the message the error carries.
func showOperationError(err error, context string) {
	switch apperrors.KindOf(err) {
	case apperrors.Network:
		httperrors.Display(err, context)
	case apperrors.Persistence:
		pterm.Println("❌ " + friendlyMessage(err))
		pterm.Println("   Check that your OS keychain or secret service is unlocked.")
	case apperrors.Auth:
		pterm.Println("❌ " + friendlyMessage(err))
	default:
		pterm.Println(logging.PresentError(context, err))
	}
}

// friendlyMessage extracts the human-readable message from a typed error.
func friendlyMessage(err error) string {
	var e *apperrors.E
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// loginGreetings are picked from at random after a successful sign-in.
var loginGreetings = []string{
	"🎉 Welcome back, %s!",
	"✨ Great to see you, %s!",
	"🍎 You're all set, %s!",
	"👋 Hello %s! What did you eat today?",
	"🥗 Logged in as %s - let's track something tasty!",
	"🌟 Welcome aboard, %s!",
	"⚡ You're in, %s!",
	"🔓 Access granted! Welcome %s!",
}

// randomGreeting returns a random greeting phrase with the user's identifier.
func randomGreeting(identifier string) string {
	return fmt.Sprintf(loginGreetings[rand.Intn(len(loginGreetings))], identifier)
}

// f1 renders a nutrition value with one decimal place.
func f1(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// orDash renders an optional string, or a dash when absent.
func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// startInlineSpinner starts a single-line spinner animation that rewrites
// the same terminal line until the returned stop function is called. The
// line is cleared on stop so the success or error message replaces it.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s %s", frames[i%len(frames)], text)
				i++
			}
		}
	}()
	return func() {
		close(stop)
		wg.Wait()
	}
}
