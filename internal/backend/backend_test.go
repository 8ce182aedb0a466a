// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mealtrack/cli/internal/apperrors"
	"mealtrack/cli/internal/endpoints"
)

func newTestClient(srv *httptest.Server) *HTTP {
	return newHTTP(srv.URL, endpoints.Defaults())
}

func TestLoginSendsCredentials(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-123",
			"token_type":   "bearer",
			"user":         map[string]any{"id": 1, "email": "a@b.c", "full_name": "Ada"},
		})
	}))
	defer srv.Close()

	res, err := newTestClient(srv).Login(context.Background(), "a@b.c", "hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if gotPath != "/auth/login" {
		t.Errorf("path = %v, want /auth/login", gotPath)
	}
	if gotAuth != "" {
		t.Errorf("Authorization header = %q, want empty on login", gotAuth)
	}
	if gotBody["email"] != "a@b.c" || gotBody["password"] != "hunter2" {
		t.Errorf("request body = %v, want email and password fields", gotBody)
	}
	if res.AccessToken != "tok-123" {
		t.Errorf("AccessToken = %v, want tok-123", res.AccessToken)
	}
	if len(res.User) == 0 {
		t.Error("User record is empty")
	}
}

func TestLoginErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind apperrors.Kind
		wantMsg  string
	}{
		{
			name:     "rejected credentials surface server detail",
			status:   http.StatusUnauthorized,
			body:     `{"detail": "Incorrect email or password"}`,
			wantKind: apperrors.Auth,
			wantMsg:  "Incorrect email or password",
		},
		{
			name:     "empty body falls back to generic message",
			status:   http.StatusBadRequest,
			body:     ``,
			wantKind: apperrors.Auth,
			wantMsg:  "Login failed",
		},
		{
			name:     "server failure is a network problem",
			status:   http.StatusBadGateway,
			body:     ``,
			wantKind: apperrors.Network,
			wantMsg:  "Login failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv).Login(context.Background(), "a@b.c", "bad")
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if got := apperrors.KindOf(err); got != tt.wantKind {
				t.Errorf("KindOf() = %v, want %v", got, tt.wantKind)
			}
			var appErr *apperrors.E
			if !errors.As(err, &appErr) {
				t.Fatalf("error %v is not an apperrors.E", err)
			}
			if appErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", appErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestLoginUnreachableService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newTestClient(srv).Login(context.Background(), "a@b.c", "pw")
	if err == nil {
		t.Fatal("expected error but got none")
	}
	if !apperrors.IsNetwork(err) {
		t.Errorf("KindOf() = %v, want %v", apperrors.KindOf(err), apperrors.Network)
	}
}

func TestLoginMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Login(context.Background(), "a@b.c", "pw")
	if err == nil {
		t.Fatal("expected error but got none")
	}
	if !apperrors.IsNetwork(err) {
		t.Errorf("KindOf() = %v, want %v", apperrors.KindOf(err), apperrors.Network)
	}
}

func TestRegisterDiscardsResponseBody(t *testing.T) {
	var gotBody map[string]string
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 7, "email": "a@b.c", "full_name": "Ada"})
	}))
	defer srv.Close()

	if err := newTestClient(srv).Register(context.Background(), "Ada", "a@b.c", "pw"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization header = %q, want empty on register", gotAuth)
	}
	if gotBody["full_name"] != "Ada" || gotBody["email"] != "a@b.c" || gotBody["password"] != "pw" {
		t.Errorf("request body = %v, want full_name, email and password fields", gotBody)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "Email already registered"}`))
	}))
	defer srv.Close()

	err := newTestClient(srv).Register(context.Background(), "Ada", "a@b.c", "pw")
	if err == nil {
		t.Fatal("expected error but got none")
	}
	if !apperrors.IsAuth(err) {
		t.Errorf("KindOf() = %v, want %v", apperrors.KindOf(err), apperrors.Auth)
	}
	var appErr *apperrors.E
	if errors.As(err, &appErr) && appErr.Message != "Email already registered" {
		t.Errorf("Message = %q, want %q", appErr.Message, "Email already registered")
	}
}

func TestFoodSendsBearerToken(t *testing.T) {
	var gotPath, gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 42, "name": "Oatmeal", "serving_size": "100g",
			"calories": 389.0, "protein": 16.9, "carbs": 66.3, "fat": 6.9,
			"is_verified": true, "created_at": "2025-03-01T08:30:00",
		})
	}))
	defer srv.Close()

	item, err := newTestClient(srv).Food(context.Background(), "tok-xyz", 42)
	if err != nil {
		t.Fatalf("Food() error = %v", err)
	}
	if gotPath != "/food/42" {
		t.Errorf("path = %v, want /food/42", gotPath)
	}
	if gotAuth != "Bearer tok-xyz" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-xyz")
	}
	if item.Name != "Oatmeal" {
		t.Errorf("Name = %v, want Oatmeal", item.Name)
	}
	if item.CreatedAt.IsZero() {
		t.Error("CreatedAt not decoded")
	}
}

func TestSearchFoodsQuery(t *testing.T) {
	var gotQuery string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	if _, err := newTestClient(srv).SearchFoods(context.Background(), "tok", "greek yogurt", 5); err != nil {
		t.Fatalf("SearchFoods() error = %v", err)
	}
	if gotQuery != "limit=5&query=greek+yogurt" {
		t.Errorf("query = %v, want limit=5&query=greek+yogurt", gotQuery)
	}
}

func TestMeCachesProfile(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 1, "email": "a@b.c", "full_name": "Ada",
			"created_at": "2025-01-01T00:00:00",
		})
	}))
	defer srv.Close()

	h := newTestClient(srv)
	for i := 0; i < 3; i++ {
		if _, err := h.Me(context.Background(), "tok"); err != nil {
			t.Fatalf("Me() error = %v", err)
		}
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want 1 (cached)", hits)
	}
}

func TestMeServesStaleCacheWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 1, "email": "a@b.c", "full_name": "Ada",
			"created_at": "2025-01-01T00:00:00",
		})
	}))

	h := newTestClient(srv)
	if _, err := h.Me(context.Background(), "tok"); err != nil {
		t.Fatalf("Me() error = %v", err)
	}

	// Expire the cache, then take the service away.
	h.meMu.Lock()
	h.meCacheTime = time.Now().Add(-time.Hour)
	h.meMu.Unlock()
	srv.Close()

	got, err := h.Me(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Me() after shutdown error = %v, want stale profile", err)
	}
	if got.FullName != "Ada" {
		t.Errorf("FullName = %v, want Ada", got.FullName)
	}
}

func TestDeleteLogAcceptsNoContent(t *testing.T) {
	var gotMethod, gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := newTestClient(srv).DeleteLog(context.Background(), "tok", 9); err != nil {
		t.Fatalf("DeleteLog() error = %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %v, want DELETE", gotMethod)
	}
	if gotPath != "/food/log/9" {
		t.Errorf("path = %v, want /food/log/9", gotPath)
	}
}

func TestLogQueryEncode(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		query LogQuery
		want  string
	}{
		{
			name:  "empty query",
			query: LogQuery{},
			want:  "",
		},
		{
			name:  "date range",
			query: LogQuery{Start: day, End: day.AddDate(0, 0, 7)},
			want:  "end_date=2025-06-08T00%3A00%3A00Z&start_date=2025-06-01T00%3A00%3A00Z",
		},
		{
			name:  "meal type and limit",
			query: LogQuery{MealType: "breakfast", Limit: 20},
			want:  "limit=20&meal_type=breakfast",
		},
		{
			name:  "pagination",
			query: LogQuery{Skip: 100, Limit: 100},
			want:  "limit=100&skip=100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.encode(); got != tt.want {
				t.Errorf("encode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummaryDateRange(t *testing.T) {
	var gotQuery string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(map[string]any{
			"start_date": "2025-06-01T00:00:00", "end_date": "2025-06-08T00:00:00",
			"avg_calories": 1850.5, "avg_protein": 92.1, "avg_carbs": 210.0, "avg_fat": 61.2,
			"daily_data": []map[string]any{
				{"date": "2025-06-01", "calories": 1900.0, "protein": 95.0, "carbs": 200.0, "fat": 60.0},
			},
		})
	}))
	defer srv.Close()

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	sum, err := newTestClient(srv).Summary(context.Background(), "tok", from, from.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if gotQuery == "" {
		t.Fatal("no query parameters sent")
	}
	if sum.AvgCalories != 1850.5 {
		t.Errorf("AvgCalories = %v, want 1850.5", sum.AvgCalories)
	}
	if len(sum.DailyData) != 1 {
		t.Fatalf("DailyData length = %d, want 1", len(sum.DailyData))
	}
	if sum.DailyData[0].Date != "2025-06-01" {
		t.Errorf("DailyData[0].Date = %v, want 2025-06-01", sum.DailyData[0].Date)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{
			name:   "healthy service reports version",
			status: http.StatusOK,
			body:   `{"status": "healthy", "version": "1.0.0"}`,
			want:   "1.0.0",
		},
		{
			name:   "missing version",
			status: http.StatusOK,
			body:   `{"status": "healthy"}`,
			want:   "unknown",
		},
		{
			name:   "degraded service",
			status: http.StatusServiceUnavailable,
			body:   ``,
			want:   "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := newTestClient(srv).Health(context.Background())
			if err != nil {
				t.Fatalf("Health() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Health() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAPITimeDecoding(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantZero bool
		wantHour int
	}{
		{
			name:     "timestamp without timezone",
			raw:      `"2025-06-01T13:45:00"`,
			wantHour: 13,
		},
		{
			name:     "timestamp with microseconds",
			raw:      `"2025-06-01T13:45:00.123456"`,
			wantHour: 13,
		},
		{
			name:     "RFC 3339 timestamp",
			raw:      `"2025-06-01T13:45:00Z"`,
			wantHour: 13,
		},
		{
			name:     "null",
			raw:      `null`,
			wantZero: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts APITime
			if err := json.Unmarshal([]byte(tt.raw), &ts); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.raw, err)
			}
			if ts.IsZero() != tt.wantZero {
				t.Errorf("IsZero() = %v, want %v", ts.IsZero(), tt.wantZero)
			}
			if !tt.wantZero && ts.Hour() != tt.wantHour {
				t.Errorf("Hour() = %v, want %v", ts.Hour(), tt.wantHour)
			}
		})
	}
}

func TestRequestsCarryRequestID(t *testing.T) {
	var gotID string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-Id")
		_, _ = w.Write([]byte(`{"status": "healthy", "version": "1.0.0"}`))
	}))
	defer srv.Close()

	if _, err := newTestClient(srv).Health(context.Background()); err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if gotID == "" {
		t.Error("X-Request-Id header missing")
	}
}
