// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// FoodLogEntry is a diary entry to record. FoodItemID links the entry to a
// catalog item when it came from a search hit; free-form entries leave it
// nil. A nil LoggedAt means "now" server-side.
type FoodLogEntry struct {
	FoodName    string     `json:"food_name"`
	MealType    string     `json:"meal_type"`
	Calories    float64    `json:"calories"`
	Protein     float64    `json:"protein"`
	Carbs       float64    `json:"carbs"`
	Fat         float64    `json:"fat"`
	ServingSize *string    `json:"serving_size,omitempty"`
	Servings    float64    `json:"servings"`
	Fiber       *float64   `json:"fiber,omitempty"`
	Sugar       *float64   `json:"sugar,omitempty"`
	LoggedAt    *time.Time `json:"logged_at,omitempty"`
	FoodItemID  *int       `json:"food_item_id,omitempty"`
}

// FoodLog is a recorded diary entry as the service stores it.
type FoodLog struct {
	ID          int      `json:"id"`
	UserID      int      `json:"user_id"`
	FoodName    string   `json:"food_name"`
	MealType    string   `json:"meal_type"`
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fat         float64  `json:"fat"`
	ServingSize *string  `json:"serving_size,omitempty"`
	Servings    float64  `json:"servings"`
	Fiber       *float64 `json:"fiber,omitempty"`
	Sugar       *float64 `json:"sugar,omitempty"`
	LoggedAt    APITime  `json:"logged_at"`
}

// LogQuery narrows a diary listing. Zero times and empty strings mean
// "no filter"; Skip and Limit page through long histories.
type LogQuery struct {
	Start    time.Time
	End      time.Time
	MealType string
	Skip     int
	Limit    int
}

func (q LogQuery) encode() string {
	params := url.Values{}
	if !q.Start.IsZero() {
		params.Set("start_date", q.Start.Format(time.RFC3339))
	}
	if !q.End.IsZero() {
		params.Set("end_date", q.End.Format(time.RFC3339))
	}
	if q.MealType != "" {
		params.Set("meal_type", q.MealType)
	}
	if q.Skip > 0 {
		params.Set("skip", strconv.Itoa(q.Skip))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	return params.Encode()
}

// LogFood records a diary entry and returns it with the server-assigned id.
func (h *HTTP) LogFood(ctx context.Context, token string, entry FoodLogEntry) (*FoodLog, error) {
	req, err := h.newRequest(ctx, http.MethodPost, h.paths.FoodLog, token, entry)
	if err != nil {
		return nil, err
	}

	var out FoodLog
	if err := h.do(req, &out, "Could not save your food log"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logs lists diary entries matching the query, newest first.
func (h *HTTP) Logs(ctx context.Context, token string, query LogQuery) ([]FoodLog, error) {
	path := h.paths.FoodLogs
	if encoded := query.encode(); encoded != "" {
		path += "?" + encoded
	}

	req, err := h.newRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}

	var out []FoodLog
	if err := h.do(req, &out, "Could not load your food logs"); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteLog removes a diary entry. The service answers 204 on success.
func (h *HTTP) DeleteLog(ctx context.Context, token string, id int) error {
	req, err := h.newRequest(ctx, http.MethodDelete, h.paths.FoodLog+"/"+strconv.Itoa(id), token, nil)
	if err != nil {
		return err
	}
	return h.do(req, nil, "Could not delete that food log")
}
