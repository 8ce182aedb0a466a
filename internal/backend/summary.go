// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// DailyNutrition is one day's totals inside a summary.
type DailyNutrition struct {
	Date     string   `json:"date"`
	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"`
	Carbs    float64  `json:"carbs"`
	Fat      float64  `json:"fat"`
	Fiber    *float64 `json:"fiber,omitempty"`
	Sugar    *float64 `json:"sugar,omitempty"`
}

// NutritionSummary aggregates the diary over a date range.
type NutritionSummary struct {
	StartDate   APITime          `json:"start_date"`
	EndDate     APITime          `json:"end_date"`
	AvgCalories float64          `json:"avg_calories"`
	AvgProtein  float64          `json:"avg_protein"`
	AvgCarbs    float64          `json:"avg_carbs"`
	AvgFat      float64          `json:"avg_fat"`
	AvgFiber    *float64         `json:"avg_fiber,omitempty"`
	AvgSugar    *float64         `json:"avg_sugar,omitempty"`
	DailyData   []DailyNutrition `json:"daily_data"`
}

// Summary fetches averaged nutrition over [from, to].
func (h *HTTP) Summary(ctx context.Context, token string, from, to time.Time) (*NutritionSummary, error) {
	params := url.Values{}
	params.Set("start_date", from.Format(time.RFC3339))
	params.Set("end_date", to.Format(time.RFC3339))

	req, err := h.newRequest(ctx, http.MethodGet, h.paths.Summary+"?"+params.Encode(), token, nil)
	if err != nil {
		return nil, err
	}

	var out NutritionSummary
	if err := h.do(req, &out, "Could not load your nutrition summary"); err != nil {
		return nil, err
	}
	return &out, nil
}
