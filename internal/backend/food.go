// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// FoodItem is a catalog entry. Nutrition values are per serving; the
// optional micronutrients are only present for verified items.
type FoodItem struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Barcode      *string  `json:"barcode,omitempty"`
	Brand        *string  `json:"brand,omitempty"`
	ServingSize  string   `json:"serving_size"`
	Calories     float64  `json:"calories"`
	Protein      float64  `json:"protein"`
	Carbs        float64  `json:"carbs"`
	Fat          float64  `json:"fat"`
	Fiber        *float64 `json:"fiber,omitempty"`
	Sugar        *float64 `json:"sugar,omitempty"`
	Sodium       *float64 `json:"sodium,omitempty"`
	Potassium    *float64 `json:"potassium,omitempty"`
	Cholesterol  *float64 `json:"cholesterol,omitempty"`
	SaturatedFat *float64 `json:"saturated_fat,omitempty"`
	TransFat     *float64 `json:"trans_fat,omitempty"`
	VitaminA     *float64 `json:"vitamin_a,omitempty"`
	VitaminC     *float64 `json:"vitamin_c,omitempty"`
	Calcium      *float64 `json:"calcium,omitempty"`
	Iron         *float64 `json:"iron,omitempty"`
	ImageURL     *string  `json:"image_url,omitempty"`
	Category     *string  `json:"category,omitempty"`
	Subcategory  *string  `json:"subcategory,omitempty"`
	IsVerified   bool     `json:"is_verified"`
	CreatedAt    APITime  `json:"created_at"`
}

// Food fetches a single catalog entry by id.
func (h *HTTP) Food(ctx context.Context, token string, id int) (*FoodItem, error) {
	req, err := h.newRequest(ctx, http.MethodGet, h.paths.Food+"/"+strconv.Itoa(id), token, nil)
	if err != nil {
		return nil, err
	}

	var out FoodItem
	if err := h.do(req, &out, "Could not load that food"); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchFoods queries the catalog by name or brand. limit <= 0 leaves the
// page size to the server.
func (h *HTTP) SearchFoods(ctx context.Context, token, query string, limit int) ([]FoodItem, error) {
	params := url.Values{}
	params.Set("query", query)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	req, err := h.newRequest(ctx, http.MethodGet, h.paths.FoodSearch+"?"+params.Encode(), token, nil)
	if err != nil {
		return nil, err
	}

	var out []FoodItem
	if err := h.do(req, &out, "Food search failed"); err != nil {
		return nil, err
	}
	return out, nil
}
