// Package foodfacts looks up packaged products by barcode in Open Food Facts.
package foodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"nutriai/nutrition-app/internal/config"
	"nutriai/nutrition-app/internal/domain"
)

const (
	defaultBaseURL   = "https://world.openfoodfacts.org"
	defaultUserAgent = "nutrition-app/1.0"

	UnknownGrade      = "unknown"
	UnknownExpiration = "Não disponível"
)

// ErrProductNotFound means the database has no product for the barcode.
var ErrProductNotFound = errors.New("product not found")

// Client talks to the Open Food Facts v0 product API. The zero value is usable.
type Client struct {
	BaseURL    string       // defaults to the public world instance
	HTTPClient *http.Client // defaults to a client with a 12s timeout
	UserAgent  string       // Open Food Facts asks every client to identify itself
}

// NewClient builds a Client from config.
func NewClient(cfg config.FoodFactsConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &Client{
		BaseURL:    cfg.BaseURL,
		HTTPClient: &http.Client{Timeout: timeout},
		UserAgent:  cfg.UserAgent,
	}
}

// offResponse is the subset of the v0 product payload we read.
// Status is 1 when the product exists.
type offResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

type offProduct struct {
	ProductName         string         `json:"product_name"`
	Quantity            string         `json:"quantity"`
	ImageFrontURL       string         `json:"image_front_url"`
	ImageFrontSmallURL  string         `json:"image_front_small_url"`
	NutritionGradesTags []string       `json:"nutrition_grades_tags"`
	ExpirationDate      string         `json:"expiration_date"`
	Nutriments          map[string]any `json:"nutriments"`
}

// Product fetches one barcode. Nutrients are per 100 g; missing values are 0.
func (c *Client) Product(ctx context.Context, code string) (*domain.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrProductNotFound
	}
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	userAgent := c.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	// The code is caller input; escape it so it stays a single path segment
	endpoint := fmt.Sprintf("%s/api/v0/product/%s.json", base, url.PathEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create openfoodfacts request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute openfoodfacts request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read openfoodfacts response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openfoodfacts request failed with status %d", resp.StatusCode)
	}

	var parsed offResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode openfoodfacts response: %w", err)
	}
	if parsed.Status != 1 {
		return nil, ErrProductNotFound
	}
	return toProduct(code, parsed.Product), nil
}

// toProduct maps the payload to the domain, falling back to the
// front image thumbnail and to placeholder grade and expiration.
func toProduct(code string, p offProduct) *domain.Product {
	n := p.Nutriments
	image := p.ImageFrontURL
	if image == "" {
		image = p.ImageFrontSmallURL
	}
	grade := UnknownGrade
	if len(p.NutritionGradesTags) > 0 && p.NutritionGradesTags[0] != "" {
		grade = p.NutritionGradesTags[0]
	}
	expiration := strings.TrimSpace(p.ExpirationDate)
	if expiration == "" {
		expiration = UnknownExpiration
	}

	return &domain.Product{
		Code:     code,
		Name:     strings.TrimSpace(p.ProductName),
		Quantity: strings.TrimSpace(p.Quantity),
		Image:    image,
		Nutrients: domain.Nutrients{
			Kcal:         per100g(n, "energy-kcal"),
			Protein:      per100g(n, "proteins"),
			Carbs:        per100g(n, "carbohydrates"),
			Fat:          per100g(n, "fat"),
			SaturatedFat: per100g(n, "saturated-fat"),
			TransFat:     per100g(n, "trans-fat"),
			Fiber:        per100g(n, "fiber"),
			Sodium:       per100g(n, "sodium"),
			Sugars:       per100g(n, "sugars"),
			AddedSugars:  per100g(n, "added-sugars"),
		},
		NutriScore: grade,
		Expiration: expiration,
	}
}

// per100g reads "<base>_100g", accepting numbers or numeric strings.
func per100g(n map[string]any, base string) float64 {
	if v, ok := parseFloatAny(n[base+"_100g"]); ok {
		return v
	}
	return 0
}

func parseFloatAny(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
