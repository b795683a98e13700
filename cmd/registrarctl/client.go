package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bailakids/registration-api/internal/dto"
	"github.com/bailakids/registration-api/internal/models"
	"github.com/bailakids/registration-api/pkg/response"
)

// apiClient talks to a running registration API.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Sections fetches the public listing and returns it in catalog form.
func (c *apiClient) Sections(ctx context.Context) ([]models.SectionAvailability, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/sections", nil)
	if err != nil {
		return nil, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sections: %w", err)
	}
	defer res.Body.Close() //nolint:errcheck

	var body dto.SectionsResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch sections: HTTP %d", res.StatusCode)
	}

	out := make([]models.SectionAvailability, 0, len(body.Sections))
	for _, v := range body.Sections {
		out = append(out, models.SectionAvailability{
			ClassSection: models.ClassSection{
				ID:         v.ID,
				Location:   models.Location(v.Location),
				Day:        models.Day(v.Day),
				Label:      v.Label,
				Capacity:   v.Capacity,
				PriceCents: v.PriceCents,
				StartDate:  v.StartDate,
				StartTime:  v.StartTime,
				EndTime:    v.EndTime,
				IsActive:   true,
			},
			ActiveCount:    v.ActiveCount,
			SeatsRemaining: v.SeatsRemaining,
		})
	}
	return out, nil
}

// Register posts a registration and returns the server's verdict.
func (c *apiClient) Register(ctx context.Context, payload dto.RegistrationPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/register", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("submit registration: %w", err)
	}
	defer res.Body.Close() //nolint:errcheck

	var result response.Result
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode registration response (HTTP %d): %w", res.StatusCode, err)
	}
	if !result.Success {
		return fmt.Errorf("registration rejected: %s", result.Error)
	}
	return nil
}
