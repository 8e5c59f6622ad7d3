package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Wadijet/notifyhub/core/common"
	"github.com/Wadijet/notifyhub/internal/model"
)

// HTTPIdentityClient fetches branding from the identity service's GET /api/tenants/{id}/ (§6).
type HTTPIdentityClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPIdentityClient(baseURL string) *HTTPIdentityClient {
	return &HTTPIdentityClient{baseURL: baseURL, client: &http.Client{Timeout: 5 * time.Second}}
}

func (c *HTTPIdentityClient) FetchBranding(ctx context.Context, tenantID string) (*model.TenantBranding, error) {
	url := fmt.Sprintf("%s/api/tenants/%s/", c.baseURL, tenantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("tenant %s has no branding: %w", tenantID, common.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity service returned status %d", resp.StatusCode)
	}

	var branding model.TenantBranding
	if err := json.NewDecoder(resp.Body).Decode(&branding); err != nil {
		return nil, fmt.Errorf("decode branding response: %w", err)
	}
	branding.TenantID = tenantID
	return &branding, nil
}
