package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"campusmarket/configs"
)

// VerificationResult is the gateway's view of one mobile-money collection.
type VerificationResult struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

const StatusSuccessful = "SUCCESSFUL"

// MomoClient is a thin REST wrapper around the mobile-money collection API.
// Verification is the only call the marketplace makes; charging happens on
// the customer's handset, outside this system.
type MomoClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewMomoClient(config *configs.Config) *MomoClient {
	return &MomoClient{
		baseURL: config.Viper.GetString("payment_gateway.base_url"),
		apiKey:  config.Viper.GetString("payment_gateway.api_key"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (mc *MomoClient) VerifyTransaction(ctx context.Context, reference string) (*VerificationResult, error) {
	url := fmt.Sprintf("%s/collections/%s", mc.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+mc.apiKey)

	resp, err := mc.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned status %d for reference %s", resp.StatusCode, reference)
	}

	var result VerificationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
