package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Channel service error constants
var (
	ErrChannelProviderUnavailable = errors.New("chat provider unavailable")
	ErrChannelRejected            = errors.New("chat provider rejected the channel request")
)

// ChannelService provisions chat channels on the external messaging provider.
// Provisioning is idempotent: the channel key is derived from the campaign and
// model profile, and re-provisioning an existing channel merges members instead
// of failing.
type ChannelService interface {
	ProvisionChannel(ctx context.Context, in ProvisionChannelInput) (*ProvisionChannelResult, error)
}

// ProvisionChannelInput identifies the matched pair and the accounts to enroll
type ProvisionChannelInput struct {
	CampaignID     uint
	ModelProfileID uint
	MemberUUIDs    []string
	ChannelName    string
}

// ProvisionChannelResult reports the provider's outcome
type ProvisionChannelResult struct {
	ChannelKey string
	Created    bool // false when the channel already existed and members were merged
}

// ChannelKey derives the deterministic channel identifier for a matched pair
func ChannelKey(campaignID, modelProfileID uint) string {
	return fmt.Sprintf("chat_%d_%d", campaignID, modelProfileID)
}

// ChatChannelClient talks to the chat provider's REST API
type ChatChannelClient struct {
	BaseURL    string
	APIToken   string
	HTTPClient *http.Client
}

func NewChatChannelClient(baseURL, apiToken string, timeout time.Duration) *ChatChannelClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ChatChannelClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIToken:   apiToken,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type channelUpsertRequest struct {
	Name      string   `json:"name,omitempty"`
	MemberIDs []string `json:"member_ids"`
}

type channelUpsertResponse struct {
	ChannelKey string  `json:"channel_key"`
	Created    bool    `json:"created"`
	Error      *string `json:"error,omitempty"`
}

// ProvisionChannel upserts the channel for a matched pair. PUT on the derived
// key creates the channel or merges the member list into an existing one, so
// retries after partial failures are safe.
func (c *ChatChannelClient) ProvisionChannel(ctx context.Context, in ProvisionChannelInput) (*ProvisionChannelResult, error) {
	key := ChannelKey(in.CampaignID, in.ModelProfileID)

	body, err := json.Marshal(channelUpsertRequest{
		Name:      in.ChannelName,
		MemberIDs: in.MemberUUIDs,
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/channels/%s", c.BaseURL, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChannelProviderUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChannelProviderUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrChannelProviderUnavailable, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: status %d: %s", ErrChannelRejected, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed channelUpsertResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		// Some provider deployments return an empty body on success
		return &ProvisionChannelResult{ChannelKey: key, Created: resp.StatusCode == http.StatusCreated}, nil
	}
	if parsed.ChannelKey == "" {
		parsed.ChannelKey = key
	}

	return &ProvisionChannelResult{ChannelKey: parsed.ChannelKey, Created: parsed.Created || resp.StatusCode == http.StatusCreated}, nil
}
