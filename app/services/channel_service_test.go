package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelKey(t *testing.T) {
	assert.Equal(t, "chat_12_34", ChannelKey(12, 34))
	assert.Equal(t, "chat_1_1", ChannelKey(1, 1))
}

func TestProvisionChannel(t *testing.T) {
	input := ProvisionChannelInput{
		CampaignID:     7,
		ModelProfileID: 42,
		MemberUUIDs:    []string{"uuid-agency", "uuid-model"},
		ChannelName:    "Test Campaign",
	}

	t.Run("CreatesChannel", func(t *testing.T) {
		var gotPath, gotAuth string
		var gotBody channelUpsertRequest

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(channelUpsertResponse{
				ChannelKey: "chat_7_42",
				Created:    true,
			})
		}))
		defer server.Close()

		client := NewChatChannelClient(server.URL, "secret-token", 5*time.Second)

		result, err := client.ProvisionChannel(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, "chat_7_42", result.ChannelKey)
		assert.True(t, result.Created)

		assert.Equal(t, "/v1/channels/chat_7_42", gotPath)
		assert.Equal(t, "Bearer secret-token", gotAuth)
		assert.Equal(t, input.MemberUUIDs, gotBody.MemberIDs)
		assert.Equal(t, input.ChannelName, gotBody.Name)
	})

	t.Run("MergesIntoExistingChannel", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(channelUpsertResponse{
				ChannelKey: "chat_7_42",
				Created:    false,
			})
		}))
		defer server.Close()

		client := NewChatChannelClient(server.URL, "", time.Second)

		result, err := client.ProvisionChannel(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, "chat_7_42", result.ChannelKey)
		assert.False(t, result.Created)
	})

	t.Run("EmptyBodyOnSuccess", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := NewChatChannelClient(server.URL, "", time.Second)

		result, err := client.ProvisionChannel(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, "chat_7_42", result.ChannelKey)
		assert.True(t, result.Created)
	})

	t.Run("ServerErrorIsRetriable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewChatChannelClient(server.URL, "", time.Second)

		result, err := client.ProvisionChannel(context.Background(), input)
		require.Error(t, err)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrChannelProviderUnavailable)
	})

	t.Run("ClientErrorIsRejection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"error":"bad member id"}`))
		}))
		defer server.Close()

		client := NewChatChannelClient(server.URL, "", time.Second)

		result, err := client.ProvisionChannel(context.Background(), input)
		require.Error(t, err)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrChannelRejected)
		assert.Contains(t, err.Error(), "bad member id")
	})

	t.Run("UnreachableProvider", func(t *testing.T) {
		client := NewChatChannelClient("http://127.0.0.1:1", "", 500*time.Millisecond)

		result, err := client.ProvisionChannel(context.Background(), input)
		require.Error(t, err)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrChannelProviderUnavailable)
	})
}
