package sendgrid_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sendgrid_client "github.com/chucuoi/flower-storefront/pkg/sendgrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmailService(t *testing.T) {
	// Act
	service := sendgrid_client.NewEmailService("test-api-key", "sender@example.com", "Test Sender")

	// Assert
	assert.NotNil(t, service)
	assert.NotNil(t, service.GetSendGridClient())
}

type sendgridV3Payload struct {
	Personalizations []struct {
		To      []map[string]string `json:"to"`
		Cc      []map[string]string `json:"cc,omitempty"`
		Subject string              `json:"subject"`
	} `json:"personalizations"`
	From    map[string]string `json:"from"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

func TestEmailService_Send(t *testing.T) {
	apiKey := "SG.test-api-key"
	fromEmail := "shop@example.com"
	fromName := "Flower Shop"

	tests := []struct {
		name          string
		msg           *sendgrid_client.Message
		status        int
		expectedError string
		checkPayload  func(t *testing.T, payload sendgridV3Payload)
	}{
		{
			name: "Success - Text and HTML",
			msg: &sendgrid_client.Message{
				To:          "owner@example.com",
				Subject:     "Low stock: Red Rose Bouquet",
				Content:     "Only 3 left",
				HTMLContent: "<p>Only 3 left</p>",
			},
			status: http.StatusAccepted,
			checkPayload: func(t *testing.T, p sendgridV3Payload) {
				require.Len(t, p.Personalizations, 1)
				pers := p.Personalizations[0]
				require.Len(t, pers.To, 1)
				assert.Equal(t, "owner@example.com", pers.To[0]["email"])
				assert.Empty(t, pers.Cc)
				assert.Equal(t, "Low stock: Red Rose Bouquet", pers.Subject)

				assert.Equal(t, fromEmail, p.From["email"])
				assert.Equal(t, fromName, p.From["name"])

				require.Len(t, p.Content, 2)
				assert.Equal(t, "text/plain", p.Content[0].Type)
				assert.Equal(t, "text/html", p.Content[1].Type)
			},
		},
		{
			name: "Success - Text only with CC",
			msg: &sendgrid_client.Message{
				To:      "owner@example.com",
				CC:      []string{"staff@example.com"},
				Subject: "Low stock",
				Content: "Only 1 left",
			},
			status: http.StatusAccepted,
			checkPayload: func(t *testing.T, p sendgridV3Payload) {
				require.Len(t, p.Personalizations, 1)
				require.Len(t, p.Personalizations[0].Cc, 1)
				assert.Equal(t, "staff@example.com", p.Personalizations[0].Cc[0]["email"])
				require.Len(t, p.Content, 1)
				assert.Equal(t, "Only 1 left", p.Content[0].Value)
			},
		},
		{
			name:          "Failure - SendGrid API Error (4xx)",
			msg:           &sendgrid_client.Message{To: "bad@example.com", Subject: "x", Content: "x"},
			status:        http.StatusBadRequest,
			expectedError: "failed to send email, status code: 400",
		},
		{
			name:          "Failure - SendGrid API Error (5xx)",
			msg:           &sendgrid_client.Message{To: "owner@example.com", Subject: "x", Content: "x"},
			status:        http.StatusInternalServerError,
			expectedError: "failed to send email, status code: 500",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			var payload sendgridV3Payload
			mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "Bearer "+apiKey, r.Header.Get("Authorization"))

				body, err := io.ReadAll(r.Body)
				assert.NoError(t, err)
				assert.NoError(t, json.Unmarshal(body, &payload))

				w.WriteHeader(tc.status)
			}))
			defer mockServer.Close()

			service := sendgrid_client.NewEmailService(apiKey, fromEmail, fromName)
			service.GetSendGridClient().Request.BaseURL = mockServer.URL

			// Act
			err := service.Send(t.Context(), tc.msg)

			// Assert
			if tc.expectedError == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedError)
			}

			if tc.checkPayload != nil {
				tc.checkPayload(t, payload)
			}
		})
	}

	t.Run("Failure - No recipient", func(t *testing.T) {
		service := sendgrid_client.NewEmailService(apiKey, fromEmail, fromName)

		err := service.Send(t.Context(), &sendgrid_client.Message{Subject: "x"})

		assert.ErrorIs(t, err, sendgrid_client.ErrNoRecipient)
	})

	t.Run("Failure - Network Error", func(t *testing.T) {
		// Arrange
		mockServer := httptest.NewServer(http.NotFoundHandler())
		service := sendgrid_client.NewEmailService(apiKey, fromEmail, fromName)
		service.GetSendGridClient().Request.BaseURL = mockServer.URL
		mockServer.Close()

		// Act
		err := service.Send(t.Context(), &sendgrid_client.Message{To: "owner@example.com", Subject: "x", Content: "x"})

		// Assert
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "connect: connection refused") || strings.Contains(err.Error(), "dial tcp"))
	})
}
