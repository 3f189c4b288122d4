package cloudinary_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chucuoi/flower-storefront/pkg/cloudinary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) cloudinary.Client {
	t.Helper()

	client, err := cloudinary.NewCloudinaryClient("demo", "123456", "secret")
	require.NoError(t, err)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client.GetCloudinary().Config.API.UploadPrefix = server.URL

	return client
}

func TestClient_Destroy(t *testing.T) {
	t.Run("Success - Image deleted", func(t *testing.T) {
		// Arrange
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.True(t, strings.HasSuffix(r.URL.Path, "/demo/image/destroy"), r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"result":"ok"}`))
		})

		// Act
		res, err := client.Destroy(t.Context(), "products/rose")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "products/rose", res.PublicID)
		assert.Equal(t, cloudinary.ResultOK, res.Result)
	})

	t.Run("Failure - Host error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
		})

		_, err := client.Destroy(t.Context(), "products/rose")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid Signature")
	})
}

func TestClient_DeleteImage(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "Success - ok", body: `{"result":"ok"}`},
		{name: "Success - already gone", body: `{"result":"not found"}`},
		{name: "Failure - unexpected result", body: `{"result":"error"}`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tc.body))
			})

			err := client.DeleteImage(t.Context(), "products/rose")

			if tc.wantErr {
				assert.ErrorIs(t, err, cloudinary.ErrDestroyFailed)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClient_SignUpload(t *testing.T) {
	client, err := cloudinary.NewCloudinaryClient("demo", "123456", "secret")
	require.NoError(t, err)

	sig, err := client.SignUpload("products")

	require.NoError(t, err)
	assert.NotEmpty(t, sig.Signature)
	assert.Positive(t, sig.Timestamp)
	assert.Equal(t, "123456", sig.APIKey)
	assert.Equal(t, "demo", sig.CloudName)
	assert.Equal(t, "products", sig.Folder)
}

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "versioned with folder",
			url:  "https://res.cloudinary.com/demo/image/upload/v1712345678/products/red-rose.jpg",
			want: "products/red-rose",
		},
		{
			name: "no version",
			url:  "https://res.cloudinary.com/demo/image/upload/products/red-rose.png",
			want: "products/red-rose",
		},
		{
			name: "folder starting with v is kept",
			url:  "https://res.cloudinary.com/demo/image/upload/vases/blue.webp",
			want: "vases/blue",
		},
		{
			name: "query string dropped",
			url:  "https://res.cloudinary.com/demo/image/upload/v1/tulip.jpg?_a=x",
			want: "tulip",
		},
		{
			name: "not a media host url",
			url:  "https://example.com/images/rose.jpg",
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cloudinary.PublicIDFromURL(tc.url))
		})
	}
}
