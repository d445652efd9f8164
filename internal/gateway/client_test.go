package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novahq/nova-dashboard/config"
	"github.com/novahq/nova-dashboard/internal/domain/dataset"
	apperrors "github.com/novahq/nova-dashboard/internal/errors"
)

func testConfig(profileURL, cardURL string) config.DatasetsConfig {
	cfg := config.DatasetsConfig{
		ProfileURL:   profileURL,
		CardURL:      cardURL,
		ProfileCount: 5,
		CardCount:    3,
		CountryCode:  "en_IN",
		ProfileDocuments: config.ProfileDocumentFlags{
			Aadhar: true,
			DL:     true,
			Credit: true,
			Debit:  true,
			PAN:    true,
		},
		Timeout:    2 * time.Second,
		MaxRetries: 2,
	}
	return cfg
}

func newTestClient(url string) *Client {
	return NewClient(ClientOptions{Config: testConfig(url, url)})
}

func TestClient_Fetch_RawArrayResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"name":"Anita"},{"name":"Rahul"}]`)
	}))
	defer srv.Close()

	records, err := newTestClient(srv.URL).Fetch(context.Background(), dataset.ModeProfiles)
	require.NoError(t, err)
	require.Len(t, records, 2)
	name, _ := records[0]["name"].Text()
	assert.Equal(t, "Anita", name)
}

func TestClient_Fetch_WrappedResponses(t *testing.T) {
	tests := []struct {
		name string
		mode dataset.Mode
		body string
	}{
		{name: "profiles key", mode: dataset.ModeProfiles, body: `{"profiles":[{"name":"Anita"}]}`},
		{name: "cards key", mode: dataset.ModeCards, body: `{"cards":[{"number":"4111"}]}`},
		{name: "items key", mode: dataset.ModeProfiles, body: `{"items":[{"name":"Anita"}]}`},
		{name: "data key", mode: dataset.ModeCards, body: `{"data":[{"number":"4111"}]}`},
		{name: "results key", mode: dataset.ModeProfiles, body: `{"results":[{"name":"Anita"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			records, err := newTestClient(srv.URL).Fetch(context.Background(), tt.mode)
			require.NoError(t, err)
			assert.Len(t, records, 1)
		})
	}
}

func TestClient_Fetch_NoRecognizedWrapperKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"unexpected":[{"name":"Anita"}]}`)
	}))
	defer srv.Close()

	records, err := newTestClient(srv.URL).Fetch(context.Background(), dataset.ModeProfiles)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestClient_Fetch_SendsRequestConfiguration(t *testing.T) {
	var profileBody, cardBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if r.URL.Path == "/profile" {
			profileBody = body
		} else {
			cardBody = body
		}
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	client := NewClient(ClientOptions{Config: testConfig(srv.URL+"/profile", srv.URL+"/card")})
	_, err := client.Fetch(context.Background(), dataset.ModeProfiles)
	require.NoError(t, err)
	_, err = client.Fetch(context.Background(), dataset.ModeCards)
	require.NoError(t, err)

	assert.Equal(t, float64(5), profileBody["count"])
	assert.Equal(t, "en_IN", profileBody["country_code"])
	assert.Equal(t, true, profileBody["aadhar"])
	assert.Equal(t, false, profileBody["ssn"])

	assert.Equal(t, float64(3), cardBody["count"])
	assert.Equal(t, "en_IN", cardBody["country_code"])
	assert.NotContains(t, cardBody, "aadhar")
}

func TestClient_Fetch_RetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `[{"name":"Anita"}]`)
	}))
	defer srv.Close()

	records, err := newTestClient(srv.URL).Fetch(context.Background(), dataset.ModeProfiles)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClient_Fetch_ExhaustsRetries(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), dataset.ModeProfiles)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailable(err))
	// Initial attempt plus MaxRetries.
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClient_Fetch_ClientErrorsAreNotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), dataset.ModeProfiles)
	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_Fetch_UnknownMode(t *testing.T) {
	client := newTestClient("http://localhost:0")

	_, err := client.Fetch(context.Background(), dataset.Mode("invoices"))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
