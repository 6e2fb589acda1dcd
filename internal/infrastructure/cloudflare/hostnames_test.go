package cloudflare

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgtools/partner-admin/internal/core/domain"
)

func newTestProvisioner(t *testing.T, handler http.HandlerFunc) *HostnameProvisioner {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHostnameProvisioner(NewClient(Config{BaseURL: srv.URL, APIToken: "tok"}), "zone-1")
}

func TestHostnameProvisioner_Create(t *testing.T) {
	var got map[string]any
	p := newTestProvisioner(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/zones/zone-1/custom_hostnames", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = io.WriteString(w, `{"success":true,"errors":[],"messages":[],"result":{"id":"0d89c70d-ad9f-4843-b99f-6cc0252067e9","hostname":"acme.rgtools.se","status":"pending"}}`)
	})

	hostname, err := p.CreateHostname(context.Background(), "acme.rgtools.se")
	require.NoError(t, err)
	assert.Equal(t, &domain.CustomHostname{
		ID:       "0d89c70d-ad9f-4843-b99f-6cc0252067e9",
		Hostname: "acme.rgtools.se",
		Status:   "pending",
	}, hostname)

	assert.Equal(t, "acme.rgtools.se", got["hostname"])
	assert.Equal(t, map[string]any{
		"method":   "http",
		"type":     "dv",
		"settings": map[string]any{"http2": "on", "min_tls_version": "1.2"},
	}, got["ssl"])
}

func TestHostnameProvisioner_CreateSurfacesProviderPayload(t *testing.T) {
	const payload = `{"success":false,"errors":[{"code":1406,"message":"Duplicate custom hostname found."}],"messages":[],"result":null}`
	p := newTestProvisioner(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, payload)
	})

	_, err := p.CreateHostname(context.Background(), "acme.rgtools.se")
	var ue *domain.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusConflict, ue.StatusCode)
	assert.Equal(t, payload, ue.Details)
	assert.Equal(t, payload, err.Error())
}

func TestHostnameProvisioner_SuccessFalseIsAnError(t *testing.T) {
	p := newTestProvisioner(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"errors":[{"code":1000,"message":"nope"}]}`)
	})

	_, err := p.CreateHostname(context.Background(), "acme.rgtools.se")
	var ue *domain.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Contains(t, ue.Details, "nope")
}

func TestHostnameProvisioner_Delete(t *testing.T) {
	var method, path string
	p := newTestProvisioner(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		_, _ = io.WriteString(w, `{"success":true,"result":{"id":"cf-1"}}`)
	})

	require.NoError(t, p.DeleteHostname(context.Background(), "cf-1"))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/zones/zone-1/custom_hostnames/cf-1", path)
}

func TestHostnameProvisioner_VerifyToken(t *testing.T) {
	status := http.StatusOK
	p := newTestProvisioner(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/tokens/verify", r.URL.Path)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"success":true,"result":{"id":"t","status":"active"}}`)
	})

	require.NoError(t, p.VerifyToken(context.Background()))

	status = http.StatusUnauthorized
	require.Error(t, p.VerifyToken(context.Background()))
}
