package cloudflare

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/rgtools/partner-admin/internal/core/domain"
	"github.com/rgtools/partner-admin/internal/core/ports"
)

const (
	customHostnamesPath = "/zones/{zone}/custom_hostnames"
	customHostnamePath  = "/zones/{zone}/custom_hostnames/{id}"
	tokenVerifyPath     = "/user/tokens/verify"
)

// HostnameProvisioner implements ports.HostnameProvisioner with custom
// hostnames in a single zone.
type HostnameProvisioner struct {
	client *resty.Client
	zoneID string
}

var _ ports.HostnameProvisioner = (*HostnameProvisioner)(nil)

func NewHostnameProvisioner(client *resty.Client, zoneID string) *HostnameProvisioner {
	return &HostnameProvisioner{client: client, zoneID: zoneID}
}

type sslSettings struct {
	HTTP2         string `json:"http2"`
	MinTLSVersion string `json:"min_tls_version"`
}

type sslRequest struct {
	Method   string      `json:"method"`
	Type     string      `json:"type"`
	Settings sslSettings `json:"settings"`
}

type createHostnameRequest struct {
	Hostname string     `json:"hostname"`
	SSL      sslRequest `json:"ssl"`
}

// dvHTTPCertificate is the certificate policy of every provisioned hostname:
// domain-validated over HTTP-01, TLS 1.2 minimum.
var dvHTTPCertificate = sslRequest{
	Method:   "http",
	Type:     "dv",
	Settings: sslSettings{HTTP2: "on", MinTLSVersion: "1.2"},
}

// CreateHostname registers fqdn as a custom hostname. Error responses are
// returned with the provider's payload as details.
func (p *HostnameProvisioner) CreateHostname(ctx context.Context, fqdn string) (*domain.CustomHostname, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetPathParam("zone", p.zoneID).
		SetHeader("Content-Type", "application/json").
		SetBody(createHostnameRequest{Hostname: fqdn, SSL: dvHTTPCertificate}).
		Post(customHostnamesPath)
	if err != nil {
		return nil, transportError("create custom hostname", err)
	}
	env, err := decodeEnvelope(resp)
	if err != nil {
		return nil, err
	}

	var hostname domain.CustomHostname
	if err := json.Unmarshal(env.Result, &hostname); err != nil {
		return nil, fmt.Errorf("create custom hostname: decode result: %w", err)
	}
	return &hostname, nil
}

func (p *HostnameProvisioner) DeleteHostname(ctx context.Context, providerID string) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetPathParam("zone", p.zoneID).
		SetPathParam("id", providerID).
		Delete(customHostnamePath)
	if err != nil {
		return transportError("delete custom hostname", err)
	}
	_, err = decodeEnvelope(resp)
	return err
}

// VerifyToken checks that the configured API token is active.
func (p *HostnameProvisioner) VerifyToken(ctx context.Context) error {
	resp, err := p.client.R().SetContext(ctx).Get(tokenVerifyPath)
	if err != nil {
		return transportError("verify token", err)
	}
	_, err = decodeEnvelope(resp)
	return err
}
