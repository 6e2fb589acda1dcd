package domain

import (
	"regexp"
	"strings"
)

// Key prefixes of the flat record namespace. No two record kinds share one.
const (
	PartnerPrefix = "partner:"
	ToplistPrefix = "toplist:"
	DomainPrefix  = "domain:"
)

const (
	DefaultColor   = "#000000"
	DefaultLayout  = "standard"
	DefaultColumns = 1

	DomainStatusActive = "active"
)

// PartnerConfig is stored at partner:<id>. The id is the partner name.
type PartnerConfig struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Whitelabel bool   `json:"whitelabel"`
	Color      string `json:"color"`
	Subdomain  string `json:"subdomain"`
	CreatedAt  int64  `json:"createdAt"`
}

// ToplistConfig is a partner-owned display configuration stored at
// toplist:<partnerId>:<id>.
type ToplistConfig struct {
	ID          string `json:"id"`
	PartnerID   string `json:"partnerId"`
	Type        string `json:"type"`
	Departure   string `json:"departure"`
	Destination string `json:"destination"`
	Layout      string `json:"layout"`
	Color       string `json:"color"`
	Columns     int    `json:"columns"`
	CreatedAt   int64  `json:"createdAt"`
}

// DomainRecord is stored at domain:<id>.
type DomainRecord struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	PartnerID      string `json:"partnerId"`
	CreatedAt      string `json:"createdAt"`
	CustomHostname string `json:"customHostname"`
	CloudflareID   string `json:"cloudflareId"`
	Status         string `json:"status"`
}

// CustomHostname is the edge provider's representation of a provisioned hostname.
type CustomHostname struct {
	ID       string `json:"id"`
	Hostname string `json:"hostname"`
	Status   string `json:"status,omitempty"`
}

func PartnerKey(partnerID string) string {
	return PartnerPrefix + partnerID
}

func ToplistKey(partnerID, toplistID string) string {
	return ToplistPartnerPrefix(partnerID) + toplistID
}

// ToplistPartnerPrefix scopes every toplist key to its owning partner.
func ToplistPartnerPrefix(partnerID string) string {
	return ToplistPrefix + partnerID + ":"
}

func DomainKey(domainID string) string {
	return DomainPrefix + domainID
}

// Subdomain joins a label and a zone suffix into a fully-qualified hostname.
func Subdomain(label, suffix string) string {
	return label + "." + strings.TrimPrefix(suffix, ".")
}

var dnsLabel = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?$`)

// IsDNSLabel reports whether s is a single RFC 1123 hostname label. Partner
// ids must be labels: they name a subdomain and scope record keys, so they
// may contain neither dots nor the key separator.
func IsDNSLabel(s string) bool {
	return dnsLabel.MatchString(s)
}
