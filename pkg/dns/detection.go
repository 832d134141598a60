package dns

import (
	"context"
	"net"
	"strings"
)

// Provider names the operator of a zone's nameservers.
type Provider string

const (
	ProviderAWS          Provider = "AWS (Lightsail / Route 53)"
	ProviderCloudflare   Provider = "Cloudflare"
	ProviderDigitalOcean Provider = "DigitalOcean"
	ProviderGoogleCloud  Provider = "Google Cloud DNS"
	ProviderAzure        Provider = "Azure DNS"
	ProviderNamecheap    Provider = "Namecheap"
	ProviderGoDaddy      Provider = "GoDaddy"
	ProviderUnknown      Provider = "Unknown"
)

// ProviderInfo holds the detected provider and the nameserver it was derived from.
type ProviderInfo struct {
	Name Provider
	Host string
}

// ServedByAWS reports whether the zone's nameservers belong to AWS, which is
// required for Lightsail records to take effect.
func (p ProviderInfo) ServedByAWS() bool {
	return p.Name == ProviderAWS
}

// Known reports whether any nameserver answered.
func (p ProviderInfo) Known() bool {
	return p.Host != ""
}

var resolveNS = net.DefaultResolver.LookupNS

// DetectProvider looks up the nameservers of zone and names their operator.
// An empty ProviderInfo means no nameserver answered.
func DetectProvider(ctx context.Context, zone string) ProviderInfo {
	records, err := resolveNS(ctx, trimDot(zone))
	if err != nil || len(records) == 0 {
		return ProviderInfo{}
	}

	host := strings.TrimSuffix(strings.ToLower(records[0].Host), ".")
	switch {
	case strings.Contains(host, "awsdns"):
		return ProviderInfo{Name: ProviderAWS, Host: host}
	case strings.Contains(host, "cloudflare.com"):
		return ProviderInfo{Name: ProviderCloudflare, Host: host}
	case strings.Contains(host, "digitalocean.com"):
		return ProviderInfo{Name: ProviderDigitalOcean, Host: host}
	case strings.Contains(host, "googledomains.com"), strings.Contains(host, "google.com"):
		return ProviderInfo{Name: ProviderGoogleCloud, Host: host}
	case strings.Contains(host, "azure-dns"):
		return ProviderInfo{Name: ProviderAzure, Host: host}
	case strings.Contains(host, "namecheap.com"), strings.Contains(host, "registrar-servers.com"):
		return ProviderInfo{Name: ProviderNamecheap, Host: host}
	case strings.Contains(host, "domaincontrol.com"), strings.Contains(host, "godaddy.com"):
		return ProviderInfo{Name: ProviderGoDaddy, Host: host}
	default:
		return ProviderInfo{Name: ProviderUnknown, Host: host}
	}
}
