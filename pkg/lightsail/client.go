package lightsail

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// RecordType is the type of a Lightsail domain entry.
type RecordType string

const (
	RecordTypeA     RecordType = "A"
	RecordTypeCNAME RecordType = "CNAME"
)

// DomainEntry is a single record in a Lightsail DNS zone.
type DomainEntry struct {
	ID      string            `json:"id,omitempty"`
	Name    string            `json:"name"`
	Type    RecordType        `json:"type"`
	Target  string            `json:"target"`
	IsAlias bool              `json:"isAlias,omitempty"`
	Options map[string]string `json:"options,omitempty"`
}

// ContainerService is the subset of a Lightsail container service this tool reads.
type ContainerService struct {
	Name              string              `json:"containerServiceName"`
	State             string              `json:"state"`
	URL               string              `json:"url"`
	PublicDomainNames map[string][]string `json:"publicDomainNames"`
}

// Regions groups the regions the platform calls are issued against.
// Lightsail DNS zones only live in us-east-1, so DNS (and by default
// certificates) are addressed separately from the container service.
type Regions struct {
	Service     string
	DNS         string
	Certificate string
}

// Client is the interface to the certificate store, DNS zone and container
// service. Every method is a single remote call.
type Client interface {
	// CertificateNames lists the names of all certificates in the certificate region.
	CertificateNames(ctx context.Context) ([]string, error)

	// CreateCertificate requests a new certificate for domain.
	CreateCertificate(ctx context.Context, name, domain string) error

	// DomainEntryNames lists the record names in zone.
	DomainEntryNames(ctx context.Context, zone string) ([]string, error)

	// DomainEntries returns every record in zone.
	DomainEntries(ctx context.Context, zone string) ([]DomainEntry, error)

	// CreateDomainEntry adds entry to zone.
	CreateDomainEntry(ctx context.Context, zone string, entry DomainEntry) error

	// UpdateDomainEntry replaces the entry with the same ID in zone.
	UpdateDomainEntry(ctx context.Context, zone string, entry DomainEntry) error

	// ContainerService fetches the named container service.
	ContainerService(ctx context.Context, name string) (*ContainerService, error)

	// UpdatePublicDomainNames replaces the service's certificate to domain mapping.
	UpdatePublicDomainNames(ctx context.Context, service string, domains map[string][]string) error
}

// Backend selects how the platform is reached.
type Backend string

const (
	BackendCLI Backend = "cli"
	BackendSDK Backend = "sdk"
)

// Options configure New.
type Options struct {
	Backend Backend
	Binary  string
	Profile string
	Regions Regions
	DryRun  bool
	Log     *logrus.Entry
}

// New builds the Client for the configured backend.
func New(ctx context.Context, opts Options) (Client, error) {
	var (
		client Client
		err    error
	)

	switch opts.Backend {
	case BackendCLI, "":
		client = NewCLIClient(NewExecRunner(opts.Binary), opts.Regions, opts.Profile, opts.Log)
	case BackendSDK:
		client, err = NewSDKClient(ctx, opts.Regions, opts.Profile, opts.Log)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown backend: %s", opts.Backend)
	}

	if opts.DryRun {
		client = NewDryRun(client, opts.Log)
	}
	return client, nil
}
