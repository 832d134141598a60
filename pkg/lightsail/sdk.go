package lightsail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	ls "github.com/aws/aws-sdk-go-v2/service/lightsail"
	lstypes "github.com/aws/aws-sdk-go-v2/service/lightsail/types"
	"github.com/sirupsen/logrus"
)

// SDKClient implements Client with the AWS SDK, one regional client per concern.
type SDKClient struct {
	service *ls.Client
	dns     *ls.Client
	certs   *ls.Client
	log     *logrus.Entry
}

// NewSDKClient loads the shared AWS configuration (~/.aws/config, env) and
// builds the regional Lightsail clients.
func NewSDKClient(ctx context.Context, regions Regions, profile string, log *logrus.Entry) (*SDKClient, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	regional := func(region string) *ls.Client {
		return ls.NewFromConfig(cfg, func(o *ls.Options) {
			o.Region = region
		})
	}

	return &SDKClient{
		service: regional(regions.Service),
		dns:     regional(regions.DNS),
		certs:   regional(regions.Certificate),
		log:     log.WithField("backend", "sdk"),
	}, nil
}

func (c *SDKClient) CertificateNames(ctx context.Context) ([]string, error) {
	out, err := c.certs.GetCertificates(ctx, &ls.GetCertificatesInput{})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(out.Certificates))
	for _, cert := range out.Certificates {
		names = append(names, aws.ToString(cert.CertificateName))
	}
	return names, nil
}

func (c *SDKClient) CreateCertificate(ctx context.Context, name, domain string) error {
	_, err := c.certs.CreateCertificate(ctx, &ls.CreateCertificateInput{
		CertificateName: aws.String(name),
		DomainName:      aws.String(domain),
	})
	return err
}

func (c *SDKClient) DomainEntryNames(ctx context.Context, zone string) ([]string, error) {
	entries, err := c.DomainEntries(ctx, zone)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names, nil
}

func (c *SDKClient) DomainEntries(ctx context.Context, zone string) ([]DomainEntry, error) {
	out, err := c.dns.GetDomain(ctx, &ls.GetDomainInput{DomainName: aws.String(zone)})
	if err != nil {
		return nil, err
	}
	if out.Domain == nil {
		return nil, nil
	}

	entries := make([]DomainEntry, 0, len(out.Domain.DomainEntries))
	for _, e := range out.Domain.DomainEntries {
		entries = append(entries, fromSDKEntry(e))
	}
	return entries, nil
}

func (c *SDKClient) CreateDomainEntry(ctx context.Context, zone string, entry DomainEntry) error {
	_, err := c.dns.CreateDomainEntry(ctx, &ls.CreateDomainEntryInput{
		DomainName:  aws.String(zone),
		DomainEntry: toSDKEntry(entry),
	})
	return err
}

func (c *SDKClient) UpdateDomainEntry(ctx context.Context, zone string, entry DomainEntry) error {
	_, err := c.dns.UpdateDomainEntry(ctx, &ls.UpdateDomainEntryInput{
		DomainName:  aws.String(zone),
		DomainEntry: toSDKEntry(entry),
	})
	return err
}

func (c *SDKClient) ContainerService(ctx context.Context, name string) (*ContainerService, error) {
	out, err := c.service.GetContainerServices(ctx, &ls.GetContainerServicesInput{
		ServiceName: aws.String(name),
	})
	if err != nil {
		return nil, err
	}
	if len(out.ContainerServices) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}

	svc := out.ContainerServices[0]
	return &ContainerService{
		Name:              aws.ToString(svc.ContainerServiceName),
		State:             string(svc.State),
		URL:               aws.ToString(svc.Url),
		PublicDomainNames: svc.PublicDomainNames,
	}, nil
}

func (c *SDKClient) UpdatePublicDomainNames(ctx context.Context, service string, domains map[string][]string) error {
	_, err := c.service.UpdateContainerService(ctx, &ls.UpdateContainerServiceInput{
		ServiceName:       aws.String(service),
		PublicDomainNames: domains,
	})
	return err
}

func fromSDKEntry(e lstypes.DomainEntry) DomainEntry {
	return DomainEntry{
		ID:      aws.ToString(e.Id),
		Name:    aws.ToString(e.Name),
		Type:    RecordType(aws.ToString(e.Type)),
		Target:  aws.ToString(e.Target),
		IsAlias: aws.ToBool(e.IsAlias),
		Options: e.Options,
	}
}

func toSDKEntry(e DomainEntry) *lstypes.DomainEntry {
	out := &lstypes.DomainEntry{
		Name:    aws.String(e.Name),
		Type:    aws.String(string(e.Type)),
		Target:  aws.String(e.Target),
		IsAlias: aws.Bool(e.IsAlias),
		Options: e.Options,
	}
	if e.ID != "" {
		out.Id = aws.String(e.ID)
	}
	return out
}
