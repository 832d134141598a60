package lightsail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Runner executes the platform CLI and returns its stdout.
type Runner interface {
	Run(ctx context.Context, args ...string) ([]byte, error)
}

// execRunner shells out to the aws binary.
type execRunner struct {
	bin string
}

// NewExecRunner returns a Runner that invokes bin (defaults to "aws").
func NewExecRunner(bin string) Runner {
	if bin == "" {
		bin = "aws"
	}
	return &execRunner{bin: bin}
}

func (r *execRunner) Run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, &CommandError{Args: args, Stderr: msg, Err: err}
	}
	return stdout.Bytes(), nil
}

// CLIClient implements Client on top of `aws lightsail`.
type CLIClient struct {
	runner  Runner
	regions Regions
	profile string
	log     *logrus.Entry
}

// NewCLIClient creates a CLI-backed client.
func NewCLIClient(runner Runner, regions Regions, profile string, log *logrus.Entry) *CLIClient {
	return &CLIClient{
		runner:  runner,
		regions: regions,
		profile: profile,
		log:     log.WithField("backend", "cli"),
	}
}

func (c *CLIClient) run(ctx context.Context, region, output string, args ...string) ([]byte, error) {
	full := make([]string, 0, len(args)+7)
	full = append(full, "lightsail")
	full = append(full, args...)
	full = append(full, "--region", region, "--output", output)
	if c.profile != "" {
		full = append(full, "--profile", c.profile)
	}

	c.log.WithField("region", region).Debugf("aws %s", strings.Join(full, " "))
	return c.runner.Run(ctx, full...)
}

type certificatesResponse struct {
	Certificates []struct {
		CertificateName string `json:"certificateName"`
		DomainName      string `json:"domainName"`
	} `json:"certificates"`
}

func (c *CLIClient) CertificateNames(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, c.regions.Certificate, "json", "get-certificates")
	if err != nil {
		return nil, err
	}

	var resp certificatesResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse get-certificates output: %w", err)
	}

	names := make([]string, 0, len(resp.Certificates))
	for _, cert := range resp.Certificates {
		names = append(names, cert.CertificateName)
	}
	return names, nil
}

func (c *CLIClient) CreateCertificate(ctx context.Context, name, domain string) error {
	_, err := c.run(ctx, c.regions.Certificate, "json", "create-certificate",
		"--certificate-name", name,
		"--domain-name", domain)
	return err
}

// DomainEntryNames uses a JMESPath query with text output, which the CLI
// prints as whitespace separated names.
func (c *CLIClient) DomainEntryNames(ctx context.Context, zone string) ([]string, error) {
	out, err := c.run(ctx, c.regions.DNS, "text", "get-domain",
		"--domain-name", zone,
		"--query", "domain.domainEntries[].name")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, name := range strings.Fields(string(out)) {
		if name == "None" {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

type domainResponse struct {
	Domain struct {
		Name          string        `json:"name"`
		DomainEntries []DomainEntry `json:"domainEntries"`
	} `json:"domain"`
}

func (c *CLIClient) DomainEntries(ctx context.Context, zone string) ([]DomainEntry, error) {
	out, err := c.run(ctx, c.regions.DNS, "json", "get-domain", "--domain-name", zone)
	if err != nil {
		return nil, err
	}

	var resp domainResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse get-domain output: %w", err)
	}
	return resp.Domain.DomainEntries, nil
}

func (c *CLIClient) CreateDomainEntry(ctx context.Context, zone string, entry DomainEntry) error {
	return c.writeDomainEntry(ctx, "create-domain-entry", zone, entry)
}

func (c *CLIClient) UpdateDomainEntry(ctx context.Context, zone string, entry DomainEntry) error {
	return c.writeDomainEntry(ctx, "update-domain-entry", zone, entry)
}

func (c *CLIClient) writeDomainEntry(ctx context.Context, op, zone string, entry DomainEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal domain entry: %w", err)
	}

	_, err = c.run(ctx, c.regions.DNS, "json", op,
		"--domain-name", zone,
		"--domain-entry", string(payload))
	return err
}

type containerServicesResponse struct {
	ContainerServices []ContainerService `json:"containerServices"`
}

func (c *CLIClient) ContainerService(ctx context.Context, name string) (*ContainerService, error) {
	out, err := c.run(ctx, c.regions.Service, "json", "get-container-services", "--service-name", name)
	if err != nil {
		return nil, err
	}

	var resp containerServicesResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse get-container-services output: %w", err)
	}
	if len(resp.ContainerServices) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}
	return &resp.ContainerServices[0], nil
}

func (c *CLIClient) UpdatePublicDomainNames(ctx context.Context, service string, domains map[string][]string) error {
	payload, err := json.Marshal(domains)
	if err != nil {
		return fmt.Errorf("failed to marshal public domain names: %w", err)
	}

	_, err = c.run(ctx, c.regions.Service, "json", "update-container-service",
		"--service-name", service,
		"--public-domain-names", string(payload))
	return err
}
