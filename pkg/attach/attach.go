// Package attach runs the full flow that puts a custom domain in front of a
// container service: certificate, CNAME, domain binding, propagation wait and
// alias A record.
package attach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zdunecki/lsdomain/pkg/certs"
	"github.com/zdunecki/lsdomain/pkg/container"
	"github.com/zdunecki/lsdomain/pkg/dns"
	"github.com/zdunecki/lsdomain/pkg/lightsail"
)

// ErrMissingContainer is returned when no container service name is given.
var ErrMissingContainer = errors.New("container name is required")

// Options describes one attach request.
type Options struct {
	ContainerName   string
	Domain          string
	CertificateName string
	// Zone overrides the zone inferred from Domain.
	Zone        string
	SkipNSCheck bool
}

// Settings tune the components used by an Attacher.
type Settings struct {
	BindMode     container.BindMode
	MaxAttempts  int
	PollInterval time.Duration
	// DryRun skips the propagation wait, since no record is written.
	DryRun bool
}

// Result carries every value computed during a run.
type Result struct {
	Domain          string       `json:"domain"`
	Zone            string       `json:"zone"`
	RecordName      string       `json:"recordName"`
	FullRecordName  string       `json:"fullRecordName"`
	CertificateName string       `json:"certificateName"`
	Target          string       `json:"target"`
	Nameservers     string       `json:"nameservers,omitempty"`
	Steps           []StepTiming `json:"steps"`
}

// Logf receives user-facing progress lines.
type Logf func(format string, args ...interface{})

type Attacher struct {
	certs   *certs.Manager
	records *dns.Reconciler
	binder  *container.Binder
	waiter  *dns.Waiter
	client  lightsail.Client
	detect  func(context.Context, string) dns.ProviderInfo
	log     *logrus.Entry
	logf    Logf
	dryRun  bool
}

// New wires the components of the attach flow around one platform client.
func New(client lightsail.Client, settings Settings, log *logrus.Entry, logf Logf) *Attacher {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	if _, ok := client.(*lightsail.DryRun); ok {
		settings.DryRun = true
	}
	return &Attacher{
		certs:   certs.NewManager(client, log),
		records: dns.NewReconciler(client, log),
		binder:  container.NewBinder(client, settings.BindMode, log),
		waiter:  dns.NewWaiter(client, settings.MaxAttempts, settings.PollInterval, log),
		client:  client,
		detect:  dns.DetectProvider,
		log:     log.WithField("component", "attach"),
		logf:    logf,
		dryRun:  settings.DryRun,
	}
}

// resolve validates opts and splits the domain. No remote call is made.
func resolve(opts Options) (record, zone string, err error) {
	if strings.TrimSpace(opts.ContainerName) == "" {
		return "", "", ErrMissingContainer
	}

	domain := strings.TrimSpace(opts.Domain)
	if opts.Zone == "" {
		return dns.Split(domain)
	}

	zone = strings.TrimSuffix(strings.TrimSpace(opts.Zone), ".")
	record, err = dns.SplitInZone(domain, zone)
	return record, zone, err
}

// Run attaches opts.Domain to the container service. Any failing step aborts
// the run; nothing already done is rolled back.
func (a *Attacher) Run(ctx context.Context, opts Options) (*Result, error) {
	record, zone, err := resolve(opts)
	if err != nil {
		return nil, err
	}

	domain := strings.TrimSuffix(strings.TrimSpace(opts.Domain), ".")
	res := &Result{
		Domain:         domain,
		Zone:           zone,
		RecordName:     record,
		FullRecordName: dns.FullRecordName(record, zone),
	}
	log := a.log.WithFields(logrus.Fields{"domain": domain, "service": opts.ContainerName})

	a.logf("🚀 Attaching %s to container service %s\n", domain, opts.ContainerName)
	a.logf("   Zone: %s\n", zone)
	a.logf("   Record: %s\n", record)
	a.logf("\n")

	var steps []Step
	if !opts.SkipNSCheck {
		steps = append(steps, Step{Name: "nameservers", Run: func(ctx context.Context) error {
			a.checkNameservers(ctx, res)
			return nil
		}})
	}

	steps = append(steps,
		Step{Name: "certificate", Run: func(ctx context.Context) error {
			a.logf("⏳ Ensuring certificate...\n")
			name, err := a.certs.Ensure(ctx, domain, opts.CertificateName)
			if err != nil {
				return err
			}
			res.CertificateName = name
			a.logf("✅ Certificate: %s\n", name)
			return nil
		}},
		Step{Name: "cname", Run: func(ctx context.Context) error {
			a.logf("⏳ Creating CNAME record...\n")
			target, err := a.binder.Target(ctx, opts.ContainerName)
			if err != nil {
				return err
			}
			res.Target = target

			if _, err := a.records.EnsureCNAME(ctx, zone, record, target); err != nil {
				return err
			}
			a.logf("✅ CNAME %s -> %s\n", res.FullRecordName, target)
			return nil
		}},
		Step{Name: "bind", Run: func(ctx context.Context) error {
			a.logf("⏳ Binding domain to container service...\n")
			target, err := a.binder.Bind(ctx, container.BindRequest{
				Service:         opts.ContainerName,
				Domain:          domain,
				CertificateName: res.CertificateName,
			})
			if err != nil {
				return err
			}
			res.Target = target
			a.logf("✅ Domain bound to %s\n", opts.ContainerName)
			return nil
		}},
		Step{Name: "wait", Run: func(ctx context.Context) error {
			if a.dryRun {
				a.logf("ℹ️  Dry run: not waiting for %s to appear\n", res.FullRecordName)
				log.WithField("record", res.FullRecordName).Info("dry run, skipping propagation wait")
				return nil
			}
			a.logf("⏳ Waiting for %s to appear in zone %s...\n", res.FullRecordName, zone)
			if err := a.waiter.WaitForRecord(ctx, record, zone); err != nil {
				return err
			}
			a.logf("✅ Record is visible\n")
			return nil
		}},
		Step{Name: "alias", Run: func(ctx context.Context) error {
			a.logf("⏳ Pointing alias A record at %s...\n", res.Target)
			if err := a.records.UpsertARecord(ctx, zone, record, res.Target); err != nil {
				return err
			}
			a.logf("✅ Alias A record configured\n")
			return nil
		}},
	)

	timings, err := runSteps(ctx, log, steps)
	res.Steps = timings
	if err != nil {
		return nil, err
	}

	a.logf("\n")
	a.logf("✅ %s is attached to %s\n", domain, opts.ContainerName)
	a.logf("🔗 Once the certificate is validated your app is reachable at: https://%s\n", domain)
	return res, nil
}

func (a *Attacher) checkNameservers(ctx context.Context, res *Result) {
	info := a.detect(ctx, res.Zone)
	res.Nameservers = info.Host

	switch {
	case !info.Known():
		a.logf("⚠️  Could not look up nameservers for %s\n", res.Zone)
	case !info.ServedByAWS():
		a.logf("⚠️  %s is served by %s (%s); records created here will not resolve until the zone is delegated to Lightsail\n",
			res.Zone, info.Name, info.Host)
	default:
		a.logf("✅ Nameservers: %s\n", info.Host)
	}
	a.log.WithFields(logrus.Fields{"zone": res.Zone, "provider": info.Name, "host": info.Host}).Debug("nameserver check")
}

// Status is a read-only view of everything Run would touch.
type Status struct {
	Domain             string                  `json:"domain"`
	Zone               string                  `json:"zone"`
	RecordName         string                  `json:"recordName"`
	CertificateName    string                  `json:"certificateName"`
	CertificatePresent bool                    `json:"certificatePresent"`
	Entries            []lightsail.DomainEntry `json:"entries"`
	ServiceURL         string                  `json:"serviceUrl"`
	PublicDomainNames  map[string][]string     `json:"publicDomainNames"`
}

// Bound reports whether the service maps the domain under the certificate.
func (s *Status) Bound() bool {
	for _, d := range s.PublicDomainNames[s.CertificateName] {
		if dns.SameName(d, s.Domain) {
			return true
		}
	}
	return false
}

// Inspect gathers the current state without changing anything.
func (a *Attacher) Inspect(ctx context.Context, opts Options) (*Status, error) {
	record, zone, err := resolve(opts)
	if err != nil {
		return nil, err
	}

	domain := strings.TrimSuffix(strings.TrimSpace(opts.Domain), ".")
	st := &Status{
		Domain:          domain,
		Zone:            zone,
		RecordName:      record,
		CertificateName: opts.CertificateName,
	}
	if st.CertificateName == "" {
		st.CertificateName = certs.NameFromDomain(domain)
	}

	names, err := a.client.CertificateNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	for _, n := range names {
		if n == st.CertificateName {
			st.CertificatePresent = true
			break
		}
	}

	entries, err := a.client.DomainEntries(ctx, zone)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records in %s: %w", zone, err)
	}
	full := dns.FullRecordName(record, zone)
	for _, e := range entries {
		if dns.SameName(e.Name, full) || dns.SameName(e.Name, record) {
			st.Entries = append(st.Entries, e)
		}
	}

	svc, err := a.client.ContainerService(ctx, opts.ContainerName)
	if err != nil {
		return nil, fmt.Errorf("failed to get container service %s: %w", opts.ContainerName, err)
	}
	st.ServiceURL = svc.URL
	st.PublicDomainNames = svc.PublicDomainNames

	return st, nil
}
