package lightsail

import (
	"context"

	"github.com/sirupsen/logrus"
)

// DryRun passes reads through to the wrapped client and only logs writes.
type DryRun struct {
	Client
	log *logrus.Entry
}

// NewDryRun wraps inner so that nothing on the platform is modified.
func NewDryRun(inner Client, log *logrus.Entry) *DryRun {
	return &DryRun{Client: inner, log: log.WithField("dryRun", true)}
}

func (d *DryRun) CreateCertificate(_ context.Context, name, domain string) error {
	d.log.WithFields(logrus.Fields{"certificate": name, "domain": domain}).Info("would create certificate")
	return nil
}

func (d *DryRun) CreateDomainEntry(_ context.Context, zone string, entry DomainEntry) error {
	d.log.WithFields(entryFields(zone, entry)).Info("would create domain entry")
	return nil
}

func (d *DryRun) UpdateDomainEntry(_ context.Context, zone string, entry DomainEntry) error {
	d.log.WithFields(entryFields(zone, entry)).Info("would update domain entry")
	return nil
}

func (d *DryRun) UpdatePublicDomainNames(_ context.Context, service string, domains map[string][]string) error {
	d.log.WithFields(logrus.Fields{"service": service, "domains": domains}).Info("would update public domain names")
	return nil
}

func entryFields(zone string, e DomainEntry) logrus.Fields {
	return logrus.Fields{
		"zone":    zone,
		"name":    e.Name,
		"type":    e.Type,
		"target":  e.Target,
		"isAlias": e.IsAlias,
	}
}
