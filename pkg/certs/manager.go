// Package certs pre-provisions the TLS certificate that the container
// service attaches once the domain is bound to it.
package certs

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/zdunecki/lsdomain/pkg/lightsail"
)

const nameSuffix = "-cert"

var derivedName = regexp.MustCompile(`^[a-z0-9-]+-cert$`)

// NameFromDomain derives a certificate name from a domain. Names that are
// already in derived form are returned unchanged.
func NameFromDomain(domain string) string {
	if derivedName.MatchString(domain) {
		return domain
	}

	var b strings.Builder
	for _, r := range strings.ToLower(domain) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	b.WriteString(nameSuffix)
	return b.String()
}

// Manager makes sure a named certificate exists for a domain.
type Manager struct {
	client lightsail.Client
	log    *logrus.Entry
}

func NewManager(client lightsail.Client, log *logrus.Entry) *Manager {
	return &Manager{
		client: client,
		log:    log.WithField("component", "certs"),
	}
}

// Ensure creates the certificate for domain unless one with the same name is
// already present. An empty name is derived from the domain. It returns the
// certificate name used.
func (m *Manager) Ensure(ctx context.Context, domain, name string) (string, error) {
	if name == "" {
		name = NameFromDomain(domain)
	}
	log := m.log.WithFields(logrus.Fields{"certificate": name, "domain": domain})

	existing, err := m.client.CertificateNames(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list certificates: %w", err)
	}
	for _, n := range existing {
		if n == name {
			log.Info("certificate already exists")
			return name, nil
		}
	}

	if err := m.client.CreateCertificate(ctx, name, domain); err != nil {
		if lightsail.IsAlreadyExists(err) {
			log.WithError(err).Info("certificate created concurrently, continuing")
			return name, nil
		}
		return "", fmt.Errorf("failed to create certificate %s: %w", name, err)
	}

	log.Info("requested certificate")
	return name, nil
}
