// Package container maps custom domains onto a container service's public endpoint.
package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/zdunecki/lsdomain/pkg/dns"
	"github.com/zdunecki/lsdomain/pkg/lightsail"
)

// BindMode controls how a new domain combines with the service's existing mapping.
type BindMode string

const (
	// BindReplace sets the mapping to exactly the new certificate and domain.
	BindReplace BindMode = "replace"
	// BindMerge keeps existing certificates and domains and adds the new one.
	BindMerge BindMode = "merge"
)

// ErrNoURL is returned for services that have not been given a public endpoint yet.
var ErrNoURL = errors.New("container service has no public URL")

// ParseBindMode parses a bind mode; the empty string selects BindReplace.
func ParseBindMode(s string) (BindMode, error) {
	switch BindMode(s) {
	case "", BindReplace:
		return BindReplace, nil
	case BindMerge:
		return BindMerge, nil
	default:
		return "", fmt.Errorf("unknown bind mode %q (want %s or %s)", s, BindReplace, BindMerge)
	}
}

type BindRequest struct {
	Service         string
	Domain          string
	CertificateName string
}

// Binder updates the public domain mapping of a container service.
type Binder struct {
	client lightsail.Client
	mode   BindMode
	log    *logrus.Entry
}

func NewBinder(client lightsail.Client, mode BindMode, log *logrus.Entry) *Binder {
	if mode == "" {
		mode = BindReplace
	}
	return &Binder{
		client: client,
		mode:   mode,
		log:    log.WithField("component", "container"),
	}
}

// Target fetches the service and returns its endpoint as a bare hostname.
func (b *Binder) Target(ctx context.Context, service string) (string, error) {
	svc, err := b.service(ctx, service)
	if err != nil {
		return "", err
	}
	return dns.NormalizeTarget(svc.URL), nil
}

func (b *Binder) service(ctx context.Context, name string) (*lightsail.ContainerService, error) {
	svc, err := b.client.ContainerService(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get container service %s: %w", name, err)
	}
	if svc.URL == "" {
		return nil, fmt.Errorf("%w: %s (state %s)", ErrNoURL, name, svc.State)
	}
	return svc, nil
}

// Bind maps req.Domain under req.CertificateName on the service. The platform
// attaches the certificate as a consequence. It returns the service target.
func (b *Binder) Bind(ctx context.Context, req BindRequest) (string, error) {
	svc, err := b.service(ctx, req.Service)
	if err != nil {
		return "", err
	}
	target := dns.NormalizeTarget(svc.URL)

	mapping := b.mapping(svc.PublicDomainNames, req)
	log := b.log.WithFields(logrus.Fields{
		"service":     req.Service,
		"domain":      req.Domain,
		"certificate": req.CertificateName,
		"mode":        b.mode,
		"url":         svc.URL,
	})

	if err := b.client.UpdatePublicDomainNames(ctx, req.Service, mapping); err != nil {
		return "", fmt.Errorf("failed to update public domain names of %s: %w", req.Service, err)
	}

	log.Info("bound domain to container service")
	return target, nil
}

func (b *Binder) mapping(current map[string][]string, req BindRequest) map[string][]string {
	if b.mode != BindMerge {
		return map[string][]string{req.CertificateName: {req.Domain}}
	}

	out := make(map[string][]string, len(current)+1)
	for cert, domains := range current {
		out[cert] = append([]string(nil), domains...)
	}
	for _, d := range out[req.CertificateName] {
		if dns.SameName(d, req.Domain) {
			return out
		}
	}
	out[req.CertificateName] = append(out[req.CertificateName], req.Domain)
	return out
}
