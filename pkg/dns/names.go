package dns

import (
	"errors"
	"fmt"
	"strings"
)

// Apex is the record name used for the root of a zone.
const Apex = "@"

// ErrInvalidDomain is returned for domain names that cannot be split into a record and a zone.
var ErrInvalidDomain = errors.New("invalid domain name")

// Split decomposes a fully qualified domain into its record name and zone.
// A two-label domain is the zone apex; otherwise the leftmost label is the
// record and the rest is the zone.
func Split(domain string) (record, zone string, err error) {
	labels, err := labelsOf(domain)
	if err != nil {
		return "", "", err
	}

	if len(labels) == 2 {
		return Apex, strings.Join(labels, "."), nil
	}
	return labels[0], strings.Join(labels[1:], "."), nil
}

// SplitInZone returns the record name of domain inside an explicitly given zone.
func SplitInZone(domain, zone string) (string, error) {
	if _, err := labelsOf(zone); err != nil {
		return "", err
	}
	if _, err := labelsOf(domain); err != nil {
		return "", err
	}

	domain = trimDot(domain)
	zone = trimDot(zone)
	if strings.EqualFold(domain, zone) {
		return Apex, nil
	}

	suffix := "." + zone
	if len(domain) > len(suffix) && strings.EqualFold(domain[len(domain)-len(suffix):], suffix) {
		return domain[:len(domain)-len(suffix)], nil
	}
	return "", fmt.Errorf("%w: %s is not inside zone %s", ErrInvalidDomain, domain, zone)
}

// FullRecordName returns the fully qualified name of record inside zone.
func FullRecordName(record, zone string) string {
	if record == Apex || record == "" {
		return zone
	}
	return record + "." + zone
}

// NormalizeTarget turns a service URL into a bare hostname usable as a DNS
// target: one leading scheme and one trailing slash are removed.
func NormalizeTarget(url string) string {
	target := strings.TrimSpace(url)
	switch {
	case strings.HasPrefix(target, "https://"):
		target = strings.TrimPrefix(target, "https://")
	case strings.HasPrefix(target, "http://"):
		target = strings.TrimPrefix(target, "http://")
	}
	return strings.TrimSuffix(target, "/")
}

// SameName compares two record names, ignoring case and a trailing root dot.
func SameName(a, b string) bool {
	return strings.EqualFold(trimDot(a), trimDot(b))
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if SameName(n, name) {
			return true
		}
	}
	return false
}

func labelsOf(domain string) ([]string, error) {
	d := trimDot(strings.TrimSpace(domain))
	labels := strings.Split(d, ".")
	if len(labels) < 2 {
		return nil, fmt.Errorf("%w: %q needs at least two labels", ErrInvalidDomain, domain)
	}
	for _, l := range labels {
		if l == "" {
			return nil, fmt.Errorf("%w: %q has an empty label", ErrInvalidDomain, domain)
		}
	}
	return labels, nil
}

func trimDot(name string) string {
	return strings.TrimSuffix(name, ".")
}
