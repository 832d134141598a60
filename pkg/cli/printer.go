package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/zdunecki/lsdomain/pkg/attach"
)

// Printer writes user-facing output. In JSON mode progress lines are
// suppressed and results are emitted as a single JSON document.
type Printer struct {
	out  io.Writer
	json bool
}

func NewPrinter(out io.Writer, jsonOutput bool) *Printer {
	return &Printer{out: out, json: jsonOutput}
}

// Logf prints a progress line.
func (p *Printer) Logf(format string, args ...interface{}) {
	if p.json {
		return
	}
	fmt.Fprintf(p.out, format, args...)
}

// Result prints the outcome of an attach run.
func (p *Printer) Result(res *attach.Result) error {
	if p.json {
		return p.encode(res)
	}

	lines := []string{
		styleHighlight.Render("Summary"),
		fmt.Sprintf("Domain:      %s", res.Domain),
		fmt.Sprintf("Zone:        %s", res.Zone),
		fmt.Sprintf("Record:      %s", res.FullRecordName),
		fmt.Sprintf("Certificate: %s", res.CertificateName),
		fmt.Sprintf("Target:      %s", res.Target),
	}
	for _, s := range res.Steps {
		lines = append(lines, styleSubtitle.Render(fmt.Sprintf("  %-12s %s", s.Name, s.Duration.Round(time.Millisecond))))
	}
	fmt.Fprintln(p.out, strings.Join(lines, "\n"))
	return nil
}

// Status prints a read-only status report.
func (p *Printer) Status(st *attach.Status) error {
	if p.json {
		return p.encode(st)
	}

	mark := func(ok bool) string {
		if ok {
			return "✅"
		}
		return "❌"
	}

	fmt.Fprintln(p.out, styleHighlight.Render("Status of "+st.Domain))
	fmt.Fprintf(p.out, "%s Certificate %s\n", mark(st.CertificatePresent), st.CertificateName)
	fmt.Fprintf(p.out, "%s Domain bound to service (%s)\n", mark(st.Bound()), st.ServiceURL)

	if len(st.Entries) == 0 {
		fmt.Fprintf(p.out, "❌ No records for %s in zone %s\n", st.RecordName, st.Zone)
	}
	for _, e := range st.Entries {
		alias := ""
		if e.IsAlias {
			alias = " (alias)"
		}
		fmt.Fprintf(p.out, "✅ %-6s %s -> %s%s\n", e.Type, e.Name, e.Target, alias)
	}

	if len(st.PublicDomainNames) > 0 {
		fmt.Fprintln(p.out, styleSubtitle.Render("Public domain names:"))
		certNames := make([]string, 0, len(st.PublicDomainNames))
		for c := range st.PublicDomainNames {
			certNames = append(certNames, c)
		}
		sort.Strings(certNames)
		for _, c := range certNames {
			fmt.Fprintf(p.out, "   %s: %s\n", c, strings.Join(st.PublicDomainNames[c], ", "))
		}
	}
	return nil
}

func (p *Printer) encode(v interface{}) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
