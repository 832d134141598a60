package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/zdunecki/lsdomain/pkg/attach"
	"github.com/zdunecki/lsdomain/pkg/lightsail"
)

func TestPrinterLogf(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).Logf("✅ %s\n", "done")
	if buf.String() != "✅ done\n" {
		t.Errorf("got %q", buf.String())
	}

	buf.Reset()
	NewPrinter(&buf, true).Logf("✅ %s\n", "done")
	if buf.Len() != 0 {
		t.Errorf("json mode should suppress progress, got %q", buf.String())
	}
}

func TestPrinterResultJSON(t *testing.T) {
	var buf bytes.Buffer
	res := &attach.Result{
		Domain:          "app.example.com",
		Zone:            "example.com",
		RecordName:      "app",
		FullRecordName:  "app.example.com",
		CertificateName: "app-example-com-cert",
		Target:          "svc.example",
		Steps:           []attach.StepTiming{{Name: "certificate", Duration: time.Second}},
	}
	if err := NewPrinter(&buf, true).Result(res); err != nil {
		t.Fatal(err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if got["certificateName"] != "app-example-com-cert" || got["target"] != "svc.example" {
		t.Errorf("unexpected document: %v", got)
	}
}

func TestPrinterStatus(t *testing.T) {
	var buf bytes.Buffer
	st := &attach.Status{
		Domain:             "app.example.com",
		Zone:               "example.com",
		RecordName:         "app",
		CertificateName:    "app-example-com-cert",
		CertificatePresent: true,
		Entries: []lightsail.DomainEntry{
			{Name: "app", Type: lightsail.RecordTypeA, Target: "svc.example", IsAlias: true},
		},
		ServiceURL:        "https://svc.example/",
		PublicDomainNames: map[string][]string{"app-example-com-cert": {"app.example.com"}},
	}
	if err := NewPrinter(&buf, false).Status(st); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"✅ Certificate app-example-com-cert",
		"✅ Domain bound to service",
		"app -> svc.example (alias)",
		"app-example-com-cert: app.example.com",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
