package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"retreat-quote/core/ratetable"
	"retreat-quote/core/types"
	qerrors "retreat-quote/internal/errors"
)

func parseSelection(t *testing.T, args ...string) (*cobra.Command, *selectionFlags) {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	f := &selectionFlags{}
	f.register(c)
	if err := c.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	return c, f
}

func TestSelectionFromFlags(t *testing.T) {
	c, f := parseSelection(t, "--participants", "10", "--start", "2025-06-12", "--end", "2025-06-15", "--audio-video")
	q, err := f.quote(c)
	if err != nil {
		t.Fatal(err)
	}
	sel := q.Selection
	if sel.Formula != types.FormulaBasic || sel.Room != types.RoomA || sel.Participants != 10 || sel.StaffCount != 1 {
		t.Errorf("selection = %+v", sel)
	}
	if !sel.AudioVideo || sel.Heater {
		t.Errorf("options = %+v", sel)
	}
	if n := q.Event.Nights(); n != 3 {
		t.Errorf("nights = %d, want 3", n)
	}
}

func TestNightsFlag(t *testing.T) {
	c, f := parseSelection(t, "--start", "2025-06-12", "--nights", "2")
	q, err := f.quote(c)
	if err != nil {
		t.Fatal(err)
	}
	if got := q.Event.End.Format(types.DateLayout); got != "2025-06-14" {
		t.Errorf("end = %s", got)
	}
}

func TestFlagsOverrideInputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.json")
	body := `{"selection":{"participants":12,"formula":"premium","room":"room_b","heater":true,"staff_count":2}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	c, f := parseSelection(t, "--input", path, "--participants", "20")
	q, err := f.quote(c)
	if err != nil {
		t.Fatal(err)
	}
	sel := q.Selection
	if sel.Participants != 20 {
		t.Errorf("participants = %d, flag should win", sel.Participants)
	}
	if sel.Formula != types.FormulaPremium || sel.Room != types.RoomB || !sel.Heater || sel.StaffCount != 2 {
		t.Errorf("file values lost: %+v", sel)
	}
}

func TestUnknownFormulaFlag(t *testing.T) {
	c, f := parseSelection(t, "--formula", "deluxe")
	_, err := f.quote(c)
	if !qerrors.IsType(err, qerrors.TypeUnrecognizedKey) {
		t.Errorf("err = %v, want UNRECOGNIZED_KEY", err)
	}
}

func TestRenderFormats(t *testing.T) {
	c, f := parseSelection(t, "--participants", "10", "--start", "2025-06-12", "--end", "2025-06-15")
	q, err := f.quote(c)
	if err != nil {
		t.Fatal(err)
	}
	result, err := price(q, ratetable.Default(), false)
	if err != nil {
		t.Fatal(err)
	}

	f.format = "json"
	var buf bytes.Buffer
	if err := render(&buf, f, result); err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Pricing struct {
			GrandTotal string `json:"grand_total"`
		} `json:"pricing"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("json output: %v", err)
	}
	if doc.Pricing.GrandTotal != "3640.5" {
		t.Errorf("grand_total = %s", doc.Pricing.GrandTotal)
	}

	f.format = "cli"
	buf.Reset()
	if err := render(&buf, f, result); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "RETREAT QUOTE SUMMARY") {
		t.Errorf("cli output:\n%s", buf.String())
	}

	f.format = "yaml"
	if err := render(&buf, f, result); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestCompareResult(t *testing.T) {
	c, f := parseSelection(t, "--participants", "10", "--start", "2025-06-12", "--end", "2025-06-15")
	q, err := f.quote(c)
	if err != nil {
		t.Fatal(err)
	}
	result, err := price(q, ratetable.Default(), true)
	if err != nil {
		t.Fatal(err)
	}
	if result.Comparison == nil || !result.Comparison.HasUpgrade() {
		t.Fatal("compare result has no upgrade")
	}
	if result.Breakdown != result.Comparison.Current {
		t.Error("breakdown should be the current formula")
	}
}

func TestRatesExportAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.hcl")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	rootCmd.SetArgs([]string{"rates", "export", "--out", path})
	if err := Execute(); err != nil {
		t.Fatalf("export: %v", err)
	}

	loaded, err := ratetable.Load(path)
	if err != nil {
		t.Fatalf("exported file does not load: %v", err)
	}
	if loaded.Fingerprint() != ratetable.Default().Fingerprint() {
		t.Error("exported table differs from the defaults")
	}

	out.Reset()
	rootCmd.SetArgs([]string{"rates", "validate", path})
	if err := Execute(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out.String(), "is valid") {
		t.Errorf("validate output = %q", out.String())
	}
}

func TestPrintRates(t *testing.T) {
	var buf bytes.Buffer
	printRates(&buf, ratetable.Default())
	for _, want := range []string{ratetable.DefaultVersion, "Essentiel", "98.00 €", "room_a_room_b"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}
