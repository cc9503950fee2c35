package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/chrisokoth/ops-toolkit/internal/domain/pipeline"
)

func TestRootHasExpectedCommands(t *testing.T) {
	want := map[string]bool{
		"deploy":   false,
		"teardown": false,
		"plan":     false,
		"list":     false,
		"version":  false,
	}

	for _, cmd := range rootCmd.Commands() {
		name := strings.Fields(cmd.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}

	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestRootSilencesCobraNoise(t *testing.T) {
	if !rootCmd.SilenceErrors || !rootCmd.SilenceUsage {
		t.Error("root command must handle error output itself")
	}
}

func TestFormatErrorPlanningError(t *testing.T) {
	err := pipeline.NewPlanningError("domain", `"bad" is not a fully qualified domain name`)

	got := formatError(err)
	if !strings.Contains(got, "domain") {
		t.Errorf("formatError() = %q, want field name included", got)
	}
}

func TestFormatErrorVerboseIncludesUnderlying(t *testing.T) {
	underlying := errors.New("tag fqdn failed")
	err := &pipeline.PlanningError{Field: "domain", Message: "invalid", Underlying: underlying}

	verbose = true
	defer func() { verbose = false }()

	got := formatError(err)
	if !strings.Contains(got, "Technical details") {
		t.Errorf("formatError() = %q, want technical details in verbose mode", got)
	}
}

func TestPrintErrorTo(t *testing.T) {
	out := &bytes.Buffer{}
	printErrorTo(out, errors.New("boom"))

	if got := out.String(); got != "Error: boom\n" {
		t.Errorf("printErrorTo() wrote %q", got)
	}
}

func TestTeardownRequiresName(t *testing.T) {
	if err := teardownCmd.Args(teardownCmd, []string{}); err == nil {
		t.Error("teardown must require a deployment name argument")
	}
	if err := teardownCmd.Args(teardownCmd, []string{"myapp"}); err != nil {
		t.Errorf("teardown with one argument: %v", err)
	}
}
