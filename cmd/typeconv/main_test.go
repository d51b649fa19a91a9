package main

import (
	"bytes"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("TYPECONV_OTEL_ENDPOINT", "")

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func TestRun(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		code   int
		stdout string
		stderr string
	}{
		{"resolve chain", []string{"-resolve", "int:string"}, 0, "int -> string (chained via int64)", ""},
		{"resolve none", []string{"-resolve", "bool:duration"}, 0, "no conversion from bool to time.Duration", ""},
		{"resolve unknown type", []string{"-resolve", "foo:int"}, 1, "", `unknown type "foo"`},
		{"convert", []string{"-convert", "1h30m", "-from", "duration", "-to", "string"}, 0, "1h30m0s", ""},
		{"convert default types", []string{"-convert", "42", "-to", "float64"}, 0, "42", ""},
		{"convert failure", []string{"-convert", "abc", "-from", "int"}, 1, "", "error[CANNOT_CONVERT]: cannot convert"},
		{"convert failure german", []string{"-convert", "abc", "-from", "int", "-lang", "de"}, 1, "", "Konvertierung nicht möglich"},
		{"compare mixed", []string{"-compare", "10,9.5", "-types", "int,float64"}, 0, "10 > 9.5 (greater than)", ""},
		{"compare versions", []string{"-compare", "1.2.0,1.10.0", "-types", "semver,semver"}, 0, "1.2.0 < 1.10.0", ""},
		{"compare strings", []string{"-compare", "a,b"}, 0, "a < b", ""},
		{"compare malformed", []string{"-compare", "a"}, 1, "", "-compare expects a,b"},
		{"rules", []string{"-rules"}, 0, "std@1.0.0", ""},
		{"list types", []string{"-list-types"}, 0, "semver", ""},
		{"version", []string{"-version"}, 0, "Addon: std@1.0.0", ""},
		{"version json", []string{"-version", "-json"}, 0, `"api": "1.0.0"`, ""},
		{"no action", nil, 2, "", "is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)
			if code != tt.code {
				t.Fatalf("exit code %d, want %d\nstdout: %s\nstderr: %s", code, tt.code, stdout, stderr)
			}

			if !strings.Contains(stdout, tt.stdout) {
				t.Errorf("stdout %q does not contain %q", stdout, tt.stdout)
			}

			if !strings.Contains(stderr, tt.stderr) {
				t.Errorf("stderr %q does not contain %q", stderr, tt.stderr)
			}
		})
	}
}

func TestRunVerboseLogsClose(t *testing.T) {
	_, _, stderr := runCLI(t, "-v", "-resolve", "int:float64")
	if !strings.Contains(stderr, "typeconv: engine closed") {
		t.Errorf("Expected engine log in %q", stderr)
	}
}
