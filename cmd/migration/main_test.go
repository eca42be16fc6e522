package main

import (
	"errors"
	"testing"

	"github.com/riskibarqy/esports-hub/internal/config"
	"github.com/riskibarqy/esports-hub/internal/platform/logging"
)

func TestRun_NoCommand(t *testing.T) {
	err := run(config.Migration{}, logging.NewNop(), nil)
	if !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestParseSteps(t *testing.T) {
	tests := []struct {
		args    []string
		want    int
		wantErr bool
	}{
		{args: nil, want: 1},
		{args: []string{" 3 "}, want: 3},
		{args: []string{"0"}, wantErr: true},
		{args: []string{"two"}, wantErr: true},
	}

	for _, tc := range tests {
		got, err := parseSteps(tc.args)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseSteps(%v): expected error", tc.args)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("parseSteps(%v) = %d, %v; want %d", tc.args, got, err, tc.want)
		}
	}
}

func TestParseVersionAndTarget(t *testing.T) {
	if v, err := parseVersion("12"); err != nil || v != 12 {
		t.Fatalf("parseVersion: %d, %v", v, err)
	}
	if _, err := parseVersion("-1"); err == nil {
		t.Fatalf("expected error for negative version")
	}
	if v, err := parseTarget("7"); err != nil || v != 7 {
		t.Fatalf("parseTarget: %d, %v", v, err)
	}
	if _, err := parseTarget("latest"); err == nil {
		t.Fatalf("expected error for non-numeric target")
	}
}
