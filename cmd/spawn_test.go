package cmd

import (
	"testing"

	"github.com/agentmux/agentmux/internal/session"
)

func TestParseCounts(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    session.Counts
		wantErr bool
	}{
		{"default", nil, session.Counts{Claude: 1}, false},
		{"claude only", []string{"2"}, session.Counts{Claude: 2}, false},
		{"all groups", []string{"2", "1", "1"}, session.Counts{Claude: 2, Codex: 1, Gemini: 1}, false},
		{"explicit zero", []string{"0", "0", "3"}, session.Counts{Gemini: 3}, false},
		{"negative", []string{"-1"}, session.Counts{}, true},
		{"not a number", []string{"two"}, session.Counts{}, true},
		{"float", []string{"1.5"}, session.Counts{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCounts(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCounts(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseCounts(%v) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestSendTargetMutuallyExclusive(t *testing.T) {
	defer func() { flagSendGroup, flagSendPane, flagSendAll = "", -1, false }()

	flagSendGroup = "cc"
	flagSendPane = 2
	flagSendAll = false
	if _, err := sendTarget(); err == nil {
		t.Fatal("expected error for --group with --pane")
	}

	flagSendGroup = ""
	flagSendPane = -1
	flagSendAll = false
	target, err := sendTarget()
	if err != nil {
		t.Fatalf("sendTarget: %v", err)
	}
	if target.String() != "all-except-first" {
		t.Errorf("default target = %s, want all-except-first", target)
	}
}
