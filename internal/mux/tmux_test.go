package mux

import "testing"

func TestValidateSessionName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "demo", false},
		{"with dash", "my-project", false},
		{"with underscore", "my_project", false},
		{"embedded group marker accepted", "weird__cc_name", false},
		{"empty", "", true},
		{"colon", "demo:1", true},
		{"dot", "demo.local", true},
		{"dot and colon", "a.b:c", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSessionName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSessionName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestParsePaneLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Pane
		wantErr bool
	}{
		{
			name: "agent pane",
			line: "%3\t1\t80\t24\tnode\tdemo__cc_1",
			want: Pane{ID: "%3", Index: 1, Width: 80, Height: 24, Command: "node", Title: "demo__cc_1"},
		},
		{
			name: "user pane with hostname title",
			line: "%0\t0\t120\t40\tzsh\tworkstation",
			want: Pane{ID: "%0", Index: 0, Width: 120, Height: 40, Command: "zsh", Title: "workstation"},
		},
		{
			name: "title containing tabs survives bounded split",
			line: "%5\t2\t80\t24\tbash\ta\tb",
			want: Pane{ID: "%5", Index: 2, Width: 80, Height: 24, Command: "bash", Title: "a\tb"},
		},
		{
			name:    "too few fields",
			line:    "%1\t0\t80",
			wantErr: true,
		},
		{
			name:    "non-numeric index",
			line:    "%1\tx\t80\t24\tzsh\ttitle",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePaneLine(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePaneLine(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parsePaneLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}
