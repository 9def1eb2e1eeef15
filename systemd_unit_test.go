package svcmgr

import (
	"strings"
	"testing"
)

func TestBuildUnitFile(t *testing.T) {
	spec := Spec{
		Name:        "demo",
		ExecPath:    "/usr/local/bin/demo",
		Description: "Demo service",
		WorkingDir:  "/var/lib/demo",
		Args:        []string{"--level=3"},
		Env:         map[string]string{"B_KEY": "two", "A_KEY": "one"},
	}

	unit := buildUnitFile(spec)

	wantLines := []string{
		"[Unit]",
		"Description=Demo service",
		"After=network.target",
		"[Service]",
		"Type=simple",
		"ExecStart=/usr/local/bin/demo --level=3",
		"WorkingDirectory=/var/lib/demo",
		"Restart=on-failure",
		"RestartSec=5",
		`Environment="A_KEY=one"`,
		`Environment="B_KEY=two"`,
		"[Install]",
		"WantedBy=multi-user.target",
	}
	for _, want := range wantLines {
		if !strings.Contains(unit, want+"\n") {
			t.Errorf("unit file missing line %q:\n%s", want, unit)
		}
	}

	// Env lines come out sorted regardless of map iteration order
	if strings.Index(unit, "A_KEY") > strings.Index(unit, "B_KEY") {
		t.Error("environment lines are not sorted")
	}
}

func TestBuildUnitFileDefaults(t *testing.T) {
	unit := buildUnitFile(Spec{Name: "demo", ExecPath: "/usr/local/bin/demo"})

	if !strings.Contains(unit, "Description=demo service\n") {
		t.Errorf("missing fallback description:\n%s", unit)
	}
	if strings.Contains(unit, "WorkingDirectory=") {
		t.Error("empty WorkingDir must not emit a WorkingDirectory line")
	}
	if strings.Contains(unit, "Environment=") {
		t.Error("empty Env must not emit Environment lines")
	}
}

func TestExecStartLineQuoting(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want string
	}{
		{
			"bare_tokens_stay_bare",
			Spec{ExecPath: "/usr/local/bin/demo", Args: []string{"--level=3"}},
			"/usr/local/bin/demo --level=3",
		},
		{
			"space_in_path",
			Spec{ExecPath: "/opt/my app/demo"},
			`"/opt/my app/demo"`,
		},
		{
			"quote_in_arg",
			Spec{ExecPath: "/usr/local/bin/demo", Args: []string{`say "hi"`}},
			`/usr/local/bin/demo "say \"hi\""`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := execStartLine(tc.spec); got != tc.want {
				t.Errorf("execStartLine = %q, want %q", got, tc.want)
			}
		})
	}
}
