package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	cfg "github.com/toeirei/sshkeymanager/internal/config"
)

// isolate points the user config directory at a temp dir and clears any
// SSHKEYMANAGER_* variables inherited from the environment.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	for _, e := range os.Environ() {
		if k, _, ok := strings.Cut(e, "="); ok && strings.HasPrefix(k, "SSHKEYMANAGER_") {
			t.Setenv(k, "")
			os.Unsetenv(k)
		}
	}
	return tmp
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringP("base", "b", "~/.ssh/keys", "")
	fs.StringP("hostname", "H", "", "")
	fs.StringP("output", "o", "~/.ssh/authorized_keys", "")
	fs.BoolP("no-backup", "n", false, "")
	fs.CountP("verbose", "v", "")
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	c, err := cfg.LoadConfig[cfg.Config](newFlags(), cfg.Defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if c.Base != "~/.ssh/keys" || c.Output != "~/.ssh/authorized_keys" {
		t.Errorf("unexpected paths: %+v", c)
	}
	if c.NoBackup || c.Verbose != 0 || c.Hostname != "" {
		t.Errorf("unexpected flags: %+v", c)
	}
	if c.Naming.KeySuffix != ".pub" || c.Naming.OptionsSuffix != ".opt" {
		t.Errorf("unexpected naming: %+v", c.Naming)
	}
	if c.Language != "en" {
		t.Errorf("unexpected language %q", c.Language)
	}
}

func TestLoadConfig_ReadsExplicitFile(t *testing.T) {
	tmp := isolate(t)
	yaml := "base: /srv/keys\nhostname: web1\nno-backup: true\nnaming:\n  key_suffix: .key\n"
	file := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := cfg.LoadConfig[cfg.Config](newFlags(), cfg.Defaults(), &file)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if c.Base != "/srv/keys" || c.Hostname != "web1" || !c.NoBackup {
		t.Errorf("file values not applied: %+v", c)
	}
	if c.Naming.KeySuffix != ".key" || c.Naming.OptionsSuffix != ".opt" {
		t.Errorf("unexpected naming: %+v", c.Naming)
	}
}

func TestLoadConfig_UserConfigDir(t *testing.T) {
	tmp := isolate(t)
	dir := filepath.Join(tmp, cfg.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, cfg.Name+".yaml"), []byte("output: /tmp/ak\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := cfg.LoadConfig[cfg.Config](newFlags(), cfg.Defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if c.Output != "/tmp/ak" {
		t.Errorf("user config not applied: %+v", c)
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	tmp := isolate(t)
	file := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(file, []byte("base: /from/file\nhostname: file-host\noutput: /from/file/ak\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("SSHKEYMANAGER_HOSTNAME", "env-host")
	t.Setenv("SSHKEYMANAGER_OUTPUT", "/from/env/ak")
	t.Setenv("SSHKEYMANAGER_NAMING_OPTIONS_SUFFIX", ".options")

	flags := newFlags()
	if err := flags.Parse([]string{"-o", "/from/flag/ak", "-vv"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	c, err := cfg.LoadConfig[cfg.Config](flags, cfg.Defaults(), &file)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if c.Base != "/from/file" {
		t.Errorf("base: got %q, want file value", c.Base)
	}
	if c.Hostname != "env-host" {
		t.Errorf("hostname: got %q, want env value", c.Hostname)
	}
	if c.Output != "/from/flag/ak" {
		t.Errorf("output: got %q, want flag value", c.Output)
	}
	if c.Verbose != 2 {
		t.Errorf("verbose: got %d, want 2", c.Verbose)
	}
	if c.Naming.OptionsSuffix != ".options" {
		t.Errorf("options suffix: got %q, want env value", c.Naming.OptionsSuffix)
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	tmp := isolate(t)
	file := filepath.Join(tmp, "bad.yaml")
	if err := os.WriteFile(file, []byte("base: [unterminated\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := cfg.LoadConfig[cfg.Config](newFlags(), cfg.Defaults(), &file); err == nil {
		t.Fatalf("expected an error for malformed YAML")
	}
}

func TestWriteConfigFile_CreatesFile(t *testing.T) {
	isolate(t)

	c := cfg.Config{Base: "/srv/keys", Output: "/srv/ak", Language: "en"}
	path, err := cfg.WriteConfigFile(&c, false)
	if err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}
	want, err := cfg.GetConfigPath(false)
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}
	if path != want {
		t.Fatalf("written to %s, want %s", path, want)
	}

	loaded, err := cfg.LoadConfig[cfg.Config](nil, cfg.Defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Base != "/srv/keys" || loaded.Output != "/srv/ak" {
		t.Fatalf("written config not read back: %+v", loaded)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	cases := map[string]string{
		"~":             home,
		"~/.ssh/keys":   filepath.Join(home, ".ssh", "keys"),
		"/etc/ssh/keys": "/etc/ssh/keys",
		"relative/path": "relative/path",
		"":              "",
	}
	for in, want := range cases {
		got, err := cfg.ExpandHome(in)
		if err != nil {
			t.Fatalf("ExpandHome(%q) failed: %v", in, err)
		}
		if got != want {
			t.Errorf("ExpandHome(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := cfg.ExpandHome("~no-such-user-sshkeymanager/x"); err == nil {
		t.Errorf("expected an error for an unknown user")
	}
}
