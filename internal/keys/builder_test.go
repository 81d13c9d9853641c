package keys

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/spf13/afero"
	"github.com/toeirei/sshkeymanager/internal/model"
	"github.com/toeirei/sshkeymanager/internal/testutil"
)

func TestRender_OrderAndOptions(t *testing.T) {
	fsys := afero.NewMemMapFs()
	testutil.WriteTree(t, fsys, "/k", map[string]string{
		"b.pub": "ssh-ed25519 AAAAb b@example.com\n\n",
		"a.pub": "ssh-rsa AAAAa a@example.com   \n",
	})
	entries := []model.KeyEntry{
		{Path: "/k/b.pub"},
		{Path: "/k/a.pub", Options: `from="10.0.0.0/8",no-pty`},
	}

	out, err := NewWriter(fsys, nil).Render(entries)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	want := "ssh-ed25519 AAAAb b@example.com\n" +
		`from="10.0.0.0/8",no-pty ssh-rsa AAAAa a@example.com` + "\n"
	if string(out) != want {
		t.Fatalf("unexpected output:\n got %q\nwant %q", out, want)
	}
}

func TestRender_Empty(t *testing.T) {
	out, err := NewWriter(afero.NewMemMapFs(), nil).Render(nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty output, got %q", out)
	}
}

// TestWriteFile_AbortsOnVanishedKey simulates a key removed between
// discovery and write: nothing may be written.
func TestWriteFile_AbortsOnVanishedKey(t *testing.T) {
	fsys := afero.NewMemMapFs()
	testutil.WriteTree(t, fsys, "/k", map[string]string{"a.pub": "ssh-ed25519 AAAAa\n"})
	entries := []model.KeyEntry{{Path: "/k/a.pub"}, {Path: "/k/gone.pub"}}

	err := NewWriter(fsys, nil).WriteFile(entries, "/out/authorized_keys")
	var rerr *KeyReadError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected KeyReadError, got %v", err)
	}
	if rerr.Path != "/k/gone.pub" {
		t.Errorf("unexpected path in error: %s", rerr.Path)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected error to wrap fs.ErrNotExist, got %v", err)
	}
	if ok, _ := afero.Exists(fsys, "/out/authorized_keys"); ok {
		t.Fatalf("output must not exist after an aborted write")
	}
}

func TestWriteFile_SkipPolicy(t *testing.T) {
	fsys := afero.NewMemMapFs()
	testutil.WriteTree(t, fsys, "/k", map[string]string{"a.pub": "ssh-ed25519 AAAAa\n"})
	w := NewWriter(fsys, nil)
	w.Policy = model.SkipAndWarn

	if err := w.WriteFile([]model.KeyEntry{{Path: "/k/gone.pub"}, {Path: "/k/a.pub"}}, "/k/out"); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, err := afero.ReadFile(fsys, "/k/out")
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "ssh-ed25519 AAAAa\n" {
		t.Fatalf("unexpected output %q", data)
	}
	info, err := fsys.Stat("/k/out")
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("unexpected mode %v", info.Mode().Perm())
	}
}
