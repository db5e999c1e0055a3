package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/hamidoujand/signup/pkg/keystore"
)

func Test_GenKeyLoadsIntoKeyStore(t *testing.T) {
	dir := t.TempDir()

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"genkey", "--dir", dir})

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %s", err)
	}

	if !strings.Contains(out.String(), "kid: ") {
		t.Fatalf("expected kid in output, got %q", out.String())
	}

	ks := keystore.New()
	count, err := ks.LoadFromFileSystem(os.DirFS(dir))
	if err != nil {
		t.Fatalf("loadFromFileSystem: %s", err)
	}

	if count != 1 {
		t.Fatalf("keys=%d, got=%d", 1, count)
	}

	kid := strings.TrimSpace(strings.SplitN(strings.TrimPrefix(out.String(), "kid: "), "\n", 2)[0])
	if _, err := ks.PrivateKey(kid); err != nil {
		t.Errorf("privateKey(%s): %s", kid, err)
	}
}

func Test_MigrateRequiresFlags(t *testing.T) {
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"migrate", "--user", ""})

	err := root.Execute()
	if err == nil {
		t.Fatal("expected an error for an empty user")
	}

	if !strings.Contains(err.Error(), "--user") {
		t.Errorf("expected error to name the flag, got %q", err)
	}
}
