package cli

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hamidoujand/signup/pkg/keystore"
	"github.com/spf13/cobra"
)

func newGenKeyCommand() *cobra.Command {
	var dir string
	var bits int

	cmd := &cobra.Command{
		Use:   "genkey",
		Short: "generates a new rsa signing key",
		Long: `Generate a PKCS#8 RSA private key named <kid>.pem, where kid is a new uuid.

Examples:
  admin genkey --dir=/etc/rsa-keys`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kid, path, err := generateKey(dir, bits)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "kid: %s\nfile: %s\n", kid, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory to write the key into.")
	cmd.Flags().IntVar(&bits, "bits", 2048, "Key size in bits.")

	return cmd
}

func generateKey(dir string, bits int) (string, string, error) {
	pk, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return "", "", fmt.Errorf("generateKey: %w", err)
	}

	pemBytes, err := keystore.EncodePrivateKey(pk)
	if err != nil {
		return "", "", fmt.Errorf("encodePrivateKey: %w", err)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", "", fmt.Errorf("mkdirAll: %w", err)
	}

	kid := uuid.NewString()
	path := filepath.Join(dir, kid+".pem")

	//O_EXCL so an existing key is never overwritten.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(pemBytes); err != nil {
		return "", "", fmt.Errorf("write %s: %w", path, err)
	}

	return kid, path, nil
}
