package certs

import (
	"crypto/tls"
	"crypto/x509"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(t *testing.T, cert tls.Certificate) *x509.Certificate {
	t.Helper()
	require.Len(t, cert.Certificate, 1)
	parsed, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	return parsed
}

func TestStore_Certificate(t *testing.T) {
	tests := []struct {
		setup         func(t *testing.T, dir string)
		name          string
		errorContains string
		wantErr       bool
	}{
		{
			name: "issues a certificate when none is stored",
		},
		{
			name: "replaces unreadable files",
			setup: func(t *testing.T, dir string) {
				t.Helper()
				require.NoError(t, os.MkdirAll(dir, 0o700))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "petal-localhost.crt"), []byte("junk"), 0o600))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "petal-localhost.key"), []byte("junk"), 0o600))
			},
		},
		{
			name: "fails when the directory is a file",
			setup: func(t *testing.T, dir string) {
				t.Helper()
				require.NoError(t, os.MkdirAll(filepath.Dir(dir), 0o700))
				require.NoError(t, os.WriteFile(dir, []byte("not a directory"), 0o600))
			},
			wantErr:       true,
			errorContains: "failed to stat",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "certs")
			if tt.setup != nil {
				tt.setup(t, dir)
			}

			cert, err := NewStore(dir).Certificate()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			require.NoError(t, leaf(t, cert).VerifyHostname("localhost"))

			for _, name := range []string{"petal-localhost.crt", "petal-localhost.key"} {
				info, err := os.Stat(filepath.Join(dir, name))
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), name)
			}
		})
	}
}

func TestStore_ReusesValidCertificate(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir).Certificate()
	require.NoError(t, err)
	second, err := NewStore(dir).Certificate()
	require.NoError(t, err)

	assert.Equal(t, leaf(t, first).SerialNumber, leaf(t, second).SerialNumber)
}

func TestStore_RenewsExpiringCertificate(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir).Certificate()
	require.NoError(t, err)

	later := NewStore(dir)
	later.now = func() time.Time { return time.Now().Add(360 * 24 * time.Hour) }
	second, err := later.Certificate()
	require.NoError(t, err)

	assert.NotEqual(t, leaf(t, first).SerialNumber, leaf(t, second).SerialNumber)
	assert.True(t, leaf(t, second).NotAfter.After(leaf(t, first).NotAfter))
}

func TestStore_Exists(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  bool
	}{
		{name: "nothing stored"},
		{name: "both files", files: []string{"petal-localhost.crt", "petal-localhost.key"}, want: true},
		{name: "certificate only", files: []string{"petal-localhost.crt"}},
		{name: "key only", files: []string{"petal-localhost.key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, name := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
			}

			exists, err := NewStore(dir).Exists()
			require.NoError(t, err)
			assert.Equal(t, tt.want, exists)
		})
	}
}

func TestStore_CertificateProperties(t *testing.T) {
	cert, err := NewStore(t.TempDir()).Certificate()
	require.NoError(t, err)
	x509Cert := leaf(t, cert)

	assert.Equal(t, []string{"petal"}, x509Cert.Subject.Organization)
	assert.Equal(t, []string{"localhost"}, x509Cert.DNSNames)
	assert.Equal(t, []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth}, x509Cert.ExtKeyUsage)
	assert.True(t, x509Cert.NotAfter.After(time.Now().Add(364*24*time.Hour)))

	var v4, v6 bool
	for _, ip := range x509Cert.IPAddresses {
		v4 = v4 || ip.Equal(net.IPv4(127, 0, 0, 1))
		v6 = v6 || ip.Equal(net.IPv6loopback)
	}
	assert.True(t, v4, "IPv4 loopback")
	assert.True(t, v6, "IPv6 loopback")
}

func TestStore_TLSConfig(t *testing.T) {
	cfg, err := NewStore(t.TempDir()).TLSConfig()
	require.NoError(t, err)

	assert.Len(t, cfg.Certificates, 1)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
}
