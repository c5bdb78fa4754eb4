package testinfra

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"
)

// CertBundle is a throwaway CA with one server and one client certificate,
// all PEM encoded.
type CertBundle struct {
	CACert, CAKey         []byte
	ServerCert, ServerKey []byte
	ClientCert, ClientKey []byte
}

// CertPaths are the files WriteToDir produced.
type CertPaths struct {
	CACert     string
	ServerCert string
	ServerKey  string
	ClientCert string
	ClientKey  string
}

// ClientCommonName is the role the client certificate authenticates as.
const ClientCommonName = PostgresUser

type issued struct {
	der []byte
	key *ecdsa.PrivateKey
}

// GenerateCertBundle issues certificates valid for one hour. Hosts that parse
// as IPs become IP SANs, the rest DNS SANs.
func GenerateCertBundle(hosts []string) (*CertBundle, error) {
	now := time.Now()

	caTemplate := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "savemigrate-test-ca"},
		NotBefore:             now.Add(-5 * time.Minute),
		NotAfter:              now.Add(time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	ca, err := issue("CA", caTemplate, nil, nil)
	if err != nil {
		return nil, err
	}
	caCert, err := x509.ParseCertificate(ca.der)
	if err != nil {
		return nil, fmt.Errorf("parse CA certificate: %w", err)
	}

	serverTemplate := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: "savemigrate-test-server"},
		NotBefore:    now.Add(-5 * time.Minute),
		NotAfter:     now.Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			serverTemplate.IPAddresses = append(serverTemplate.IPAddresses, ip)
		} else {
			serverTemplate.DNSNames = append(serverTemplate.DNSNames, h)
		}
	}
	server, err := issue("server", serverTemplate, caCert, ca.key)
	if err != nil {
		return nil, err
	}

	clientTemplate := &x509.Certificate{
		SerialNumber: big.NewInt(3),
		Subject:      pkix.Name{CommonName: ClientCommonName},
		NotBefore:    now.Add(-5 * time.Minute),
		NotAfter:     now.Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
	client, err := issue("client", clientTemplate, caCert, ca.key)
	if err != nil {
		return nil, err
	}

	bundle := &CertBundle{
		CACert:     encodeCertPEM(ca.der),
		ServerCert: encodeCertPEM(server.der),
		ClientCert: encodeCertPEM(client.der),
	}
	for _, k := range []struct {
		dst  *[]byte
		key  *ecdsa.PrivateKey
		name string
	}{
		{&bundle.CAKey, ca.key, "CA"},
		{&bundle.ServerKey, server.key, "server"},
		{&bundle.ClientKey, client.key, "client"},
	} {
		if *k.dst, err = encodeKeyPEM(k.key); err != nil {
			return nil, fmt.Errorf("encode %s key: %w", k.name, err)
		}
	}

	return bundle, nil
}

// issue self-signs template when parent is nil.
func issue(name string, template, parent *x509.Certificate, parentKey *ecdsa.PrivateKey) (*issued, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate %s key: %w", name, err)
	}
	if parent == nil {
		parent, parentKey = template, key
	}
	der, err := x509.CreateCertificate(rand.Reader, template, parent, &key.PublicKey, parentKey)
	if err != nil {
		return nil, fmt.Errorf("create %s certificate: %w", name, err)
	}
	return &issued{der: der, key: key}, nil
}

// WriteToDir writes every PEM with 0600 permissions, as libpq requires for keys.
func (b *CertBundle) WriteToDir(dir string) (*CertPaths, error) {
	paths := &CertPaths{
		CACert:     filepath.Join(dir, "ca.crt"),
		ServerCert: filepath.Join(dir, "server.crt"),
		ServerKey:  filepath.Join(dir, "server.key"),
		ClientCert: filepath.Join(dir, "client.crt"),
		ClientKey:  filepath.Join(dir, "client.key"),
	}

	files := map[string][]byte{
		paths.CACert:     b.CACert,
		paths.ServerCert: b.ServerCert,
		paths.ServerKey:  b.ServerKey,
		paths.ClientCert: b.ClientCert,
		paths.ClientKey:  b.ClientKey,
	}

	for path, data := range files {
		if err := os.WriteFile(path, data, 0600); err != nil {
			return nil, fmt.Errorf("write %s: %w", filepath.Base(path), err)
		}
	}

	return paths, nil
}

func encodeCertPEM(der []byte) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}

func encodeKeyPEM(key *ecdsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}), nil
}
