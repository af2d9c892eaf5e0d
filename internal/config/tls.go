package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// MySQLTLSConfigName is the key the TLS config is registered under with the
// MySQL driver; MySQLDSN references it when TLS is configured.
const MySQLTLSConfigName = "sqlgate"

func (c *Config) mysqlTLSConfigured() bool {
	return c.MySQLTLSCA != "" || c.MySQLTLSCert != "" || c.MySQLTLSKey != ""
}

// MySQLTLS builds a *tls.Config from the MySQL TLS fields.
// Returns nil, nil if nothing is configured (plaintext mode). A CA alone
// enables server verification; a cert/key pair adds client authentication.
func (c *Config) MySQLTLS() (*tls.Config, error) {
	if !c.mysqlTLSConfigured() {
		return nil, nil
	}

	tlsConfig := &tls.Config{}

	if c.MySQLTLSCA != "" {
		caPEM, err := os.ReadFile(c.MySQLTLSCA)
		if err != nil {
			return nil, fmt.Errorf("read mysql CA cert: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return nil, fmt.Errorf("failed to parse mysql CA cert")
		}
		tlsConfig.RootCAs = pool
	}

	if c.MySQLTLSCert != "" || c.MySQLTLSKey != "" {
		cert, err := tls.LoadX509KeyPair(c.MySQLTLSCert, c.MySQLTLSKey)
		if err != nil {
			return nil, fmt.Errorf("load mysql client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	if c.MySQLTLSServerName != "" {
		tlsConfig.ServerName = c.MySQLTLSServerName
	}

	return tlsConfig, nil
}
