package kafka

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/turtacn/MolParse/pkg/errors"
)

// SecurityConfig carries the TLS and SASL settings shared by the producer
// and the consumer.
type SecurityConfig struct {
	SASLEnabled   bool   `mapstructure:"sasl_enabled" yaml:"sasl_enabled" json:"sasl_enabled"`
	SASLMechanism string `mapstructure:"sasl_mechanism" yaml:"sasl_mechanism" json:"sasl_mechanism"`
	SASLUsername  string `mapstructure:"sasl_username" yaml:"sasl_username" json:"sasl_username"`
	SASLPassword  string `mapstructure:"sasl_password" yaml:"sasl_password" json:"-"`
	TLSEnabled    bool   `mapstructure:"tls_enabled" yaml:"tls_enabled" json:"tls_enabled"`
	TLSCACertPath string `mapstructure:"tls_ca_cert_path" yaml:"tls_ca_cert_path" json:"tls_ca_cert_path"`
}

func (c SecurityConfig) validate() error {
	if c.SASLEnabled {
		switch c.SASLMechanism {
		case "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512":
		default:
			return errors.New(errors.ErrCodeValidation, "unsupported SASL mechanism").
				WithDetail(c.SASLMechanism)
		}
		if c.SASLUsername == "" || c.SASLPassword == "" {
			return errors.New(errors.ErrCodeValidation, "SASL credentials required")
		}
	}
	return nil
}

// tlsConfig builds a *tls.Config from the security settings, or nil when TLS
// is disabled.  A missing CA file falls back to the system pool.
func (c SecurityConfig) tlsConfig() (*tls.Config, error) {
	if !c.TLSEnabled {
		return nil, nil
	}
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if c.TLSCACertPath != "" {
		pem, err := os.ReadFile(c.TLSCACertPath)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeValidation, "failed to read kafka CA certificate")
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.New(errors.ErrCodeValidation, "kafka CA certificate contains no usable PEM blocks")
		}
		cfg.RootCAs = pool
	}
	return cfg, nil
}

// saslMechanism builds the SASL mechanism from the security settings, or nil
// when SASL is disabled.
func (c SecurityConfig) saslMechanism() (sasl.Mechanism, error) {
	if !c.SASLEnabled {
		return nil, nil
	}
	switch c.SASLMechanism {
	case "PLAIN":
		return plain.Mechanism{Username: c.SASLUsername, Password: c.SASLPassword}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, c.SASLUsername, c.SASLPassword)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, c.SASLUsername, c.SASLPassword)
	default:
		return nil, errors.New(errors.ErrCodeValidation, "unsupported SASL mechanism").
			WithDetail(c.SASLMechanism)
	}
}
