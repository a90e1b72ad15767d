package transports

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSOCKSConfig is returned for unusable proxy settings.
var ErrInvalidSOCKSConfig = errors.New("invalid socks5 config")

// SOCKSConfig holds SOCKS5 proxy settings.
type SOCKSConfig struct {
	// Server is the SOCKS5 proxy hostname or IP.
	Server string `yaml:"server"`
	// Port is the SOCKS5 proxy port.
	Port int `yaml:"port"`
	// Username for SOCKS5 authentication (optional).
	Username string `yaml:"username"`
	// Password for SOCKS5 authentication (optional).
	Password string `yaml:"password"`
}

// Address returns the proxy endpoint in host:port form.
func (c SOCKSConfig) Address() string {
	return net.JoinHostPort(c.Server, strconv.Itoa(c.Port))
}

// Validate checks that the proxy endpoint is usable.
func (c SOCKSConfig) Validate() error {
	if c.Server == "" {
		return fmt.Errorf("%w: server address is required", ErrInvalidSOCKSConfig)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidSOCKSConfig, c.Port)
	}

	if c.Password != "" && c.Username == "" {
		return fmt.Errorf("%w: password given without username", ErrInvalidSOCKSConfig)
	}

	return nil
}

// ParseSOCKSAddress builds a config from a host:port string, e.g. "127.0.0.1:9050".
func ParseSOCKSAddress(hostport string) (SOCKSConfig, error) {
	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		return SOCKSConfig{}, fmt.Errorf("%w: %w", ErrInvalidSOCKSConfig, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return SOCKSConfig{}, fmt.Errorf("%w: port %q", ErrInvalidSOCKSConfig, portStr)
	}

	cfg := SOCKSConfig{Server: host, Port: port}
	return cfg, cfg.Validate()
}

// LoadSOCKSConfig reads a YAML file with server, port, username and password keys.
func LoadSOCKSConfig(path string) (SOCKSConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SOCKSConfig{}, fmt.Errorf("read socks5 config: %w", err)
	}

	var cfg SOCKSConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SOCKSConfig{}, fmt.Errorf("%w: %s: %w", ErrInvalidSOCKSConfig, path, err)
	}

	return cfg, cfg.Validate()
}
