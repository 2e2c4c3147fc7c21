// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config holds the signature checker configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

// FailurePolicy decides what happens to a request whose onchain query could
// not be answered.
type FailurePolicy string

const (
	// FailurePolicyFatal drops the reply and reports the fault to the monitor.
	FailurePolicyFatal FailurePolicy = "fatal"
	// FailurePolicyReject replies with a rejection.
	FailurePolicyReject FailurePolicy = "reject"
)

const (
	DefaultWeb3URL          = "http://127.0.0.1:8545"
	DefaultQueueSize        = 1024
	DefaultOnchainTimeout   = 10 * time.Second
	DefaultMetricsNamespace = "sigcheck"

	envPrefix = "SIGCHECK_"
)

var (
	ErrInvalidQueueSize       = errors.New("queue size must be positive")
	ErrInvalidMaxInFlight     = errors.New("max in flight must not be negative")
	ErrInvalidOnchainRate     = errors.New("onchain rate must not be negative")
	ErrInvalidOnchainBurst    = errors.New("onchain burst must be positive when the rate is limited")
	ErrInvalidOnchainTimeout  = errors.New("onchain timeout must not be negative")
	ErrInvalidFailurePolicy   = errors.New("unknown onchain failure policy")
	ErrInvalidContractAddress = errors.New("invalid contract address")
)

type Config struct {
	// Web3URL is the Ethereum JSON-RPC endpoint.
	Web3URL string `yaml:"web3URL"`
	// ContractAddress is the rollup contract holding change pubkey facts.
	ContractAddress string `yaml:"contractAddress"`

	// QueueSize is the capacity of the inbound request queue.
	QueueSize int `yaml:"queueSize"`
	// MaxInFlight caps concurrently running verifications. Zero means no cap.
	MaxInFlight int64 `yaml:"maxInFlight"`

	// OnchainRPS limits onchain queries per second. Zero means no limit.
	OnchainRPS     float64       `yaml:"onchainRPS"`
	OnchainBurst   int           `yaml:"onchainBurst"`
	OnchainTimeout time.Duration `yaml:"onchainTimeout"`

	OnchainFailurePolicy FailurePolicy `yaml:"onchainFailurePolicy"`

	MetricsNamespace string `yaml:"metricsNamespace"`
}

func Default() Config {
	return Config{
		Web3URL:              DefaultWeb3URL,
		QueueSize:            DefaultQueueSize,
		OnchainTimeout:       DefaultOnchainTimeout,
		OnchainFailurePolicy: FailurePolicyFatal,
		MetricsNamespace:     DefaultMetricsNamespace,
	}
}

// Load reads the YAML file at [path] over the defaults and applies
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %q: %w", path, err)
		}
	}

	ApplyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnvOverrides overwrites fields from SIGCHECK_* environment variables.
// Values that fail to parse are ignored.
func ApplyEnvOverrides(cfg *Config) {
	if v, ok := lookupEnv("WEB3_URL"); ok {
		cfg.Web3URL = v
	}
	if v, ok := lookupEnv("CONTRACT_ADDRESS"); ok {
		cfg.ContractAddress = v
	}
	if v, ok := lookupEnv("QUEUE_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.QueueSize = n
		}
	}
	if v, ok := lookupEnv("MAX_IN_FLIGHT"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxInFlight = n
		}
	}
	if v, ok := lookupEnv("ONCHAIN_RPS"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.OnchainRPS = f
		}
	}
	if v, ok := lookupEnv("ONCHAIN_BURST"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.OnchainBurst = n
		}
	}
	if v, ok := lookupEnv("ONCHAIN_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.OnchainTimeout = d
		}
	}
	if v, ok := lookupEnv("ONCHAIN_FAILURE_POLICY"); ok {
		cfg.OnchainFailurePolicy = FailurePolicy(v)
	}
	if v, ok := lookupEnv("METRICS_NAMESPACE"); ok {
		cfg.MetricsNamespace = v
	}
}

func lookupEnv(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (c Config) Validate() error {
	switch {
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidQueueSize, c.QueueSize)
	case c.MaxInFlight < 0:
		return fmt.Errorf("%w: %d", ErrInvalidMaxInFlight, c.MaxInFlight)
	case c.OnchainRPS < 0:
		return fmt.Errorf("%w: %f", ErrInvalidOnchainRate, c.OnchainRPS)
	case c.OnchainRPS > 0 && c.OnchainBurst <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidOnchainBurst, c.OnchainBurst)
	case c.OnchainTimeout < 0:
		return fmt.Errorf("%w: %s", ErrInvalidOnchainTimeout, c.OnchainTimeout)
	case c.ContractAddress != "" && !common.IsHexAddress(c.ContractAddress):
		return fmt.Errorf("%w: %q", ErrInvalidContractAddress, c.ContractAddress)
	}

	switch c.OnchainFailurePolicy {
	case FailurePolicyFatal, FailurePolicyReject:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFailurePolicy, c.OnchainFailurePolicy)
	}
}
