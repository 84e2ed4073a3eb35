package authkit

import (
	"errors"
	"time"

	"github.com/MrEthical07/authkit/token"
)

// Config defines a public type used by authkit APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Token     TokenConfig
	Session   SessionConfig
	Blacklist BlacklistConfig
	Events    EventConfig
	Metrics   MetricsConfig
	HTTP      HTTPConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by authkit APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	Secret        []byte
	ExpireTime    time.Duration
	SigningMethod string // "hs256" (default), "hs384", "hs512"
	Issuer        string
	Audience      string
	Leeway        time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by authkit APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	Enabled         bool
	RedisPrefix     string
	Timeout         time.Duration // idle budget between requests
	RenewalEnabled  bool
	RenewalInterval time.Duration
	ValidateDevice  bool
	ValidateStatus  bool
}

/*
====================================
BLACKLIST CONFIG
====================================
*/

// BlacklistConfig defines a public type used by authkit APIs.
//
// BlacklistConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type BlacklistConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

/*
====================================
EVENT CONFIG
====================================
*/

// EventConfig defines a public type used by authkit APIs.
//
// EventConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type EventConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by authkit APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

/*
====================================
HTTP CONFIG
====================================
*/

// HTTPConfig defines a public type used by authkit APIs.
//
// HTTPConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HTTPConfig struct {
	TokenHeader  string
	TokenPrefix  string
	TokenCookie  string // optional fallback when the header is absent
	DeviceHeader string
	TenantHeader string
	ExcludePaths []string
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			ExpireTime:    7 * 24 * time.Hour,
			SigningMethod: string(token.MethodHS256),
		},
		Session: SessionConfig{
			Enabled:         true,
			RedisPrefix:     "authc",
			Timeout:         30 * time.Minute,
			RenewalEnabled:  true,
			RenewalInterval: 7 * 24 * time.Hour,
			ValidateDevice:  true,
			ValidateStatus:  true,
		},
		Blacklist: BlacklistConfig{
			Enabled:    true,
			DefaultTTL: 24 * time.Hour,
		},
		Events: EventConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		HTTP: HTTPConfig{
			TokenHeader:  "Authorization",
			TokenPrefix:  "Bearer ",
			DeviceHeader: "X-Device-Id",
			TenantHeader: "X-Tenant-Id",
		},
	}
}

func cloneConfig(cfg Config) Config {
	clone := cfg

	if cfg.Token.Secret != nil {
		clone.Token.Secret = append([]byte(nil), cfg.Token.Secret...)
	}
	if cfg.HTTP.ExcludePaths != nil {
		clone.HTTP.ExcludePaths = append([]string(nil), cfg.HTTP.ExcludePaths...)
	}

	return clone
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	if len(c.Token.Secret) == 0 {
		return errors.New("token secret required")
	}
	if c.Token.ExpireTime <= 0 {
		return errors.New("token expire time must be positive")
	}
	if c.Session.Enabled {
		if c.Session.Timeout < 0 {
			return errors.New("session timeout must not be negative")
		}
		if c.Session.RenewalEnabled && c.Session.RenewalInterval <= 0 {
			return errors.New("renewal interval must be positive when renewal is enabled")
		}
	}
	if c.Blacklist.Enabled && c.Blacklist.DefaultTTL <= 0 {
		return errors.New("blacklist default TTL must be positive")
	}
	if c.Events.Enabled && c.Events.BufferSize <= 0 {
		return errors.New("event buffer size must be positive")
	}
	if c.HTTP.TokenHeader == "" {
		return errors.New("token header required")
	}
	return nil
}
