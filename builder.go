package authkit

import (
	"errors"

	"github.com/MrEthical07/authkit/blacklist"
	"github.com/MrEthical07/authkit/internal/rate"
	"github.com/MrEthical07/authkit/session"
	"github.com/MrEthical07/authkit/token"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Builder defines a public type used by authkit APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	realm     Realm
	eventSink EventSink
	logger    zerolog.Logger
	hasLogger bool

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSecret describes the withsecret operation and its observable behavior.
//
// WithSecret sets the token signing secret without replacing the rest of the
// configuration.
func (b *Builder) WithSecret(secret []byte) *Builder {
	b.config.Token.Secret = append([]byte(nil), secret...)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithRealm describes the withrealm operation and its observable behavior.
//
// WithRealm does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRealm(realm Realm) *Builder {
	b.realm = realm
	return b
}

// WithEventSink describes the witheventsink operation and its observable behavior.
//
// WithEventSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithEventSink(sink EventSink) *Builder {
	b.eventSink = sink
	return b
}

// WithLogger describes the withlogger operation and its observable behavior.
//
// WithLogger does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = logger
	b.hasLogger = true
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.redis == nil && (cfg.Session.Enabled || cfg.Blacklist.Enabled) {
		return nil, errors.New("redis client required")
	}

	tokenManager, err := token.NewManager(token.Config{
		Secret:        cfg.Token.Secret,
		TTL:           cfg.Token.ExpireTime,
		SigningMethod: token.SigningMethod(cfg.Token.SigningMethod),
		Issuer:        cfg.Token.Issuer,
		Audience:      cfg.Token.Audience,
		Leeway:        cfg.Token.Leeway,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:  cfg,
		tokens:  tokenManager,
		realm:   b.realm,
		metrics: NewMetrics(cfg.Metrics),
		log:     zerolog.Nop(),
	}
	if b.hasLogger {
		engine.log = b.logger
	}

	if b.redis != nil {
		store := session.NewStore(b.redis, cfg.Session.RedisPrefix)
		engine.store = store
		engine.sessions = session.NewManager(store)
		engine.limiter = rate.New(b.redis)
		engine.revocations = blacklist.NewStore(b.redis, cfg.Blacklist.DefaultTTL)
	}

	engine.events = newEventDispatcher(cfg.Events, b.eventSink)

	b.built = true
	return engine, nil
}
