package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"solstice_leads/internal/domain/entities"
	"solstice_leads/internal/infrastructure/cache"
	"solstice_leads/internal/usecase/interfaces"
)

var (
	ErrInvalidID        = errors.New("invalid id")
	ErrEmptySearchQuery = errors.New("search query is empty")
)

const (
	defaultPageSize    = 20
	defaultMaxPageSize = 100
	defaultCacheTTL    = time.Minute
	recentWindow       = 7 * 24 * time.Hour
)

// Option configures the optional collaborators shared by the lead usecases.
type Option func(*options)

type options struct {
	users       interfaces.IUserDirectory
	notify      *NotificationDispatcher
	kv          cache.KVStore
	cacheTTL    time.Duration
	defaultSize int
	maxSize     int
	log         *zap.Logger
	now         func() time.Time
}

func newOptions(opts []Option) options {
	o := options{
		cacheTTL:    defaultCacheTTL,
		defaultSize: defaultPageSize,
		maxSize:     defaultMaxPageSize,
		log:         zap.NewNop(),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithUserDirectory(users interfaces.IUserDirectory) Option {
	return func(o *options) { o.users = users }
}

func WithNotifications(d *NotificationDispatcher) Option {
	return func(o *options) { o.notify = d }
}

// WithCache serves stats and dashboard reads through kv for ttl.
func WithCache(kv cache.KVStore, ttl time.Duration) Option {
	return func(o *options) {
		o.kv = kv
		if ttl > 0 {
			o.cacheTTL = ttl
		}
	}
}

func WithPaging(defaultSize, maxSize int) Option {
	return func(o *options) {
		if defaultSize > 0 {
			o.defaultSize = defaultSize
		}
		if maxSize >= o.defaultSize {
			o.maxSize = maxSize
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func withClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func (o options) pageRequest(page, limit int) entities.PageRequest {
	return entities.NewPageRequest(page, limit, o.defaultSize, o.maxSize)
}

// resolveUsers looks up every non-empty id once. Directory failures degrade
// to an empty map so reads still succeed with bare ids.
func (o options) resolveUsers(ctx context.Context, ids []string) map[string]entities.UserRef {
	out := map[string]entities.UserRef{}
	if o.users == nil {
		return out
	}
	seen := map[string]bool{}
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return out
	}
	found, err := o.users.Lookup(ctx, unique)
	if err != nil {
		o.log.Warn("user lookup failed", zap.Strings("ids", unique), zap.Error(err))
		return out
	}
	for id, u := range found {
		out[id] = u
	}
	return out
}
