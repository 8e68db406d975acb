package repository

import (
	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/config"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/matching"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/propertyaccess"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/query"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/storage"
)

var ErrInvalidBuilder = errors.New("repository: invalid builder configuration")

// Builder assembles a DataRepository. Unset collaborators get defaults:
// an ArrayStorage, the default accessor chain and a type-sensitive matcher.
type Builder struct {
	options      Options
	dataStorage  storage.DataStorage
	operator     query.Operator
	matcher      matching.ValueMatcher
	strategies   []matching.MatchingStrategy
	strictTypes  bool
	access       query.PropertyAccess
	accessors    []propertyaccess.PropertyAccessor
	logger       *log.Logger
	defaultLimit int
}

func NewBuilder() *Builder {
	return &Builder{strictTypes: true, defaultLimit: NoLimit}
}

func (b *Builder) StrictGet() *Builder {
	b.options |= OptionStrictGet
	return b
}

func (b *Builder) StrictUpdate() *Builder {
	b.options |= OptionStrictUpdate
	return b
}

func (b *Builder) StrictRemove() *Builder {
	b.options |= OptionStrictRemove
	return b
}

func (b *Builder) SetDataStorage(dataStorage storage.DataStorage) *Builder {
	b.dataStorage = dataStorage
	return b
}

// SetPropertyOperator replaces the whole matching pipeline. It cannot be
// combined with SetValueMatcher, AddMatchingStrategy, SetPropertyAccess or
// AddPropertyAccessor.
func (b *Builder) SetPropertyOperator(operator query.Operator) *Builder {
	b.operator = operator
	return b
}

func (b *Builder) SetValueMatcher(matcher matching.ValueMatcher) *Builder {
	b.matcher = matcher
	return b
}

// AddMatchingStrategy registers a strategy consulted before the base equality.
func (b *Builder) AddMatchingStrategy(strategy matching.MatchingStrategy) *Builder {
	b.strategies = append(b.strategies, strategy)
	return b
}

func (b *Builder) UseStrictTypeComparison(strict bool) *Builder {
	b.strictTypes = strict
	return b
}

func (b *Builder) SetPropertyAccess(access query.PropertyAccess) *Builder {
	b.access = access
	return b
}

// AddPropertyAccessor registers an accessor tried before the built-in ones.
func (b *Builder) AddPropertyAccessor(accessor propertyaccess.PropertyAccessor) *Builder {
	b.accessors = append(b.accessors, accessor)
	return b
}

func (b *Builder) SetLogger(logger *log.Logger) *Builder {
	b.logger = logger
	return b
}

// FromConfig applies strict flags, type sensitivity and the default query limit.
// The logger is left untouched; use cfg.Logger with SetLogger.
func (b *Builder) FromConfig(cfg *config.Config) *Builder {
	if cfg.Repository.StrictGet {
		b.options |= OptionStrictGet
	}
	if cfg.Repository.StrictUpdate {
		b.options |= OptionStrictUpdate
	}
	if cfg.Repository.StrictRemove {
		b.options |= OptionStrictRemove
	}
	b.strictTypes = cfg.Matching.TypeSensitive()
	b.defaultLimit = cfg.Query.Limit()
	return b
}

func (b *Builder) validate() error {
	var result error
	for i, strategy := range b.strategies {
		if strategy == nil {
			result = multierror.Append(result, errors.Wrapf(ErrInvalidBuilder, "matching strategy #%d is nil", i))
		}
	}
	for i, accessor := range b.accessors {
		if accessor == nil {
			result = multierror.Append(result, errors.Wrapf(ErrInvalidBuilder, "property accessor #%d is nil", i))
		}
	}
	if b.matcher != nil && len(b.strategies) > 0 {
		result = multierror.Append(result, errors.Wrap(ErrInvalidBuilder, "matching strategies cannot be added to a custom value matcher"))
	}
	if b.access != nil && len(b.accessors) > 0 {
		result = multierror.Append(result, errors.Wrap(ErrInvalidBuilder, "property accessors cannot be added to a custom property access"))
	}
	if b.operator != nil && (b.matcher != nil || b.access != nil || len(b.strategies) > 0 || len(b.accessors) > 0) {
		result = multierror.Append(result, errors.Wrap(ErrInvalidBuilder, "a custom property operator excludes matcher and access settings"))
	}
	if b.defaultLimit < NoLimit {
		result = multierror.Append(result, errors.Wrapf(ErrInvalidBuilder, "default limit %d", b.defaultLimit))
	}
	return result
}

// Build reports every configuration problem at once.
func (b *Builder) Build() (*DataRepository, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	dataStorage := b.dataStorage
	if dataStorage == nil {
		dataStorage = storage.NewArrayStorage()
	}

	operator := b.operator
	if operator == nil {
		matcher := b.matcher
		if matcher == nil {
			matcher = matching.NewValueMatcher(b.strictTypes, b.strategies...)
		}
		access := b.access
		if access == nil {
			access = propertyaccess.WithCustom(b.accessors...)
		}
		operator = query.NewPropertyOperator(matcher, access)
	}

	r := NewDataRepository(dataStorage, operator, b.options)
	r.defaultLimit = b.defaultLimit
	if b.logger != nil {
		r.SetLogger(b.logger)
	}
	return r, nil
}
