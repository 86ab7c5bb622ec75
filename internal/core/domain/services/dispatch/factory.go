package dispatch

import (
	"log/slog"

	"delivery-sim/internal/core/domain/model/fleet"
	"delivery-sim/internal/pkg/errs"
)

const (
	KindBasic = "basic"
	KindBogo  = "bogo"
)

// Factory creates a delivery service for the manager of a simulation.
type Factory interface {
	Create(manager *fleet.Manager) (DeliveryService, error)
	Kind() string
}

// Kinds returns the names accepted by NewFactory.
func Kinds() []string {
	return []string{KindBasic, KindBogo}
}

type factory struct {
	kind   string
	logger *slog.Logger
	create func(*fleet.Manager, *slog.Logger) (DeliveryService, error)
}

// NewFactory returns the factory for kind.
//
// Returns:
//   - Factory: The factory
//   - error: ObjectNotFoundError for an unknown kind
func NewFactory(kind string, logger *slog.Logger) (Factory, error) {
	switch kind {
	case KindBasic:
		return factory{kind: kind, logger: logger, create: func(m *fleet.Manager, l *slog.Logger) (DeliveryService, error) {
			s, err := NewBasic(m, l)
			if err != nil {
				return nil, err
			}
			return s, nil
		}}, nil
	case KindBogo:
		return factory{kind: kind, logger: logger, create: func(m *fleet.Manager, l *slog.Logger) (DeliveryService, error) {
			s, err := NewBogo(m, l)
			if err != nil {
				return nil, err
			}
			return s, nil
		}}, nil
	default:
		return nil, errs.NewObjectNotFoundError("delivery service", kind)
	}
}

func (f factory) Create(manager *fleet.Manager) (DeliveryService, error) {
	return f.create(manager, f.logger)
}

func (f factory) Kind() string {
	return f.kind
}
