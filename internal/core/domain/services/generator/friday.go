package generator

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/core/domain/model/order"
	"delivery-sim/internal/core/domain/model/region"
	"delivery-sim/internal/pkg/errs"

	"github.com/samber/lo"
)

// maxFoodsPerOrder bounds the length of a generated food list.
const maxFoodsPerOrder = 9

// ErrNoDestinations is returned when orders should be placed in a region without
// restaurants or neighborhoods.
var ErrNoDestinations = errors.New("region has no restaurants or neighborhoods")

// FridayConfig describes a rush of orders peaking in the middle of the simulation.
type FridayConfig struct {
	// OrderCount is the exact number of orders generated over the whole run.
	OrderCount int
	// DeliveryInterval is the length of each order's delivery window in ticks.
	DeliveryInterval int64
	// MaxWeight bounds the weight of a single order.
	MaxWeight float64
	// StandardDeviation of the generation ticks, relative to LastTick.
	StandardDeviation float64
	// LastTick is the last tick an order may be placed at.
	LastTick int64
	// Seed of the random source. A negative seed picks a random one.
	Seed int64
}

// DefaultFridayConfig returns the configuration of a typical friday evening.
func DefaultFridayConfig() FridayConfig {
	return FridayConfig{
		OrderCount:        1000,
		DeliveryInterval:  15,
		MaxWeight:         0.5,
		StandardDeviation: 0.5,
		LastTick:          480,
		Seed:              -1,
	}
}

// Validate checks every field and joins the errors.
func (c FridayConfig) Validate() error {
	var errCount, errInterval, errWeight, errDeviation, errLastTick error
	if c.OrderCount < 0 {
		errCount = errs.NewValueIsOutOfRangeError("order count", c.OrderCount, 0, "+inf")
	}
	if c.DeliveryInterval < 0 {
		errInterval = errs.NewValueIsOutOfRangeError("delivery interval", c.DeliveryInterval, 0, "+inf")
	}
	if c.MaxWeight < 0 {
		errWeight = errs.NewValueIsOutOfRangeError("max weight", c.MaxWeight, 0, "+inf")
	}
	if c.StandardDeviation <= 0 {
		errDeviation = errs.NewValueIsOutOfRangeError("standard deviation", c.StandardDeviation, "0 (exclusive)", "+inf")
	}
	if c.LastTick < 0 {
		errLastTick = errs.NewValueIsOutOfRangeError("last tick", c.LastTick, 0, "+inf")
	}
	return errors.Join(errCount, errInterval, errWeight, errDeviation, errLastTick)
}

// FridayGenerator places a fixed number of orders whose generation ticks follow a
// normal distribution centered on LastTick/2 and cut off at 0 and LastTick.
//
// Every order is created up front, so the generator answers each tick from the
// same precomputed plan.
type FridayGenerator struct {
	config FridayConfig
	orders map[int64][]*order.ConfirmedOrder
}

// NewFridayGenerator plans the orders of a run in region r.
//
// Parameters:
//   - r: Region providing restaurants and neighborhoods
//   - config: Generator settings, see FridayConfig
//
// Returns:
//   - *FridayGenerator: The generator
//   - error: ValueIsRequiredError for a nil region, joined config errors or
//     ErrNoDestinations
//
// Example:
//
//	cfg := generator.DefaultFridayConfig()
//	cfg.Seed = 7
//	g, err := generator.NewFridayGenerator(r, cfg)
//	if err != nil {
//	    // Handle configuration error
//	}
//	orders := g.GenerateOrders(240)
func NewFridayGenerator(r *region.Region, config FridayConfig) (*FridayGenerator, error) {
	if r == nil {
		return nil, errs.NewValueIsRequiredError("region")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	g := &FridayGenerator{
		config: config,
		orders: make(map[int64][]*order.ConfirmedOrder),
	}
	if config.OrderCount == 0 {
		return g, nil
	}

	restaurants := r.Restaurants()
	neighborhoods := r.Neighborhoods()
	if len(restaurants) == 0 || len(neighborhoods) == 0 {
		return nil, ErrNoDestinations
	}

	rng := newRand(config.Seed)
	for range config.OrderCount {
		tick := g.nextTick(rng)
		o, err := g.nextOrder(rng, tick, restaurants, neighborhoods)
		if err != nil {
			return nil, fmt.Errorf("generate order at tick %d: %w", tick, err)
		}
		g.orders[tick] = append(g.orders[tick], o)
	}
	return g, nil
}

// GenerateOrders returns the orders placed at tick. The result is a fresh slice
// holding the same orders on every call.
func (g *FridayGenerator) GenerateOrders(tick int64) []*order.ConfirmedOrder {
	return append([]*order.ConfirmedOrder{}, g.orders[tick]...)
}

// Config returns the settings of the generator.
func (g *FridayGenerator) Config() FridayConfig {
	return g.config
}

func (g *FridayGenerator) nextTick(rng *rand.Rand) int64 {
	mean := float64(g.config.LastTick) / 2
	deviation := g.config.StandardDeviation * float64(g.config.LastTick)
	for {
		tick := math.Round(rng.NormFloat64()*deviation + mean)
		if tick >= 0 && tick <= float64(g.config.LastTick) {
			return int64(tick)
		}
	}
}

func (g *FridayGenerator) nextOrder(
	rng *rand.Rand,
	tick int64,
	restaurants []*region.Node,
	neighborhoods []*region.Node,
) (*order.ConfirmedOrder, error) {
	restaurant := restaurants[rng.IntN(len(restaurants))]
	destination := neighborhoods[rng.IntN(len(neighborhoods))]

	window, err := kernel.NewTickInterval(tick, tick+g.config.DeliveryInterval)
	if err != nil {
		return nil, err
	}

	var foods []string
	if menu := restaurant.AvailableFood(); len(menu) > 0 {
		foods = lo.Times(rng.IntN(maxFoodsPerOrder)+1, func(int) string {
			return menu[rng.IntN(len(menu))]
		})
	}

	weight := rng.Float64() * g.config.MaxWeight
	return order.NewConfirmedOrder(destination.Location(), restaurant, window, foods, weight)
}

func newRand(seed int64) *rand.Rand {
	if seed < 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// FridayFactory creates a FridayGenerator for every run.
type FridayFactory struct {
	Region *region.Region
	Config FridayConfig
}

// Create plans a new run. With a fixed seed every run gets the same plan of
// distinct order instances.
func (f FridayFactory) Create() (OrderGenerator, error) {
	return NewFridayGenerator(f.Region, f.Config)
}

func (FridayFactory) Kind() string {
	return KindFriday
}
