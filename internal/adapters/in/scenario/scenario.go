package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"delivery-sim/internal/core/application/simulation"
	"delivery-sim/internal/core/domain/model/fleet"
	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/core/domain/model/region"
	"delivery-sim/internal/core/domain/services/generator"
	"delivery-sim/internal/core/domain/services/pathcalc"
	"delivery-sim/internal/core/domain/services/rating"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScenario wraps every structural problem of a document.
var ErrInvalidScenario = errors.New("invalid scenario")

// Load reads and parses the scenario file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a single YAML document, rejecting unknown fields, and validates it.
func Parse(data []byte) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidScenario)
		}
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the structure of the document: required fields, known kinds and
// references between nodes, edges and vehicles. Domain rules such as duplicate
// locations are checked when the archetype is built.
func (d *Document) Validate() error {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(d.Name) == "" {
		addf("name is required")
	}
	if d.Length < 0 {
		addf("length must not be negative")
	}
	if d.PathCache != nil && d.PathCache.Size <= 0 {
		addf("path_cache.size must be positive")
	}
	if len(d.Nodes) == 0 {
		addf("nodes list is required and must be non-empty")
	}

	kinds := make(map[string]string, len(d.Nodes))
	for i, n := range d.Nodes {
		name := n.nodeName()
		switch n.Kind {
		case KindNode, KindNeighborhood:
			if n.Preset != "" || len(n.Foods) > 0 {
				addf("nodes[%d]: only restaurants have a preset or foods", i)
			}
		case KindRestaurant:
			if n.Preset == "" && len(n.Foods) == 0 {
				addf("nodes[%d]: restaurant needs a preset or foods", i)
			}
			if n.Preset != "" {
				if _, ok := region.RestaurantPresetByName(n.Preset); !ok {
					addf("nodes[%d]: unknown preset %q", i, n.Preset)
				}
				if len(n.Foods) > 0 {
					addf("nodes[%d]: preset and foods are exclusive", i)
				}
				if n.Name != "" && n.Name != n.Preset {
					addf("nodes[%d]: name %q differs from preset %q", i, n.Name, n.Preset)
				}
			}
		default:
			addf("nodes[%d]: unknown kind %q", i, n.Kind)
		}
		if name == "" {
			addf("nodes[%d]: name is required", i)
			continue
		}
		if _, ok := kinds[name]; ok {
			addf("nodes[%d]: duplicate name %q", i, name)
		}
		kinds[name] = n.Kind
	}

	for i, e := range d.Edges {
		for _, end := range []string{e.From, e.To} {
			if _, ok := kinds[end]; !ok {
				addf("edges[%d]: unknown node %q", i, end)
			}
		}
	}

	for i, v := range d.Vehicles {
		if kind, ok := kinds[v.Restaurant]; !ok || kind != KindRestaurant {
			addf("vehicles[%d]: %q is not a restaurant", i, v.Restaurant)
		}
		if v.Capacity <= 0 {
			addf("vehicles[%d]: capacity must be positive", i)
		}
		if v.Count < 0 {
			addf("vehicles[%d]: count must not be negative", i)
		}
	}

	switch d.Generator.Kind {
	case generator.KindFriday:
	case generator.KindEmpty:
		if d.Generator.Friday != nil {
			addf("generator.friday is only allowed for kind %q", generator.KindFriday)
		}
	default:
		addf("generator.kind must be %q or %q", generator.KindFriday, generator.KindEmpty)
	}

	if d.Raters == (RatersDoc{}) {
		addf("raters must enable at least one rater")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidScenario, strings.Join(problems, "; "))
	}
	return nil
}

// Archetype builds the problem archetype described by the document.
//
// Parameters:
//   - logger: Logger of the vehicle manager and the travel distance rater, slog.Default when nil
//
// Returns:
//   - simulation.ProblemArchetype: The archetype, with a fresh region and fleet
//   - error: ErrInvalidScenario or the error of the failing domain builder
func (d *Document) Archetype(logger *slog.Logger) (simulation.ProblemArchetype, error) {
	if err := d.Validate(); err != nil {
		return simulation.ProblemArchetype{}, err
	}

	r, err := d.buildRegion()
	if err != nil {
		return simulation.ProblemArchetype{}, fmt.Errorf("build region of %s: %w", d.Name, err)
	}
	manager, err := d.buildFleet(r, logger)
	if err != nil {
		return simulation.ProblemArchetype{}, fmt.Errorf("build fleet of %s: %w", d.Name, err)
	}
	genFactory, err := d.generatorFactory(r)
	if err != nil {
		return simulation.ProblemArchetype{}, fmt.Errorf("order generator of %s: %w", d.Name, err)
	}
	raters, err := d.raterFactories(logger)
	if err != nil {
		return simulation.ProblemArchetype{}, fmt.Errorf("raters of %s: %w", d.Name, err)
	}

	return simulation.NewProblemArchetype(d.Name, genFactory, manager, raters, d.Length)
}

// Group builds a problem group holding the document's archetype, rated by every
// criterion the document enables.
func (d *Document) Group(logger *slog.Logger) (simulation.ProblemGroup, error) {
	archetype, err := d.Archetype(logger)
	if err != nil {
		return simulation.ProblemGroup{}, err
	}
	return simulation.NewProblemGroup([]simulation.ProblemArchetype{archetype}, archetype.Criteria())
}

func (n NodeDoc) nodeName() string {
	if n.Name == "" && n.Kind == KindRestaurant {
		return n.Preset
	}
	return n.Name
}

func (n NodeDoc) location() kernel.Location {
	return kernel.NewLocation(n.X, n.Y)
}

func (d *Document) locations() map[string]kernel.Location {
	return lo.SliceToMap(d.Nodes, func(n NodeDoc) (string, kernel.Location) {
		return n.nodeName(), n.location()
	})
}

func (d *Document) buildRegion() (*region.Region, error) {
	b := region.NewBuilder()
	if d.Distance != "" {
		calculator, err := kernel.DistanceCalculatorByName(d.Distance)
		if err != nil {
			return nil, err
		}
		if err = b.SetDistanceCalculator(calculator); err != nil {
			return nil, err
		}
	}

	for _, n := range d.Nodes {
		var err error
		switch n.Kind {
		case KindNode:
			err = b.AddNode(n.Name, n.location())
		case KindNeighborhood:
			err = b.AddNeighborhood(n.Name, n.location())
		case KindRestaurant:
			if preset, ok := region.RestaurantPresetByName(n.Preset); ok {
				err = b.AddRestaurantPreset(n.location(), preset)
			} else {
				err = b.AddRestaurant(n.Name, n.location(), n.Foods)
			}
		}
		if err != nil {
			return nil, err
		}
	}

	locations := d.locations()
	for _, e := range d.Edges {
		name := e.Name
		if name == "" {
			name = e.From + " - " + e.To
		}
		if err := b.AddEdge(name, locations[e.From], locations[e.To]); err != nil {
			return nil, err
		}
	}

	return b.Build()
}

func (d *Document) buildFleet(r *region.Region, logger *slog.Logger) (*fleet.Manager, error) {
	var calculator pathcalc.PathCalculator = pathcalc.NewDijkstra()
	if d.PathCache != nil {
		cached, err := pathcalc.NewCached(calculator, d.PathCache.Size)
		if err != nil {
			return nil, err
		}
		calculator = cached
	}

	b := fleet.NewBuilder().SetRegion(r).SetPathCalculator(calculator).SetLogger(logger)
	locations := d.locations()
	for _, v := range d.Vehicles {
		for range max(v.Count, 1) {
			if err := b.AddVehicle(locations[v.Restaurant], v.Capacity); err != nil {
				return nil, err
			}
		}
	}
	return b.Build()
}

func (d *Document) generatorFactory(r *region.Region) (generator.Factory, error) {
	if d.Generator.Kind == generator.KindEmpty {
		return generator.EmptyFactory{}, nil
	}

	config := generator.DefaultFridayConfig()
	if f := d.Generator.Friday; f != nil {
		config.OrderCount = lo.FromPtrOr(f.OrderCount, config.OrderCount)
		config.DeliveryInterval = lo.FromPtrOr(f.DeliveryInterval, config.DeliveryInterval)
		config.MaxWeight = lo.FromPtrOr(f.MaxWeight, config.MaxWeight)
		config.StandardDeviation = lo.FromPtrOr(f.StandardDeviation, config.StandardDeviation)
		config.LastTick = lo.FromPtrOr(f.LastTick, config.LastTick)
		config.Seed = lo.FromPtrOr(f.Seed, config.Seed)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return generator.FridayFactory{Region: r, Config: config}, nil
}

func (d *Document) raterFactories(logger *slog.Logger) (map[rating.Criterion]rating.Factory, error) {
	factories := make(map[rating.Criterion]rating.Factory)

	if doc := d.Raters.AmountDelivered; doc != nil {
		f, err := rating.NewAmountDeliveredFactory(lo.FromPtrOr(doc.Factor, rating.DefaultAmountDeliveredFactor))
		if err != nil {
			return nil, err
		}
		factories[rating.AmountDelivered] = f
	}
	if doc := d.Raters.InTime; doc != nil {
		f, err := rating.NewInTimeFactory(
			lo.FromPtrOr(doc.IgnoredTicksOff, rating.DefaultIgnoredTicksOff),
			lo.FromPtrOr(doc.MaxTicksOff, rating.DefaultMaxTicksOff),
		)
		if err != nil {
			return nil, err
		}
		factories[rating.InTime] = f
	}
	if doc := d.Raters.TravelDistance; doc != nil {
		f, err := rating.NewTravelDistanceFactory(lo.FromPtrOr(doc.Factor, rating.DefaultTravelDistanceFactor), logger)
		if err != nil {
			return nil, err
		}
		factories[rating.TravelDistance] = f
	}

	return factories, nil
}
