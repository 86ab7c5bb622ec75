package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"delivery-sim/internal/core/application/simulation"
	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/core/domain/model/region"
	"delivery-sim/internal/core/domain/services/generator"
	"delivery-sim/internal/core/domain/services/pathcalc"
	"delivery-sim/internal/core/domain/services/rating"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// ErrNotExportable is returned for archetypes built from components a document
// cannot describe, such as a custom distance function.
var ErrNotExportable = errors.New("archetype cannot be exported")

// Export describes an archetype as a document. It only reads the archetype.
//
// Exporting the archetype of a parsed document yields an equivalent document in
// normal form: nodes and edges ordered by location, preset restaurants named by
// their preset and consecutive identical vehicles merged.
func Export(p simulation.ProblemArchetype) (*Document, error) {
	manager := p.Manager()
	r := manager.Region()

	distance := r.DistanceCalculator().Name()
	if _, err := kernel.DistanceCalculatorByName(distance); err != nil {
		return nil, fmt.Errorf("%w: distance %q", ErrNotExportable, distance)
	}

	doc := &Document{
		Name:     p.Name(),
		Length:   p.Length(),
		Distance: distance,
		Nodes:    lo.Map(r.Nodes(), func(n *region.Node, _ int) NodeDoc { return exportNode(n) }),
		Edges: lo.Map(r.Edges(), func(e *region.Edge, _ int) EdgeDoc {
			return EdgeDoc{Name: e.Name(), From: e.NodeA().Name(), To: e.NodeB().Name()}
		}),
	}

	switch c := manager.PathCalculator().(type) {
	case *pathcalc.Dijkstra:
	case *pathcalc.Cached:
		if _, ok := c.Delegate().(*pathcalc.Dijkstra); !ok {
			return nil, fmt.Errorf("%w: path calculator %T", ErrNotExportable, c.Delegate())
		}
		doc.PathCache = &PathCacheDoc{Size: c.Size()}
	default:
		return nil, fmt.Errorf("%w: path calculator %T", ErrNotExportable, c)
	}

	for _, v := range manager.AllVehicles() {
		restaurant := v.StartingNode().Node().Name()
		if n := len(doc.Vehicles); n > 0 &&
			doc.Vehicles[n-1].Restaurant == restaurant && doc.Vehicles[n-1].Capacity == v.Capacity() {
			doc.Vehicles[n-1].Count++
			continue
		}
		doc.Vehicles = append(doc.Vehicles, VehicleDoc{Restaurant: restaurant, Capacity: v.Capacity(), Count: 1})
	}

	gen, err := exportGenerator(p.GeneratorFactory())
	if err != nil {
		return nil, err
	}
	doc.Generator = gen

	for _, c := range p.Criteria() {
		switch f := p.RaterFactories()[c].(type) {
		case rating.AmountDeliveredFactory:
			doc.Raters.AmountDelivered = &FactorDoc{Factor: lo.ToPtr(f.Factor)}
		case rating.InTimeFactory:
			doc.Raters.InTime = &InTimeDoc{
				IgnoredTicksOff: lo.ToPtr(f.IgnoredTicksOff),
				MaxTicksOff:     lo.ToPtr(f.MaxTicksOff),
			}
		case rating.TravelDistanceFactory:
			doc.Raters.TravelDistance = &FactorDoc{Factor: lo.ToPtr(f.Factor)}
		default:
			return nil, fmt.Errorf("%w: rater factory %T", ErrNotExportable, f)
		}
	}

	return doc, nil
}

// Marshal encodes a document as YAML with two-space indentation.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

func exportNode(n *region.Node) NodeDoc {
	doc := NodeDoc{Name: n.Name(), X: n.Location().X(), Y: n.Location().Y()}
	switch n.Kind() {
	case region.KindNeighborhood:
		doc.Kind = KindNeighborhood
	case region.KindRestaurant:
		doc.Kind = KindRestaurant
		if preset, ok := region.RestaurantPresetByName(n.Name()); ok && slices.Equal(preset.Foods(), n.AvailableFood()) {
			doc.Name = ""
			doc.Preset = preset.Name()
		} else {
			doc.Foods = n.AvailableFood()
		}
	default:
		doc.Kind = KindNode
	}
	return doc
}

func exportGenerator(factory generator.Factory) (GeneratorDoc, error) {
	switch f := factory.(type) {
	case generator.EmptyFactory:
		return GeneratorDoc{Kind: generator.KindEmpty}, nil
	case generator.FridayFactory:
		c := f.Config
		return GeneratorDoc{
			Kind: generator.KindFriday,
			Friday: &FridayDoc{
				OrderCount:        lo.ToPtr(c.OrderCount),
				DeliveryInterval:  lo.ToPtr(c.DeliveryInterval),
				MaxWeight:         lo.ToPtr(c.MaxWeight),
				StandardDeviation: lo.ToPtr(c.StandardDeviation),
				LastTick:          lo.ToPtr(c.LastTick),
				Seed:              lo.ToPtr(c.Seed),
			},
		}, nil
	default:
		return GeneratorDoc{}, fmt.Errorf("%w: order generator %T", ErrNotExportable, factory)
	}
}
