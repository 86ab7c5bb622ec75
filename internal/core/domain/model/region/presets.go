package region

import "slices"

var defaultMenu = []string{"Pizza Margherita", "Spaghetti Bolognese", "Rigatoni"}

// RestaurantPreset is a named restaurant with a fixed menu.
type RestaurantPreset struct {
	name  string
	foods []string
}

// Predefined restaurants.
var (
	LosFopbotsHermanos = RestaurantPreset{name: "Los Fopbots Hermanos", foods: defaultMenu}
	JavaHut            = RestaurantPreset{name: "Java Hut", foods: defaultMenu}
	Pastafar           = RestaurantPreset{name: "Pastafar", foods: defaultMenu}
	Palpapizza         = RestaurantPreset{name: "Palpapizza", foods: defaultMenu}
	Isenjar            = RestaurantPreset{name: "Isenjar", foods: defaultMenu}
	MiddleFop          = RestaurantPreset{name: "Middle Fop", foods: defaultMenu}
	MountDoomPizza     = RestaurantPreset{name: "Mount Doom Pizza", foods: defaultMenu}
)

func (p RestaurantPreset) Name() string {
	return p.name
}

// Foods returns a copy of the menu.
func (p RestaurantPreset) Foods() []string {
	return slices.Clone(p.foods)
}

// RestaurantPresets lists every predefined restaurant.
func RestaurantPresets() []RestaurantPreset {
	return []RestaurantPreset{
		LosFopbotsHermanos, JavaHut, Pastafar, Palpapizza, Isenjar, MiddleFop, MountDoomPizza,
	}
}

// RestaurantPresetByName finds a predefined restaurant by its display name.
func RestaurantPresetByName(name string) (RestaurantPreset, bool) {
	for _, p := range RestaurantPresets() {
		if p.name == name {
			return p, true
		}
	}
	return RestaurantPreset{}, false
}
