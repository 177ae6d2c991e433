package stats

import "sync"

// UnitKind enumerates the trainable unit archetypes.
type UnitKind uint8

const (
	UnitPeasant UnitKind = iota
	UnitKnight
	UnitCavalry
	UnitCannon

	UnitKindCount
)

func (k UnitKind) String() string {
	switch k {
	case UnitPeasant:
		return "peasant"
	case UnitKnight:
		return "knight"
	case UnitCavalry:
		return "cavalry"
	case UnitCannon:
		return "cannon"
	default:
		return "unknown"
	}
}

// BuildingKind enumerates the constructible building archetypes.
type BuildingKind uint8

const (
	BuildingCastle BuildingKind = iota
	BuildingHouse
	BuildingFarm
	BuildingTower

	BuildingKindCount
)

func (k BuildingKind) String() string {
	switch k {
	case BuildingCastle:
		return "castle"
	case BuildingHouse:
		return "house"
	case BuildingFarm:
		return "farm"
	case BuildingTower:
		return "tower"
	default:
		return "unknown"
	}
}

// ParseUnitKind maps a wire label to a unit kind.
func ParseUnitKind(label string) (UnitKind, bool) {
	switch label {
	case "peasant":
		return UnitPeasant, true
	case "knight":
		return UnitKnight, true
	case "cavalry":
		return UnitCavalry, true
	case "cannon":
		return UnitCannon, true
	default:
		return UnitKindCount, false
	}
}

// ParseBuildingKind maps a wire label to a building kind.
func ParseBuildingKind(label string) (BuildingKind, bool) {
	switch label {
	case "castle":
		return BuildingCastle, true
	case "house":
		return BuildingHouse, true
	case "farm":
		return BuildingFarm, true
	case "tower":
		return BuildingTower, true
	default:
		return BuildingKindCount, false
	}
}

// Cost is a resource bundle. Negative amounts are never valid in tables.
type Cost struct {
	Gold int `json:"gold"`
	Food int `json:"food"`
	Wood int `json:"wood"`
}

// UnitProfile holds the base combat and movement numbers for a unit archetype.
type UnitProfile struct {
	MaxHealth   int
	Attack      int
	Defense     int
	Speed       float64
	AttackRange float64
	Cooldown    float64
	Radius      float64
	TrainTime   float64
	Cost        Cost
}

// BuildingProfile holds footprint, durability, staffing and yield numbers.
type BuildingProfile struct {
	MaxHealth     int
	Width         float64
	Height        float64
	BuildTime     float64
	WorkersNeeded int
	Generation    Cost
	Cost          Cost
}

// TowerProfile holds the ballistics of a staffed tower.
type TowerProfile struct {
	Attack    int
	Range     float64
	Cooldown  float64
	HitChance float64
}

var baseUnits = [UnitKindCount]UnitProfile{
	UnitPeasant: {MaxHealth: 50, Attack: 5, Defense: 2, Speed: 2.5, AttackRange: 20, Cooldown: 1.0, Radius: 14, TrainTime: 2, Cost: Cost{Gold: 50, Food: 25}},
	UnitKnight:  {MaxHealth: 150, Attack: 20, Defense: 15, Speed: 1.8, AttackRange: 35, Cooldown: 1.2, Radius: 16, TrainTime: 3, Cost: Cost{Gold: 150, Food: 50}},
	UnitCavalry: {MaxHealth: 120, Attack: 25, Defense: 10, Speed: 4.0, AttackRange: 40, Cooldown: 0.8, Radius: 20, TrainTime: 4, Cost: Cost{Gold: 200, Food: 75}},
	UnitCannon:  {MaxHealth: 80, Attack: 50, Defense: 5, Speed: 1.0, AttackRange: 200, Cooldown: 3.0, Radius: 18, TrainTime: 5, Cost: Cost{Gold: 300, Wood: 100}},
}

var baseBuildings = [BuildingKindCount]BuildingProfile{
	BuildingCastle: {MaxHealth: 2000, Width: 120, Height: 120, BuildTime: 30, WorkersNeeded: 1, Generation: Cost{Gold: 10, Food: 5, Wood: 5}, Cost: Cost{Gold: 500, Wood: 200}},
	BuildingHouse:  {MaxHealth: 300, Width: 60, Height: 60, BuildTime: 10, WorkersNeeded: 2, Generation: Cost{Gold: 20, Wood: 2}, Cost: Cost{Gold: 100, Wood: 50}},
	BuildingFarm:   {MaxHealth: 200, Width: 70, Height: 50, BuildTime: 8, WorkersNeeded: 3, Generation: Cost{Food: 25, Wood: 5}, Cost: Cost{Gold: 75, Wood: 25}},
	BuildingTower:  {MaxHealth: 500, Width: 50, Height: 50, BuildTime: 15, WorkersNeeded: 2, Generation: Cost{Wood: 2}, Cost: Cost{Gold: 200, Wood: 100}},
}

var baseTower = TowerProfile{Attack: 60, Range: 250, Cooldown: 2.0, HitChance: 0.7}

var (
	mu        sync.RWMutex
	units     = baseUnits
	buildings = baseBuildings
	tower     = baseTower
)

// Unit returns the current profile for the given unit archetype.
func Unit(kind UnitKind) UnitProfile {
	mu.RLock()
	defer mu.RUnlock()
	if kind >= UnitKindCount {
		return UnitProfile{}
	}
	return units[kind]
}

// Building returns the current profile for the given building archetype.
func Building(kind BuildingKind) BuildingProfile {
	mu.RLock()
	defer mu.RUnlock()
	if kind >= BuildingKindCount {
		return BuildingProfile{}
	}
	return buildings[kind]
}

// Tower returns the current tower ballistics profile.
func Tower() TowerProfile {
	mu.RLock()
	defer mu.RUnlock()
	return tower
}

// OverrideUnit replaces the table entry for a unit archetype. Intended for
// mod packs and tests; call before worlds are created.
func OverrideUnit(kind UnitKind, profile UnitProfile) {
	mu.Lock()
	defer mu.Unlock()
	if kind < UnitKindCount {
		units[kind] = profile
	}
}

// OverrideBuilding replaces the table entry for a building archetype.
func OverrideBuilding(kind BuildingKind, profile BuildingProfile) {
	mu.Lock()
	defer mu.Unlock()
	if kind < BuildingKindCount {
		buildings[kind] = profile
	}
}

// OverrideTower replaces the tower ballistics profile.
func OverrideTower(profile TowerProfile) {
	mu.Lock()
	defer mu.Unlock()
	tower = profile
}

// Reset restores every table to its base values.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	units = baseUnits
	buildings = baseBuildings
	tower = baseTower
}
