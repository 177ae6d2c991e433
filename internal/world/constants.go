package world

// Simulation tuning constants. Movement speeds are expressed in legacy
// pixels-per-frame units and scaled by frameScale*dt when applied.
const (
	frameScale = 60.0

	mapMargin       = 20.0
	arriveEpsilon   = 5.0
	spawnRingRadius = 80.0

	collisionIterations = 4
	collisionPush       = 12.0

	// Aggro radii are multiples of the unit's own attack range. Workers are
	// timid, military units look further, attack-moving units further still.
	aggroFactorWorker     = 1.5
	aggroFactorMilitary   = 2.0
	aggroFactorAttackMove = 2.5

	buildingRangeAllowance = 50.0
	buildingAggroRadius    = 150.0

	damageJitterMin = 0.8
	damageJitterMax = 1.2

	cavalryBuildingFactor = 0.5
	cannonBuildingFactor  = 1.2

	incompleteFootprintSlow = 0.6
	completeFootprintSlow   = 0.3

	workerRange = 80.0

	// Construction progress runs 0..100; assisting builders beyond the first
	// add half a share each.
	progressComplete       = 100.0
	constructionAssistRate = 0.5

	projectileSpeed = 300.0

	economyInterval  = 5.0
	foodInterval     = 10.0
	foodPerUnit      = 2
	starvationDamage = 5

	healInterval = 5.0
	healAmount   = 5
	healFoodCost = 1

	deconstructRefund = 0.7

	startingGold = 500
	startingFood = 200
	startingWood = 300
)
