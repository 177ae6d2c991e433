package world

func (w *World) launchProjectile(faction FactionID, from, to Vec2, damage int, hitChance float64, targetUnit, targetBuilding EntityID) {
	w.projectiles = append(w.projectiles, &Projectile{
		ID:             w.allocID(),
		Faction:        faction,
		Pos:            from,
		Target:         to,
		Speed:          projectileSpeed,
		Damage:         damage,
		HitChance:      hitChance,
		TargetUnit:     targetUnit,
		TargetBuilding: targetBuilding,
	})
}

// updateProjectiles advances shots toward their captured target positions.
// On arrival the hit chance is rolled; damage lands only if the target is
// still alive. Spent projectiles are compacted out of the slice.
func (w *World) updateProjectiles(dt float64) {
	alive := w.projectiles[:0]
	for _, p := range w.projectiles {
		d := dist(p.Pos, p.Target)
		step := p.Speed * dt
		if step < d {
			p.Pos.X += (p.Target.X - p.Pos.X) / d * step
			p.Pos.Y += (p.Target.Y - p.Pos.Y) / d * step
			alive = append(alive, p)
			continue
		}
		w.resolveImpact(p)
	}
	w.projectiles = alive
}

func (w *World) resolveImpact(p *Projectile) {
	if p.HitChance < 1 && w.randomFloat(w.combatRNG) > p.HitChance {
		return
	}
	if p.TargetUnit != 0 {
		if target := w.units[p.TargetUnit]; target != nil && target.Alive() {
			target.Health -= p.Damage
		}
		return
	}
	if p.TargetBuilding != 0 {
		if target := w.buildings[p.TargetBuilding]; target != nil && target.Alive() {
			target.Health -= p.Damage
		}
	}
}
