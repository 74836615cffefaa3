package engine

// The periodic behaviors. Each runs to completion synchronously within a
// tick, scans the arena for objects matching its precondition set, and
// either invokes the move resolver or mutates attributes directly. Spawns
// and despawns are buffered as events and applied between behaviors.

// checkForDeadly destroys the player and the deadly object when they
// share a cell, leaving a grave.
func (s *GameState) checkForDeadly() {
	for _, player := range s.Objects {
		if !player.Player {
			continue
		}
		for _, deadly := range s.Objects {
			if deadly.Deadly && deadly.Position == player.Position {
				s.requestDespawn(player)
				s.requestDespawn(deadly)
				s.requestSpawn(Grave, InitialRecord{Position: player.Position})
			}
		}
	}
}

// checkForExplosive destroys any object that moved onto an explosive,
// along with the explosive itself.
func (s *GameState) checkForExplosive() {
	for _, obj := range s.Objects {
		if obj.Explosive || !s.changedThisTick(obj.ID) {
			continue
		}
		for _, explosive := range s.Objects {
			if explosive.Explosive && explosive.Position == obj.Position {
				s.requestDespawn(explosive)
				s.requestDespawn(obj)
				s.requestSpawn(Explosion, InitialRecord{Position: obj.Position})
			}
		}
	}
}

// checkForLiquid sinks objects that moved onto liquid. A floatable object
// survives and anchors (loses its pushable tag) unless another floatable
// is already there; a non-floatable object is shielded by a floatable
// occupant and destroyed with a splash otherwise.
func (s *GameState) checkForLiquid() {
	for _, obj := range s.Objects {
		if obj.Liquid || !s.changedThisTick(obj.ID) {
			continue
		}
		for _, liquid := range s.Objects {
			if !liquid.Liquid || liquid.Position != obj.Position {
				continue
			}
			if obj.Floatable {
				if !s.otherFloatableAt(obj.Position, obj) {
					obj.Pushable = false
				}
			} else if !s.otherFloatableAt(obj.Position, obj) {
				s.requestDespawn(obj)
				s.requestSpawn(Splash, InitialRecord{Position: obj.Position})
			}
		}
	}
}

func (s *GameState) otherFloatableAt(p Position, except *Object) bool {
	for _, obj := range s.Objects {
		if obj != except && obj.Floatable && obj.Position == p {
			return true
		}
	}
	return false
}

// checkForSlipperyAndTransporter applies forced movement for every
// forcing tile: slippery tiles push their occupant in the occupant's own
// facing direction, transporters in the tile's fixed direction. Each
// object is displaced at most once per pass, tracked in already. A tile
// that fails to displace its occupant stops blocking movement until the
// occupant is gone.
func (s *GameState) checkForSlipperyAndTransporter(already map[int]bool) {
	for _, tile := range s.Objects {
		if !tile.Slippery {
			continue
		}
		occupant := s.forcedOccupant(tile, already)
		if occupant == nil {
			continue
		}
		s.forceMove(tile, occupant, occupant.Direction, already)
	}

	for _, tile := range s.Objects {
		if !tile.Transporter {
			continue
		}
		occupant := s.forcedOccupant(tile, already)
		if occupant == nil {
			continue
		}
		s.forceMove(tile, occupant, tile.Direction, already)
	}
}

// forcedOccupant picks the object a forcing tile should displace:
// co-located, not immovable, not itself a forcing tile, and not yet
// displaced this tick.
func (s *GameState) forcedOccupant(tile *Object, already map[int]bool) *Object {
	for _, obj := range s.Objects {
		if obj == tile || obj.Slippery || obj.Transporter || obj.Immovable {
			continue
		}
		if obj.Position == tile.Position && !already[obj.ID] {
			return obj
		}
	}
	return nil
}

func (s *GameState) forceMove(tile *Object, occupant *Object, direction Direction, already map[int]bool) {
	tilePos := tile.Position
	exclude := func(obj *Object) bool {
		if obj.Slippery || obj.Transporter {
			return true
		}
		return obj.Position == tilePos && !obj.Immovable
	}

	err := s.resolveMove(occupant, direction, exclude, false)
	switch {
	case err == nil:
		already[occupant.ID] = true
	case IsCollision(err):
		tile.BlocksMovement = BlocksMovementDisabled
	}
}

// moveMovables advances the two autonomous movement patterns. Movables do
// not collide with each other.
func (s *GameState) moveMovables() {
	excludeMovables := func(obj *Object) bool { return obj.Movable != MovableNone }

	for _, obj := range s.Objects {
		switch obj.Movable {
		case MovableBounce:
			if err := s.resolveMove(obj, obj.Direction, excludeMovables, false); IsCollision(err) {
				obj.Direction = obj.Direction.Inverse()
			}
		case MovableFollowRightHand:
			err := s.resolveMove(obj, obj.Direction.RightHand(), excludeMovables, false)
			switch {
			case err == nil:
				obj.Direction = obj.Direction.RightHand()
			case IsCollision(err):
				if err := s.resolveMove(obj, obj.Direction, excludeMovables, false); IsCollision(err) {
					obj.Direction = obj.Direction.LeftHand()
				}
			}
		}
	}
}

// checkForTransformOnPush replaces a pushed transform-tagged object with
// a fresh object of its target type, keeping position and direction.
func (s *GameState) checkForTransformOnPush() {
	for _, obj := range s.Objects {
		if obj.TransformInto == "" || !obj.Pushable || !s.changedThisTick(obj.ID) {
			continue
		}
		s.requestDespawn(obj)
		s.requestSpawn(obj.TransformInto, InitialRecord{
			Position:  obj.Position,
			Direction: obj.Direction,
		})
	}
}

// checkForTriggers counts the trigger cells currently pressed by an
// ordinary occupant and opens or closes all trigger-openables when the
// count crossed since the previous tick.
func (s *GameState) checkForTriggers() {
	if !s.anythingChanged() {
		return
	}

	var triggers []Position
	var openables []*Object
	var occupants []Position
	for _, obj := range s.Objects {
		switch {
		case obj.Trigger:
			triggers = append(triggers, obj.Position)
		case obj.Openable == OpenableTrigger:
			openables = append(openables, obj)
		default:
			occupants = append(occupants, obj.Position)
		}
	}

	pressed := 0
	for _, trigger := range triggers {
		for _, occupant := range occupants {
			if occupant == trigger {
				pressed++
				break
			}
		}
	}

	var opened bool
	switch {
	case pressed > s.PressedTriggers:
		opened = true
	case pressed < s.PressedTriggers:
		opened = false
	default:
		return
	}

	for _, openable := range openables {
		if opened && openable.Massive {
			openable.Massive = false
			openable.Open = true
		} else if !opened && !openable.Massive {
			openable.Massive = true
			openable.Open = false
		}
	}

	s.PressedTriggers = pressed
}

// checkForFinishedLevels synchronizes level-finished openables with the
// finished-levels set.
func (s *GameState) checkForFinishedLevels() {
	for _, obj := range s.Objects {
		if obj.Openable != OpenableLevelFinished {
			continue
		}
		finished := s.FinishedLevels[obj.Level]
		if finished && obj.Massive {
			obj.Massive = false
			obj.Open = true
		} else if !finished && !obj.Massive {
			obj.Massive = true
			obj.Open = false
		}
	}
}

// checkForKey consumes a key that moved onto a closed key-openable and
// opens it.
func (s *GameState) checkForKey() {
	for _, key := range s.Objects {
		if !key.Key || !s.changedThisTick(key.ID) {
			continue
		}
		for _, openable := range s.Objects {
			if openable.Openable == OpenableKey && openable.Massive && openable.Position == key.Position {
				s.requestDespawn(key)
				openable.Massive = false
				openable.Open = true
			}
		}
	}
}

// checkForPaint applies paint that moved onto a paintable object and
// mixes paint that moved onto other paint.
func (s *GameState) checkForPaint() {
	for _, paint := range s.Objects {
		if !paint.IsPaint() || !s.changedThisTick(paint.ID) {
			continue
		}

		for _, paintable := range s.Objects {
			if paintable.Paintable && paintable.Position == paint.Position {
				s.requestDespawn(paint)
				s.requestDespawn(paintable)
				s.requestSpawn(paint.Paint, InitialRecord{Position: paintable.Position})
			}
		}

		for _, other := range s.Objects {
			if other == paint || !other.IsPaint() || other.Position != paint.Position {
				continue
			}
			if mixed := paint.Type.MixWith(other.Type); mixed != "" {
				s.requestDespawn(paint)
				s.requestDespawn(other)
				s.requestSpawn(mixed, InitialRecord{Position: paint.Position})
			}
		}
	}
}

// checkForTeleporter relocates an object that moved onto a teleporter to
// the paired teleporter's cell, unless a massive occupant is in the way.
// Both cells get a cosmetic flash. The relocation is a single position
// write; the resolver is not re-entered.
func (s *GameState) checkForTeleporter() {
	for _, obj := range s.Objects {
		if obj.Teleporter || obj.Type == Flash || !s.changedThisTick(obj.ID) {
			continue
		}

		for _, teleporter := range s.Objects {
			if !teleporter.Teleporter || teleporter.Position != obj.Position {
				continue
			}

			target, ok := s.pairedTeleporter(teleporter)
			if !ok || s.massiveAt(target.Position) {
				continue
			}

			s.requestSpawn(Flash, InitialRecord{Position: obj.Position})
			s.requestSpawn(Flash, InitialRecord{Position: target.Position})
			obj.Position = target.Position
			s.markMoved(obj.ID, true)
			break
		}
	}
}

// pairedTeleporter finds the other teleporter sharing the identifier.
// With more than two teleporters on one identifier the first match in
// arena order wins.
func (s *GameState) pairedTeleporter(teleporter *Object) (*Object, bool) {
	for _, other := range s.Objects {
		if other.Teleporter && other != teleporter &&
			other.Identifier == teleporter.Identifier &&
			other.Position != teleporter.Position {
			return other, true
		}
	}
	return nil, false
}

func (s *GameState) massiveAt(p Position) bool {
	for _, obj := range s.Objects {
		if obj.Massive && obj.Position == p {
			return true
		}
	}
	return false
}

// checkForExitAndEntrance handles the player reaching an exit (marks the
// level finished, requests a return to the hub) or an entrance (requests
// a transition to the entrance's level).
func (s *GameState) checkForExitAndEntrance() {
	player := s.PlayerObject()
	if player == nil || !s.changedThisTick(player.ID) {
		return
	}

	for _, obj := range s.Objects {
		if obj.Exit && obj.Position == player.Position {
			s.FinishedLevels[s.CurrentLevel] = true
			hub := uint16(0)
			s.NextLevel = &hub
			s.appliedEvents = append(s.appliedEvents, Event{
				Kind:  EventLevelFinished,
				Level: s.CurrentLevel,
			})
			return
		}
		if obj.Entrance && obj.Position == player.Position {
			level := obj.Level
			s.NextLevel = &level
			s.appliedEvents = append(s.appliedEvents, Event{
				Kind:  EventEnterLevel,
				Level: level,
			})
			return
		}
	}
}

// despawnVolatiles removes every self-expiring object; called when the
// expiry timer fires.
func (s *GameState) despawnVolatiles() {
	for _, obj := range s.Objects {
		if obj.Volatile {
			s.requestDespawn(obj)
		}
	}
}
