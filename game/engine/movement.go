package engine

import (
	"errors"
	"sort"
)

// The closed set of move outcomes besides success. All three are
// ordinary, locally handled results; callers use the distinction to
// decide whether to turn around (collisions) or retry next tick
// (blocked).
var (
	// ErrEdgeCollision means the target cell is outside the grid.
	ErrEdgeCollision = errors.New("edge collision")

	// ErrObjectCollision means a massive occupant could not be displaced.
	ErrObjectCollision = errors.New("object collision")

	// ErrMovementBlocked means the subject's own tile refuses to release
	// it.
	ErrMovementBlocked = errors.New("movement blocked")
)

// IsCollision reports whether err is one of the two collision outcomes.
// MovementBlocked is not a collision: the subject may be released later
// without anything else changing.
func IsCollision(err error) bool {
	return errors.Is(err, ErrEdgeCollision) || errors.Is(err, ErrObjectCollision)
}

// MoveObject attempts to advance the subject position exactly one cell in
// the given direction, resolving push chains against the supplied
// collision views. maxWeight is the heaviest occupant the subject may
// displace.
//
// On success the subject position, any pushed occupants, and the
// BlocksMovement flag of a vacated forcing tile are all updated. On
// failure nothing is mutated.
func MoveObject(subject *Position, direction Direction, dims Dimensions, views []CollisionView, maxWeight Weight) error {
	dx, dy := direction.Delta()
	target := Position{X: subject.X + dx, Y: subject.Y + dy}
	if !dims.Contains(target) {
		return ErrEdgeCollision
	}

	// Candidates are the occupants of the subject's own cell plus
	// everything on the line from the target cell outward in the
	// direction of travel; the latter covers cascaded pushes.
	candidates := make([]CollisionView, 0, len(views))
	for _, view := range views {
		pos := view.obj.Position
		onRay := false
		switch {
		case pos == *subject:
			onRay = true
		case dx > 0:
			onRay = pos.X >= target.X && pos.Y == target.Y
		case dx < 0:
			onRay = pos.X <= target.X && pos.Y == target.Y
		case dy > 0:
			onRay = pos.X == target.X && pos.Y >= target.Y
		case dy < 0:
			onRay = pos.X == target.X && pos.Y <= target.Y
		}
		if onRay {
			candidates = append(candidates, view)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return manhattan(candidates[i].obj.Position, target) < manhattan(candidates[j].obj.Position, target)
	})

	canMixWith := func(p Position, t ObjectType) bool {
		for _, c := range candidates {
			if c.HasPosition(p) && c.CanMixWith(t) {
				return true
			}
		}
		return false
	}

	canOpenWithKey := func(p Position) bool {
		for _, c := range candidates {
			if c.HasPosition(p) && c.CanOpenWithKey() {
				return true
			}
		}
		return false
	}

	canPaint := func(p Position) bool {
		for _, c := range candidates {
			if c.HasPosition(p) && c.IsPaintable() {
				return true
			}
		}
		return false
	}

	canPushTo := func(p Position) bool {
		if !dims.Contains(p) {
			return false
		}
		for _, c := range candidates {
			if c.HasPosition(p) && !c.CanPushOn() {
				return false
			}
		}
		return true
	}

	var pushed []int
	for index, candidate := range candidates {
		if candidate.HasPosition(*subject) && candidate.BlocksMovement() {
			return ErrMovementBlocked
		}

		if !candidate.HasPosition(target) {
			continue
		}

		beyond := Position{X: target.X + dx, Y: target.Y + dy}
		displaceable := canPushTo(beyond) ||
			canMixWith(beyond, candidate.obj.Type) ||
			(candidate.IsKey() && canOpenWithKey(beyond)) ||
			(candidate.IsPaint() && canPaint(beyond))

		if candidate.Weight() <= maxWeight && candidate.IsPushable() && displaceable {
			pushed = append(pushed, index)
			continue
		}

		if candidate.IsMassive() {
			return ErrObjectCollision
		}
	}

	for _, index := range pushed {
		obj := candidates[index].obj
		obj.Position.X += dx
		obj.Position.Y += dy
		obj.Direction = direction
	}

	// The subject is leaving its cell; a forcing tile underneath has
	// released its occupant and may block again.
	for _, candidate := range candidates {
		if candidate.HasPosition(*subject) && candidate.obj.BlocksMovement == BlocksMovementDisabled {
			candidate.obj.BlocksMovement = BlocksMovementEnabled
		}
	}

	*subject = target
	return nil
}

func manhattan(a, b Position) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
