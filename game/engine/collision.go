package engine

// CollisionView is a read/write projection of one object's
// collision-relevant attributes. The move resolver works exclusively on
// these views so it never touches the rest of the object store.
type CollisionView struct {
	obj *Object
}

// ViewOf wraps an object in a collision view.
func ViewOf(obj *Object) CollisionView {
	return CollisionView{obj: obj}
}

// Object returns the underlying object.
func (v CollisionView) Object() *Object {
	return v.obj
}

// HasPosition reports whether the object occupies the given cell.
func (v CollisionView) HasPosition(p Position) bool {
	return v.obj.Position == p
}

// BlocksMovement reports whether the object refuses to release an
// occupant of its cell.
func (v CollisionView) BlocksMovement() bool {
	return v.obj.BlocksMovement == BlocksMovementEnabled
}

// CanMixWith reports whether the object is paint that mixes with paint of
// type t.
func (v CollisionView) CanMixWith(t ObjectType) bool {
	return v.obj.IsPaint() && t.MixWith(v.obj.Type) != ""
}

// CanOpenWithKey reports whether the object is a key-openable that is
// still closed.
func (v CollisionView) CanOpenWithKey() bool {
	return v.obj.Openable == OpenableKey && v.obj.Massive
}

// CanPushOn reports whether another object may be pushed onto this
// object's cell.
func (v CollisionView) CanPushOn() bool {
	return !v.obj.Massive && !v.obj.Pushable && !v.obj.BlocksPushes
}

// IsKey reports whether the object acts as a key.
func (v CollisionView) IsKey() bool {
	return v.obj.Key
}

// IsMassive reports whether the object blocks co-location.
func (v CollisionView) IsMassive() bool {
	return v.obj.Massive
}

// IsPaint reports whether the object carries paint.
func (v CollisionView) IsPaint() bool {
	return v.obj.IsPaint()
}

// IsPaintable reports whether the object can be painted.
func (v CollisionView) IsPaintable() bool {
	return v.obj.Paintable
}

// IsPushable reports whether the object may be displaced by a mover.
func (v CollisionView) IsPushable() bool {
	return v.obj.Pushable
}

// Weight returns the object's weight, WeightNone when untagged.
func (v CollisionView) Weight() Weight {
	return v.obj.Weight
}
