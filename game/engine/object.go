package engine

// Object is a single grid occupant together with its attribute record.
// Attributes are independent and not mutually exclusive; the resolver and
// the periodic behaviors dispatch on presence or absence of individual
// fields, never on the object type.
type Object struct {
	ID        int        `json:"id"`
	Type      ObjectType `json:"type"`
	Position  Position   `json:"position"`
	Direction Direction  `json:"direction"`
	Weight    Weight     `json:"weight,omitempty"`

	Massive      bool `json:"massive,omitempty"`
	Pushable     bool `json:"pushable,omitempty"`
	BlocksPushes bool `json:"blocks_pushes,omitempty"`
	Immovable    bool `json:"immovable,omitempty"`
	Key          bool `json:"key,omitempty"`
	Paintable    bool `json:"paintable,omitempty"`
	Floatable    bool `json:"floatable,omitempty"`
	Deadly       bool `json:"deadly,omitempty"`
	Explosive    bool `json:"explosive,omitempty"`
	Liquid       bool `json:"liquid,omitempty"`
	Trigger      bool `json:"trigger,omitempty"`
	Volatile     bool `json:"volatile,omitempty"`
	Slippery     bool `json:"slippery,omitempty"`
	Transporter  bool `json:"transporter,omitempty"`
	Teleporter   bool `json:"teleporter,omitempty"`
	Player       bool `json:"player,omitempty"`
	Exit         bool `json:"exit,omitempty"`
	Entrance     bool `json:"entrance,omitempty"`

	BlocksMovement BlocksMovement `json:"blocks_movement,omitempty"`
	Openable       OpenableKind   `json:"openable,omitempty"`
	Movable        MovableKind    `json:"movable,omitempty"`
	Paint          ObjectType     `json:"paint,omitempty"`
	TransformInto  ObjectType     `json:"transform_into,omitempty"`

	// Identifier pairs teleporters; Level is the target of an entrance or
	// the level that opens an OpenableLevelFinished object.
	Identifier uint16 `json:"identifier,omitempty"`
	Level      uint16 `json:"level,omitempty"`

	// Open mirrors an openable's visual state; an open openable is not
	// massive.
	Open bool `json:"open,omitempty"`
}

// InitialRecord is the shape a level file produces for each object: a
// position plus the optional metadata keys that were in effect for it.
type InitialRecord struct {
	Position   Position  `json:"position"`
	Direction  Direction `json:"direction,omitempty"`
	Identifier uint16    `json:"identifier,omitempty"`
	Level      uint16    `json:"level,omitempty"`
	Open       bool      `json:"open,omitempty"`
}

// NewObject builds the attribute bundle for an object type from its
// initial record. Unknown types yield a bare object with only position
// and direction set.
func NewObject(t ObjectType, record InitialRecord) *Object {
	direction := record.Direction
	if direction == "" {
		direction = Up
	}

	obj := &Object{
		Type:       t,
		Position:   record.Position,
		Direction:  direction,
		Identifier: record.Identifier,
		Level:      record.Level,
	}

	switch t {
	case BlueBlock:
		obj.Massive = true
		obj.Paintable = true
		obj.Pushable = true
		obj.Weight = WeightHeavy
	case BluePaint:
		obj.Paint = BlueBlock
		obj.Pushable = true
		obj.Weight = WeightLight
	case BouncingBall:
		obj.BlocksPushes = true
		obj.Deadly = true
		obj.Movable = MovableBounce
		obj.Weight = WeightLight
	case Button:
		obj.Trigger = true
	case Creature:
		obj.BlocksPushes = true
		obj.Deadly = true
		obj.Movable = MovableFollowRightHand
		obj.Weight = WeightLight
	case Door:
		obj.Openable = OpenableKey
		obj.Open = record.Open
		obj.Massive = !record.Open
	case Entrance:
		obj.BlocksPushes = true
		obj.Entrance = true
	case Exit:
		obj.BlocksPushes = true
		obj.Exit = true
	case Explosion:
		obj.Volatile = true
	case Flash:
		obj.Volatile = true
	case Gate:
		if record.Level != 0 {
			obj.Openable = OpenableLevelFinished
		} else {
			obj.Openable = OpenableTrigger
		}
		obj.Open = record.Open
		obj.Massive = !record.Open
	case Grave:
		obj.Massive = true
	case Ice:
		obj.BlocksMovement = BlocksMovementEnabled
		obj.Slippery = true
	case Key:
		obj.Key = true
		obj.Pushable = true
		obj.Weight = WeightLight
	case Mine:
		obj.Explosive = true
	case Player:
		obj.BlocksPushes = true
		obj.Player = true
		obj.Weight = WeightHeavy
	case PurpleBlock:
		obj.Massive = true
		obj.Paintable = true
		obj.Pushable = true
		obj.TransformInto = RedBlock
		obj.Weight = WeightHeavy
	case PurplePaint:
		obj.Paint = PurpleBlock
		obj.Pushable = true
		obj.Weight = WeightLight
	case Raft:
		obj.Floatable = true
		obj.Pushable = true
		obj.Weight = WeightHeavy
	case RedBlock:
		obj.Massive = true
		obj.Paintable = true
	case RedPaint:
		obj.Paint = RedBlock
		obj.Pushable = true
		obj.Weight = WeightLight
	case Splash:
		obj.Floatable = true
		obj.Volatile = true
	case Teleporter:
		obj.Teleporter = true
	case Transporter:
		obj.BlocksMovement = BlocksMovementEnabled
		obj.Transporter = true
	case Water:
		obj.Liquid = true
	case YellowBlock:
		obj.Massive = true
		obj.Paintable = true
		obj.Pushable = true
		obj.Weight = WeightLight
	}

	return obj
}

// IsPaint reports whether the object carries paint.
func (o *Object) IsPaint() bool {
	return o.Paint != ""
}

// Record captures the object's current state as an initial record, used
// by level serialization.
func (o *Object) Record() InitialRecord {
	return InitialRecord{
		Position:   o.Position,
		Direction:  o.Direction,
		Identifier: o.Identifier,
		Level:      o.Level,
		Open:       o.Open,
	}
}
