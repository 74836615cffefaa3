package engine

// ObjectType identifies the catalog entry an object was spawned from.
type ObjectType string

const (
	BlueBlock    ObjectType = "BlueBlock"
	BluePaint    ObjectType = "BluePaint"
	BouncingBall ObjectType = "BouncingBall"
	Button       ObjectType = "Button"
	Creature     ObjectType = "Creature"
	Door         ObjectType = "Door"
	Entrance     ObjectType = "Entrance"
	Exit         ObjectType = "Exit"
	Explosion    ObjectType = "Explosion"
	Flash        ObjectType = "Flash"
	Gate         ObjectType = "Gate"
	Grave        ObjectType = "Grave"
	Ice          ObjectType = "Ice"
	Key          ObjectType = "Key"
	Mine         ObjectType = "Mine"
	Player       ObjectType = "Player"
	PurpleBlock  ObjectType = "PurpleBlock"
	PurplePaint  ObjectType = "PurplePaint"
	Raft         ObjectType = "Raft"
	RedBlock     ObjectType = "RedBlock"
	RedPaint     ObjectType = "RedPaint"
	Splash       ObjectType = "Splash"
	Teleporter   ObjectType = "Teleporter"
	Transporter  ObjectType = "Transporter"
	Water        ObjectType = "Water"
	YellowBlock  ObjectType = "YellowBlock"
)

// ObjectTypes lists every catalog entry in serialization order.
var ObjectTypes = []ObjectType{
	BlueBlock, BluePaint, BouncingBall, Button, Creature, Door, Entrance,
	Exit, Explosion, Flash, Gate, Grave, Ice, Key, Mine, Player,
	PurpleBlock, PurplePaint, Raft, RedBlock, RedPaint, Splash,
	Teleporter, Transporter, Water, YellowBlock,
}

// MixWith returns the object type produced when paint of type t is mixed
// with paint of type other, or "" when the combination is undefined.
//
// The table is commutative.
func (t ObjectType) MixWith(other ObjectType) ObjectType {
	switch {
	case t == BluePaint && other == BluePaint:
		return BluePaint
	case t == BluePaint && other == PurplePaint,
		t == PurplePaint && other == BluePaint:
		return PurplePaint
	case t == BluePaint && other == RedPaint,
		t == RedPaint && other == BluePaint:
		return PurplePaint
	case t == PurplePaint && other == PurplePaint:
		return PurplePaint
	case t == PurplePaint && other == RedPaint,
		t == RedPaint && other == PurplePaint:
		return PurplePaint
	case t == RedPaint && other == RedPaint:
		return RedPaint
	default:
		return ""
	}
}

// Position is a 1-based grid coordinate. The top-left cell of a level is
// position (1, 1).
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Less orders positions by (x, y). Only used for deterministic
// serialization; the resolver never relies on this order.
func (p Position) Less(other Position) bool {
	if p.X != other.X {
		return p.X < other.X
	}
	return p.Y < other.Y
}

// Direction is one of the four cardinal movement directions.
type Direction string

const (
	Up    Direction = "Up"
	Right Direction = "Right"
	Down  Direction = "Down"
	Left  Direction = "Left"
)

// Directions lists all directions in clockwise order starting at Up.
var Directions = []Direction{Up, Right, Down, Left}

// Delta returns the (dx, dy) step for the direction.
func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return 0, -1
	case Right:
		return 1, 0
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	default:
		return 0, 0
	}
}

// Inverse returns the opposite direction.
func (d Direction) Inverse() Direction {
	switch d {
	case Up:
		return Down
	case Right:
		return Left
	case Down:
		return Up
	default:
		return Right
	}
}

// LeftHand returns the direction rotated 90 degrees counter-clockwise.
func (d Direction) LeftHand() Direction {
	switch d {
	case Up:
		return Left
	case Left:
		return Down
	case Down:
		return Right
	default:
		return Up
	}
}

// RightHand returns the direction rotated 90 degrees clockwise.
func (d Direction) RightHand() Direction {
	switch d {
	case Up:
		return Right
	case Right:
		return Down
	case Down:
		return Left
	default:
		return Up
	}
}

// DirectionFromDelta reconstructs a direction from a unit delta.
func DirectionFromDelta(dx, dy int) (Direction, bool) {
	switch {
	case dx == 0 && dy == -1:
		return Up, true
	case dx == 1 && dy == 0:
		return Right, true
	case dx == 0 && dy == 1:
		return Down, true
	case dx == -1 && dy == 0:
		return Left, true
	default:
		return "", false
	}
}

// ParseDirection parses a direction name. Lowercase names are accepted so
// API clients can send "up" as well as "Up".
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "Up", "up":
		return Up, true
	case "Right", "right":
		return Right, true
	case "Down", "down":
		return Down, true
	case "Left", "left":
		return Left, true
	default:
		return "", false
	}
}

// Weight restricts which objects may push which. A pusher needs weight
// greater than or equal to the pushed object's weight.
type Weight int

const (
	WeightNone Weight = iota
	WeightLight
	WeightHeavy
)

// BlocksMovement is carried by slippery and transporter tiles only. An
// enabled tile refuses to release its occupant to a regular move; it is
// disabled when the tile fails to displace the occupant itself and
// re-enabled once the occupant vacates the cell.
type BlocksMovement string

const (
	BlocksMovementNone     BlocksMovement = ""
	BlocksMovementEnabled  BlocksMovement = "enabled"
	BlocksMovementDisabled BlocksMovement = "disabled"
)

// OpenableKind says what opens an openable (massive until opened) object.
type OpenableKind string

const (
	OpenableNone          OpenableKind = ""
	OpenableKey           OpenableKind = "key"
	OpenableTrigger       OpenableKind = "trigger"
	OpenableLevelFinished OpenableKind = "level_finished"
)

// MovableKind selects one of the two autonomous movement patterns.
type MovableKind string

const (
	MovableNone MovableKind = ""

	// MovableBounce reverses direction whenever the object cannot move
	// further.
	MovableBounce MovableKind = "bounce"

	// MovableFollowRightHand turns right whenever possible, following
	// whatever obstacles are on the object's right.
	MovableFollowRightHand MovableKind = "follow_right_hand"
)

// Dimensions are the grid bounds of the current level. Immutable during a
// tick.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultDimensions matches the built-in default level.
var DefaultDimensions = Dimensions{Width: 16, Height: 16}

// Contains reports whether the 1-based position lies inside the grid.
func (d Dimensions) Contains(p Position) bool {
	return p.X >= 1 && p.X <= d.Width && p.Y >= 1 && p.Y <= d.Height
}

// EventKind distinguishes derived event requests emitted by the engine.
type EventKind string

const (
	EventSpawn         EventKind = "spawn"
	EventDespawn       EventKind = "despawn"
	EventLevelFinished EventKind = "level_finished"
	EventEnterLevel    EventKind = "enter_level"
)

// Event is a derived-event request produced by the core and consumed by
// the presentation layer. Spawns carry the full initial record; despawns
// reference the removed object by ID.
type Event struct {
	Kind       EventKind  `json:"kind"`
	ObjectID   int        `json:"object_id,omitempty"`
	Type       ObjectType `json:"type,omitempty"`
	Position   Position   `json:"position,omitempty"`
	Direction  Direction  `json:"direction,omitempty"`
	Identifier uint16     `json:"identifier,omitempty"`
	Level      uint16     `json:"level,omitempty"`
}
