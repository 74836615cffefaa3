package engine

import (
	"fmt"
	"time"
)

// MoveHistoryEntry records a single resolved player move.
type MoveHistoryEntry struct {
	Direction    Direction `json:"direction"`
	FromPosition Position  `json:"from_position"`
	ToPosition   Position  `json:"to_position"`
	Outcome      string    `json:"outcome"`
	Timestamp    int64     `json:"timestamp"`
	MoveNumber   int       `json:"move_number"`
}

// GameState is the complete simulation state of one level: the object
// arena plus the process-wide counters retained across ticks. It is
// JSON-serializable for session persistence.
type GameState struct {
	Dimensions    Dimensions `json:"dimensions"`
	CurrentLevel  uint16     `json:"current_level"`
	PreviousLevel uint16     `json:"previous_level,omitempty"`

	// Objects is the arena. Positions are mutated only by the move
	// resolver and by teleporter relocation; everything else goes through
	// spawn/despawn events.
	Objects []*Object `json:"objects"`

	// FinishedLevels is consulted by level-finished openables and is
	// updated when the player reaches an exit.
	FinishedLevels map[uint16]bool `json:"finished_levels"`

	// PressedTriggers retains the trigger occupancy count between ticks.
	PressedTriggers int `json:"pressed_triggers"`

	MoveHistory []MoveHistoryEntry `json:"move_history,omitempty"`
	TotalMoves  int                `json:"total_moves"`

	// NextID is the next arena identifier to hand out.
	NextID int `json:"next_id"`

	// NextLevel is a pending level-transition request (entrance or exit),
	// drained by the engine facade.
	NextLevel *uint16 `json:"next_level,omitempty"`

	// Tick-local bookkeeping, rebuilt each tick; never serialized.
	tickChanged    map[int]bool
	pendingChanged map[int]bool
	pendingEvents  []Event
	appliedEvents  []Event
}

// NewGameState builds a state from a parsed level.
func NewGameState(level *Level, levelNumber uint16) *GameState {
	s := &GameState{
		Dimensions:     level.Dimensions,
		CurrentLevel:   levelNumber,
		FinishedLevels: make(map[uint16]bool),
		NextID:         1,
	}

	for _, objectType := range ObjectTypes {
		for _, record := range level.Objects[objectType] {
			s.addObject(NewObject(objectType, record))
		}
	}

	return s
}

func (s *GameState) addObject(obj *Object) *Object {
	obj.ID = s.NextID
	s.NextID++
	s.Objects = append(s.Objects, obj)
	return obj
}

// ObjectByID returns the live object with the given arena identifier.
func (s *GameState) ObjectByID(id int) (*Object, bool) {
	for _, obj := range s.Objects {
		if obj.ID == id {
			return obj, true
		}
	}
	return nil, false
}

// ObjectsAt returns all objects occupying the given cell.
func (s *GameState) ObjectsAt(p Position) []*Object {
	var result []*Object
	for _, obj := range s.Objects {
		if obj.Position == p {
			result = append(result, obj)
		}
	}
	return result
}

// PlayerObject returns the player, or nil when the player has been
// destroyed.
func (s *GameState) PlayerObject() *Object {
	for _, obj := range s.Objects {
		if obj.Player {
			return obj
		}
	}
	return nil
}

// ToLevel snapshots the arena back into the level record shape; used by
// the editor save routine.
func (s *GameState) ToLevel() *Level {
	level := &Level{
		Dimensions: s.Dimensions,
		Objects:    make(map[ObjectType][]InitialRecord),
	}
	for _, obj := range s.Objects {
		// Cosmetic leftovers are not part of a level definition.
		if obj.Volatile {
			continue
		}
		level.Objects[obj.Type] = append(level.Objects[obj.Type], obj.Record())
	}
	return level
}

// markMoved records a position change for consumption by the
// changed-gated behaviors. Changes flagged pending become visible on the
// next tick.
func (s *GameState) markMoved(id int, pending bool) {
	if pending {
		if s.pendingChanged == nil {
			s.pendingChanged = make(map[int]bool)
		}
		s.pendingChanged[id] = true
		return
	}
	if s.tickChanged == nil {
		s.tickChanged = make(map[int]bool)
	}
	s.tickChanged[id] = true
}

// beginTick promotes pending changes into the visible set for this tick.
func (s *GameState) beginTick() {
	s.tickChanged = s.pendingChanged
	s.pendingChanged = nil
	s.appliedEvents = nil
}

func (s *GameState) changedThisTick(id int) bool {
	return s.tickChanged[id]
}

func (s *GameState) anythingChanged() bool {
	return len(s.tickChanged) > 0
}

// requestSpawn buffers a spawn request; it is materialized by the next
// applyEvents call, never mid-iteration.
func (s *GameState) requestSpawn(t ObjectType, record InitialRecord) {
	s.pendingEvents = append(s.pendingEvents, Event{
		Kind:       EventSpawn,
		Type:       t,
		Position:   record.Position,
		Direction:  record.Direction,
		Identifier: record.Identifier,
		Level:      record.Level,
	})
}

// requestDespawn buffers a despawn request for the given object.
func (s *GameState) requestDespawn(obj *Object) {
	s.pendingEvents = append(s.pendingEvents, Event{
		Kind:     EventDespawn,
		ObjectID: obj.ID,
		Type:     obj.Type,
		Position: obj.Position,
	})
}

// applyEvents materializes buffered spawn/despawn requests against the
// arena. It returns true when a volatile object was spawned, which resets
// the expiry timer.
func (s *GameState) applyEvents() bool {
	spawnedVolatile := false

	for _, event := range s.pendingEvents {
		switch event.Kind {
		case EventSpawn:
			obj := s.addObject(NewObject(event.Type, InitialRecord{
				Position:   event.Position,
				Direction:  event.Direction,
				Identifier: event.Identifier,
				Level:      event.Level,
			}))
			if obj.Volatile {
				spawnedVolatile = true
			}
		case EventDespawn:
			s.removeObject(event.ObjectID)
		}
		s.appliedEvents = append(s.appliedEvents, event)
	}
	s.pendingEvents = s.pendingEvents[:0]

	return spawnedVolatile
}

func (s *GameState) removeObject(id int) {
	for index, obj := range s.Objects {
		if obj.ID == id {
			s.Objects = append(s.Objects[:index], s.Objects[index+1:]...)
			return
		}
	}
}

// Clone returns a deep copy of the state, suitable for speculative move
// resolution. Tick-local bookkeeping is not carried over.
func (s *GameState) Clone() *GameState {
	clone := &GameState{
		Dimensions:      s.Dimensions,
		CurrentLevel:    s.CurrentLevel,
		PreviousLevel:   s.PreviousLevel,
		PressedTriggers: s.PressedTriggers,
		TotalMoves:      s.TotalMoves,
		NextID:          s.NextID,
		FinishedLevels:  make(map[uint16]bool, len(s.FinishedLevels)),
	}
	for level, finished := range s.FinishedLevels {
		clone.FinishedLevels[level] = finished
	}
	clone.Objects = make([]*Object, len(s.Objects))
	for index, obj := range s.Objects {
		copied := *obj
		clone.Objects[index] = &copied
	}
	clone.MoveHistory = make([]MoveHistoryEntry, len(s.MoveHistory))
	copy(clone.MoveHistory, s.MoveHistory)
	return clone
}

// DrainEvents returns the derived events applied since the last drain.
func (s *GameState) DrainEvents() []Event {
	events := s.appliedEvents
	s.appliedEvents = nil
	return events
}

// resolveMove runs the move resolver for subject against every other
// collidable object, except those the exclude predicate rejects. Moved
// objects (the subject and any pushed occupants) are recorded in the
// changed set; pending selects which set.
func (s *GameState) resolveMove(subject *Object, direction Direction, exclude func(*Object) bool, pending bool) error {
	views := make([]CollisionView, 0, len(s.Objects))
	before := make(map[int]Position, len(s.Objects))
	for _, obj := range s.Objects {
		if obj == subject || (exclude != nil && exclude(obj)) {
			continue
		}
		views = append(views, ViewOf(obj))
		before[obj.ID] = obj.Position
	}

	err := MoveObject(&subject.Position, direction, s.Dimensions, views, subject.Weight)
	if err != nil {
		return err
	}

	s.markMoved(subject.ID, pending)
	for _, view := range views {
		if view.obj.Position != before[view.obj.ID] {
			s.markMoved(view.obj.ID, pending)
		}
	}
	return nil
}

// MovePlayer resolves an input-driven player move. Changes become visible
// to the contact behaviors on the next tick.
func (s *GameState) MovePlayer(direction Direction) error {
	player := s.PlayerObject()
	if player == nil {
		return fmt.Errorf("no player in level")
	}

	from := player.Position
	err := s.resolveMove(player, direction, func(obj *Object) bool { return obj.Player }, true)
	if err == nil {
		player.Direction = direction
	}

	outcome := "success"
	if err != nil {
		outcome = err.Error()
	}
	s.TotalMoves++
	s.MoveHistory = append(s.MoveHistory, MoveHistoryEntry{
		Direction:    direction,
		FromPosition: from,
		ToPosition:   player.Position,
		Outcome:      outcome,
		Timestamp:    time.Now().Unix(),
		MoveNumber:   s.TotalMoves,
	})

	return err
}
