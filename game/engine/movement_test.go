package engine

import (
	"errors"
	"testing"
)

func viewsOf(objects ...*Object) []CollisionView {
	views := make([]CollisionView, 0, len(objects))
	for _, obj := range objects {
		views = append(views, ViewOf(obj))
	}
	return views
}

func TestMoveObjectIntoEmptyCell(t *testing.T) {
	subject := Position{X: 5, Y: 5}
	err := MoveObject(&subject, Right, DefaultDimensions, nil, WeightHeavy)
	if err != nil {
		t.Fatalf("MoveObject failed: %v", err)
	}
	if subject != (Position{X: 6, Y: 5}) {
		t.Errorf("Expected subject at (6,5), got (%d,%d)", subject.X, subject.Y)
	}
}

func TestMoveObjectEdgeCollision(t *testing.T) {
	tests := []struct {
		name      string
		start     Position
		direction Direction
	}{
		{"left edge", Position{X: 1, Y: 1}, Left},
		{"top edge", Position{X: 1, Y: 1}, Up},
		{"right edge", Position{X: 16, Y: 8}, Right},
		{"bottom edge", Position{X: 8, Y: 16}, Down},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject := tt.start
			err := MoveObject(&subject, tt.direction, DefaultDimensions, nil, WeightHeavy)
			if !errors.Is(err, ErrEdgeCollision) {
				t.Errorf("Expected edge collision, got %v", err)
			}
			if subject != tt.start {
				t.Errorf("Subject moved on failed move: (%d,%d)", subject.X, subject.Y)
			}
		})
	}
}

func TestMoveObjectPushesLightBlock(t *testing.T) {
	block := NewObject(YellowBlock, InitialRecord{Position: Position{X: 6, Y: 5}})
	subject := Position{X: 5, Y: 5}

	err := MoveObject(&subject, Right, DefaultDimensions, viewsOf(block), WeightHeavy)
	if err != nil {
		t.Fatalf("MoveObject failed: %v", err)
	}
	if subject != (Position{X: 6, Y: 5}) {
		t.Errorf("Expected subject at (6,5), got (%d,%d)", subject.X, subject.Y)
	}
	if block.Position != (Position{X: 7, Y: 5}) {
		t.Errorf("Expected block at (7,5), got (%d,%d)", block.Position.X, block.Position.Y)
	}
	if block.Direction != Right {
		t.Errorf("Expected pushed block facing Right, got %s", block.Direction)
	}
}

func TestMoveObjectWeightLimit(t *testing.T) {
	// A light pusher cannot displace a heavy block, and the block is
	// massive, so the move is a collision.
	block := NewObject(BlueBlock, InitialRecord{Position: Position{X: 6, Y: 5}})
	subject := Position{X: 5, Y: 5}

	err := MoveObject(&subject, Right, DefaultDimensions, viewsOf(block), WeightLight)
	if !errors.Is(err, ErrObjectCollision) {
		t.Errorf("Expected object collision, got %v", err)
	}
	if subject != (Position{X: 5, Y: 5}) || block.Position != (Position{X: 6, Y: 5}) {
		t.Error("Positions changed on failed move")
	}
}

func TestMoveObjectPushChainBlocked(t *testing.T) {
	// Pushable block with a massive, unpushable block behind it: the
	// chain cannot compress.
	front := NewObject(YellowBlock, InitialRecord{Position: Position{X: 6, Y: 5}})
	back := NewObject(RedBlock, InitialRecord{Position: Position{X: 7, Y: 5}})
	subject := Position{X: 5, Y: 5}

	err := MoveObject(&subject, Right, DefaultDimensions, viewsOf(front, back), WeightHeavy)
	if !errors.Is(err, ErrObjectCollision) {
		t.Errorf("Expected object collision, got %v", err)
	}
	if front.Position != (Position{X: 6, Y: 5}) {
		t.Error("Front block moved on failed push")
	}
}

func TestMoveObjectPushAgainstEdge(t *testing.T) {
	block := NewObject(YellowBlock, InitialRecord{Position: Position{X: 16, Y: 5}})
	subject := Position{X: 15, Y: 5}

	err := MoveObject(&subject, Right, DefaultDimensions, viewsOf(block), WeightHeavy)
	if !errors.Is(err, ErrObjectCollision) {
		t.Errorf("Expected object collision, got %v", err)
	}
}

func TestMoveObjectPushBlockedByBlocksPushes(t *testing.T) {
	block := NewObject(YellowBlock, InitialRecord{Position: Position{X: 6, Y: 5}})
	wall := NewObject(Entrance, InitialRecord{Position: Position{X: 7, Y: 5}})
	subject := Position{X: 5, Y: 5}

	err := MoveObject(&subject, Right, DefaultDimensions, viewsOf(block, wall), WeightHeavy)
	if !errors.Is(err, ErrObjectCollision) {
		t.Errorf("Expected object collision, got %v", err)
	}
}

func TestMoveObjectKeyPushedOntoDoor(t *testing.T) {
	// A key may be pushed onto a closed door even though the door is
	// massive.
	key := NewObject(Key, InitialRecord{Position: Position{X: 6, Y: 5}})
	door := NewObject(Door, InitialRecord{Position: Position{X: 7, Y: 5}})
	subject := Position{X: 5, Y: 5}

	err := MoveObject(&subject, Right, DefaultDimensions, viewsOf(key, door), WeightHeavy)
	if err != nil {
		t.Fatalf("MoveObject failed: %v", err)
	}
	if key.Position != (Position{X: 7, Y: 5}) {
		t.Errorf("Expected key at (7,5), got (%d,%d)", key.Position.X, key.Position.Y)
	}
}

func TestMoveObjectPaintPushedOntoPaintable(t *testing.T) {
	paint := NewObject(BluePaint, InitialRecord{Position: Position{X: 6, Y: 5}})
	block := NewObject(RedBlock, InitialRecord{Position: Position{X: 7, Y: 5}})
	subject := Position{X: 5, Y: 5}

	err := MoveObject(&subject, Right, DefaultDimensions, viewsOf(paint, block), WeightHeavy)
	if err != nil {
		t.Fatalf("MoveObject failed: %v", err)
	}
	if paint.Position != (Position{X: 7, Y: 5}) {
		t.Errorf("Expected paint at (7,5), got (%d,%d)", paint.Position.X, paint.Position.Y)
	}
}

func TestMoveObjectPaintPushedOntoMixablePaint(t *testing.T) {
	pushed := NewObject(BluePaint, InitialRecord{Position: Position{X: 6, Y: 5}})
	resting := NewObject(RedPaint, InitialRecord{Position: Position{X: 7, Y: 5}})
	subject := Position{X: 5, Y: 5}

	err := MoveObject(&subject, Right, DefaultDimensions, viewsOf(pushed, resting), WeightHeavy)
	if err != nil {
		t.Fatalf("MoveObject failed: %v", err)
	}
	if pushed.Position != (Position{X: 7, Y: 5}) {
		t.Errorf("Expected pushed paint at (7,5), got (%d,%d)", pushed.Position.X, pushed.Position.Y)
	}
}

func TestMoveObjectBlockedByEnabledTile(t *testing.T) {
	ice := NewObject(Ice, InitialRecord{Position: Position{X: 5, Y: 5}})
	subject := Position{X: 5, Y: 5}

	err := MoveObject(&subject, Right, DefaultDimensions, viewsOf(ice), WeightHeavy)
	if !errors.Is(err, ErrMovementBlocked) {
		t.Errorf("Expected movement blocked, got %v", err)
	}
	if IsCollision(err) {
		t.Error("Movement blocked must not count as a collision")
	}
}

func TestMoveObjectReenablesDisabledTile(t *testing.T) {
	ice := NewObject(Ice, InitialRecord{Position: Position{X: 5, Y: 5}})
	ice.BlocksMovement = BlocksMovementDisabled
	subject := Position{X: 5, Y: 5}

	err := MoveObject(&subject, Right, DefaultDimensions, viewsOf(ice), WeightHeavy)
	if err != nil {
		t.Fatalf("MoveObject failed: %v", err)
	}
	if ice.BlocksMovement != BlocksMovementEnabled {
		t.Errorf("Expected vacated tile re-enabled, got %q", ice.BlocksMovement)
	}
}

func TestMoveObjectNonMassiveOverlap(t *testing.T) {
	// Walking onto a button: not massive, not pushable, move succeeds
	// and both objects share the cell.
	button := NewObject(Button, InitialRecord{Position: Position{X: 6, Y: 5}})
	subject := Position{X: 5, Y: 5}

	err := MoveObject(&subject, Right, DefaultDimensions, viewsOf(button), WeightHeavy)
	if err != nil {
		t.Fatalf("MoveObject failed: %v", err)
	}
	if subject != button.Position {
		t.Error("Expected subject to share the button's cell")
	}
}

func TestMoveObjectOpenDoorIsPassable(t *testing.T) {
	door := NewObject(Door, InitialRecord{Position: Position{X: 6, Y: 5}, Open: true})
	subject := Position{X: 5, Y: 5}

	err := MoveObject(&subject, Right, DefaultDimensions, viewsOf(door), WeightHeavy)
	if err != nil {
		t.Fatalf("MoveObject through open door failed: %v", err)
	}
}
