package engine

import (
	"testing"
)

func TestLoadLevelDefault(t *testing.T) {
	level := LoadLevel(DefaultLevel)

	if level.Dimensions != DefaultDimensions {
		t.Errorf("Expected default dimensions, got %dx%d", level.Dimensions.Width, level.Dimensions.Height)
	}
	if len(level.Objects[Player]) != 1 {
		t.Fatalf("Expected one player, got %d", len(level.Objects[Player]))
	}
	if level.Objects[Player][0].Position != (Position{X: 1, Y: 1}) {
		t.Error("Player not at (1,1)")
	}
	if len(level.Objects[Exit]) != 1 {
		t.Fatalf("Expected one exit, got %d", len(level.Objects[Exit]))
	}
}

func TestLoadLevelDimensions(t *testing.T) {
	level := LoadLevel("[General]\nWidth=8\nHeight=12\n")

	if level.Dimensions.Width != 8 || level.Dimensions.Height != 12 {
		t.Errorf("Expected 8x12, got %dx%d", level.Dimensions.Width, level.Dimensions.Height)
	}
}

func TestLoadLevelPositionList(t *testing.T) {
	level := LoadLevel("[Water]\nPosition=3,4;3,5;3,6\n")

	records := level.Objects[Water]
	if len(records) != 3 {
		t.Fatalf("Expected 3 water records, got %d", len(records))
	}
	if records[1].Position != (Position{X: 3, Y: 5}) {
		t.Errorf("Expected second record at (3,5), got (%d,%d)", records[1].Position.X, records[1].Position.Y)
	}
}

func TestLoadLevelStickyMetadata(t *testing.T) {
	content := `[Transporter]
Direction=Left
Position=2,2
Position=3,3
Direction=Down
Position=4,4

[Teleporter]
Identifier=7
Position=2,2;10,10

[Entrance]
Level=3
Position=6,6
`
	level := LoadLevel(content)

	transporters := level.Objects[Transporter]
	if len(transporters) != 3 {
		t.Fatalf("Expected 3 transporters, got %d", len(transporters))
	}
	if transporters[0].Direction != Left || transporters[1].Direction != Left {
		t.Error("Direction did not stick to subsequent positions")
	}
	if transporters[2].Direction != Down {
		t.Error("Direction did not update mid-section")
	}

	for _, record := range level.Objects[Teleporter] {
		if record.Identifier != 7 {
			t.Errorf("Expected identifier 7, got %d", record.Identifier)
		}
	}

	if level.Objects[Entrance][0].Level != 3 {
		t.Errorf("Expected entrance level 3, got %d", level.Objects[Entrance][0].Level)
	}
}

func TestLoadLevelMetadataResetsPerSection(t *testing.T) {
	content := `[Transporter]
Direction=Left
Position=2,2

[BouncingBall]
Position=5,5
`
	level := LoadLevel(content)

	if level.Objects[BouncingBall][0].Direction != "" {
		t.Error("Direction leaked into the next section")
	}
}

func TestLoadLevelSkipsMalformedLines(t *testing.T) {
	content := `[General]
Width=nonsense
Height=10

[NoSuchThing]
Position=1,1

[Player]
Position=bad,coords
Position=2,3
`
	level := LoadLevel(content)

	if level.Dimensions.Width != DefaultDimensions.Width {
		t.Error("Malformed width overwrote the default")
	}
	if level.Dimensions.Height != 10 {
		t.Error("Valid height was skipped")
	}
	if len(level.Objects[Player]) != 1 {
		t.Fatalf("Expected the one valid player record, got %d", len(level.Objects[Player]))
	}
}

func TestLevelSaveRoundTrip(t *testing.T) {
	content := `[General]
Width=12
Height=10

[Button]
Position=4,4

[Player]
Position=1,1

[Teleporter]
Identifier=7
Position=2,2
Position=10,9

[Water]
Position=3,4;3,5
Position=4,4
`
	first := LoadLevel(content)
	saved := first.Save()
	second := LoadLevel(saved)

	if second.Dimensions != first.Dimensions {
		t.Errorf("Dimensions changed: %+v vs %+v", second.Dimensions, first.Dimensions)
	}
	for _, objectType := range ObjectTypes {
		if len(second.Objects[objectType]) != len(first.Objects[objectType]) {
			t.Errorf("%s count changed: %d vs %d", objectType,
				len(second.Objects[objectType]), len(first.Objects[objectType]))
		}
	}
	for _, record := range second.Objects[Teleporter] {
		if record.Identifier != 7 {
			t.Errorf("Teleporter identifier lost: %d", record.Identifier)
		}
	}

	// A second save of the reloaded level must be byte-identical.
	if again := second.Save(); again != saved {
		t.Errorf("Save is not deterministic:\n%s\nvs\n%s", again, saved)
	}
}
