package engine

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
)

// DefaultLevel is the built-in fallback used when a level is missing or
// malformed: one player and one exit.
const DefaultLevel = `[Player]
Position=1,1

[Exit]
Position=2,1
`

// Level is the shape a level file parses into: grid bounds plus the
// initial records per object type.
type Level struct {
	Dimensions Dimensions
	Objects    map[ObjectType][]InitialRecord
}

// LoadLevel parses the plain-text level format. Sections name an object
// type (or General for dimensions); Direction, Identifier, Level, and
// Open keys are sticky within a section and apply to subsequent Position
// lines. Unknown sections and malformed values are logged and skipped.
func LoadLevel(content string) *Level {
	level := &Level{
		Dimensions: DefaultDimensions,
		Objects:    make(map[ObjectType][]InitialRecord),
	}

	var section string
	var direction Direction
	var identifier uint16
	var levelNum uint16
	var open bool

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = line[1 : len(line)-1]
			direction = ""
			identifier = 0
			levelNum = 0
			open = false
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found || section == "" {
			continue
		}

		if section == "General" {
			size, err := strconv.Atoi(value)
			switch {
			case err != nil:
				log.Printf("Invalid dimension in key %s: %v", key, err)
			case key == "Width":
				level.Dimensions.Width = size
			case key == "Height":
				level.Dimensions.Height = size
			default:
				log.Printf("Unknown key: %s", key)
			}
			continue
		}

		objectType, ok := parseObjectType(section)
		if !ok {
			log.Printf("Unknown object type: %s", section)
			continue
		}

		switch key {
		case "Position":
			for _, location := range strings.Split(value, ";") {
				x, y, found := strings.Cut(location, ",")
				if !found {
					continue
				}
				px, errX := strconv.Atoi(x)
				py, errY := strconv.Atoi(y)
				if errX != nil || errY != nil {
					log.Printf("Invalid location (%s,%s)", x, y)
					continue
				}
				level.Objects[objectType] = append(level.Objects[objectType], InitialRecord{
					Position:   Position{X: px, Y: py},
					Direction:  direction,
					Identifier: identifier,
					Level:      levelNum,
					Open:       open,
				})
			}
		case "Direction":
			parsed, ok := ParseDirection(value)
			if !ok {
				log.Printf("Unknown direction: %s", value)
				continue
			}
			direction = parsed
		case "Identifier":
			parsed, err := strconv.ParseUint(value, 10, 16)
			if err != nil {
				log.Printf("Cannot parse identifier: %s", value)
				continue
			}
			identifier = uint16(parsed)
		case "Level":
			parsed, err := strconv.ParseUint(value, 10, 16)
			if err != nil {
				log.Printf("Cannot parse level number: %s", value)
				continue
			}
			levelNum = uint16(parsed)
		case "Open":
			switch value {
			case "true":
				open = true
			case "false":
				open = false
			default:
				log.Printf("Cannot parse open value: %s", value)
			}
		default:
			log.Printf("Unknown key: %s", key)
		}
	}

	return level
}

// Save serializes the level back to its text format. Records are ordered
// by (level, direction, position) per section, so output is deterministic
// for a given level.
func (l *Level) Save() string {
	var content strings.Builder
	fmt.Fprintf(&content, "[General]\nWidth=%d\nHeight=%d", l.Dimensions.Width, l.Dimensions.Height)

	for _, objectType := range ObjectTypes {
		records := l.Objects[objectType]
		if len(records) == 0 {
			continue
		}

		fmt.Fprintf(&content, "\n\n[%s]\n", objectType)

		sorted := make([]InitialRecord, len(records))
		copy(sorted, records)
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := sorted[i], sorted[j]
			if a.Level != b.Level {
				return a.Level < b.Level
			}
			if a.Direction != b.Direction {
				return directionRank(a.Direction) < directionRank(b.Direction)
			}
			return a.Position.Less(b.Position)
		})

		currentDirection := Up
		var currentIdentifier uint16
		var currentLevel uint16
		currentOpen := false
		lastX := -1
		onFreshLine := true

		for _, record := range sorted {
			if record.Direction != "" && record.Direction != currentDirection {
				if !onFreshLine {
					content.WriteString("\n")
				}
				fmt.Fprintf(&content, "Direction=%s\n", record.Direction)
				currentDirection = record.Direction
				onFreshLine = true
			}
			if record.Identifier != 0 && record.Identifier != currentIdentifier {
				if !onFreshLine {
					content.WriteString("\n")
				}
				fmt.Fprintf(&content, "Identifier=%d\n", record.Identifier)
				currentIdentifier = record.Identifier
				onFreshLine = true
			}
			if record.Level != 0 && record.Level != currentLevel {
				if !onFreshLine {
					content.WriteString("\n")
				}
				fmt.Fprintf(&content, "Level=%d\n", record.Level)
				currentLevel = record.Level
				onFreshLine = true
			}
			if record.Open != currentOpen {
				if !onFreshLine {
					content.WriteString("\n")
				}
				fmt.Fprintf(&content, "Open=%t\n", record.Open)
				currentOpen = record.Open
				onFreshLine = true
			}

			switch {
			case onFreshLine:
				fmt.Fprintf(&content, "Position=%d,%d", record.Position.X, record.Position.Y)
			case lastX != record.Position.X:
				fmt.Fprintf(&content, "\nPosition=%d,%d", record.Position.X, record.Position.Y)
			default:
				fmt.Fprintf(&content, ";%d,%d", record.Position.X, record.Position.Y)
			}
			lastX = record.Position.X
			onFreshLine = false
		}
	}

	content.WriteString("\n")
	return content.String()
}

func parseObjectType(s string) (ObjectType, bool) {
	for _, t := range ObjectTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

func directionRank(d Direction) int {
	switch d {
	case Up, "":
		return 0
	case Right:
		return 1
	case Down:
		return 2
	default:
		return 3
	}
}
