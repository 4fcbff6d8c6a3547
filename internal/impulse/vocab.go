package impulse

import "strings"

// Room is the context bucket a user selects when logging an impulse.
type Room string

const (
	RoomImpulseCenter Room = "impulse-center"
	RoomEarth         Room = "earth"
	RoomWater         Room = "water"
	RoomFire          Room = "fire"
	RoomWind          Room = "wind"
	RoomAether        Room = "aether"
)

// Zone is the semantic category a room belongs to.
type Zone string

const (
	ZoneStructure Zone = "structure"
	ZoneEmotion   Zone = "emotion"
	ZoneWill      Zone = "will"
	ZoneMind      Zone = "mind"
	ZoneMeaning   Zone = "meaning"
	ZoneMeta      Zone = "meta"
)

// ArchivRoom is one of the six storage buckets an impulse is placed in.
type ArchivRoom string

const (
	ArchivNullCodeSaal        ArchivRoom = "NULL_CODE_SAAL"
	ArchivResonanzSchacht     ArchivRoom = "RESONANZ_SCHACHT"
	ArchivSphaerenSaelle      ArchivRoom = "SPHAEREN_SAELLE"
	ArchivZeitspeicherGalerie ArchivRoom = "ZEITSPEICHER_GALERIE"
	ArchivSchattenSafe        ArchivRoom = "SCHATTEN_SAFE"
	ArchivFrequenzBibliothek  ArchivRoom = "FREQUENZ_BIBLIOTHEK"
)

// ChronikLevel is the temporal significance tier of an impulse.
type ChronikLevel string

const (
	LevelMicro ChronikLevel = "micro"
	LevelMeso  ChronikLevel = "meso"
	LevelMacro ChronikLevel = "macro"
	LevelCanon ChronikLevel = "canon"
)

const (
	NumRooms         = 6
	NumZones         = 6
	NumArchivRooms   = 6
	NumChronikLevels = 4
)

// Declaration order is the iteration order for counters and reports.
var (
	Rooms         = [NumRooms]Room{RoomImpulseCenter, RoomEarth, RoomWater, RoomFire, RoomWind, RoomAether}
	Zones         = [NumZones]Zone{ZoneStructure, ZoneEmotion, ZoneWill, ZoneMind, ZoneMeaning, ZoneMeta}
	ArchivRooms   = [NumArchivRooms]ArchivRoom{ArchivNullCodeSaal, ArchivResonanzSchacht, ArchivSphaerenSaelle, ArchivZeitspeicherGalerie, ArchivSchattenSafe, ArchivFrequenzBibliothek}
	ChronikLevels = [NumChronikLevels]ChronikLevel{LevelMicro, LevelMeso, LevelMacro, LevelCanon}
)

var roomZones = map[Room]Zone{
	RoomImpulseCenter: ZoneMeta,
	RoomEarth:         ZoneStructure,
	RoomWater:         ZoneEmotion,
	RoomFire:          ZoneWill,
	RoomWind:          ZoneMind,
	RoomAether:        ZoneMeaning,
}

var zoneRooms = map[Zone]Room{
	ZoneMeta:      RoomImpulseCenter,
	ZoneStructure: RoomEarth,
	ZoneEmotion:   RoomWater,
	ZoneWill:      RoomFire,
	ZoneMind:      RoomWind,
	ZoneMeaning:   RoomAether,
}

// Legacy spellings found in records written by earlier versions of the app.
var (
	roomAliases = map[string]Room{
		"impuls":     RoomImpulseCenter,
		"impulsraum": RoomImpulseCenter,
		"erde":       RoomEarth,
		"wasser":     RoomWater,
		"feuer":      RoomFire,
	}
	zoneAliases = map[string]Zone{
		"struktur": ZoneStructure,
		"wille":    ZoneWill,
		"geist":    ZoneMind,
		"sinn":     ZoneMeaning,
	}
	levelAliases = map[string]ChronikLevel{
		"mikro": LevelMicro,
		"makro": LevelMacro,
		"kanon": LevelCanon,
	}
	archivAliases = map[string]ArchivRoom{
		"SPHAEREN_SAELE": ArchivSphaerenSaelle,
	}
)

func (r Room) Valid() bool {
	_, ok := roomZones[r]
	return ok
}

// Zone returns the zone mapped to r, or "" for an unknown room.
func (r Room) Zone() Zone {
	return roomZones[r]
}

func (r Room) Index() int {
	for i, room := range Rooms {
		if room == r {
			return i
		}
	}
	return -1
}

func (r *Room) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	if alias, ok := roomAliases[s]; ok {
		*r = alias
		return nil
	}
	*r = Room(s)
	return nil
}

// ParseRoom resolves a room name, accepting legacy spellings.
func ParseRoom(s string) (Room, error) {
	var r Room
	_ = r.UnmarshalText([]byte(s))
	if !r.Valid() {
		return "", &VocabularyError{Kind: "room", Value: s}
	}
	return r, nil
}

func (z Zone) Valid() bool {
	_, ok := zoneRooms[z]
	return ok
}

// Room returns the room mapped to z, or "" for an unknown zone.
func (z Zone) Room() Room {
	return zoneRooms[z]
}

func (z Zone) Index() int {
	for i, zone := range Zones {
		if zone == z {
			return i
		}
	}
	return -1
}

func (z *Zone) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	if alias, ok := zoneAliases[s]; ok {
		*z = alias
		return nil
	}
	*z = Zone(s)
	return nil
}

// ParseZone resolves a zone name, accepting legacy spellings.
func ParseZone(s string) (Zone, error) {
	var z Zone
	_ = z.UnmarshalText([]byte(s))
	if !z.Valid() {
		return "", &VocabularyError{Kind: "zone", Value: s}
	}
	return z, nil
}

func (a ArchivRoom) Valid() bool {
	return a.Index() >= 0
}

func (a ArchivRoom) Index() int {
	for i, room := range ArchivRooms {
		if room == a {
			return i
		}
	}
	return -1
}

func (a *ArchivRoom) UnmarshalText(text []byte) error {
	s := strings.ToUpper(strings.TrimSpace(string(text)))
	if alias, ok := archivAliases[s]; ok {
		*a = alias
		return nil
	}
	*a = ArchivRoom(s)
	return nil
}

func (l ChronikLevel) Valid() bool {
	return l.Index() >= 0
}

func (l ChronikLevel) Index() int {
	for i, level := range ChronikLevels {
		if level == l {
			return i
		}
	}
	return -1
}

func (l *ChronikLevel) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	if alias, ok := levelAliases[s]; ok {
		*l = alias
		return nil
	}
	*l = ChronikLevel(s)
	return nil
}
