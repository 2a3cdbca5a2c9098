// Package canid is the single source of truth for the arbitration
// identifiers and wire constants shared by every module on the bus.
package canid

// CustomIDMin and CustomIDMax bound the identifier range reserved for
// messages this system originates. Everything outside the range belongs
// to the upstream vehicle bus and must never be transmitted by a node.
const (
	CustomIDMin uint32 = 0x700
	CustomIDMax uint32 = 0x73F
)

// MaxID is the highest valid 11-bit arbitration identifier.
const MaxID uint32 = 0x7FF

// Heartbeat broadcast, all modules.
const Heartbeat uint32 = 0x700

// Body controller broadcasts.
const (
	BodyState    uint32 = 0x710 // vehicle state bit flags, 10 Hz
	BodySpeed    uint32 = 0x711 // speed, little-endian float64 mph
	BodyGear     uint32 = 0x712 // estimated gear
	BodyOdometer uint32 = 0x713 // odometer, little-endian uint32 miles
)

// Body state bit flags (byte 0 of the BodyState payload).
const (
	FlagKeyOn     uint8 = 1 << 0
	FlagBrake     uint8 = 1 << 1
	FlagRegen     uint8 = 1 << 2
	FlagFan       uint8 = 1 << 3
	FlagReverse   uint8 = 1 << 4
	FlagLeftTurn  uint8 = 1 << 5
	FlagRightTurn uint8 = 1 << 6
	FlagHazard    uint8 = 1 << 7
)

// Gear codes (byte 0 of the BodyGear payload).
const (
	GearNeutral uint8 = 0
	Gear1       uint8 = 1
	Gear2       uint8 = 2
	Gear3       uint8 = 3
	Gear4       uint8 = 4
	GearUnknown uint8 = 0xFF
)

// GPS module broadcasts.
const (
	GPSSpeed        uint32 = 0x720 // little-endian float64, mph
	GPSTime         uint32 = 0x721 // seconds since midnight UTC
	GPSDate         uint32 = 0x722 // days since 2000-01-01
	GPSLatitude     uint32 = 0x723 // decimal degrees
	GPSLongitude    uint32 = 0x724 // decimal degrees
	GPSElevation    uint32 = 0x725 // meters above sea level
	GPSAmbientLight uint32 = 0x726 // 0-3 category
	GPSUTCOffset    uint32 = 0x727 // little-endian int16, minutes
)

// Ambient light categories (byte 0 of the GPSAmbientLight payload).
const (
	AmbientDaylight      uint8 = 0
	AmbientEarlyTwilight uint8 = 1
	AmbientLateTwilight  uint8 = 2
	AmbientDarkness      uint8 = 3
)

// Self-test trigger.
const (
	SelfTest          uint32 = 0x730
	SelfTestTargetAll uint8  = 0xFF // byte 0 = 0xFF targets every module
)

// Structured logging.
const (
	Log     uint32 = 0x731 // structured log event
	LogText uint32 = 0x732 // log text continuation, up to 7 frames
)

// Resolve EV controller broadcast.
const ResolveDisplay uint32 = 0x539

// Leaf EV-CAN identifiers (AZE0, 2013-2017 drivetrain).
const (
	LeafMotorStatus   uint32 = 0x1DA
	LeafBatteryStatus uint32 = 0x1DB
	LeafCharger       uint32 = 0x1DC
	LeafVCM           uint32 = 0x390
	LeafInverterTemps uint32 = 0x55A
	LeafSOCPrecise    uint32 = 0x55B
	LeafBatteryHealth uint32 = 0x5BC
	LeafBatteryTemp   uint32 = 0x5C0
	LeafAZE0ID        uint32 = 0x59E
)

// DefaultBitrate is the bus speed every module runs at.
const DefaultBitrate uint32 = 500000
