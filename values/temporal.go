package values

// Date is a calendar date expressed as a day offset from the Unix epoch.
type Date struct {
	EpochDay int64
}

// Kind implements Value.
func (Date) Kind() Kind { return KindDate }

// Time is a time-of-day with a UTC offset.
type Time struct {
	NanosOfDay    int64
	OffsetSeconds int32
}

// Kind implements Value.
func (Time) Kind() Kind { return KindTime }

// LocalTime is a time-of-day with no associated zone.
type LocalTime struct {
	NanosOfDay int64
}

// Kind implements Value.
func (LocalTime) Kind() Kind { return KindLocalTime }

// LocalDateTime is a date and time with no associated zone, stored as a
// UTC-baseline epoch second plus nanosecond remainder.
type LocalDateTime struct {
	EpochSecond int64
	Nano        int32
}

// Kind implements Value.
func (LocalDateTime) Kind() Kind { return KindLocalDateTime }

// DateTimeBaseline selects which of the two wire encodings produced a
// DateTime. It decides how EpochSecond should be interpreted, not just
// which signature byte was seen on the wire.
type DateTimeBaseline int

const (
	// BaselineLegacy means EpochSecond is the local wall-clock time
	// expressed as if it were UTC (signatures 'F'/'f').
	BaselineLegacy DateTimeBaseline = iota
	// BaselineUTC means EpochSecond is the true UTC instant (signatures
	// 'I'/'i').
	BaselineUTC
)

// DateTime is a zoned date-time carrying either a fixed UTC offset or a
// named time zone. Exactly one of HasOffset or ZoneID identifies the zone.
type DateTime struct {
	EpochSecond int64
	Nano        int32
	Baseline    DateTimeBaseline

	HasOffset     bool
	OffsetSeconds int32
	ZoneID        string
}

// Kind implements Value.
func (DateTime) Kind() Kind { return KindDateTime }

// Duration is a calendar-aware duration. 0 <= Nanos < 1e9 is an invariant
// maintained by the packer/unpacker, not enforced here.
type Duration struct {
	Months  int64
	Days    int64
	Seconds int64
	Nanos   int32
}

// Kind implements Value.
func (Duration) Kind() Kind { return KindDuration }

// Unsupported is a sentinel produced when the unpacker cannot represent a
// server-sent value in the type model -- today, only an unrecognised
// DateTime zone id. It is a valid List/Map element but fails typed
// projection.
type Unsupported struct {
	// ExpectedKind names what the value would have been, e.g. "DateTime".
	ExpectedKind string
	Reason       string
}

// Kind implements Value.
func (Unsupported) Kind() Kind { return KindUnsupported }
