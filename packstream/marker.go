package packstream

// Marker bytes for each PackStream family.
const (
	markerNil = 0xC0

	markerFalse = 0xC2
	markerTrue  = 0xC3

	markerFloat64 = 0xC1

	markerInt8  = 0xC8
	markerInt16 = 0xC9
	markerInt32 = 0xCA
	markerInt64 = 0xCB

	markerBytes8  = 0xCC
	markerBytes16 = 0xCD
	markerBytes32 = 0xCE

	markerTinyString = 0x80
	markerString8    = 0xD0
	markerString16   = 0xD1
	markerString32   = 0xD2

	markerTinyList = 0x90
	markerList8    = 0xD4
	markerList16   = 0xD5
	markerList32   = 0xD6

	markerTinyMap = 0xA0
	markerMap8    = 0xD8
	markerMap16   = 0xD9
	markerMap32   = 0xDA

	markerTinyStruct = 0xB0
	markerStruct8    = 0xDC
	markerStruct16   = 0xDD

	tinyMask = 0x0F
)

// EndOfMessage is the zero-length chunk header that terminates a chunked
// Bolt message.
var EndOfMessage = [2]byte{0x00, 0x00}
