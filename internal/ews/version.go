package ews

// Version identifies the Exchange Web Services schema revision a Service
// speaks. The zero value is not a valid version.
type Version int

const (
	Exchange2007SP1 Version = iota + 1
	Exchange2010
	Exchange2010SP1
	Exchange2010SP2
	Exchange2013
	Exchange2013SP1
)

// String returns the schema tag the server expects, e.g. "Exchange2010_SP2".
func (v Version) String() string {
	switch v {
	case Exchange2007SP1:
		return "Exchange2007_SP1"
	case Exchange2010:
		return "Exchange2010"
	case Exchange2010SP1:
		return "Exchange2010_SP1"
	case Exchange2010SP2:
		return "Exchange2010_SP2"
	case Exchange2013:
		return "Exchange2013"
	case Exchange2013SP1:
		return "Exchange2013_SP1"
	default:
		return "Unknown"
	}
}

// Valid reports whether v is one of the known schema revisions.
func (v Version) Valid() bool {
	return v >= Exchange2007SP1 && v <= Exchange2013SP1
}

// Versions returns every supported version, oldest first.
func Versions() []Version {
	return []Version{
		Exchange2007SP1,
		Exchange2010,
		Exchange2010SP1,
		Exchange2010SP2,
		Exchange2013,
		Exchange2013SP1,
	}
}
