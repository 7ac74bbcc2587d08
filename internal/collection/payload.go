package collection

// PayloadKind distinguishes the three states of a screenshot argument.
type PayloadKind int

const (
	// PayloadAbsent leaves the screenshot unchanged on update and creates none on add.
	PayloadAbsent PayloadKind = iota
	// PayloadClear removes the current screenshot.
	PayloadClear
	// PayloadNew replaces the screenshot with new data.
	PayloadNew
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadAbsent:
		return "absent"
	case PayloadClear:
		return "clear"
	case PayloadNew:
		return "new"
	default:
		return "unknown"
	}
}

// Payload is a screenshot argument to AddRecord and UpdateRecord.
type Payload struct {
	kind PayloadKind
	data string
}

// NoPayload means "no screenshot supplied".
func NoPayload() Payload {
	return Payload{kind: PayloadAbsent}
}

// ClearPayload means "remove the screenshot".
func ClearPayload() Payload {
	return Payload{kind: PayloadClear}
}

// NewPayload wraps encoded screenshot data. Empty data is treated as a clear.
func NewPayload(data string) Payload {
	if data == "" {
		return ClearPayload()
	}
	return Payload{kind: PayloadNew, data: data}
}

// PayloadFromPointer maps a nullable argument: nil is absent, "" is clear.
func PayloadFromPointer(data *string) Payload {
	if data == nil {
		return NoPayload()
	}
	return NewPayload(*data)
}

// Kind reports which state p is in.
func (p Payload) Kind() PayloadKind {
	return p.kind
}

// Data returns the encoded screenshot for PayloadNew, "" otherwise.
func (p Payload) Data() string {
	return p.data
}
