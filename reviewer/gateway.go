package reviewer

// Field is one (label, value) pair of a review screen.
type Field struct {
	Name  string
	Value string
}

// Gateway renders a named set of fields on the trusted display and blocks
// until the user approves or rejects. Implementations must present reject
// as prominently as approve; every field is an explicit choice.
type Gateway interface {
	ReviewFields(message string, fields []Field) bool
}

// StatusSyncer is implemented by gateways that show a post-approval status
// screen once the final transaction id has been reviewed.
type StatusSyncer interface {
	SyncStatus(approved bool)
}

// StreamingGateway is the alternative widget model: one continuous review
// session fed field sets incrementally, closed by an explicit finish step.
type StreamingGateway interface {
	Start(message, subMessage string) bool
	Continue(fields []Field) bool
	Finish(message string) bool
	Warn(title, message, confirm, reject string) bool
	SyncStatus(approved bool)
}

// StagingBuffer is the byte-addressable hybrid store the engine stages
// field text in. Ranges are half-open offsets into it and stay valid only
// until the next Reset.
type StagingBuffer interface {
	Write(data []byte) (int, error)
	WriteFrom(offset int, data []byte) (int, error)
	Read(from, to int) []byte
	Update(offset int, data []byte)
	Index() int
	ReadAll() []byte
	Reset()
}
