package graphics

// MessageKind classifies a platform window message.
type MessageKind int

const (
	MessageOther MessageKind = iota
	MessageQuit
	MessageClose
	MessageDestroy
	MessageKey
	MessageResize
	MessagePaint
)

func (k MessageKind) String() string {
	switch k {
	case MessageQuit:
		return "quit"
	case MessageClose:
		return "close"
	case MessageDestroy:
		return "destroy"
	case MessageKey:
		return "key"
	case MessageResize:
		return "resize"
	case MessagePaint:
		return "paint"
	default:
		return "other"
	}
}

// Message is a window message. Native carries the backend's own message
// record so it can be handed back on dispatch.
type Message struct {
	Kind   MessageKind
	Key    int
	Width  int
	Height int
	Native any
}

// HandleMessage is the window procedure shared by every backend: close and
// destroy request quit, everything else is left to the platform default.
func HandleMessage(m Message) (quit bool) {
	switch m.Kind {
	case MessageClose, MessageDestroy:
		return true
	}
	return false
}
