package domain

// TransportKind identifies the physical protocol a session is bound to.
type TransportKind string

// Supported transport bindings.
const (
	// TransportStdio is the persistent bidirectional process pipe.
	TransportStdio TransportKind = "stdio"

	// TransportHTTP is the streamable request/response HTTP binding.
	TransportHTTP TransportKind = "http"

	// TransportSSE is the server-push event stream binding.
	TransportSSE TransportKind = "sse"
)

// IsValid returns true if the transport kind is recognised.
func (k TransportKind) IsValid() bool {
	switch k {
	case TransportStdio, TransportHTTP, TransportSSE:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k TransportKind) String() string {
	return string(k)
}
