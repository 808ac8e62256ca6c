package domain

// Default configuration values.
const (
	// DefaultCollection is the store collection documents live in.
	DefaultCollection = "documentation"

	// DefaultPort is the HTTP listen port.
	DefaultPort = 3000
)

// Config is the process-wide runtime configuration.
// It is built lazily on first use and replaced wholesale when overrides
// are applied; an existing instance is never partially mutated.
type Config struct {
	// StoreURL is the PocketBase endpoint, e.g. http://127.0.0.1:8090.
	StoreURL string

	// AdminEmail and AdminPassword are the store admin credentials.
	// Both empty means unauthenticated access.
	AdminEmail    string
	AdminPassword string

	// Collection is the record collection documents are stored in.
	Collection string

	// Debug enables verbose logging.
	Debug bool

	// Port is the HTTP/SSE listen port.
	Port int

	// ReadOnly rejects all write operations when set.
	ReadOnly bool
}

// HasCredentials returns true if admin credentials are configured.
func (c *Config) HasCredentials() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}
