package goveeble

import "context"

// Transport carries frames between a Session and a device. Implementations
// own connection setup and any retry policy.
type Transport interface {
	// Connect opens the link and delivers every received notification to
	// notify. notify must not be retained past Close.
	Connect(ctx context.Context, notify func(frame []byte)) error
	Connected() bool
	Write(frame []byte) error
	Close() error
}

// EffectCatalog resolves an effect name to a scene code and its optional
// parameter blob.
type EffectCatalog interface {
	Effects() []string
	Lookup(name string) (code int, param []byte, err error)
}
