package runtime

import (
	"go.uber.org/zap"

	pluginrt "github.com/wippyai/plugin-runtime"
	"github.com/wippyai/plugin-runtime/arena"
	"github.com/wippyai/plugin-runtime/codec"
	"github.com/wippyai/plugin-runtime/value"
)

// DefaultArenaSize is the backing buffer provisioned when no option
// overrides it. Exhaustion is fatal with no retry, so the default errs
// large; the object decoder in particular consumes a fixed-capacity
// entry array per nesting level.
const DefaultArenaSize = 8 << 20

// Runtime binds a host to a reusable arena and exposes the two exported
// operations, decode and encode.
type Runtime struct {
	host  pluginrt.Host
	arena *arena.Arena
}

// Option configures a Runtime.
type Option func(*config)

type config struct {
	arenaSize int
}

// WithArenaSize overrides the arena backing buffer size in bytes.
func WithArenaSize(n int) Option {
	return func(c *config) {
		c.arenaSize = n
	}
}

// New creates a runtime for host.
func New(host pluginrt.Host, opts ...Option) *Runtime {
	cfg := config{arenaSize: DefaultArenaSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.arenaSize <= 0 {
		cfg.arenaSize = DefaultArenaSize
	}
	return &Runtime{
		host:  host,
		arena: arena.New(make([]byte, cfg.arenaSize)),
	}
}

// session resets the arena and opens a fresh value session. Called at
// every exported operation entry; the reset is the only reclamation the
// arena ever sees.
func (r *Runtime) session() *value.Session {
	r.arena.Reset()
	return value.NewSession(r.host, r.arena)
}

// fatal forwards err to the host as a panic notification and returns it.
// The call terminates without producing a value.
func (r *Runtime) fatal(op string, err error) error {
	r.host.Panic(err.Error())
	Logger().Debug("operation aborted",
		zap.String("op", op),
		zap.Error(err))
	return err
}

// FromJSON decodes a JSON document into a tree of host values and
// returns the root handle. The handle is valid only within the current
// call unless the host says otherwise.
func (r *Runtime) FromJSON(doc []byte) (pluginrt.Handle, error) {
	s := r.session()
	Logger().Debug("decode", zap.Int("input_bytes", len(doc)))

	h, err := codec.Decode(s, doc)
	if err != nil {
		return pluginrt.None, r.fatal("decode", err)
	}
	return h, nil
}

// ToJSON serializes the transitive closure of h and returns the result
// as a host string handle.
func (r *Runtime) ToJSON(h pluginrt.Handle) (pluginrt.Handle, error) {
	s := r.session()

	buf, err := arena.NewBuffer(r.arena)
	if err != nil {
		return pluginrt.None, r.fatal("encode", err)
	}
	if err := codec.Encode(s, buf, h); err != nil {
		return pluginrt.None, r.fatal("encode", err)
	}
	Logger().Debug("encode", zap.Int("output_bytes", buf.Len()))

	out, err := s.MakeString(buf.Bytes())
	if err != nil {
		return pluginrt.None, r.fatal("encode", err)
	}
	return out, nil
}

// ReadJSONFile reads a file through the host and decodes it in one call.
func (r *Runtime) ReadJSONFile(path []byte) (pluginrt.Handle, error) {
	s := r.session()

	doc, err := s.ReadFile(path)
	if err != nil {
		return pluginrt.None, r.fatal("decode", err)
	}
	h, err := codec.Decode(s, doc)
	if err != nil {
		return pluginrt.None, r.fatal("decode", err)
	}
	return h, nil
}

// Arena exposes the backing arena for introspection in tests and tools.
func (r *Runtime) Arena() *arena.Arena {
	return r.arena
}
