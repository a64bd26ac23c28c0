package wasmhost

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	pluginrt "github.com/wippyai/plugin-runtime"
)

// ModuleName is the import namespace guests link against.
const ModuleName = "evaluator"

// Module binds a Host to a wazero host module.
type Module struct {
	b bridge
}

// New creates a host module binding for host.
func New(host pluginrt.Host) *Module {
	return &Module{b: bridge{host: host}}
}

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
	f64 = api.ValueTypeF64
)

// Instantiate registers the evaluator module on r. The returned module
// stays live until closed; guests instantiated on r afterwards can
// import from it.
func (m *Module) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	builder := r.NewHostModuleBuilder(ModuleName)
	b := &m.b

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = uint64(b.host.TypeOf(pluginrt.Handle(stack[0])))
		}), []api.ValueType{i32}, []api.ValueType{i32}).
		Export("value-type")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = api.EncodeI64(b.host.Integer(pluginrt.Handle(stack[0])))
		}), []api.ValueType{i32}, []api.ValueType{i64}).
		Export("get-integer")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = api.EncodeF64(b.host.Float(pluginrt.Handle(stack[0])))
		}), []api.ValueType{i32}, []api.ValueType{f64}).
		Export("get-float")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
			v := uint64(0)
			if b.host.Boolean(pluginrt.Handle(stack[0])) {
				v = 1
			}
			stack[0] = v
		}), []api.ValueType{i32}, []api.ValueType{i32}).
		Export("get-boolean")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = uint64(b.host.MakeInteger(int64(stack[0])))
		}), []api.ValueType{i64}, []api.ValueType{i32}).
		Export("make-integer")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = uint64(b.host.MakeFloat(api.DecodeF64(stack[0])))
		}), []api.ValueType{f64}, []api.ValueType{i32}).
		Export("make-float")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = uint64(b.host.MakeBoolean(stack[0] != 0))
		}), []api.ValueType{i32}, []api.ValueType{i32}).
		Export("make-boolean")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = uint64(b.host.MakeNull())
		}), nil, []api.ValueType{i32}).
		Export("make-null")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(b.copyString(mod.Memory(),
				uint32(stack[0]), uint32(stack[1]), uint32(stack[2])))
		}), []api.ValueType{i32, i32, i32}, []api.ValueType{i32}).
		Export("copy-string")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(b.makeString(mod.Memory(),
				uint32(stack[0]), uint32(stack[1])))
		}), []api.ValueType{i32, i32}, []api.ValueType{i32}).
		Export("make-string")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(b.makePath(mod.Memory(),
				uint32(stack[0]), uint32(stack[1])))
		}), []api.ValueType{i32, i32}, []api.ValueType{i32}).
		Export("make-path")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(b.copyList(mod.Memory(),
				uint32(stack[0]), uint32(stack[1]), uint32(stack[2])))
		}), []api.ValueType{i32, i32, i32}, []api.ValueType{i32}).
		Export("copy-list")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(b.makeList(mod.Memory(),
				uint32(stack[0]), uint32(stack[1])))
		}), []api.ValueType{i32, i32}, []api.ValueType{i32}).
		Export("make-list")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(int32(b.host.AttrCount(pluginrt.Handle(stack[0]))))
		}), []api.ValueType{i32}, []api.ValueType{i32}).
		Export("attr-count")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(b.copyAttrName(mod.Memory(),
				uint32(stack[0]), uint32(stack[1]), uint32(stack[2]), uint32(stack[3])))
		}), []api.ValueType{i32, i32, i32, i32}, []api.ValueType{i32}).
		Export("copy-attr-name")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = uint64(b.host.AttrValue(pluginrt.Handle(stack[0]), int(uint32(stack[1]))))
		}), []api.ValueType{i32, i32}, []api.ValueType{i32}).
		Export("attr-value")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(b.makeAttrs(mod.Memory(),
				uint32(stack[0]), uint32(stack[1])))
		}), []api.ValueType{i32, i32}, []api.ValueType{i32}).
		Export("make-attrs")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(b.getAttr(mod.Memory(),
				uint32(stack[0]), uint32(stack[1]), uint32(stack[2])))
		}), []api.ValueType{i32, i32, i32}, []api.ValueType{i32}).
		Export("get-attr")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = uint64(b.host.Call(pluginrt.Handle(stack[0]), pluginrt.Handle(stack[1])))
		}), []api.ValueType{i32, i32}, []api.ValueType{i32}).
		Export("call-function")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = uint64(b.host.Defer(pluginrt.Handle(stack[0]), pluginrt.Handle(stack[1])))
		}), []api.ValueType{i32, i32}, []api.ValueType{i32}).
		Export("defer-call")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(b.readFile(mod.Memory(),
				uint32(stack[0]), uint32(stack[1]), uint32(stack[2]), uint32(stack[3])))
		}), []api.ValueType{i32, i32, i32, i32}, []api.ValueType{i32}).
		Export("read-file")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
			b.panicMsg(mod.Memory(), uint32(stack[0]), uint32(stack[1]))
		}), []api.ValueType{i32, i32}, nil).
		Export("host-panic")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
			b.warnMsg(mod.Memory(), uint32(stack[0]), uint32(stack[1]))
		}), []api.ValueType{i32, i32}, nil).
		Export("host-warn")

	return builder.Instantiate(ctx)
}
