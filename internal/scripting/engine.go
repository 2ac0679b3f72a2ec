package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Host is the part of the viewer scripts can change.
type Host interface {
	TogglePointLight(i int) (bool, error)
	SetExposure(x float32)
}

// Engine wraps a single gopher-lua VM.
// Single-goroutine access only (driver loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine, installs the viewer API and loads every
// script in scriptsDir. A missing directory loads nothing.
func NewEngine(scriptsDir string, host Host, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	e.registerAPI(host)

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DoString runs a chunk of Lua source.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// registerAPI installs the global "viewer" table.
func (e *Engine) registerAPI(host Host) {
	api := e.vm.NewTable()
	e.vm.SetFuncs(api, map[string]lua.LGFunction{
		// toggle_point_light(i) flips point light i (1-based) and returns
		// its new state.
		"toggle_point_light": func(L *lua.LState) int {
			i := L.CheckInt(1)
			on, err := host.TogglePointLight(i - 1)
			if err != nil {
				L.ArgError(1, err.Error())
				return 0
			}
			L.Push(lua.LBool(on))
			return 1
		},
		"set_exposure": func(L *lua.LState) int {
			x := float32(L.CheckNumber(1))
			if x <= 0 {
				L.ArgError(1, "exposure must be positive")
				return 0
			}
			host.SetExposure(x)
			return 0
		},
		"log": func(L *lua.LState) int {
			e.log.Info("lua", zap.String("msg", L.CheckString(1)))
			return 0
		},
	})
	e.vm.SetGlobal("viewer", api)
}

// Has reports whether a global Lua function is defined.
func (e *Engine) Has(name string) bool {
	return e.vm.GetGlobal(name).Type() == lua.LTFunction
}

// Call invokes a global Lua function with numeric arguments. Undefined
// functions are skipped and report called == false.
func (e *Engine) Call(name string, args ...float64) (called bool, err error) {
	fn := e.vm.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return false, nil
	}

	lArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		lArgs[i] = lua.LNumber(a)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lArgs...); err != nil {
		return true, fmt.Errorf("lua %s: %w", name, err)
	}
	return true, nil
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
