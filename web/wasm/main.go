//go:build js && wasm

// Command wasm exposes the gain controller to JavaScript as
// globalThis.DAGC.
//
//	const agc = DAGC.newMonoAgc(0.01, 0.0005)
//	if (agc.error) throw new Error(agc.error)
//	agc.process(float32Frame) // in place
//	agc.freezeGain(true)
package main

import (
	"syscall/js"

	"github.com/cwbudde/algo-dagc/dsp/agc"
)

var funcs []js.Func

func main() {
	api := js.Global().Get("Object").New()
	api.Set("newMonoAgc", export(func(args []js.Value) any {
		if len(args) < 2 {
			return errorObject("newMonoAgc requires targetRms and distortionFactor")
		}
		a, err := agc.New(float32(args[0].Float()), float32(args[1].Float()))
		if err != nil {
			return errorObject(err.Error())
		}
		return wrap(a)
	}))

	js.Global().Set("DAGC", api)
	select {}
}

func errorObject(msg string) js.Value {
	obj := js.Global().Get("Object").New()
	obj.Set("error", msg)
	return obj
}

// wrap builds the JavaScript handle for one controller. It holds no
// state of its own.
func wrap(a *agc.MonoAGC) js.Value {
	obj := js.Global().Get("Object").New()
	var scratch []float32

	obj.Set("freezeGain", export(func(args []js.Value) any {
		if len(args) > 0 {
			a.FreezeGain(args[0].Bool())
		}
		return js.Undefined()
	}))

	obj.Set("isGainFrozen", export(func([]js.Value) any {
		return a.IsGainFrozen()
	}))

	obj.Set("gain", export(func([]js.Value) any {
		return a.Gain()
	}))

	obj.Set("process", export(func(args []js.Value) any {
		if len(args) < 1 {
			return js.Undefined()
		}
		arr := args[0]
		n := arr.Length()
		if cap(scratch) < n {
			scratch = make([]float32, n)
		}
		scratch = scratch[:n]
		for i := 0; i < n; i++ {
			scratch[i] = float32(arr.Index(i).Float())
		}
		a.Process(scratch)
		for i := 0; i < n; i++ {
			arr.SetIndex(i, scratch[i])
		}
		return js.Undefined()
	}))

	return obj
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}
