//go:build wasip1

// Command module builds the guest reactor:
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o module.wasm ./cmd/module
//
// The exports follow the convention in package boundary. The renderer shows
// the configured label as a single text item.
package main

import (
	"github.com/wippyai/wasm-exchange/module"
	"github.com/wippyai/wasm-exchange/schema"
)

var guest = module.New(module.WithRenderer(module.RenderFunc(render)))

func render(cfg schema.ExchangeableConfig) schema.ExchangeFormat {
	label, err := cfg.GetString("label")
	if err != nil {
		return schema.ExchangeFormat{}
	}
	text := schema.NewText(label)
	if scale, err := cfg.GetFloat("scale"); err == nil {
		text.ScaleX *= scale
		text.ScaleY *= scale
	}
	return schema.NewExchangeFormat(text)
}

//go:wasmexport alloc
func alloc(size uint32) uint32 { return guest.Alloc(size) }

//go:wasmexport dealloc
func dealloc(ptr uint32) { guest.Dealloc(ptr) }

//go:wasmexport set_current_config
func setCurrentConfig(ptr uint32) { guest.SetCurrentConfig(ptr) }

//go:wasmexport get_current_config
func getCurrentConfig() uint32 { return guest.GetCurrentConfig() }

//go:wasmexport render
func renderFrame() uint32 { return guest.Render() }

//go:wasmexport diagnostics
func diagnostics() uint32 { return guest.Diagnostics() }

func main() {}
