// Package wasmexchange defines the data-exchange contract between a host
// application and an embedded WebAssembly module.
//
// The host configures the module with an ordered key/value document and the
// module answers with renderable content (text and image items). Both
// directions travel as null-terminated JSON text placed in the guest's
// linear memory; ownership of every buffer is transferred explicitly.
//
// # Architecture Overview
//
//	wasmexchange/        Root package with Memory and Allocator interfaces
//	├── schema/          Item, Text, Image, ExchangeFormat, Param, ExchangeableConfig
//	├── codec/           Canonical JSON encoding, lenient and strict decoding
//	├── store/           Lock-protected holder of the current configuration
//	├── boundary/        Buffer ownership, guest allocation arena, C strings
//	├── module/          Guest-side entry points over an explicit store
//	├── host/            wazero host driving a guest module
//	├── metrics/         Prometheus counters for fallbacks and guest calls
//	├── errors/          Structured error types
//	└── cmd/module/      wasip1 reactor exporting the boundary functions
//
// # Quick Start
//
//	h, err := host.New(ctx, guestWASM, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer h.Close(ctx)
//
//	var cfg schema.ExchangeableConfig
//	cfg.Add("label", schema.String("hi"))
//	cfg.Add("scale", schema.Float(2))
//	if err := h.SetConfig(ctx, cfg); err != nil {
//	    log.Fatal(err)
//	}
//
//	frame, err := h.Render(ctx)
//
// # Ownership
//
// A buffer allocated by the host through the guest's alloc export and passed
// to set_current_config belongs to the guest from that call on. A buffer
// returned by get_current_config or render belongs to the host, which must
// hand it back through dealloc. boundary.Buffer enforces both rules.
//
// # Thread Safety
//
// store.Store and host.Host are safe for concurrent use. A guest instance is
// single-threaded; host.Host serializes calls into it.
package wasmexchange
