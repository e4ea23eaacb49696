// Package host embeds an exchange guest with wazero and drives the
// boundary protocol from the host side.
//
// A Host owns one wazero runtime and one guest instance:
//
//	h, err := host.New(ctx, wasmBytes, &host.Config{MemoryLimitPages: 256})
//	if err != nil {
//		return err
//	}
//	defer h.Close(ctx)
//
//	cfg := schema.ExchangeableConfig{}
//	cfg.Add("label", schema.String("hello"))
//	if err := h.SetConfig(ctx, cfg); err != nil {
//		return err
//	}
//	frame, err := h.Render(ctx)
//
// Buffers going to the guest are allocated through its alloc export and
// handed over with set_current_config. Buffers coming back from
// get_current_config and render belong to the host, which returns them
// through dealloc after copying the text out.
//
// Documents returned by the guest are decoded leniently unless
// Config.Strict is set: malformed output becomes the default document and
// is reported to Config.Observer and Config.Metrics.
package host
