package boundary

// Guest exports
const (
	// ExportAlloc allocates guest memory for host-to-guest transfers.
	// Signature: alloc(size: i32) -> i32 (pointer, 0 on failure)
	ExportAlloc = "alloc"

	// ExportDealloc releases memory previously returned to the host.
	// Signature: dealloc(ptr: i32)
	ExportDealloc = "dealloc"

	// ExportSetCurrentConfig consumes a null-terminated configuration
	// document. The guest owns ptr after the call.
	// Signature: set_current_config(ptr: i32)
	ExportSetCurrentConfig = "set_current_config"

	// ExportGetCurrentConfig returns the current configuration as a
	// null-terminated document owned by the caller.
	// Signature: get_current_config() -> i32
	ExportGetCurrentConfig = "get_current_config"

	// ExportRender returns the current frame as a null-terminated document
	// owned by the caller.
	// Signature: render() -> i32
	ExportRender = "render"

	// ExportDiagnostics returns a Report as a null-terminated JSON object
	// owned by the caller. Optional.
	// Signature: diagnostics() -> i32
	ExportDiagnostics = "diagnostics"

	// ExportMemory is the guest's linear memory.
	ExportMemory = "memory"

	// ExportInitialize is the reactor initializer emitted by wasip1 builds.
	ExportInitialize = "_initialize"
)

// RequiredExports lists the exports a guest must provide.
var RequiredExports = []string{
	ExportAlloc,
	ExportDealloc,
	ExportSetCurrentConfig,
	ExportGetCurrentConfig,
	ExportRender,
}

// Report is the guest's view of its own boundary health, returned by the
// diagnostics export.
type Report struct {
	// LastError describes the most recent rejected configuration.
	LastError string `json:"last_error,omitempty"`
	// Fallbacks counts configurations replaced by the default.
	Fallbacks uint64 `json:"fallbacks"`
	// Outstanding is the number of guest buffers not yet deallocated,
	// excluding the report itself.
	Outstanding int `json:"outstanding"`
}
