package wayland

// Core interface names.
const (
	DisplayInterface  = "wl_display"
	RegistryInterface = "wl_registry"
	CallbackInterface = "wl_callback"
)

// ServerIDBase is the first object id allocated by the compositor.
const ServerIDBase uint32 = 0xff000000

// DisplayID is the fixed id of the wl_display singleton.
const DisplayID uint32 = 1

// wl_display
const (
	OpDisplaySync        = 0
	OpDisplayGetRegistry = 1

	EvDisplayError    = 0
	EvDisplayDeleteID = 1
)

// wl_registry
const (
	OpRegistryBind = 0

	EvRegistryGlobal       = 0
	EvRegistryGlobalRemove = 1
)

// wl_callback
const (
	EvCallbackDone = 0
)
