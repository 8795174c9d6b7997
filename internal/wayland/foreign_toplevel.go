package wayland

// zwlr_foreign_toplevel_management_unstable_v1
//
// The manager announces a handle for every toplevel. Each handle sends its
// attributes followed by done; later changes are sent the same way.
const (
	WlrManagerInterface = "zwlr_foreign_toplevel_manager_v1"
	WlrHandleInterface  = "zwlr_foreign_toplevel_handle_v1"
)

// zwlr_foreign_toplevel_manager_v1
const (
	OpWlrManagerStop = 0

	EvWlrManagerToplevel = 0
	EvWlrManagerFinished = 1
)

// zwlr_foreign_toplevel_handle_v1
const (
	OpWlrHandleSetMaximized    = 0
	OpWlrHandleUnsetMaximized  = 1
	OpWlrHandleSetMinimized    = 2
	OpWlrHandleUnsetMinimized  = 3
	OpWlrHandleActivate        = 4
	OpWlrHandleClose           = 5
	OpWlrHandleSetRectangle    = 6
	OpWlrHandleDestroy         = 7
	OpWlrHandleSetFullscreen   = 8
	OpWlrHandleUnsetFullscreen = 9

	EvWlrHandleTitle       = 0
	EvWlrHandleAppID       = 1
	EvWlrHandleOutputEnter = 2
	EvWlrHandleOutputLeave = 3
	EvWlrHandleState       = 4
	EvWlrHandleDone        = 5
	EvWlrHandleClosed      = 6
	EvWlrHandleParent      = 7
)

// Values of the zwlr_foreign_toplevel_handle_v1.state enum.
const (
	WlrStateMaximized  uint32 = 0
	WlrStateMinimized  uint32 = 1
	WlrStateActivated  uint32 = 2
	WlrStateFullscreen uint32 = 3
)

// ext_foreign_toplevel_list_v1
//
// Read-only list of toplevels with a stable identifier and no state.
const (
	ExtListInterface   = "ext_foreign_toplevel_list_v1"
	ExtHandleInterface = "ext_foreign_toplevel_handle_v1"
)

// ext_foreign_toplevel_list_v1
const (
	OpExtListStop    = 0
	OpExtListDestroy = 1

	EvExtListToplevel = 0
	EvExtListFinished = 1
)

// ext_foreign_toplevel_handle_v1
const (
	OpExtHandleDestroy = 0

	EvExtHandleClosed     = 0
	EvExtHandleDone       = 1
	EvExtHandleTitle      = 2
	EvExtHandleAppID      = 3
	EvExtHandleIdentifier = 4
)
