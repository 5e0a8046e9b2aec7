package types

// ---- File events ----

// FileAction is the event type passed to file event observers.
type FileAction uint8

const (
	FileCreated FileAction = iota // path did not exist before the write
	FileUpdated                   // existing file overwritten
	FileRemoved                   // file removed
)

func (a FileAction) String() string {
	switch a {
	case FileCreated:
		return "created"
	case FileUpdated:
		return "updated"
	case FileRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// FileEventFunc is invoked after a successful write or remove.
type FileEventFunc func(path string, action FileAction)

// FileInfo describes one directory entry.
type FileInfo struct {
	Name string `json:"name"`
	Type string `json:"type"` // "file" or "dir"
	Size int64  `json:"size"`
}

// ---- Reset reasons ----

// ResetReason identifies why the device last restarted.
type ResetReason uint8

const (
	ResetUnknown ResetReason = iota
	ResetPowerOn
	ResetExternal
	ResetSoftware
	ResetPanic
	ResetInterruptWatchdog
	ResetTaskWatchdog
	ResetOtherWatchdog
	ResetDeepSleep
	ResetBrownout
	ResetSDIO
)

func (r ResetReason) String() string {
	switch r {
	case ResetPowerOn:
		return "power-on"
	case ResetExternal:
		return "external"
	case ResetSoftware:
		return "software"
	case ResetPanic:
		return "panic"
	case ResetInterruptWatchdog:
		return "interrupt-watchdog"
	case ResetTaskWatchdog:
		return "task-watchdog"
	case ResetOtherWatchdog:
		return "other-watchdog"
	case ResetDeepSleep:
		return "deep-sleep"
	case ResetBrownout:
		return "brownout"
	case ResetSDIO:
		return "sdio"
	default:
		return "unknown"
	}
}

// ---- Radio link ----

type LinkStatus uint8

const (
	LinkIdle LinkStatus = iota
	LinkConnecting
	LinkUp
	LinkFailed
)
