package shell

import "time"

// NoticeKind is the severity of a user-visible notice.
type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

// Notice is a message for the user. OpenStorage asks the front-end to show
// the storage manager.
type Notice struct {
	Kind        NoticeKind `json:"kind"`
	Message     string     `json:"message"`
	OpenStorage bool       `json:"openStorage,omitempty"`
	At          time.Time  `json:"at"`
}

// Notifier receives notices. It is called while the shell holds its lock and
// must not call back into the shell.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}

const (
	msgBlankName      = "Please enter a diagram name"
	msgQuotaExceeded  = "Storage quota exceeded. Please export important diagrams and clear some space."
	msgStorageFull    = "Storage full! Opening Storage Manager..."
	msgAutoSaveFull   = "Storage full! Please use Storage Manager to free up space."
	msgInvalidJSON    = "Invalid JSON file. Please check the file format."
	msgCleared        = "All diagrams cleared. Please reload the page."
	msgImportedFormat = `Diagram "%s" imported successfully!`
)
