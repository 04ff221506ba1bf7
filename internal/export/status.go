package export

// Status is the lifecycle state of an export job:
// Pending -> Running -> {Done, Error}. Done and Error are terminal.
type Status string

const (
	StatusPending Status = "Pending"
	StatusRunning Status = "Running"
	StatusDone    Status = "Done"
	StatusError   Status = "Error"
)

// Terminal reports whether the status can no longer change.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}
