package tui

// focusArea selects which part of the screen receives unmapped keys.
type focusArea int

const (
	focusPanel focusArea = iota
	focusFiles
	focusCommand
)

// supervisorStepMsg reports a finished supervisor activation. The step runs
// on its own goroutine because the first-line read blocks; label changes are
// picked up when the model re-renders.
type supervisorStepMsg struct {
	err error
}
