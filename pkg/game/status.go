package game

// StatusID is the server's numeric game status
type StatusID int

// Game statuses as numbered by the server
const (
	StatusCreated       StatusID = 10
	StatusStarted       StatusID = 20
	StatusAborted       StatusID = 25
	StatusMate          StatusID = 30
	StatusResign        StatusID = 31
	StatusStalemate     StatusID = 32
	StatusTimeout       StatusID = 33
	StatusDraw          StatusID = 34
	StatusOutOfTime     StatusID = 35
	StatusCheat         StatusID = 36
	StatusNoStart       StatusID = 37
	StatusUnknownFinish StatusID = 38
	StatusVariantEnd    StatusID = 60
)

// Status is the game status as pushed by the server
type Status struct {
	ID   StatusID `json:"id"`
	Name string   `json:"name"`
}

// Playable reports whether moves can still be made.
func (s Status) Playable() bool {
	return s.ID < StatusAborted
}

// Started reports whether the game went past creation.
func (s Status) Started() bool {
	return s.ID >= StatusStarted
}

// Aborted reports whether the game was cancelled before a result.
func (s Status) Aborted() bool {
	return s.ID == StatusAborted || s.ID == StatusNoStart
}

// Ended reports whether the game finished with a result.
func (s Status) Ended() bool {
	return s.ID >= StatusMate && s.ID != StatusNoStart
}
