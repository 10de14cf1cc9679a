package messages

// OutboundMessage is how we wrap requests before sending
// them to the server
type OutboundMessage struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
	Ack     int         `json:"ack,omitempty"` // set on ackable messages only
}

// Outbound event types
const (
	EventSendMove    = "move"
	EventOutOfTime   = "outoftime"
	EventTakebackYes = "takeback-yes"
	EventTakebackNo  = "takeback-no"
	EventResyncReq   = "resync"
	EventHold        = "hold"
	EventPing        = "p"
)

// SendOptions controls delivery of a single outbound message
type SendOptions struct {
	Ackable bool
}

// MovePayload is the move sent by the local player
type MovePayload struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
	Lag       *int64 `json:"lag,omitempty"`  // average network lag in milliseconds
	Blur      int    `json:"b,omitempty"`    // 1 when the window lost focus during the move
	HoldTime  int64  `json:"hold,omitempty"` // milliseconds the piece was held before release
}

// HoldPayload reports suspicious piece hold times
type HoldPayload struct {
	Mean int64 `json:"mean"`
	SD   int64 `json:"sd"`
}
