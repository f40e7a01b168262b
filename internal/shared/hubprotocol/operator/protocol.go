// Package operator defines the wire protocol between the service and operator
// consoles: channel names, event names and the WebSocket message shapes.
package operator

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// BroadcastChannel reaches every connected operator session.
	BroadcastChannel = "broadcast"

	operatorChannelPrefix = "operator:"
)

// Server-pushed events.
const (
	EventTransferOffered    = "transfer_offered"
	EventTransferResponded  = "transfer_responded"
	EventTransferCompleted  = "transfer_completed"
	EventTransferCancelled  = "transfer_cancelled"
	EventQueueEntryAdded    = "queue_entry_added"
	EventQueueEntryAssigned = "queue_entry_assigned"
	EventQueueEntryRemoved  = "queue_entry_removed"
	EventAssignment         = "assignment"
	EventQueueStatus        = "queue_status"
	EventSystemStatus       = "system_status"
)

// Client-originated message types.
const (
	MsgJoin         = "join"
	MsgLeave        = "leave"
	MsgAvailability = "availability"
	MsgAck          = "ack"
)

// Replies to client messages.
const (
	MsgJoined = "joined"
	MsgLeft   = "left"
	MsgAckOK  = "ack_ok"
	MsgError  = "error"
)

// OperatorChannel is the unicast channel of one operator's sessions.
func OperatorChannel(operatorID string) string {
	return operatorChannelPrefix + operatorID
}

// ParseChannel splits a channel name. For the broadcast channel it returns
// ("", true, true); for "operator:<id>" it returns (id, false, true).
func ParseChannel(channel string) (operatorID string, broadcast bool, ok bool) {
	if channel == BroadcastChannel {
		return "", true, true
	}
	if id, found := strings.CutPrefix(channel, operatorChannelPrefix); found && id != "" {
		return id, false, true
	}
	return "", false, false
}

// ClientMessage is what an operator console sends.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type JoinData struct {
	OperatorID string `json:"operator_id"`
}

type AvailabilityData struct {
	Online bool `json:"online"`
}

type AckData struct {
	TransferID string `json:"transfer_id"`
}

// ServerMessage is what the service pushes to a console.
type ServerMessage struct {
	Type      string `json:"type"`
	Channel   string `json:"channel,omitempty"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Encode renders the wire form of a notification.
func Encode(channel, event string, payload any, at time.Time) ([]byte, error) {
	data, err := json.Marshal(&ServerMessage{
		Type:      event,
		Channel:   channel,
		Data:      payload,
		Timestamp: at.UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", event, err)
	}
	return data, nil
}
