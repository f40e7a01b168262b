package operator

// AssignmentType tells the client how the operator got the conversation.
type AssignmentType string

// AssignmentDirect is set when AutoAssign picks an operator without queueing.
const AssignmentDirect AssignmentType = "direct"

// Assignment binds a waiting visitor's conversation to an operator.
type Assignment struct {
	OperatorID     string
	ConversationID string
	VisitorID      string
	Type           AssignmentType
}
