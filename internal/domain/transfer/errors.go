package transfer

import "errors"

var (
	ErrTransferNotFound   = errors.New("transfer request not found")
	ErrSelfTransfer       = errors.New("cannot transfer a conversation to the same operator")
	ErrActiveTransfer     = errors.New("an active transfer already exists for this conversation")
	ErrNotPending         = errors.New("transfer request is no longer pending")
	ErrConcurrentUpdate   = errors.New("transfer request was modified concurrently")
	ErrInvalidTransition  = errors.New("invalid transfer status transition")
	ErrMissingParticipant = errors.New("operator, conversation and visitor ids are required")
)
