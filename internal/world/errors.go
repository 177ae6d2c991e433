package world

import "errors"

var (
	ErrUnknownEntity         = errors.New("unknown entity")
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrInvalidCommand        = errors.New("invalid command")
	ErrGameOver              = errors.New("game over")
)
