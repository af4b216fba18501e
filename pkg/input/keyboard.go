package input

import (
	"github.com/eiannone/keyboard"

	"github.com/trytobebee/snakegym/pkg/game"
)

// KeyboardHandler handles keyboard input
type KeyboardHandler struct {
	inputChan chan KeyInput
}

// KeyInput represents a keyboard input event
type KeyInput struct {
	Char rune
	Key  keyboard.Key
}

// NewKeyboardHandler creates a new keyboard input handler
func NewKeyboardHandler() *KeyboardHandler {
	return &KeyboardHandler{
		inputChan: make(chan KeyInput),
	}
}

// Start begins listening for keyboard input
func (h *KeyboardHandler) Start() error {
	if err := keyboard.Open(); err != nil {
		return err
	}

	go func() {
		for {
			char, key, err := keyboard.GetKey()
			if err != nil {
				return
			}
			h.inputChan <- KeyInput{Char: char, Key: key}
		}
	}()

	return nil
}

// Stop stops the keyboard handler
func (h *KeyboardHandler) Stop() {
	keyboard.Close()
}

// GetInputChan returns the input channel
func (h *KeyboardHandler) GetInputChan() <-chan KeyInput {
	return h.inputChan
}

// ParseAction maps arrow keys and WASD to game actions. Up is +y on the
// board, which the terminal renderer draws toward the top of the screen.
func ParseAction(input KeyInput) (game.Action, bool) {
	switch input.Key {
	case keyboard.KeyArrowUp:
		return game.ActionUp, true
	case keyboard.KeyArrowDown:
		return game.ActionDown, true
	case keyboard.KeyArrowLeft:
		return game.ActionLeft, true
	case keyboard.KeyArrowRight:
		return game.ActionRight, true
	}

	switch input.Char {
	case 'w', 'W':
		return game.ActionUp, true
	case 's', 'S':
		return game.ActionDown, true
	case 'a', 'A':
		return game.ActionLeft, true
	case 'd', 'D':
		return game.ActionRight, true
	}

	return 0, false
}

// IsQuit checks if the input is a quit command
func IsQuit(input KeyInput) bool {
	return input.Char == 'q' || input.Char == 'Q' || input.Key == keyboard.KeyCtrlC || input.Key == keyboard.KeyEsc
}

// IsRestart checks if the input is a restart command
func IsRestart(input KeyInput) bool {
	return input.Char == 'r' || input.Char == 'R'
}

// IsPause checks if the input is a pause command
func IsPause(input KeyInput) bool {
	return input.Char == 'p' || input.Char == 'P' || input.Key == keyboard.KeySpace
}
