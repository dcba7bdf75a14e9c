package login

import (
	"fmt"
	"strings"

	"github.com/prospira/edi-portal/internal/core/domain"
)

// CodeLength is the number of slots of a one-time code.
const CodeLength = 6

const lastSlot = CodeLength - 1

// Keys understood by Code.Key.
const (
	KeyBackspace  = "Backspace"
	KeyArrowLeft  = "ArrowLeft"
	KeyLeft       = "Left"
	KeyArrowRight = "ArrowRight"
	KeyRight      = "Right"
)

// Code is the six-slot one-time code entry with its focused slot.
type Code struct {
	slots [CodeLength]string
	focus int
}

func checkSlot(idx int) error {
	if idx < 0 || idx > lastSlot {
		return fmt.Errorf("%w: slot %d out of range", domain.ErrInvalidInput, idx)
	}
	return nil
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Input applies what was typed into slot idx. A single digit (or nothing)
// replaces the slot and moves focus forward when a digit was entered; more
// than one digit is treated as a paste.
func (c *Code) Input(idx int, val string) error {
	if err := checkSlot(idx); err != nil {
		return err
	}
	digits := onlyDigits(val)
	if len(digits) > 1 {
		return c.Paste(idx, digits)
	}

	c.slots[idx] = digits
	c.focus = idx
	if digits != "" && idx < lastSlot {
		c.focus = idx + 1
	}
	return nil
}

// Paste distributes the digits of raw over consecutive slots starting at idx.
// Non-digits are dropped and at most CodeLength digits are used. Focus moves
// to the first empty slot after the pasted ones, or to the last slot.
func (c *Code) Paste(idx int, raw string) error {
	if err := checkSlot(idx); err != nil {
		return err
	}
	digits := onlyDigits(raw)
	if len(digits) > CodeLength {
		digits = digits[:CodeLength]
	}
	if digits == "" {
		return nil
	}

	i := idx
	for _, ch := range digits {
		c.slots[i] = string(ch)
		if i == lastSlot {
			break
		}
		i++
	}

	c.focus = lastSlot
	for j := i; j <= lastSlot; j++ {
		if c.slots[j] == "" {
			c.focus = j
			break
		}
	}
	return nil
}

// Key handles navigation keys pressed in slot idx. Arrows only move focus.
// Backspace in an empty slot moves focus back; in a filled slot it clears it.
func (c *Code) Key(idx int, key string) error {
	if err := checkSlot(idx); err != nil {
		return err
	}
	c.focus = idx

	switch key {
	case KeyBackspace:
		if c.slots[idx] != "" {
			c.slots[idx] = ""
			return nil
		}
		if idx > 0 {
			c.focus = idx - 1
		}
	case KeyArrowLeft, KeyLeft:
		if idx > 0 {
			c.focus = idx - 1
		}
	case KeyArrowRight, KeyRight:
		if idx < lastSlot {
			c.focus = idx + 1
		}
	}
	return nil
}

// Clear empties every slot and focuses the first one.
func (c *Code) Clear() {
	c.slots = [CodeLength]string{}
	c.focus = 0
}

// Complete reports whether every slot holds a digit.
func (c *Code) Complete() bool {
	for _, s := range c.slots {
		if s == "" {
			return false
		}
	}
	return true
}

// String concatenates the slots.
func (c *Code) String() string {
	return strings.Join(c.slots[:], "")
}

// Slots returns a copy of the slot contents.
func (c *Code) Slots() []string {
	out := make([]string, CodeLength)
	copy(out, c.slots[:])
	return out
}

// Focus returns the focused slot.
func (c *Code) Focus() int {
	return c.focus
}
