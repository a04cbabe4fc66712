package estimate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	MsgSelectState = "Select a state"
	MsgSystemSize  = "Enter a system size > 0"
)

// Input is what the user typed, before any parsing.
type Input struct {
	State    string `json:"state"`
	SizeText string `json:"size"`
}

// SystemSpec is a validated Input.
type SystemSpec struct {
	State    string  `json:"state"`
	SizeKwDc float64 `json:"sizeKwDc"`
}

// InputError rejects an Input before any calculation takes place.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseSize reads the leading number of text, "12.5 kW" gives 12.5.
// Empty or unparsable text gives 0.
func ParseSize(text string) float64 {
	m := leadingFloat.FindString(strings.TrimSpace(text))
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return f
}

// FormatSize is the display form of a size once the input loses focus.
func FormatSize(text string) string {
	t := strings.TrimSpace(text)
	if t == "" || t == "." {
		return ""
	}
	if leadingFloat.FindString(t) == "" {
		return text
	}
	return fmt.Sprintf("%.2f", ParseSize(t))
}

func Validate(in Input) (SystemSpec, error) {
	if strings.TrimSpace(in.State) == "" {
		return SystemSpec{}, &InputError{Message: MsgSelectState}
	}
	size := ParseSize(in.SizeText)
	if size <= 0 {
		return SystemSpec{}, &InputError{Message: MsgSystemSize}
	}
	return SystemSpec{State: strings.TrimSpace(in.State), SizeKwDc: size}, nil
}
