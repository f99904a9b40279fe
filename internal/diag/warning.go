package diag

import "fmt"

// WarningKind is the category of a dev-mode warning.
type WarningKind string

const (
	MissingModifierStyle WarningKind = "MissingModifierStyle"
	UndeclaredClass      WarningKind = "UndeclaredClass"
	MissingCxClass       WarningKind = "MissingCxClass"
)

// Warning is a non-fatal dev-mode finding.
type Warning struct {
	Kind WarningKind
	File string
	Pos  Pos
	Msg  string
}

func (w Warning) String() string {
	if w.Pos.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", w.File, w.Pos.Line, w.Pos.Column, w.Msg)
	}
	return fmt.Sprintf("%s: %s", w.File, w.Msg)
}
