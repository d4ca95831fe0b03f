package worklog

import (
	"regexp"
)

var taskNumberPattern = regexp.MustCompile(`#(\d+)`)

// ExtractTaskNumber returns the digits of the first "#<digits>" token in
// text. The second result is false when text carries no task number.
func ExtractTaskNumber(text string) (string, bool) {
	m := taskNumberPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// KeyKind distinguishes the two flavours of TaskKey.
type KeyKind int

const (
	// KeyLiteral keys are the full text of a record without a task number.
	KeyLiteral KeyKind = iota
	// KeyNumeric keys are the digits of a "#<digits>" reference.
	KeyNumeric
)

// TaskKey identifies the work item a record refers to. It is either a
// numeric task reference or, for text without one, the literal text.
//
// TaskKey is comparable and can be used as a map key.
type TaskKey struct {
	kind  KeyKind
	value string
}

// NumericKey returns the key for task number n.
func NumericKey(n string) TaskKey {
	return TaskKey{kind: KeyNumeric, value: n}
}

// LiteralKey returns the key for text that has no task number.
func LiteralKey(text string) TaskKey {
	return TaskKey{kind: KeyLiteral, value: text}
}

// KeyFor returns the numeric key of text when it references a task and
// the literal key of text otherwise.
func KeyFor(text string) TaskKey {
	if n, ok := ExtractTaskNumber(text); ok {
		return NumericKey(n)
	}
	return LiteralKey(text)
}

// Kind reports which flavour of key this is.
func (k TaskKey) Kind() KeyKind { return k.kind }

// IsNumeric reports whether the key is a task number.
func (k TaskKey) IsNumeric() bool { return k.kind == KeyNumeric }

// Value returns the bare digits for numeric keys and the text for literal keys.
func (k TaskKey) Value() string { return k.value }

// String renders numeric keys as "#<digits>" and literal keys as their text.
// KeyFor(k.String()) == k for every key KeyFor can produce.
func (k TaskKey) String() string {
	if k.kind == KeyNumeric {
		return "#" + k.value
	}
	return k.value
}

// MarshalText implements encoding.TextMarshaler.
func (k TaskKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *TaskKey) UnmarshalText(text []byte) error {
	*k = KeyFor(string(text))
	return nil
}
