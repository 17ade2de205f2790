package division

import "fmt"

// Command ops understood by Dispatch.
const (
	OpAdd    = "add"
	OpRemove = "remove"
	OpSet    = "set"
)

// Command is one UI action, decoded from whatever event produced it.
type Command struct {
	Op       string    `json:"op"`
	Category string    `json:"category"`
	ID       ItemID    `json:"id,omitempty"`
	Field    Field     `json:"field,omitempty"`
	Value    string    `json:"value,omitempty"`
	Item     *LineItem `json:"item,omitempty"`
}

// Dispatch applies cmd. It returns the id of the touched row; for add that
// is the new row. Only malformed commands are errors: removing or setting
// a row that is gone is silently ignored.
func (e *Engine) Dispatch(cmd Command) (ItemID, error) {
	c, err := ParseCategory(cmd.Category)
	if err != nil {
		return "", err
	}

	switch cmd.Op {
	case OpAdd:
		item := NewLineItem()
		if cmd.Item != nil {
			item = *cmd.Item
		}
		return e.AddLineItem(c, item), nil
	case OpRemove:
		e.RemoveLineItem(c, cmd.ID)
		return cmd.ID, nil
	case OpSet:
		if !validField(cmd.Field) {
			return "", fmt.Errorf("unknown field %q", cmd.Field)
		}
		e.SetField(c, cmd.ID, cmd.Field, cmd.Value)
		return cmd.ID, nil
	}
	return "", fmt.Errorf("unknown op %q", cmd.Op)
}

func validField(f Field) bool {
	switch f {
	case FieldDescription, FieldYourValue, FieldOtherValue, FieldAgreedValue, FieldAllocation:
		return true
	}
	return false
}
