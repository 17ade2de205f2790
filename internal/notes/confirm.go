package notes

import "context"

// DeletePrompt is shown before a note is deleted.
const DeletePrompt = "Are you sure you want to delete this note? This action cannot be undone."

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a plain function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// Always approves; for callers that collected consent up front.
var Always Confirmer = ConfirmFunc(func(context.Context, string) bool { return true })

// DeleteConfirmed deletes id only if c approves. It reports whether the
// delete was attempted.
func (s *Store) DeleteConfirmed(ctx context.Context, id string, c Confirmer) (bool, error) {
	if c == nil || !c.Confirm(ctx, DeletePrompt) {
		return false, nil
	}
	return true, s.Delete(ctx, id)
}
