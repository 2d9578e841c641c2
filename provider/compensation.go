package provider

import "context"

// compensation is one inverse action registered after a side-effecting step
// succeeded. Key names the store object the action would remove.
type compensation struct {
	Label string
	Key   string
	Undo  func(ctx context.Context) error
}

// compensationStack collects inverse actions in completion order and unwinds
// them newest first when a later step fails.
type compensationStack struct {
	actions []compensation
}

func (s *compensationStack) push(c compensation) {
	s.actions = append(s.actions, c)
}

// unwind runs every registered compensation in reverse order. One action
// failing never stops the rest; each failure is logged on its own and the
// failed actions are returned so the caller can queue them for deferred
// cleanup. The caller's original error is untouched either way.
func (s *compensationStack) unwind(ctx context.Context, logger Logger) []compensation {
	var failed []compensation
	for i := len(s.actions) - 1; i >= 0; i-- {
		action := s.actions[i]
		if err := action.Undo(ctx); err != nil {
			logger.ErrorWithContextf(ctx, err, "[Books] Compensation %q failed for %s", action.Label, action.Key)
			failed = append(failed, action)
			continue
		}
		logger.InfoWithContextf(ctx, "[Books] Compensation %q done for %s", action.Label, action.Key)
	}
	s.actions = nil
	return failed
}
