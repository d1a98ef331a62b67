package observability

import (
	"log/slog"

	"github.com/aretw0/parley/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that write one structured record per event.
// Reveals are logged at debug level; everything else at info (faults at error).
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBegin: func(e *domain.ConversationEvent) {
			logger.Info("conversation_begin",
				"conversation_id", e.ConversationID,
				"blocks", e.Blocks,
				"branches", e.Branches,
			)
		},
		OnStateChange: func(e *domain.StateEvent) {
			logger.Info("state_change",
				"conversation_id", e.ConversationID,
				"from", e.From.String(),
				"to", e.To.String(),
			)
		},
		OnReveal: func(e *domain.RevealEvent) {
			logger.Debug("reveal",
				"conversation_id", e.ConversationID,
				"block", e.Block,
				"revealed", e.Revealed,
			)
		},
		OnBranchSelected: func(e *domain.BranchEvent) {
			logger.Info("branch_selected",
				"conversation_id", e.ConversationID,
				"option", e.Index,
				"label", e.Label,
			)
		},
		OnEnd: func(e *domain.EndEvent) {
			logger.Info("conversation_end",
				"conversation_id", e.ConversationID,
				"forced", e.Forced,
			)
		},
		OnFault: func(e *domain.FaultEvent) {
			logger.Error("conversation_fault",
				"conversation_id", e.ConversationID,
				"err", e.Err,
			)
		},
	}
}
