package trade

import (
	"github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/domain"
)

// ProposalDraft is the uncommitted item pair for one pending trade proposal.
// TargetItemId comes from the catalog's tradeable set, OwnItemId from the
// current actor's owned items.
type ProposalDraft struct {
	TargetItemId domain.ItemId `json:"targetItemId"`
	OwnItemId    domain.ItemId `json:"ownItemId"`
}

// UseCase validates and submits trade proposals and approvals. The
// two-party approval state is tracked by the ledger as the flag pair
// (approvedByTrader1, approvedByTrader2), with both true implying completed.
type UseCase interface {
	SetProposalDraft(draft ProposalDraft)
	ProposalDraft() (ProposalDraft, bool)
	// ProposeTrade submits the drafted pair. Rejected locally when either
	// id is unselected or both ids are equal, with zero ledger calls.
	ProposeTrade(c ctx.Ctx) (domain.TxHash, error)

	// ApproveTrade sets the calling trader's approval flag. The ledger
	// enforces approve-exactly-once per trader.
	ApproveTrade(c ctx.Ctx, tradeId domain.TradeId) (domain.TxHash, error)
}
