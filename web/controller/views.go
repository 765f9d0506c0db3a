package controller

import (
	"time"

	"windfall/domain/entities"
)

// winnerView is the public shape of a past winner. The payout ID is masked
// before it leaves the process.
type winnerView struct {
	PayoutMethod string    `json:"payoutMethod"`
	PayoutID     string    `json:"payoutId"`
	WonAt        time.Time `json:"wonAt"`
}

// windowStateView is the public window status
type windowStateView struct {
	Open             bool         `json:"open"`
	RemainingSeconds int64        `json:"remainingSeconds"`
	RecentWinners    []winnerView `json:"recentWinners"`
}

func newWindowStateView(status *entities.WindowStatus) windowStateView {
	view := windowStateView{
		Open:             status.IsOpen,
		RemainingSeconds: status.RemainingSeconds,
		RecentWinners:    make([]winnerView, 0, len(status.RecentWinners)),
	}
	for _, winner := range status.RecentWinners {
		view.RecentWinners = append(view.RecentWinners, winnerView{
			PayoutMethod: winner.PayoutMethod,
			PayoutID:     winner.MaskedPayoutID(),
			WonAt:        winner.SubmittedAt,
		})
	}
	return view
}

// claimView is the audit shape of a claim, panel only
type claimView struct {
	ID           int64     `json:"id"`
	Reference    string    `json:"reference"`
	EpochID      int64     `json:"epochId"`
	PayoutMethod string    `json:"payoutMethod"`
	PayoutID     string    `json:"payoutId"`
	IsWinner     bool      `json:"isWinner"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

func newClaimView(claim *entities.Claim) claimView {
	return claimView{
		ID:           claim.ID,
		Reference:    claim.Reference,
		EpochID:      claim.EpochID,
		PayoutMethod: claim.PayoutMethod,
		PayoutID:     claim.PayoutID,
		IsWinner:     claim.IsWinner,
		SubmittedAt:  claim.SubmittedAt,
	}
}

func newClaimViews(claims []*entities.Claim) []claimView {
	views := make([]claimView, 0, len(claims))
	for _, claim := range claims {
		views = append(views, newClaimView(claim))
	}
	return views
}

// epochView is the audit shape of one window opening
type epochView struct {
	ID        int64     `json:"id"`
	OpenedAt  time.Time `json:"openedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Source    string    `json:"source"`
}

func newEpochView(epoch *entities.WindowEpoch) epochView {
	return epochView{
		ID:        epoch.ID,
		OpenedAt:  epoch.OpenedAt,
		ExpiresAt: epoch.ExpiresAt,
		Source:    string(epoch.Source),
	}
}

func newEpochViews(epochs []*entities.WindowEpoch) []epochView {
	views := make([]epochView, 0, len(epochs))
	for _, epoch := range epochs {
		views = append(views, newEpochView(epoch))
	}
	return views
}
