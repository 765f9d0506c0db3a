package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"windfall/domain/entities"
	"windfall/events"
)

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorWarning = 0xFEE75C // Yellow
	ColorInfo    = 0x3498DB // Blue
)

// buildWindowOpenedEmbed creates the announcement embed for a freshly opened window
func buildWindowOpenedEmbed(e events.WindowOpenedEvent) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🎁 Claim Window Open!",
		Description: fmt.Sprintf("Round #%d is live for the next **%d seconds**.\nCloses <t:%d:t>.",
			e.EpochID,
			int64(e.Duration.Seconds()),
			e.ExpiresAt.Unix(),
		),
		Color: ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Opened By",
				Value:  string(e.Source),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "First claim in wins",
		},
	}
}

// buildWinnerEmbed creates the winner announcement. The payout handle is
// masked; the claim reference stays private to the claimant.
func buildWinnerEmbed(e events.WinnerSelectedEvent) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎉 We Have a Winner!",
		Description: fmt.Sprintf("Round #%d has been claimed.", e.EpochID),
		Color:       ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Payout",
				Value:  fmt.Sprintf("%s → %s", e.PayoutMethod, entities.MaskPayoutID(e.PayoutID)),
				Inline: true,
			},
			{
				Name:   "Claim Position",
				Value:  fmt.Sprintf("#%d", e.Position),
				Inline: true,
			},
		},
	}
}

// buildWindowClosedEmbed creates the closing notice for a window that ran to
// its expiry.
func buildWindowClosedEmbed(e events.WindowClosedEvent) *discordgo.MessageEmbed {
	if e.WinnerAssigned {
		return &discordgo.MessageEmbed{
			Title:       "Claim Window Closed",
			Description: fmt.Sprintf("Round #%d is over. The prize was claimed!", e.EpochID),
			Color:       ColorInfo,
		}
	}

	return &discordgo.MessageEmbed{
		Title:       "Claim Window Closed",
		Description: fmt.Sprintf("Round #%d expired with no winner.", e.EpochID),
		Color:       ColorWarning,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Better luck next round",
		},
	}
}
