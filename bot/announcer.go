package bot

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"windfall/events"

	"github.com/bwmarrin/discordgo"
)

// Config holds announcer configuration
type Config struct {
	Token     string
	ChannelID string
}

// Announcer posts window lifecycle announcements to a Discord channel. It is
// a pure publisher: no slash commands, no interaction handlers.
type Announcer struct {
	config  Config
	session *discordgo.Session
}

// New connects to Discord and subscribes the announcer to the window
// lifecycle events on the bus.
func New(config Config, eventBus *events.Bus) (*Announcer, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	announcer := &Announcer{
		config:  config,
		session: dg,
	}

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	eventBus.Subscribe(events.EventTypeWindowOpened, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.WindowOpenedEvent); ok {
			announcer.announceOpened(e)
		}
	})
	eventBus.Subscribe(events.EventTypeWinnerSelected, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.WinnerSelectedEvent); ok {
			announcer.announceWinner(e)
		}
	})
	eventBus.Subscribe(events.EventTypeWindowClosed, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.WindowClosedEvent); ok {
			announcer.announceClosed(e)
		}
	})

	log.WithField("channelID", config.ChannelID).Info("Discord announcer connected")
	return announcer, nil
}

func (a *Announcer) Close() error {
	return a.session.Close()
}

func (a *Announcer) announceOpened(e events.WindowOpenedEvent) {
	if err := a.sendEmbed(buildWindowOpenedEmbed(e)); err != nil {
		log.Errorf("Failed to announce window opening for epoch %d: %v", e.EpochID, err)
		return
	}
	log.WithFields(log.Fields{
		"epochID":   e.EpochID,
		"channelID": a.config.ChannelID,
	}).Info("Announced window opening to Discord")
}

func (a *Announcer) announceWinner(e events.WinnerSelectedEvent) {
	if err := a.sendEmbed(buildWinnerEmbed(e)); err != nil {
		log.Errorf("Failed to announce winner for epoch %d: %v", e.EpochID, err)
		return
	}
	log.WithFields(log.Fields{
		"epochID":   e.EpochID,
		"claimID":   e.ClaimID,
		"channelID": a.config.ChannelID,
	}).Info("Announced winner to Discord")
}

func (a *Announcer) announceClosed(e events.WindowClosedEvent) {
	if err := a.sendEmbed(buildWindowClosedEmbed(e)); err != nil {
		log.Errorf("Failed to announce window closing for epoch %d: %v", e.EpochID, err)
		return
	}
	log.WithFields(log.Fields{
		"epochID":        e.EpochID,
		"winnerAssigned": e.WinnerAssigned,
		"channelID":      a.config.ChannelID,
	}).Info("Announced window closing to Discord")
}

func (a *Announcer) sendEmbed(embed *discordgo.MessageEmbed) error {
	_, err := a.session.ChannelMessageSendEmbed(a.config.ChannelID, embed)
	return err
}
