package gateway

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// Session wraps the Discord websocket connection
type Session struct {
	discord  *discordgo.Session
	guildIDs []string
}

// NewSession creates a Discord session for the bot token. guildIDs limits
// command registration to specific guilds (instant propagation); empty
// registers globally.
func NewSession(token string, guildIDs []string) (*Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages

	return &Session{discord: dg, guildIDs: guildIDs}, nil
}

// Open connects to the Discord gateway
func (s *Session) Open() error {
	if err := s.discord.Open(); err != nil {
		return fmt.Errorf("open discord connection: %w", err)
	}
	if s.discord.State.User != nil {
		slog.Info("discord connected",
			slog.String("bot_id", s.discord.State.User.ID),
			slog.String("bot_name", s.discord.State.User.Username),
		)
	}
	return nil
}

// Close shuts down the websocket connection
func (s *Session) Close() error {
	if s.discord != nil {
		return s.discord.Close()
	}
	return nil
}

// Discord exposes the underlying discordgo session to adapters
func (s *Session) Discord() *discordgo.Session {
	return s.discord
}

// AddHandler registers a discordgo event handler
func (s *Session) AddHandler(handler any) {
	s.discord.AddHandler(handler)
}

// RegisterCommands creates the slash commands, per configured guild or
// globally when no guilds are configured
func (s *Session) RegisterCommands(commands []*discordgo.ApplicationCommand) error {
	appID := s.discord.State.User.ID
	targets := s.guildIDs
	if len(targets) == 0 {
		targets = []string{""} // global registration
	}

	for _, guildID := range targets {
		for _, cmd := range commands {
			if _, err := s.discord.ApplicationCommandCreate(appID, guildID, cmd); err != nil {
				return fmt.Errorf("register command %s: %w", cmd.Name, err)
			}
		}
		slog.Info("slash commands registered",
			slog.Int("count", len(commands)),
			slog.String("guild_id", guildID),
		)
	}
	return nil
}
