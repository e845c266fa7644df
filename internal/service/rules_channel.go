package service

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/anarchy/associates/internal/model"
)

// ChannelMessenger upserts a bot-owned message in a channel. Implemented
// by the gateway adapter. UpsertMessage edits the message when messageID
// is set and the message still exists, otherwise posts a new one, and
// returns the ID of the message now holding the content.
type ChannelMessenger interface {
	UpsertMessage(ctx context.Context, channelID, messageID, content string) (string, error)
}

var defaultServerRules = []string{
	"Stay in character inside roleplay channels.",
	"Respect the firm's hierarchy and your colleagues.",
	"No metagaming or powergaming in case proceedings.",
	"Client matters are confidential; keep case details in their channels.",
	"Follow Discord's Terms of Service and the server's moderation decisions.",
}

// RulesChannelService generates the firm's rules message and keeps the
// configured rules channel in sync with it
type RulesChannelService struct {
	configs   GuildConfigRepository
	messenger ChannelMessenger
}

// NewRulesChannelService creates a new rules channel service
func NewRulesChannelService(configs GuildConfigRepository, messenger ChannelMessenger) *RulesChannelService {
	return &RulesChannelService{configs: configs, messenger: messenger}
}

// RenderRules builds the rules message content
func (s *RulesChannelService) RenderRules() string {
	var b strings.Builder
	b.WriteString("**Anarchy & Associates — Server Rules**\n\n")
	for i, rule := range defaultServerRules {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rule)
	}
	b.WriteString("\nQuestions go to a member of staff. Enjoy your stay.")
	return b.String()
}

// Sync writes the rules message into the guild's configured rules channel,
// editing the previous message when one exists, and stores the resulting
// message ID
func (s *RulesChannelService) Sync(ctx context.Context, pctx *model.PermissionContext) error {
	cfg, err := s.configs.FindByGuild(ctx, pctx.GuildID)
	if err != nil {
		return fmt.Errorf("load guild config: %w", err)
	}
	if cfg == nil || cfg.RulesChannelID == "" {
		return ErrRulesChannelNotSet
	}

	messageID, err := s.messenger.UpsertMessage(ctx, cfg.RulesChannelID, cfg.RulesMessageID, s.RenderRules())
	if err != nil {
		return fmt.Errorf("post rules message: %w", err)
	}

	if messageID != cfg.RulesMessageID {
		if _, err := s.configs.Update(ctx, cfg.EntityID(), bson.M{"rulesMessageId": messageID}); err != nil {
			return fmt.Errorf("store rules message id: %w", err)
		}
	}
	return nil
}
