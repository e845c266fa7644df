package model

import "time"

// Reminder is a scheduled message delivered back to the requesting user
type Reminder struct {
	Meta         `bson:",inline"`
	GuildID      string     `bson:"guildId" json:"guild_id"`
	UserID       string     `bson:"userId" json:"user_id"`
	ChannelID    string     `bson:"channelId" json:"channel_id"`
	Text         string     `bson:"text" json:"text"`
	ScheduledFor time.Time  `bson:"scheduledFor" json:"scheduled_for"`
	Delivered    bool       `bson:"delivered" json:"delivered"`
	DeliveredAt  *time.Time `bson:"deliveredAt,omitempty" json:"delivered_at,omitempty"`
	CaseID       string     `bson:"caseId,omitempty" json:"case_id,omitempty"` // set when created from a case channel
}

// Reminder constraints
const (
	MaxReminderTextLength = 500
	MaxReminderHorizon    = 30 * 24 * time.Hour
)
