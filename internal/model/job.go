package model

import "time"

// JobQuestion is a single question presented to applicants
type JobQuestion struct {
	ID          string `bson:"id" json:"id"`
	Question    string `bson:"question" json:"question"`
	Type        string `bson:"type" json:"type"` // short, paragraph, number, choice
	Required    bool   `bson:"required" json:"required"`
	Placeholder string `bson:"placeholder,omitempty" json:"placeholder,omitempty"`
	Choices     []string `bson:"choices,omitempty" json:"choices,omitempty"`
	MaxLength   int    `bson:"maxLength,omitempty" json:"max_length,omitempty"`
}

// DefaultJobQuestions are asked for every posting in addition to any custom
// questions the poster adds.
func DefaultJobQuestions() []JobQuestion {
	return []JobQuestion{
		{ID: "roblox_username", Question: "What is your Roblox username?", Type: "short", Required: true, MaxLength: 20},
		{ID: "legal_experience", Question: "Describe your legal roleplay experience.", Type: "paragraph", Required: true, MaxLength: 1000},
		{ID: "legal_knowledge", Question: "What areas of law interest you most?", Type: "paragraph", Required: true, MaxLength: 500},
		{ID: "availability", Question: "How many hours per week are you available?", Type: "short", Required: true, MaxLength: 100},
	}
}

// Job represents an open position in the firm.
// At most one open job exists per (guild, staff role).
type Job struct {
	Meta             `bson:",inline"`
	GuildID          string        `bson:"guildId" json:"guild_id"`
	Title            string        `bson:"title" json:"title"`
	Description      string        `bson:"description" json:"description"`
	StaffRole        StaffRole     `bson:"staffRole" json:"staff_role"`
	RoleID           string        `bson:"roleId" json:"role_id"` // Discord role granted on acceptance
	IsOpen           bool          `bson:"isOpen" json:"is_open"`
	Questions        []JobQuestion `bson:"questions" json:"questions"`
	PostedBy         string        `bson:"postedBy" json:"posted_by"`
	ClosedAt         *time.Time    `bson:"closedAt,omitempty" json:"closed_at,omitempty"`
	ClosedBy         string        `bson:"closedBy,omitempty" json:"closed_by,omitempty"`
	ApplicationCount int           `bson:"applicationCount" json:"application_count"`
	HiredCount       int           `bson:"hiredCount" json:"hired_count"`
}

// Business constraints
const (
	MaxJobTitleLength       = 100
	MaxJobDescriptionLength = 2000
	MaxCustomJobQuestions   = 5
)
