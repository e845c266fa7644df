package model

// Feedback is a client rating of a staff member's work
type Feedback struct {
	Meta              `bson:",inline"`
	GuildID           string `bson:"guildId" json:"guild_id"`
	SubmitterID       string `bson:"submitterId" json:"submitter_id"`
	SubmitterUsername string `bson:"submitterUsername" json:"submitter_username"`
	TargetStaffID     string `bson:"targetStaffId,omitempty" json:"target_staff_id,omitempty"` // empty targets the firm as a whole
	Rating            int    `bson:"rating" json:"rating"` // 1..5
	Comment           string `bson:"comment" json:"comment"`
}

// Rating bounds
const (
	MinFeedbackRating = 1
	MaxFeedbackRating = 5
)

// IsValidRating returns true if r is within the allowed rating range
func IsValidRating(r int) bool {
	return r >= MinFeedbackRating && r <= MaxFeedbackRating
}

// FeedbackStats aggregates ratings for a staff member or the firm
type FeedbackStats struct {
	TotalCount    int            `json:"total_count"`
	AverageRating float64        `json:"average_rating"`
	CountByRating map[int]int    `json:"count_by_rating"`
}
