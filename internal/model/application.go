package model

import "time"

// ApplicationStatus represents the review state of a job application
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// IsValid returns true if the status is a known application status
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	default:
		return false
	}
}

// ApplicationAnswer pairs a job question with the applicant's answer
type ApplicationAnswer struct {
	QuestionID string `bson:"questionId" json:"question_id"`
	Answer     string `bson:"answer" json:"answer"`
}

// Application is a user's submission against an open job
type Application struct {
	Meta           `bson:",inline"`
	GuildID        string              `bson:"guildId" json:"guild_id"`
	JobID          string              `bson:"jobId" json:"job_id"`
	ApplicantID    string              `bson:"applicantId" json:"applicant_id"`
	RobloxUsername string              `bson:"robloxUsername" json:"roblox_username"`
	Answers        []ApplicationAnswer `bson:"answers" json:"answers"`
	Status         ApplicationStatus   `bson:"status" json:"status"`
	ReviewedBy     string              `bson:"reviewedBy,omitempty" json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time          `bson:"reviewedAt,omitempty" json:"reviewed_at,omitempty"`
	ReviewReason   string              `bson:"reviewReason,omitempty" json:"review_reason,omitempty"`
}
