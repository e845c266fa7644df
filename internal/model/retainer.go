package model

import "time"

// RetainerStatus represents the signing state of a retainer agreement
type RetainerStatus string

const (
	RetainerStatusPending   RetainerStatus = "pending"
	RetainerStatusSigned    RetainerStatus = "signed"
	RetainerStatusCancelled RetainerStatus = "cancelled"
)

// IsValid returns true if the status is a known retainer status
func (s RetainerStatus) IsValid() bool {
	switch s {
	case RetainerStatusPending, RetainerStatusSigned, RetainerStatusCancelled:
		return true
	default:
		return false
	}
}

// Retainer is a client agreement with the firm, signed by typing the
// client's Roblox username as a digital signature.
type Retainer struct {
	Meta             `bson:",inline"`
	GuildID          string         `bson:"guildId" json:"guild_id"`
	ClientID         string         `bson:"clientId" json:"client_id"`
	LawyerID         string         `bson:"lawyerId" json:"lawyer_id"`
	Status           RetainerStatus `bson:"status" json:"status"`
	AgreementText    string         `bson:"agreementText" json:"agreement_text"`
	DigitalSignature string         `bson:"digitalSignature,omitempty" json:"digital_signature,omitempty"`
	SignedAt         *time.Time     `bson:"signedAt,omitempty" json:"signed_at,omitempty"`
}
