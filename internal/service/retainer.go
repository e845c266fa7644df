package service

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/anarchy/associates/internal/model"
)

// RetainerRepository defines the interface for retainer storage
type RetainerRepository interface {
	Add(ctx context.Context, retainer *model.Retainer) error
	FindByID(ctx context.Context, id string) (*model.Retainer, error)
	FindPendingByClient(ctx context.Context, guildID, clientID string) (*model.Retainer, error)
	FindSignedByClient(ctx context.Context, guildID, clientID string) (*model.Retainer, error)
	FindByLawyer(ctx context.Context, guildID, lawyerID string) ([]*model.Retainer, error)
	Sign(ctx context.Context, retainerID, signature string) (*model.Retainer, error)
	Update(ctx context.Context, id string, partial bson.M) (*model.Retainer, error)
}

const defaultAgreementText = `RETAINER AGREEMENT

This agreement is between Anarchy & Associates (the Firm) and the
undersigned client. By signing below, the client retains the Firm for
legal representation in roleplay matters within this server. The client
agrees to cooperate with assigned counsel and accepts the Firm's terms
of engagement.

Sign by typing your Roblox username.`

// RetainerService manages client retainer agreements. A client signs by
// typing their Roblox username as a digital signature.
type RetainerService struct {
	retainers RetainerRepository
	audit     AuditRecorder
}

// NewRetainerService creates a new retainer service
func NewRetainerService(retainers RetainerRepository, audit AuditRecorder) *RetainerService {
	return &RetainerService{retainers: retainers, audit: audit}
}

// Propose sends a retainer agreement to a client. One pending agreement
// per client at a time.
func (s *RetainerService) Propose(ctx context.Context, pctx *model.PermissionContext, clientID string) (*model.Retainer, error) {
	pending, err := s.retainers.FindPendingByClient(ctx, pctx.GuildID, clientID)
	if err != nil {
		return nil, fmt.Errorf("check pending retainer: %w", err)
	}
	if pending != nil {
		return nil, ErrRetainerPending
	}

	retainer := &model.Retainer{
		GuildID:       pctx.GuildID,
		ClientID:      clientID,
		LawyerID:      pctx.UserID,
		Status:        model.RetainerStatusPending,
		AgreementText: defaultAgreementText,
	}
	if err := s.retainers.Add(ctx, retainer); err != nil {
		return nil, fmt.Errorf("create retainer: %w", err)
	}
	return retainer, nil
}

// Sign records the client's digital signature on their pending retainer.
// The signer must be the client the agreement was proposed to.
func (s *RetainerService) Sign(ctx context.Context, pctx *model.PermissionContext, retainerID, signature string) (*model.Retainer, error) {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return nil, ErrSignatureRequired
	}

	retainer, err := s.retainers.FindByID(ctx, retainerID)
	if err != nil {
		return nil, fmt.Errorf("find retainer: %w", err)
	}
	if retainer == nil {
		return nil, ErrRetainerNotFound
	}
	if retainer.ClientID != pctx.UserID {
		return nil, ErrRetainerNotFound
	}
	if retainer.Status != model.RetainerStatusPending {
		return nil, ErrRetainerNotPending
	}

	signed, err := s.retainers.Sign(ctx, retainerID, signature)
	if err != nil {
		return nil, fmt.Errorf("sign retainer: %w", err)
	}
	if signed == nil {
		return nil, ErrRetainerNotFound
	}

	if s.audit != nil {
		s.audit.Record(ctx, model.AuditLog{
			GuildID:  pctx.GuildID,
			Action:   model.AuditRetainerSigned,
			ActorID:  pctx.UserID,
			TargetID: retainerID,
			Details:  map[string]string{"lawyer": retainer.LawyerID},
		})
	}
	return signed, nil
}

// Cancel withdraws a pending retainer
func (s *RetainerService) Cancel(ctx context.Context, pctx *model.PermissionContext, retainerID string) (*model.Retainer, error) {
	retainer, err := s.retainers.FindByID(ctx, retainerID)
	if err != nil {
		return nil, fmt.Errorf("find retainer: %w", err)
	}
	if retainer == nil {
		return nil, ErrRetainerNotFound
	}
	if retainer.Status != model.RetainerStatusPending {
		return nil, ErrRetainerNotPending
	}

	cancelled, err := s.retainers.Update(ctx, retainerID, bson.M{"status": model.RetainerStatusCancelled})
	if err != nil {
		return nil, fmt.Errorf("cancel retainer: %w", err)
	}
	if cancelled == nil {
		return nil, ErrRetainerNotFound
	}
	return cancelled, nil
}

// ListForLawyer returns retainers proposed by a lawyer
func (s *RetainerService) ListForLawyer(ctx context.Context, guildID, lawyerID string) ([]*model.Retainer, error) {
	return s.retainers.FindByLawyer(ctx, guildID, lawyerID)
}

// ActiveForClient returns the client's signed retainer, or nil
func (s *RetainerService) ActiveForClient(ctx context.Context, guildID, clientID string) (*model.Retainer, error) {
	return s.retainers.FindSignedByClient(ctx, guildID, clientID)
}
