package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/anarchy/associates/internal/model"
)

type mockRetainerRepo struct {
	addFunc                 func(ctx context.Context, retainer *model.Retainer) error
	findByIDFunc            func(ctx context.Context, id string) (*model.Retainer, error)
	findPendingByClientFunc func(ctx context.Context, guildID, clientID string) (*model.Retainer, error)
	findSignedByClientFunc  func(ctx context.Context, guildID, clientID string) (*model.Retainer, error)
	findByLawyerFunc        func(ctx context.Context, guildID, lawyerID string) ([]*model.Retainer, error)
	signFunc                func(ctx context.Context, retainerID, signature string) (*model.Retainer, error)
	updateFunc              func(ctx context.Context, id string, partial bson.M) (*model.Retainer, error)
}

func (m *mockRetainerRepo) Add(ctx context.Context, retainer *model.Retainer) error {
	if m.addFunc != nil {
		return m.addFunc(ctx, retainer)
	}
	retainer.StampCreate(bson.NewObjectID(), time.Now().UTC())
	return nil
}

func (m *mockRetainerRepo) FindByID(ctx context.Context, id string) (*model.Retainer, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockRetainerRepo) FindPendingByClient(ctx context.Context, guildID, clientID string) (*model.Retainer, error) {
	if m.findPendingByClientFunc != nil {
		return m.findPendingByClientFunc(ctx, guildID, clientID)
	}
	return nil, nil
}

func (m *mockRetainerRepo) FindSignedByClient(ctx context.Context, guildID, clientID string) (*model.Retainer, error) {
	if m.findSignedByClientFunc != nil {
		return m.findSignedByClientFunc(ctx, guildID, clientID)
	}
	return nil, nil
}

func (m *mockRetainerRepo) FindByLawyer(ctx context.Context, guildID, lawyerID string) ([]*model.Retainer, error) {
	if m.findByLawyerFunc != nil {
		return m.findByLawyerFunc(ctx, guildID, lawyerID)
	}
	return nil, nil
}

func (m *mockRetainerRepo) Sign(ctx context.Context, retainerID, signature string) (*model.Retainer, error) {
	if m.signFunc != nil {
		return m.signFunc(ctx, retainerID, signature)
	}
	return &model.Retainer{Status: model.RetainerStatusSigned, DigitalSignature: signature}, nil
}

func (m *mockRetainerRepo) Update(ctx context.Context, id string, partial bson.M) (*model.Retainer, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, partial)
	}
	return &model.Retainer{}, nil
}

func pendingRetainer(clientID string) *model.Retainer {
	return &model.Retainer{
		Meta:     model.Meta{ID: bson.NewObjectID()},
		GuildID:  "g1",
		ClientID: clientID,
		LawyerID: "lawyer-1",
		Status:   model.RetainerStatusPending,
	}
}

func TestProposeRetainer(t *testing.T) {
	t.Parallel()

	svc := NewRetainerService(&mockRetainerRepo{}, nil)
	retainer, err := svc.Propose(context.Background(), actorContext("lawyer-1"), "client-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if retainer.Status != model.RetainerStatusPending || retainer.AgreementText == "" {
		t.Errorf("unexpected retainer: %+v", retainer)
	}
}

func TestProposeRetainer_OnePendingPerClient(t *testing.T) {
	t.Parallel()

	repo := &mockRetainerRepo{
		findPendingByClientFunc: func(ctx context.Context, guildID, clientID string) (*model.Retainer, error) {
			return pendingRetainer(clientID), nil
		},
	}
	svc := NewRetainerService(repo, nil)

	_, err := svc.Propose(context.Background(), actorContext("lawyer-1"), "client-1")
	if !errors.Is(err, ErrRetainerPending) {
		t.Errorf("expected ErrRetainerPending, got %v", err)
	}
}

func TestSignRetainer(t *testing.T) {
	t.Parallel()

	retainer := pendingRetainer("client-1")
	repo := &mockRetainerRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Retainer, error) {
			return retainer, nil
		},
	}
	audit := &mockAudit{}
	svc := NewRetainerService(repo, audit)

	signed, err := svc.Sign(context.Background(), actorContext("client-1"), retainer.EntityID(), "bobthebuilder")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if signed.Status != model.RetainerStatusSigned || signed.DigitalSignature != "bobthebuilder" {
		t.Errorf("unexpected signed retainer: %+v", signed)
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != model.AuditRetainerSigned {
		t.Errorf("expected a signature audit record, got %+v", audit.entries)
	}
}

func TestSignRetainer_WrongClient(t *testing.T) {
	t.Parallel()

	retainer := pendingRetainer("client-1")
	repo := &mockRetainerRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Retainer, error) {
			return retainer, nil
		},
	}
	svc := NewRetainerService(repo, nil)

	_, err := svc.Sign(context.Background(), actorContext("someone-else"), retainer.EntityID(), "sig")
	if !errors.Is(err, ErrRetainerNotFound) {
		t.Errorf("another user's retainer must look absent, got %v", err)
	}
}

func TestSignRetainer_EmptySignature(t *testing.T) {
	t.Parallel()

	svc := NewRetainerService(&mockRetainerRepo{}, nil)
	_, err := svc.Sign(context.Background(), actorContext("client-1"), "r1", "   ")
	if !errors.Is(err, ErrSignatureRequired) {
		t.Errorf("expected ErrSignatureRequired, got %v", err)
	}
}
