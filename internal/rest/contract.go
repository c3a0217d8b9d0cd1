//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package rest

import (
	"context"

	"github.com/s21platform/roundtable-service/internal/api"
	"github.com/s21platform/roundtable-service/internal/model"
	"github.com/s21platform/roundtable-service/internal/round"
)

type Threads interface {
	Store(threadID string) *round.Store
	Lookup(threadID string) (*round.Store, bool)
	Release(threadID string)
	CheckTimeouts() int
}

type DBRepo interface {
	LoadThread(ctx context.Context, threadID string) (*model.Hydration, error)
}

type Validator interface {
	ValidatePrepareMessage(req *api.PrepareMessageRequest) error
	ValidateStreamDelta(req *api.StreamDeltaRequest) error
	ValidateStatusUpdate(req *api.StatusUpdateRequest) error
	ValidateParticipants(req *api.SetParticipantsRequest) error
}

type JWTGenerator interface {
	GenerateConnectToken(userID string) (string, int64, error)
	GenerateSubscribeToken(userID, threadID string) (string, int64, error)
}
