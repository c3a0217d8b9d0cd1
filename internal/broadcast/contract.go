//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package broadcast

import (
	"context"

	"github.com/s21platform/roundtable-service/internal/model"
)

type Publisher interface {
	Publish(ctx context.Context, channel string, data model.RoundEvent) error
}
