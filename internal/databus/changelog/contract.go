//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package changelog

import "github.com/s21platform/roundtable-service/internal/model"

type Merger interface {
	MergeChangelog(threadID string, participants []model.Participant) bool
}
