//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package round

type Metrics interface {
	Dropped(kind string)
	Rejected(command string)
	Forced(transition string)
}
