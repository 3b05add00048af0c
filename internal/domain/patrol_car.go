package domain

type PatrolCarStatus string

const (
	PatrolCarAvailable   PatrolCarStatus = "available"
	PatrolCarMaintenance PatrolCarStatus = "maintenance"
	PatrolCarAssigned    PatrolCarStatus = "assigned"
)

type PatrolCar struct {
	ID     string          `json:"id"`
	Number string          `json:"number"`
	Type   string          `json:"type"`
	Status PatrolCarStatus `json:"status"`
}
