package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatrolCarStatusValues(t *testing.T) {
	assert.Equal(t, PatrolCarStatus("available"), PatrolCarAvailable)
	assert.Equal(t, PatrolCarStatus("maintenance"), PatrolCarMaintenance)
	assert.Equal(t, PatrolCarStatus("assigned"), PatrolCarAssigned)
}
