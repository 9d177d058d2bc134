package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplayEmptyStream(t *testing.T) {
	p := Replay(nil)
	assert.Equal(t, StatusAvailable, p.Status)
	assert.Zero(t, p.Quantity)
}

func TestReplayAddThenAdjust(t *testing.T) {
	p := Replay([]Event{
		{Action: ActionAdded, QuantityDelta: 5},
		{Action: ActionQuantityAdjusted, QuantityDelta: -2},
	})
	assert.Equal(t, StatusAvailable, p.Status)
	assert.Equal(t, 3, p.Quantity)
}

func TestReplayTerminalEventsRetireStock(t *testing.T) {
	tests := []struct {
		action Action
		want   LotStatus
	}{
		{ActionConsumed, StatusConsumed},
		{ActionExpired, StatusExpired},
		{ActionRemoved, StatusRemoved},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			p := Replay([]Event{
				{Action: ActionAdded, QuantityDelta: 4},
				{Action: tt.action, QuantityDelta: -4},
			})
			assert.Equal(t, tt.want, p.Status)
			assert.Zero(t, p.Quantity, "terminal event retires remaining stock")
		})
	}
}

func TestReplayZeroDeltaAdjustment(t *testing.T) {
	p := Replay([]Event{
		{Action: ActionAdded, QuantityDelta: 2},
		{Action: ActionQuantityAdjusted, QuantityDelta: 0},
	})
	assert.Equal(t, StatusAvailable, p.Status)
	assert.Equal(t, 2, p.Quantity)
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusAvailable.Terminal())
	assert.True(t, StatusConsumed.Terminal())
	assert.True(t, StatusExpired.Terminal())
	assert.True(t, StatusRemoved.Terminal())
}

func TestCategoryValid(t *testing.T) {
	assert.True(t, CategoryVegetable.Valid())
	assert.True(t, CategoryFastFood.Valid())
	assert.False(t, Category("Gadget").Valid())
	assert.False(t, Category("").Valid())
}
