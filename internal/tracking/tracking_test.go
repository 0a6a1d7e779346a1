package tracking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/readytoeat/internal/model"
)

func TestStatus(t *testing.T) {
	placed := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
	order := model.Order{OrderNumber: "RTE1", OrderTime: placed, EstimatedTime: 30, Status: model.OrderStatusCurrent}

	tests := []struct {
		name   string
		status model.OrderStatus
		after  time.Duration
		want   model.OrderStatus
	}{
		{name: "just placed", status: model.OrderStatusCurrent, after: 0, want: model.OrderStatusCurrent},
		{name: "almost ready", status: model.OrderStatusCurrent, after: 29*time.Minute + 59*time.Second, want: model.OrderStatusCurrent},
		{name: "estimate reached", status: model.OrderStatusCurrent, after: 30 * time.Minute, want: model.OrderStatusReady},
		{name: "server ready early", status: model.OrderStatusReady, after: 5 * time.Minute, want: model.OrderStatusReady},
		{name: "an hour after ready", status: model.OrderStatusCurrent, after: 90 * time.Minute, want: model.OrderStatusPast},
		{name: "ready goes past", status: model.OrderStatusReady, after: 91 * time.Minute, want: model.OrderStatusPast},
		{name: "completed", status: model.OrderStatusCompleted, after: time.Minute, want: model.OrderStatusPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := order
			o.Status = tt.status
			assert.Equal(t, tt.want, Status(o, placed.Add(tt.after)))
		})
	}
}

func TestMessageAndSplit(t *testing.T) {
	placed := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
	orders := []model.Order{
		{OrderNumber: "A", OrderTime: placed, EstimatedTime: 45, Status: model.OrderStatusCurrent},
		{OrderNumber: "B", OrderTime: placed.Add(-3 * time.Hour), EstimatedTime: 15, Status: model.OrderStatusCurrent},
		{OrderNumber: "C", OrderTime: placed.Add(-20 * time.Minute), EstimatedTime: 15, Status: model.OrderStatusCurrent},
	}
	now := placed.Add(10 * time.Minute)

	current, past := Split(orders, now, time.UTC)

	require.Len(t, current, 2)
	require.Len(t, past, 1)
	assert.Equal(t, "B", past[0].Order.OrderNumber)
	assert.Equal(t, "Your order will be ready at - 10:45", current[0].Message)
	assert.Equal(t, "Your order is ready!", current[1].Message)
	assert.Equal(t, placed.Add(45*time.Minute), current[0].ReadyAt)
}
