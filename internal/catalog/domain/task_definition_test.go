package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskDefinition(t *testing.T) {
	t.Run("defaults the margin", func(t *testing.T) {
		task, err := NewTaskDefinition("Oil change", 4500, 30, nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultMarginMinutes, task.MarginMinutes())
		assert.Equal(t, 40, task.RequiredMinutes())
	})

	t.Run("accepts a zero margin", func(t *testing.T) {
		zero := 0
		task, err := NewTaskDefinition("Wipers", 1500, 15, &zero)
		require.NoError(t, err)
		assert.Equal(t, 15, task.RequiredMinutes())
	})

	tests := []struct {
		name        string
		description string
		price       int64
		estimate    int
		margin      int
	}{
		{"blank description", "  ", 100, 30, 10},
		{"negative price", "Brakes", -1, 30, 10},
		{"zero estimate", "Brakes", 100, 0, 10},
		{"negative margin", "Brakes", 100, 30, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			margin := tt.margin
			_, err := NewTaskDefinition(tt.description, tt.price, tt.estimate, &margin)
			assert.ErrorIs(t, err, ErrInvalidTaskDefinition)
		})
	}
}

func TestNewArticle(t *testing.T) {
	a, err := NewArticle(" Oil filter ", "OF-12")
	require.NoError(t, err)
	assert.Equal(t, "Oil filter", a.Name())

	_, err = NewArticle("", "x")
	assert.ErrorIs(t, err, ErrInvalidArticle)
}
