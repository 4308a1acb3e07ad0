package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "bad request", err: NewBadRequestError("bad"), want: http.StatusBadRequest},
		{name: "not found", err: NewNotFoundError("missing"), want: http.StatusNotFound},
		{name: "wrapped api error", err: fmt.Errorf("ctx: %w", NewBadRequestError("bad")), want: http.StatusBadRequest},
		{name: "plain error", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := NewInternalServerError("failed to load model")
	assert.Equal(t, "failed to load model", err.Error())
}
