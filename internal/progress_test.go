package internal

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShowProgress(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		fn      func() error
		wantErr bool
	}{
		{"successful function", func() error { return nil }, false},
		{"function with error", func() error { return errors.New("test error") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ShowProgress(ctx, "Testing", tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgress() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSpin(t *testing.T) {
	var buf bytes.Buffer
	err := spin(context.Background(), &buf, "Connecting", func() error {
		time.Sleep(150 * time.Millisecond)
		return nil
	})
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Connecting")
	assert.Contains(t, buf.String(), "✓")

	buf.Reset()
	err = spin(context.Background(), &buf, "Connecting", func() error { return errors.New("refused") })
	assert.EqualError(t, err, "refused")
	assert.Contains(t, buf.String(), "✗")
}

func TestSpin_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	err := spin(ctx, &buf, "Waiting", func() error {
		time.Sleep(time.Second)
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))
}
