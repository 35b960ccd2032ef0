package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errPadronCaido = errors.New("padron caido")

func TestCircuitBreakerAbreTrasUmbral(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 1,
		OpenTimeout:      time.Hour,
	})

	for i := 0; i < 3; i++ {
		err := cb.Execute(func() error { return errPadronCaido })
		require.ErrorIs(t, err, errPadronCaido)
	}

	assert.Equal(t, CBOpen, cb.State())
	err := cb.Execute(func() error { return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreakerSeRecuperaEnHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		SuccessThreshold: 2,
		OpenTimeout:      time.Millisecond,
	})

	require.Error(t, cb.Execute(func() error { return errPadronCaido }))
	require.Equal(t, CBOpen, cb.State())

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(func() error { return nil }))
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreakerProbeFallidoReabre(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		OpenTimeout:      time.Millisecond,
	})

	require.Error(t, cb.Execute(func() error { return errPadronCaido }))
	time.Sleep(5 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())

	require.Error(t, cb.Execute(func() error { return errPadronCaido }))
	assert.Equal(t, CBOpen, cb.State())
}

func TestCircuitBreakerCerradoResetContadorConExito(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		OpenTimeout:      time.Hour,
	})

	require.Error(t, cb.Execute(func() error { return errPadronCaido }))
	require.NoError(t, cb.Execute(func() error { return nil }))
	require.Error(t, cb.Execute(func() error { return errPadronCaido }))

	// La racha se cortó con el éxito intermedio: sigue cerrado
	assert.Equal(t, CBClosed, cb.State())
}
