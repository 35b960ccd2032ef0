package service

import "errors"

// Errores de dominio del ciclo de vida de pesajes. Toda falla aborta la
// transacción completa: el llamador nunca observa efectos parciales.
var (
	// ErrCanchaNoEncontrada: la cancha referenciada no existe al momento de
	// la transacción (crear/editar).
	ErrCanchaNoEncontrada = errors.New("cancha no encontrada")

	// ErrPesajeNoEncontrado: el id de pesaje no resuelve a un registro
	// (editar/eliminar).
	ErrPesajeNoEncontrado = errors.New("pesaje no encontrado")
)
