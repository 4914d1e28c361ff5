// Package domain concentra entidades e estruturas centrais do núcleo de
// prevenção de abuso: identificadores anonimizados, decisões de limite e
// denúncias de ghosting.
package domain

import "time"

// UnknownIdentifier é o valor sentinela usado quando nenhum endereço de
// origem pôde ser derivado. O motor de cotas o trata como "sem limitação
// possível" de forma deliberada; os limitadores públicos falham fechado.
const UnknownIdentifier = "unknown"

// WindowDecision descreve o resultado de uma checagem de janela fixa.
type WindowDecision struct {
	Allowed   bool
	Scope     string
	Count     int
	Remaining int
	ResetAt   time.Time
}
