package domain

import "errors"

var (
	// ErrMissingIdentifier indica que nenhum identificador de cliente pôde ser derivado.
	ErrMissingIdentifier = errors.New("client identifier is missing")

	ErrDailyLimit        = errors.New("daily report limit reached")
	ErrCompanyLimit      = errors.New("too many reports for this company")
	ErrDuplicatePosition = errors.New("duplicate position already reported")
	ErrLoginLocked       = errors.New("login temporarily locked")
	ErrWindowExceeded    = errors.New("request limit exceeded for this window")
	ErrInsufficientData  = errors.New("insufficient data")
)

// IsAdmissionDenied responde se o erro representa uma negação de admissão
// (limite atingido, duplicidade ou identificador ausente), em oposição a uma
// falha de infraestrutura.
func IsAdmissionDenied(err error) bool {
	return errors.Is(err, ErrMissingIdentifier) ||
		errors.Is(err, ErrDailyLimit) ||
		errors.Is(err, ErrCompanyLimit) ||
		errors.Is(err, ErrDuplicatePosition) ||
		errors.Is(err, ErrLoginLocked) ||
		errors.Is(err, ErrWindowExceeded)
}

func IsMissingIdentifierError(err error) bool {
	return errors.Is(err, ErrMissingIdentifier)
}

// ReasonFor devolve o código estável legível por máquina associado a um erro
// de admissão; string vazia para erros que não são de admissão.
func ReasonFor(err error) string {
	switch {
	case errors.Is(err, ErrMissingIdentifier):
		return "missing-ip"
	case errors.Is(err, ErrDailyLimit):
		return "daily-ip-limit"
	case errors.Is(err, ErrCompanyLimit), errors.Is(err, ErrDuplicatePosition):
		return "company-position-limit"
	case errors.Is(err, ErrLoginLocked):
		return "login-locked"
	case errors.Is(err, ErrWindowExceeded):
		return "window-exceeded"
	default:
		return ""
	}
}

// SafeMessage devolve a mensagem segura para exibição associada a um erro de
// admissão. Erros de infraestrutura nunca passam por aqui.
func SafeMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingIdentifier):
		return "could not identify the request origin"
	case errors.Is(err, ErrDailyLimit):
		return "you have reached the daily report limit"
	case errors.Is(err, ErrCompanyLimit):
		return "too many reports for this company"
	case errors.Is(err, ErrDuplicatePosition):
		return "duplicate position already reported"
	case errors.Is(err, ErrLoginLocked):
		return "too many failed attempts, try again later"
	case errors.Is(err, ErrWindowExceeded):
		return "you have reached the maximum number of requests allowed within a certain time frame"
	default:
		return ""
	}
}
