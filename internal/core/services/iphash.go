// Package services implementa a lógica central de prevenção de abuso.
package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/domain"
)

const minSaltLength = 16

// devSaltFallback só é aceito fora de produção, para evitar que ambientes de
// desenvolvimento quebrem por configuração ausente. O valor deixa claro que
// não é um segredo.
const devSaltFallback = "dev-only-insecure-salt"

// IPHasher transforma um endereço de cliente em um identificador opaco via
// HMAC-SHA256 com sal compartilhado. Nenhum componente armazena ou loga o
// endereço bruto.
type IPHasher struct {
	salt []byte
}

// NewIPHasher valida o sal conforme o modo de execução. Em produção um sal
// curto é recusado; em desenvolvimento cai no valor de fallback rotulado.
func NewIPHasher(salt string, production bool) (*IPHasher, error) {
	salt = strings.TrimSpace(salt)
	if len(salt) < minSaltLength {
		if production {
			return nil, fmt.Errorf("ip hash salt must have at least %d characters", minSaltLength)
		}
		log.Printf("ip hasher: salt too short, using development fallback")
		salt = devSaltFallback
	}
	return &IPHasher{salt: []byte(salt)}, nil
}

// Hash deriva o identificador opaco do endereço. Endereço vazio após trim é
// a condição distinta de "identificador ausente", não uma falha de hashing.
func (h *IPHasher) Hash(rawAddress string) (string, error) {
	rawAddress = strings.TrimSpace(rawAddress)
	if rawAddress == "" {
		return "", domain.ErrMissingIdentifier
	}
	mac := hmac.New(sha256.New, h.salt)
	mac.Write([]byte(rawAddress))
	return hex.EncodeToString(mac.Sum(nil)), nil
}
