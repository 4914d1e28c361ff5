package domain

import (
	"fmt"
	"time"
)

// PositionCategory é a enumeração fechada de categorias de vaga aceitas.
type PositionCategory int

const (
	PositionEngineering PositionCategory = iota
	PositionDesign
	PositionProduct
	PositionData
	PositionOperations
	PositionSales
	PositionMarketing
	PositionSupport
	PositionOther
)

var positionCategoryNames = map[PositionCategory]string{
	PositionEngineering: "engineering",
	PositionDesign:      "design",
	PositionProduct:     "product",
	PositionData:        "data",
	PositionOperations:  "operations",
	PositionSales:       "sales",
	PositionMarketing:   "marketing",
	PositionSupport:     "support",
	PositionOther:       "other",
}

func (c PositionCategory) String() string {
	return positionCategoryNames[c]
}

// ParsePositionCategory valida a categoria na borda da aplicação; a partir
// daqui o tipo fechado circula sem novas validações.
func ParsePositionCategory(raw string) (PositionCategory, error) {
	for category, name := range positionCategoryNames {
		if name == raw {
			return category, nil
		}
	}
	return 0, fmt.Errorf("unknown position category: %q", raw)
}

// Report é uma denúncia de ghosting aceita ou em análise.
type Report struct {
	ID               string
	Identifier       string
	CompanyID        string
	CompanyName      string
	CompanyKey       string
	PositionCategory PositionCategory
	PositionDetail   string
	Status           ReportStatus
	CreatedAt        time.Time
}

// PositionKey combina categoria e detalhe normalizado da vaga; é a chave da
// restrição de unicidade por (identificador, empresa, vaga).
func (r Report) PositionKey() string {
	return r.PositionCategory.String() + ":" + r.PositionDetail
}

// ReportStatus é o estado de moderação de uma denúncia.
type ReportStatus string

const (
	StatusActive  ReportStatus = "active"
	StatusFlagged ReportStatus = "flagged"
	StatusDeleted ReportStatus = "deleted"
)

// ModerationAction é a enumeração fechada de ações administrativas.
type ModerationAction int

const (
	ActionFlag ModerationAction = iota
	ActionRestore
	ActionDelete
)

var moderationActionNames = map[ModerationAction]string{
	ActionFlag:    "flag",
	ActionRestore: "restore",
	ActionDelete:  "delete",
}

func (a ModerationAction) String() string {
	return moderationActionNames[a]
}

// TargetStatus devolve o estado resultante da ação sobre uma denúncia.
func (a ModerationAction) TargetStatus() ReportStatus {
	switch a {
	case ActionFlag:
		return StatusFlagged
	case ActionRestore:
		return StatusActive
	case ActionDelete:
		return StatusDeleted
	}
	return StatusActive
}

// ParseModerationAction valida a ação na borda; valores desconhecidos são
// rejeitados aqui e nunca circulam como strings soltas.
func ParseModerationAction(raw string) (ModerationAction, error) {
	for action, name := range moderationActionNames {
		if name == raw {
			return action, nil
		}
	}
	return 0, fmt.Errorf("unknown moderation action: %q", raw)
}

// CompanySignal é o agregado liberado pelo portão de k-anonimato.
type CompanySignal struct {
	CompanyKey    string
	CompanyName   string
	ActiveReports int
}

// SessionPayload é o conteúdo assinado de um token de sessão administrativa.
type SessionPayload struct {
	Subject   string `json:"sub"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// CookiePolicy descreve os atributos exigidos para o cookie de sessão; a
// camada HTTP externa é quem os aplica.
type CookiePolicy struct {
	Name           string
	Path           string
	HTTPOnly       bool
	Secure         bool
	SameSiteStrict bool
}
