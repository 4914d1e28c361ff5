// Package ports define contratos que conectam o domínio a implementações externas.
package ports

import (
	"context"
	"errors"

	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/domain"
)

var (
	// ErrClaimConflict é o resultado tipado de uma violação de unicidade ao
	// inserir um claim; os adaptadores traduzem o erro nativo do banco para
	// este valor e o serviço nunca inspeciona códigos de erro de driver.
	ErrClaimConflict = errors.New("claim already exists")

	// ErrNoCompanyMatch indica que nenhuma empresa corresponde à chave
	// normalizada consultada.
	ErrNoCompanyMatch = errors.New("no company matches the given key")

	// ErrReportNotFound indica que a denúncia consultada não existe.
	ErrReportNotFound = errors.New("report not found")
)

// QuotaTx expõe as operações de cota válidas apenas dentro de uma transação.
type QuotaTx interface {
	// DailyCount devolve a contagem corrente para (identificador, dia);
	// zero quando a linha ainda não existe.
	DailyCount(ctx context.Context, identifier, day string) (int, error)
	// IncrementDailyCount insere a linha com contagem um ou incrementa a
	// existente. Linhas nunca são removidas (trilha de auditoria).
	IncrementDailyCount(ctx context.Context, identifier, day string) error
	// CountClaims devolve quantos claims existem para (identificador, empresa).
	CountClaims(ctx context.Context, identifier, companyID string) (int, error)
	// InsertClaim grava o claim de unicidade; devolve ErrClaimConflict se uma
	// transação concorrente já reivindicou a mesma tripla.
	InsertClaim(ctx context.Context, identifier, companyID, positionKey string) error
	// InsertReport grava a denúncia em si dentro da mesma transação.
	InsertReport(ctx context.Context, report domain.Report) error
}

// QuotaStore delimita a unidade atômica de trabalho do motor de cotas: ou
// todos os efeitos de fn são confirmados, ou nenhum.
type QuotaStore interface {
	WithinTx(ctx context.Context, fn func(tx QuotaTx) error) error
}

// IntelStore é a leitura agregada consumida pelo portão de k-anonimato.
type IntelStore interface {
	// FindCompany localiza a empresa que melhor corresponde à chave
	// normalizada e devolve sua contagem de denúncias ativas. Devolve
	// ErrNoCompanyMatch quando nada corresponde.
	FindCompany(ctx context.Context, companyKey string) (domain.CompanySignal, error)
}

// ReportStore expõe as operações administrativas sobre denúncias.
type ReportStore interface {
	ListRecent(ctx context.Context, limit int) ([]domain.Report, error)
	ApplyModeration(ctx context.Context, reportID string, action domain.ModerationAction) error
}
