package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeCompanyKey reduz um nome de empresa à chave canônica usada em
// buscas e agregações: minúsculas, sem acentos, tokens separados por hífen.
func NormalizeCompanyKey(name string) string {
	folded := foldDiacritics(strings.ToLower(strings.TrimSpace(name)))
	var b strings.Builder
	lastHyphen := true
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// NormalizePositionDetail canoniza o texto livre da vaga antes de compor a
// chave de unicidade: minúsculas, sem acentos, espaços colapsados.
func NormalizePositionDetail(detail string) string {
	folded := foldDiacritics(strings.ToLower(strings.TrimSpace(detail)))
	return strings.Join(strings.Fields(folded), " ")
}

func foldDiacritics(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return out
}
