package checklist

import (
	"context"
	"strings"

	types "github.com/visabuddy/visabuddy-backend/internal/domain"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
)

// Translator resolves trilingual names and descriptions for document types,
// preferring stored rows and falling back to a built-in table, then to a
// humanized form of the type itself. Lookup never returns empty names.
type Translator struct {
	store TranslationStore
	log   *logger.Logger
}

func NewTranslator(store TranslationStore, log *logger.Logger) *Translator {
	return &Translator{store: store, log: log}
}

func (t *Translator) Lookup(ctx context.Context, documentType string) types.DocumentTranslation {
	if t.store != nil {
		row, err := t.store.GetDocumentTranslation(ctx, documentType)
		if err != nil {
			t.log.Warn("translation lookup failed, using builtin", "document_type", documentType, "error", err)
		} else if row != nil && row.NameEn != "" {
			return *row
		}
	}
	if builtin, ok := builtinTranslations[documentType]; ok {
		builtin.DocumentType = documentType
		return builtin
	}
	name := humanizeDocumentType(documentType)
	return types.DocumentTranslation{
		DocumentType: documentType,
		NameEn:       name,
		NameUz:       name,
		NameRu:       name,
	}
}

func humanizeDocumentType(documentType string) string {
	words := strings.Split(strings.ReplaceAll(documentType, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Seed translations for the document types every supported rule set uses.
// Database rows take precedence, so this table only has to cover the common
// core.
var builtinTranslations = map[string]types.DocumentTranslation{
	"passport": {
		NameEn:        "Valid Passport",
		NameUz:        "Amaldagi pasport",
		NameRu:        "Действующий загранпаспорт",
		DescriptionEn: "Passport valid for at least 6 months beyond your planned stay, with at least two blank pages.",
		DescriptionUz: "Rejalashtirilgan safardan keyin kamida 6 oy amal qiladigan, kamida ikkita bo'sh sahifali pasport.",
		DescriptionRu: "Паспорт, действительный не менее 6 месяцев после планируемой поездки, минимум с двумя пустыми страницами.",
	},
	"application_form": {
		NameEn:        "Visa Application Form",
		NameUz:        "Viza arizasi shakli",
		NameRu:        "Анкета на визу",
		DescriptionEn: "Completed and signed visa application form.",
		DescriptionUz: "To'ldirilgan va imzolangan viza arizasi shakli.",
		DescriptionRu: "Заполненная и подписанная визовая анкета.",
	},
	"photo": {
		NameEn:        "Passport Photo",
		NameUz:        "Pasport uchun surat",
		NameRu:        "Фотография паспортного формата",
		DescriptionEn: "Recent color photo meeting the embassy's size and background requirements.",
		DescriptionUz: "Elchixona talablariga mos o'lcham va fondagi yangi rangli surat.",
		DescriptionRu: "Недавняя цветная фотография, соответствующая требованиям посольства к размеру и фону.",
	},
	"financial_proof": {
		NameEn:        "Proof of Financial Means",
		NameUz:        "Moliyaviy ta'minot isboti",
		NameRu:        "Подтверждение финансовых средств",
		DescriptionEn: "Evidence of sufficient funds for the trip, such as bank statements or a sponsor letter.",
		DescriptionUz: "Safar uchun yetarli mablag' borligining isboti, masalan bank ko'chirmasi yoki homiy xati.",
		DescriptionRu: "Доказательство достаточных средств на поездку, например выписка из банка или письмо спонсора.",
	},
	"bank_statement": {
		NameEn:        "Bank Statement",
		NameUz:        "Bank ko'chirmasi",
		NameRu:        "Выписка из банка",
		DescriptionEn: "Bank statements covering the last 3-6 months showing regular balance and transactions.",
		DescriptionUz: "Oxirgi 3-6 oylik balans va operatsiyalarni ko'rsatuvchi bank ko'chirmalari.",
		DescriptionRu: "Выписки из банка за последние 3-6 месяцев с балансом и операциями.",
	},
	"acceptance_letter": {
		NameEn:        "Acceptance Letter",
		NameUz:        "Qabul xati",
		NameRu:        "Письмо о зачислении",
		DescriptionEn: "Official acceptance or enrollment letter from the receiving institution.",
		DescriptionUz: "Qabul qiluvchi muassasadan rasmiy qabul yoki o'qishga kirish xati.",
		DescriptionRu: "Официальное письмо о приёме или зачислении от принимающего учреждения.",
	},
}
