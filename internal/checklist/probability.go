package checklist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	types "github.com/visabuddy/visabuddy-backend/internal/domain"
	"github.com/visabuddy/visabuddy-backend/internal/platform/envutil"
	"github.com/visabuddy/visabuddy-backend/internal/platform/llm"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
)

// ProbabilityResponse is the approval-probability analysis surface. The
// numeric score always comes from the deterministic scorer; the model only
// contributes narrative risks and tips.
type ProbabilityResponse struct {
	Type            string        `json:"type"`
	VisaType        string        `json:"visaType"`
	Country         string        `json:"country"`
	Probability     Probability   `json:"probability"`
	MainRisks       []RiskText    `json:"mainRisks"`
	PositiveFactors []RiskText    `json:"positiveFactors"`
	ImprovementTips []TextTrilang `json:"improvementTips"`
}

type Probability struct {
	Percent int         `json:"percent"`
	Level   string      `json:"level"`
	Warning TextTrilang `json:"warning"`
}

type RiskText struct {
	Text   TextTrilang `json:"text"`
	Impact string      `json:"impact,omitempty"`
}

type TextTrilang struct {
	En string `json:"en"`
	Uz string `json:"uz"`
	Ru string `json:"ru"`
}

var probabilityWarning = TextTrilang{
	En: "This is a preliminary estimate, not an official decision. Only the consular officer decides.",
	Uz: "Bu dastlabki baho, rasmiy qaror emas. Qarorni faqat konsul qabul qiladi.",
	Ru: "Это предварительная оценка, а не официальное решение. Решение принимает только консул.",
}

// ProbabilityGenerator produces the analysis. Never fails: any model problem
// collapses into the deterministic fallback built from the risk score alone.
type ProbabilityGenerator struct {
	llm llm.Client
	log *logger.Logger

	temperature float64
	maxTokens   int
}

func NewProbabilityGenerator(client llm.Client, log *logger.Logger) *ProbabilityGenerator {
	return &ProbabilityGenerator{
		llm:         client,
		log:         log,
		temperature: envutil.Float("PROBABILITY_TEMPERATURE", 0.5),
		maxTokens:   envutil.Int("PROBABILITY_MAX_TOKENS", 1200),
	}
}

func (g *ProbabilityGenerator) Generate(ctx context.Context, cctx types.CanonicalContext) ProbabilityResponse {
	resp, err := g.fromModel(ctx, cctx)
	if err != nil {
		g.log.Warn("probability analysis degraded to deterministic fallback", "error", err)
		resp = g.fallback(cctx)
	}
	return g.normalize(resp, cctx)
}

func (g *ProbabilityGenerator) fromModel(ctx context.Context, cctx types.CanonicalContext) (ProbabilityResponse, error) {
	raw, err := g.llm.Generate(ctx, g.systemPrompt(cctx), g.userPrompt(cctx), llm.ModelConfig{
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return ProbabilityResponse{}, fmt.Errorf("%w: %v", ErrModelCall, err)
	}

	value, err := extractJSONValue(raw)
	if err != nil {
		return ProbabilityResponse{}, err
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return ProbabilityResponse{}, fmt.Errorf("%w: probability output is not an object", ErrExtraction)
	}

	buf, err := json.Marshal(obj)
	if err != nil {
		return ProbabilityResponse{}, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	var resp ProbabilityResponse
	if err := json.Unmarshal(buf, &resp); err != nil {
		return ProbabilityResponse{}, fmt.Errorf("%w: probability shape mismatch: %v", ErrSchemaHard, err)
	}
	return resp, nil
}

// normalize overrides everything the model is not trusted with: the numeric
// score and level come from the scorer, the warning is the fixed legal text,
// identity fields are forced, and arrays are non-nil.
func (g *ProbabilityGenerator) normalize(resp ProbabilityResponse, cctx types.CanonicalContext) ProbabilityResponse {
	percent := Clamp(cctx.Risk.ProbabilityPercent)

	resp.Type = "probability"
	resp.VisaType = cctx.Profile.VisaTypeCode
	resp.Country = cctx.Profile.DestinationCountryCode
	resp.Probability.Percent = percent
	resp.Probability.Level = LevelFor(percent)
	resp.Probability.Warning = probabilityWarning

	if resp.MainRisks == nil {
		resp.MainRisks = []RiskText{}
	}
	if resp.PositiveFactors == nil {
		resp.PositiveFactors = []RiskText{}
	}
	if resp.ImprovementTips == nil {
		resp.ImprovementTips = []TextTrilang{}
	}
	return resp
}

func (g *ProbabilityGenerator) systemPrompt(cctx types.CanonicalContext) string {
	return fmt.Sprintf(
		"You are a visa approval analyst for %s %s visa applications. "+
			"You explain risk factors and concrete improvements in three languages. "+
			"Respond with a single JSON object and nothing else.",
		cctx.Profile.DestinationCountryName, cctx.Profile.VisaTypeCode)
}

func (g *ProbabilityGenerator) userPrompt(cctx types.CanonicalContext) string {
	profileJSON, _ := json.MarshalIndent(cctx.Profile, "", "  ")

	var sb strings.Builder
	fmt.Fprintf(&sb, "Computed approval probability: %d%% (%s risk).\n",
		cctx.Risk.ProbabilityPercent, cctx.Risk.Level)
	fmt.Fprintf(&sb, "Identified risk factors: %s\n", strings.Join(cctx.Risk.RiskFactors, ", "))
	fmt.Fprintf(&sb, "Identified positive factors: %s\n\n", strings.Join(cctx.Risk.PositiveFactors, ", "))
	sb.WriteString("APPLICANT PROFILE:\n")
	sb.Write(profileJSON)
	sb.WriteString(`

Explain the main risks, positive factors, and concrete improvement tips for this applicant.
Do NOT recompute the probability; explain the one given above.

Respond with ONLY this JSON structure:
{
  "mainRisks": [{"text": {"en": "...", "uz": "...", "ru": "..."}, "impact": "high"}],
  "positiveFactors": [{"text": {"en": "...", "uz": "...", "ru": "..."}}],
  "improvementTips": [{"en": "...", "uz": "...", "ru": "..."}]
}

"en" in English, "uz" in Uzbek (latin script), "ru" in Russian.
At most 4 entries per array. "impact" is one of: high, medium, low.
`)
	return sb.String()
}

// fallback renders the scorer's factor codes as canned trilingual text.
func (g *ProbabilityGenerator) fallback(cctx types.CanonicalContext) ProbabilityResponse {
	resp := ProbabilityResponse{}
	for _, factor := range cctx.Risk.RiskFactors {
		resp.MainRisks = append(resp.MainRisks, RiskText{Text: factorText(factor), Impact: "medium"})
	}
	if len(resp.MainRisks) == 0 {
		resp.MainRisks = []RiskText{{Text: TextTrilang{
			En: "Unable to analyze risks at this time.",
			Uz: "Hozircha xavflarni tahlil qilib bo'lmadi.",
			Ru: "Сейчас не удалось проанализировать риски.",
		}}}
	}
	for _, factor := range cctx.Risk.PositiveFactors {
		resp.PositiveFactors = append(resp.PositiveFactors, RiskText{Text: factorText(factor)})
	}
	resp.ImprovementTips = []TextTrilang{
		{
			En: "Collect bank statements for the last 6 months showing a stable balance.",
			Uz: "Oxirgi 6 oylik barqaror balansni ko'rsatuvchi bank ko'chirmalarini to'plang.",
			Ru: "Соберите выписки из банка за последние 6 месяцев со стабильным балансом.",
		},
		{
			En: "Prepare documents proving strong ties to your home country: property, family, employment.",
			Uz: "Vatan bilan mustahkam aloqalarni isbotlovchi hujjatlarni tayyorlang: mulk, oila, ish.",
			Ru: "Подготовьте документы о прочных связях с родиной: недвижимость, семья, работа.",
		},
		{
			En: "Make sure every document in the checklist is complete before applying.",
			Uz: "Ariza topshirishdan oldin ro'yxatdagi barcha hujjatlar to'liq ekaniga ishonch hosil qiling.",
			Ru: "Перед подачей убедитесь, что все документы из списка собраны полностью.",
		},
	}
	return resp
}

func factorText(factor string) TextTrilang {
	switch factor {
	case FactorLowTouristFunds:
		return TextTrilang{
			En: "Bank balance is low for a tourist visa application.",
			Uz: "Turist vizasi uchun bank balansi past.",
			Ru: "Баланс счёта низкий для туристической визы.",
		}
	case FactorLowStudentFunds:
		return TextTrilang{
			En: "Funds are insufficient to cover study and living costs.",
			Uz: "Mablag' o'qish va yashash xarajatlarini qoplash uchun yetarli emas.",
			Ru: "Средств недостаточно для оплаты учёбы и проживания.",
		}
	case FactorPreviousRejection:
		return TextTrilang{
			En: "A previous visa rejection increases scrutiny of this application.",
			Uz: "Avvalgi viza rad etilishi arizaga e'tiborni kuchaytiradi.",
			Ru: "Предыдущий отказ в визе усиливает проверку этой заявки.",
		}
	case FactorPreviousOverstay:
		return TextTrilang{
			En: "A previous overstay is a serious negative signal.",
			Uz: "Avvalgi muddatdan ortiq qolish jiddiy salbiy omil.",
			Ru: "Предыдущее нарушение сроков пребывания - серьёзный негативный фактор.",
		}
	case FactorIncompleteData:
		return TextTrilang{
			En: "The questionnaire is incomplete, so the estimate uses defaults.",
			Uz: "So'rovnoma to'liq emas, baho standart qiymatlarga asoslangan.",
			Ru: "Анкета заполнена не полностью, оценка использует значения по умолчанию.",
		}
	case PositiveOwnsProperty:
		return TextTrilang{
			En: "Property ownership in the home country strengthens ties.",
			Uz: "Vatandagi mulk egaligi aloqalarni mustahkamlaydi.",
			Ru: "Недвижимость на родине укрепляет связи.",
		}
	case PositiveFamilyTies:
		return TextTrilang{
			En: "Family in the home country is a strong reason to return.",
			Uz: "Vatandagi oila qaytish uchun kuchli sabab.",
			Ru: "Семья на родине - веская причина вернуться.",
		}
	default:
		return TextTrilang{En: humanizeDocumentType(factor), Uz: humanizeDocumentType(factor), Ru: humanizeDocumentType(factor)}
	}
}
