package checklist

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	types "github.com/visabuddy/visabuddy-backend/internal/domain"
	"github.com/visabuddy/visabuddy-backend/internal/platform/envutil"
)

// PromptInput is everything a builder may draw on. Playbook and
// EmbassyContent are advisory and may be nil/empty.
type PromptInput struct {
	Context        types.CanonicalContext
	Rules          *types.RuleSetData
	Base           []types.BaseChecklistItem
	Playbook       *types.Playbook
	EmbassyContent string
}

// PromptBuilder produces the system and user prompts for one enrichment call.
// Implementations must be deterministic over their input.
type PromptBuilder interface {
	System(in PromptInput) string
	User(in PromptInput) string
}

// NewPromptBuilder selects the builder variant once at startup.
// CHECKLIST_PROMPT_VARIANT=playbook enables the playbook-augmented builder.
func NewPromptBuilder() PromptBuilder {
	if envutil.Str("CHECKLIST_PROMPT_VARIANT", "standard") == "playbook" {
		return &PlaybookPromptBuilder{}
	}
	return &StandardPromptBuilder{}
}

const embassyContentLimit = 4000

type StandardPromptBuilder struct{}

func (b *StandardPromptBuilder) System(in PromptInput) string {
	return systemPrompt(in)
}

func (b *StandardPromptBuilder) User(in PromptInput) string {
	var sb strings.Builder
	writeCorePrompt(&sb, in)
	writeOutputContract(&sb, in.Context.Profile.AppLanguage)
	return sb.String()
}

// PlaybookPromptBuilder additionally embeds country playbook hints and
// truncated embassy source text. Neither changes the document contract, only
// the quality of per-item reasoning.
type PlaybookPromptBuilder struct{}

func (b *PlaybookPromptBuilder) System(in PromptInput) string {
	return systemPrompt(in)
}

func (b *PlaybookPromptBuilder) User(in PromptInput) string {
	var sb strings.Builder
	writeCorePrompt(&sb, in)

	if in.Playbook != nil && len(in.Playbook.Hints) > 0 {
		sb.WriteString("\nCOUNTRY-SPECIFIC GUIDANCE (advisory, do not add or remove documents because of it):\n")
		for _, hint := range in.Playbook.Hints {
			sb.WriteString("- ")
			sb.WriteString(hint)
			sb.WriteString("\n")
		}
	}
	if content := strings.TrimSpace(in.EmbassyContent); content != "" {
		if len(content) > embassyContentLimit {
			// Back off to a rune boundary so Cyrillic text is not cut mid-character.
			cut := embassyContentLimit
			for cut > 0 && !utf8.RuneStart(content[cut]) {
				cut--
			}
			content = content[:cut]
		}
		sb.WriteString("\nOFFICIAL EMBASSY SOURCE TEXT (excerpt, advisory):\n")
		sb.WriteString(content)
		sb.WriteString("\n")
	}

	writeOutputContract(&sb, in.Context.Profile.AppLanguage)
	return sb.String()
}

func systemPrompt(in PromptInput) string {
	return fmt.Sprintf(
		"You are a senior visa consultant with 20 years of experience preparing %s visa applications for %s. "+
			"You know exactly which documents consular officers scrutinize and why applications get refused. "+
			"You respond with a single JSON object and nothing else: no markdown, no commentary, no reasoning text outside the JSON.",
		in.Context.Profile.VisaTypeCode, in.Context.Profile.DestinationCountryName)
}

func writeCorePrompt(sb *strings.Builder, in PromptInput) {
	profileJSON, _ := json.MarshalIndent(in.Context.Profile, "", "  ")
	riskJSON, _ := json.MarshalIndent(in.Context.Risk, "", "  ")

	fmt.Fprintf(sb, "An applicant from %s is applying for a %s visa to %s.\n\n",
		in.Context.Profile.Nationality, in.Context.Profile.VisaTypeCode, in.Context.Profile.DestinationCountryName)

	sb.WriteString("APPLICANT PROFILE:\n")
	sb.Write(profileJSON)
	sb.WriteString("\n\nRISK ASSESSMENT:\n")
	sb.Write(riskJSON)

	sb.WriteString("\n\nBASE DOCUMENT LIST (authoritative, from official requirements):\n")
	for _, item := range in.Base {
		fmt.Fprintf(sb, "- %s (category: %s)\n", item.DocumentType, item.Category)
	}

	if in.Rules != nil {
		if len(in.Rules.FinancialRequirements) > 0 {
			finJSON, _ := json.Marshal(in.Rules.FinancialRequirements)
			sb.WriteString("\nFINANCIAL REQUIREMENTS:\n")
			sb.Write(finJSON)
			sb.WriteString("\n")
		}
		if len(in.Rules.AdditionalRequirements) > 0 {
			sb.WriteString("\nADDITIONAL REQUIREMENTS:\n")
			for _, req := range in.Rules.AdditionalRequirements {
				sb.WriteString("- ")
				sb.WriteString(req)
				sb.WriteString("\n")
			}
		}
	}

	sb.WriteString("\nYOUR TASK:\n")
	sb.WriteString("1. Include EVERY document from the base list, personalized for this applicant. Never drop, rename, or recategorize a base document.\n")
	sb.WriteString("2. For each document explain concretely why it matters for THIS applicant given their risk factors.\n")
	sb.WriteString("3. You may suggest up to 3 additional supporting documents that strengthen this specific application. Mark them as \"highly_recommended\" or \"optional\", never \"required\".\n")
	sb.WriteString("4. Where the applicant shows financial or ties weaknesses, give specific mitigation advice in financialDetails/tiesDetails.\n")
}

func writeOutputContract(sb *strings.Builder, lang string) {
	sb.WriteString("\nRespond with ONLY this JSON structure:\n")
	sb.WriteString(`{
  "checklist": [
    {
      "documentType": "passport",
      "category": "required",
      "required": true,
      "name": "...",
      "nameUz": "...",
      "nameRu": "...",
      "description": "...",
      "descriptionUz": "...",
      "descriptionRu": "...",
      "appliesToThisApplicant": true,
      "reasonIfApplies": "...",
      "group": "identity",
      "priority": 1,
      "dependsOn": [],
      "expertReasoning": "...",
      "financialDetails": "...",
      "tiesDetails": "..."
    }
  ]
}
`)
	sb.WriteString("\nLANGUAGE RULES:\n")
	sb.WriteString("- \"name\" and \"description\" in English.\n")
	sb.WriteString("- \"nameUz\" and \"descriptionUz\" in Uzbek (latin script).\n")
	sb.WriteString("- \"nameRu\" and \"descriptionRu\" in Russian.\n")
	fmt.Fprintf(sb, "- Write \"reasonIfApplies\", \"expertReasoning\", \"financialDetails\" and \"tiesDetails\" in the applicant's app language: %q.\n", lang)
	sb.WriteString("- \"group\" must be one of: identity, financial, ties, employment, travel, education, insurance, accommodation, other.\n")
	sb.WriteString("- \"priority\" is a positive integer, 1 is most urgent.\n")
}
