package checklist

import (
	"strings"
	"testing"
	"unicode/utf8"

	types "github.com/visabuddy/visabuddy-backend/internal/domain"
)

func promptInput() PromptInput {
	return PromptInput{
		Context: BuildContext([]byte(v2Payload)),
		Rules:   sampleRules(),
		Base: []types.BaseChecklistItem{
			{DocumentType: "passport", Category: types.CategoryRequired, Required: true},
			{DocumentType: "bank_statement", Category: types.CategoryRequired, Required: true},
		},
	}
}

func TestStandardPromptMentionsEveryBaseDocument(t *testing.T) {
	user := (&StandardPromptBuilder{}).User(promptInput())
	for _, dt := range []string{"passport", "bank_statement"} {
		if !strings.Contains(user, dt) {
			t.Fatalf("prompt missing base document %s", dt)
		}
	}
	if !strings.Contains(user, "up to 3 additional") {
		t.Fatal("extras limit missing from prompt")
	}
}

func TestStandardPromptIsDeterministic(t *testing.T) {
	b := &StandardPromptBuilder{}
	in := promptInput()
	if b.User(in) != b.User(in) || b.System(in) != b.System(in) {
		t.Fatal("prompt builder must be deterministic")
	}
}

func TestPlaybookPromptEmbedsHints(t *testing.T) {
	in := promptInput()
	in.Playbook = &types.Playbook{
		CountryCode: "US",
		Category:    "tourist",
		Hints:       []string{"interviews focus on employment ties"},
	}
	user := (&PlaybookPromptBuilder{}).User(in)
	if !strings.Contains(user, "interviews focus on employment ties") {
		t.Fatal("playbook hint missing from prompt")
	}
}

func TestPlaybookPromptTruncatesEmbassyContent(t *testing.T) {
	in := promptInput()
	in.EmbassyContent = strings.Repeat("x", embassyContentLimit+5000)
	user := (&PlaybookPromptBuilder{}).User(in)
	if strings.Contains(user, strings.Repeat("x", embassyContentLimit+1)) {
		t.Fatal("embassy content must be truncated")
	}
	if !strings.Contains(user, strings.Repeat("x", 100)) {
		t.Fatal("truncated embassy content must still be present")
	}
}

func TestPlaybookPromptOmitsEmptyAdvisorySections(t *testing.T) {
	user := (&PlaybookPromptBuilder{}).User(promptInput())
	if strings.Contains(user, "COUNTRY-SPECIFIC GUIDANCE") {
		t.Fatal("hint section must be omitted without a playbook")
	}
	if strings.Contains(user, "OFFICIAL EMBASSY SOURCE TEXT") {
		t.Fatal("embassy section must be omitted without content")
	}
}

func TestPlaybookPromptTruncatesOnRuneBoundary(t *testing.T) {
	in := promptInput()
	// One ASCII byte shifts every two-byte Cyrillic rune onto an odd offset,
	// so a byte-length cut would land mid-rune.
	in.EmbassyContent = "a" + strings.Repeat("ф", embassyContentLimit)
	user := (&PlaybookPromptBuilder{}).User(in)
	if !utf8.ValidString(user) {
		t.Fatal("truncation must not split a multi-byte character")
	}
	if !strings.Contains(user, "OFFICIAL EMBASSY SOURCE TEXT") {
		t.Fatal("embassy section missing")
	}
}
