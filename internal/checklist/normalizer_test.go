package checklist

import (
	"testing"
)

const v2Payload = `{
  "version": "2.0",
  "personal": {"citizenship": "UZ", "residenceCountry": "UZ", "age": 29, "appLanguage": "ru"},
  "travel": {
    "destinationCountry": "US",
    "destinationCountryName": "United States",
    "visaType": "tourist",
    "hasInternationalTravel": true,
    "previousVisaRejections": true
  },
  "finances": {"bankBalanceUSD": 1500, "sponsorType": "self"},
  "ties": {"hasProperty": true, "hasFamily": false},
  "documents": {"hasPassport": true, "hasBankStatement": true}
}`

const v1Payload = `{
  "_hasSummary": true,
  "summary": {
    "citizenship": "UZ",
    "currentCountry": "UZ",
    "targetCountry": "DE",
    "visaType": "student",
    "age": 22,
    "bankBalance": 12000,
    "sponsor": "parents",
    "hasProperty": false,
    "hasFamilyInUzbekistan": true,
    "traveledAbroad": false,
    "previousRejections": false,
    "previousOverstay": false,
    "language": "uz",
    "documents": ["passport", "bank statement"]
  }
}`

func TestClassifyV2(t *testing.T) {
	if got := Classify([]byte(v2Payload)); got != FormatV2 {
		t.Fatalf("expected v2, got %s", got)
	}
}

func TestClassifyV1Summary(t *testing.T) {
	if got := Classify([]byte(v1Payload)); got != FormatV1Summary {
		t.Fatalf("expected v1_summary, got %s", got)
	}
}

func TestClassifyUnknownShapes(t *testing.T) {
	cases := []string{
		``,
		`not json at all`,
		`{"version": "1.0"}`,
		`{"version": "2.0"}`,
		`{"_hasSummary": true, "summary": {}}`,
		`{"_hasSummary": true, "summary": {"citizenship": "  "}}`,
		`[1, 2, 3]`,
	}
	for _, raw := range cases {
		if got := Classify([]byte(raw)); got != FormatUnknown {
			t.Fatalf("Classify(%q) = %s, want unknown", raw, got)
		}
	}
}

func TestNormalizeV2(t *testing.T) {
	profile, format, _ := Normalize([]byte(v2Payload))
	if format != FormatV2 {
		t.Fatalf("expected v2, got %s", format)
	}
	if profile.Nationality != "UZ" || profile.DestinationCountryCode != "US" {
		t.Fatalf("unexpected geography: %+v", profile)
	}
	if profile.Financial.BankBalanceUSD == nil || *profile.Financial.BankBalanceUSD != 1500 {
		t.Fatalf("bank balance not mapped: %+v", profile.Financial)
	}
	if !profile.TravelHistory.PreviousVisaRejections {
		t.Fatal("rejection flag not mapped")
	}
	if !profile.Ties.HasProperty || profile.Ties.HasFamily {
		t.Fatalf("ties flags wrong: %+v", profile.Ties)
	}
	if profile.Age == nil || *profile.Age != 29 {
		t.Fatalf("age not mapped: %v", profile.Age)
	}
	if profile.AppLanguage != "ru" {
		t.Fatalf("app language not mapped: %s", profile.AppLanguage)
	}
}

func TestNormalizeV1Summary(t *testing.T) {
	profile, format, _ := Normalize([]byte(v1Payload))
	if format != FormatV1Summary {
		t.Fatalf("expected v1_summary, got %s", format)
	}
	if profile.DestinationCountryCode != "DE" || profile.VisaTypeCode != "student" {
		t.Fatalf("unexpected mapping: %+v", profile)
	}
	if profile.Financial.SponsorType != "parents" {
		t.Fatalf("sponsor not mapped: %s", profile.Financial.SponsorType)
	}
	if !profile.Ties.HasFamily {
		t.Fatal("family flag not mapped")
	}
	if !profile.Documents.HasPassport || !profile.Documents.HasBankStatement {
		t.Fatalf("document list not mapped: %+v", profile.Documents)
	}
}

func TestNormalizeUnknownUsesDefaults(t *testing.T) {
	profile, format, fallbacks := Normalize(nil)
	if format != FormatUnknown {
		t.Fatalf("expected unknown, got %s", format)
	}
	if profile.Nationality != DefaultNationality {
		t.Fatalf("expected default nationality, got %s", profile.Nationality)
	}
	if profile.Financial.SponsorType != DefaultSponsorType {
		t.Fatalf("expected default sponsor, got %s", profile.Financial.SponsorType)
	}
	if profile.Financial.BankBalanceUSD != nil {
		t.Fatal("unknown numerics must stay nil")
	}
	if profile.Ties.HasProperty || profile.TravelHistory.PreviousOverstays {
		t.Fatal("boolean defaults must be false")
	}
	if len(fallbacks) == 0 {
		t.Fatal("expected fallback fields recorded")
	}
}

func TestNormalizeRecordsFallbackFields(t *testing.T) {
	raw := `{"version": "2.0", "personal": {"citizenship": "KZ"}, "travel": {}}`
	profile, _, fallbacks := Normalize([]byte(raw))
	if profile.Nationality != "KZ" {
		t.Fatalf("explicit field must win: %s", profile.Nationality)
	}
	if !containsString(fallbacks, "visaTypeCode") {
		t.Fatalf("missing visaTypeCode fallback: %v", fallbacks)
	}
	if containsString(fallbacks, "nationality") {
		t.Fatalf("nationality was provided, must not be a fallback: %v", fallbacks)
	}
}

func TestNormalizeIsPure(t *testing.T) {
	raw := []byte(v2Payload)
	a, _, _ := Normalize(raw)
	b, _, _ := Normalize(raw)
	if a.Nationality != b.Nationality || *a.Financial.BankBalanceUSD != *b.Financial.BankBalanceUSD {
		t.Fatal("repeated normalization diverged")
	}
}
