// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package i18n

import "testing"

func TestInitAndAvailableLocales(t *testing.T) {
	Init("en")
	if GetLang() != "en" {
		t.Fatalf("expected lang 'en', got %q", GetLang())
	}
	av := GetAvailableLocales()
	for _, k := range []string{"en", "de"} {
		if _, ok := av[k]; !ok {
			t.Fatalf("expected available locale %q, got %v", k, av)
		}
	}
	if av["de"] != "Deutsch" {
		t.Fatalf("unexpected display name for de: %q", av["de"])
	}
}

func TestT_BasicAndFormatting(t *testing.T) {
	Init("en")
	if got := T("menu.subnet_calculator"); got != "Subnet calculator" {
		t.Fatalf("unexpected translation %q", got)
	}
	if got := T("validation.vlan.range", "4095"); got != `VLAN ID "4095" must be between 1 and 4094` {
		t.Fatalf("unexpected formatted translation: %q", got)
	}

	SetLang("de")
	defer Init("en")
	if GetLang() != "de" {
		t.Fatalf("expected lang 'de', got %q", GetLang())
	}
	if got := T("menu.subnet_calculator"); got != "Subnetzrechner" {
		t.Fatalf("expected German translation, got %q", got)
	}
}

func TestT_UnknownIDFallsBack(t *testing.T) {
	Init("en")
	if got := T("no.such.key"); got != "no.such.key" {
		t.Fatalf("expected id fallback, got %q", got)
	}
}

func TestT_UnknownLanguageUsesEnglish(t *testing.T) {
	Init("xx")
	defer Init("en")
	if got := T("menu.subnet_calculator"); got != "Subnet calculator" {
		t.Fatalf("expected English fallback, got %q", got)
	}
}
