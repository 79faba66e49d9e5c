package predict

import "testing"

func TestValidIntent(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"general", "pronouns", "verbs", "articles", "nouns", "places"} {
		if !ValidIntent(valid) {
			t.Errorf("ValidIntent(%q) = false; want true", valid)
		}
	}
	for _, invalid := range []string{"", "Verbs", "adjectives", "all", "general "} {
		if ValidIntent(invalid) {
			t.Errorf("ValidIntent(%q) = true; want false", invalid)
		}
	}
}

func TestSymbolID_Stable(t *testing.T) {
	t.Parallel()

	a := symbolID("en", "cookie")
	b := symbolID("en", " Cookie ") // id follows the normalized label
	if a != b {
		t.Errorf("symbolID not stable under normalization: %q vs %q", a, b)
	}
	if symbolID("en", "cookie") == symbolID("es", "cookie") {
		t.Error("symbolID identical across locales; want locale-scoped ids")
	}
	if symbolID("en", "cookie") == symbolID("en", "juice") {
		t.Error("symbolID identical for different labels")
	}
}

func TestNormalizeLabel(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"  Cookie ": "cookie",
		"COOKIE":    "cookie",
		"thank you": "thank you",
		"   ":       "",
	}
	for in, want := range cases {
		if got := normalizeLabel(in); got != want {
			t.Errorf("normalizeLabel(%q) = %q; want %q", in, got, want)
		}
	}
}
