package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, "b1", BuildID("b1")},
		{"Stage", KeyStage, "exported", Stage("exported")},
		{"Theme", KeyTheme, "base", Theme("base")},
		{"Section", KeySection, "projects", Section("projects")},
		{"SectionType", KeySectionTyp, "blog", SectionType("blog")},
		{"Page", KeyPage, "index.gohtml", Page("index.gohtml")},
		{"Template", KeyTemplate, "sections/a.gohtml", Template("sections/a.gohtml")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"File", KeyFile, "one.md", File("one.md")},
		{"URL", KeyURL, "http://example", URL("http://example")},
		{"Key", KeyKey, "resume", Key("resume")},
		{"Type", KeyType, "str", Type("str")},
		{"Description", KeyDesc, "Your API key", Description("Your API key")},
		{"Output", KeyOutput, "site", Output("site")},
		{"Addr", KeyAddr, ":8080", Addr(":8080")},
		{"Event", KeyEvent, "WRITE", Event("WRITE")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

func TestErrorHelper(t *testing.T) {
	if attr := Error(nil); attr.Value.String() != "" {
		t.Fatalf("expected empty error string, got %s", attr.Value.String())
	}
	if attr := Error(errors.New("boom")); attr.Value.String() != "boom" {
		t.Fatalf("expected boom, got %s", attr.Value.String())
	}
}
