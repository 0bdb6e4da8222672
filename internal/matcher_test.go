package internal

import (
	"errors"
	"reflect"
	"testing"
)

func compile(t *testing.T, opts SearchOptions) *SearchContext {
	t.Helper()
	sc, err := Compile(opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return sc
}

func TestCompile_InvalidRegex(t *testing.T) {
	_, err := Compile(SearchOptions{Query: "[invalid", UseRegex: true})
	if !errors.Is(err, ErrBadPattern) {
		t.Fatalf("expected ErrBadPattern, got %v", err)
	}
}

func TestCompile_ValidRegex(t *testing.T) {
	sc := compile(t, SearchOptions{Query: `\d+`, UseRegex: true})
	if !sc.Matches("file123") || sc.Matches("abc") {
		t.Error("regex matching wrong")
	}
}

func TestMatches_CaseInsensitive(t *testing.T) {
	sc := compile(t, SearchOptions{Query: "Test"})
	for _, s := range []string{"Test", "test", "TEST", "This is a Test"} {
		if !sc.Matches(s) {
			t.Errorf("expected %q to match", s)
		}
	}
	if sc.Matches("No hit here") {
		t.Error("unexpected match")
	}
}

func TestMatches_CaseSensitive(t *testing.T) {
	sc := compile(t, SearchOptions{Query: "Test", CaseSensitive: true})
	if !sc.Matches("a Test file") {
		t.Error("expected exact-case substring to match")
	}
	if sc.Matches("test") || sc.Matches("TEST") {
		t.Error("case-sensitive query matched wrong case")
	}
}

func TestMatches_EmptyQuery(t *testing.T) {
	sc := compile(t, SearchOptions{Query: ""})
	if !sc.Matches("anything") || !sc.Matches("") {
		t.Error("empty query must match everything")
	}
}

func TestMatches_RegexCaseSensitivity(t *testing.T) {
	sc := compile(t, SearchOptions{Query: "Test", UseRegex: true, CaseSensitive: true})
	if sc.Matches("test") {
		t.Error("case-sensitive regex matched wrong case")
	}
	sc = compile(t, SearchOptions{Query: "Test", UseRegex: true})
	if !sc.Matches("test") {
		t.Error("insensitive regex should match")
	}
}

func TestWildcard_Translation(t *testing.T) {
	cases := []struct {
		query string
		text  string
		want  bool
	}{
		{"*foo", "xfoo", true},
		{"*foo", "foo", true},
		{"*foo", "foox", false},
		{"foo*", "foox", true},
		{"foo*", "foo", true},
		{"foo*", "xfoo", false},
		{"f?o", "foo", true},
		{"f?o", "fio", true},
		{"f?o", "fo", false},
		{"f?o", "fioo", false},
		{"User*Service", "UserAuthService", true},
		{"User*Service", "UserController", false},
		{"*User*Controller*", "AdminUserControllerImpl", true},
	}
	for _, c := range cases {
		sc := compile(t, SearchOptions{Query: c.query})
		if got := sc.Matches(c.text); got != c.want {
			t.Errorf("%q vs %q: got %v, want %v", c.query, c.text, got, c.want)
		}
	}
}

func TestWildcard_EscapesMetacharacters(t *testing.T) {
	sc := compile(t, SearchOptions{Query: "User*.java"})
	if !sc.Matches("UserController.java") || !sc.Matches("User.java") {
		t.Error("dot should be literal, star a wildcard")
	}
	if sc.Matches("UserControllerXjava") {
		t.Error("the dot must not act as a regex wildcard")
	}
}

func TestWildcard_CaseInsensitive(t *testing.T) {
	sc := compile(t, SearchOptions{Query: "*CONTROLLER"})
	if !sc.Matches("UserController") || !sc.Matches("usercontroller") {
		t.Error("wildcard matching should fold case by default")
	}
}

func TestNormalizeExcludes(t *testing.T) {
	got := NormalizeExcludes(".EXE, dll , ,.Jpg")
	want := []string{".exe", ".dll", ".jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if NormalizeExcludes("") != nil {
		t.Error("empty input should yield no entries")
	}
}

func TestCamelCase_Basic(t *testing.T) {
	sc := compile(t, SearchOptions{Query: "UC"})
	for _, s := range []string{"UserController", "UsersController", "UpdateController"} {
		if !sc.Matches(s) {
			t.Errorf("UC should match %q", s)
		}
	}
	for _, s := range []string{"usercontroller", "Usercontroller"} {
		if sc.Matches(s) {
			t.Errorf("UC should not match %q", s)
		}
	}
}

func TestCamelCase_WithDigits(t *testing.T) {
	sc := compile(t, SearchOptions{Query: "U2C"})
	if !sc.Matches("User2Controller") {
		t.Error("U2C should match User2Controller")
	}
	if sc.Matches("UserController") {
		t.Error("U2C should not match UserController")
	}
}

func TestCamelCase_LongPattern(t *testing.T) {
	sc := compile(t, SearchOptions{Query: "UCS"})
	if !sc.Matches("UserControllerService") {
		t.Error("UCS should match UserControllerService")
	}
	if sc.Matches("UserService") {
		t.Error("UCS should not match UserService")
	}
}

func TestCamelCase_EmbeddedHumps(t *testing.T) {
	// The humps need not start the word.
	sc := compile(t, SearchOptions{Query: "UC"})
	if !sc.Matches("ABUC") || !sc.Matches("testUCvalue") {
		t.Error("humps anywhere in the text should count")
	}
}

func TestCamelCase_SubstringFallback(t *testing.T) {
	// "UC" never lines up with the humps of "theucfile", but plain
	// containment still applies.
	sc := compile(t, SearchOptions{Query: "UC"})
	if !sc.Matches("theucfile") {
		t.Error("expected substring fallback to fire")
	}
}

func TestCamelCase_SingleLetterNotCamel(t *testing.T) {
	sc := compile(t, SearchOptions{Query: "U"})
	if !sc.Matches("user") {
		t.Error("single uppercase letter is a plain substring query")
	}
}

func TestCamelCase_MixedCaseNotCamel(t *testing.T) {
	sc := compile(t, SearchOptions{Query: "User"})
	if !sc.Matches("user") || !sc.Matches("MyUser") {
		t.Error("mixed-case query is a plain substring query")
	}
}
