package telegram

import "testing"

func TestEscapeMarkdownV2(t *testing.T) {
	t.Parallel()

	got := EscapeMarkdownV2("a_b*c[d]e(f)g~h`i>j#k+l-m=n|o{p}q.r!s")
	want := `a\_b\*c\[d\]e\(f\)g\~h` + "\\`" + `i\>j\#k\+l\-m\=n\|o\{p\}q\.r\!s`
	if got != want {
		t.Fatalf("escape = %q, want %q", got, want)
	}
}

func TestEscapeLeavesPlainTextAlone(t *testing.T) {
	t.Parallel()

	const text = "plain words and unicode: привет 你好"
	if got := EscapeMarkdownV2(text); got != text {
		t.Fatalf("escape changed plain text: %q", got)
	}
}

func TestEscapeUnescapeRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []string{
		"func main() { fmt.Println(`hi`) }",
		"```already fenced```",
		"nested \\ backslash",
		`re := regexp.MustCompile("\.")`,
		`path\*glob and \\ doubled`,
		"trailing backslash \\",
		"",
		"dots. and! marks?",
	}

	for _, tc := range cases {
		if got := UnescapeMarkdownV2(EscapeMarkdownV2(tc)); got != tc {
			t.Fatalf("round trip of %q = %q", tc, got)
		}
	}
}
