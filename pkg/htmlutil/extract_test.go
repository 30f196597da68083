package htmlutil

import "testing"

func TestStripTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Codeforces 1250", "Codeforces 1250"},
		{"tags", "<td>Codeforces</td><td><span>1250</span></td>", "Codeforces 1250"},
		{"entities", "<b>CodeChef</b> 1650 &#9733;", "CodeChef 1650 ★"},
		{"script dropped", "<script>var x = 'AtCoder 9999';</script><p>AtCoder 1300</p>", "AtCoder 1300"},
		{"style dropped", "<style>.a{width:1234px}</style>LeetCode 1800", "LeetCode 1800"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripTags(tt.in); got != tt.want {
				t.Errorf("StripTags(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLooksLikeHTML(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"<!DOCTYPE html><html><body>x</body></html>", true},
		{"<div class=\"x\">Codeforces</div>", true},
		{"Title: raiseIQUnderflow\n\nCodeforces 1250", false},
		{"rating < 1200 > 800", false},
	}

	for _, tt := range tests {
		if got := LooksLikeHTML(tt.in); got != tt.want {
			t.Errorf("LooksLikeHTML(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTitle(t *testing.T) {
	if got := Title("<html><title> Coder &amp; Profile </title></html>"); got != "Coder & Profile" {
		t.Errorf("Title() = %q, want %q", got, "Coder & Profile")
	}
	if got := Title("no title here"); got != "" {
		t.Errorf("Title() = %q, want empty", got)
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound("<h1>404 Not Found</h1>") {
		t.Error("IsNotFound() = false for 404 page")
	}
	if IsNotFound("Codeforces 1250 Pupil") {
		t.Error("IsNotFound() = true for profile text")
	}
}
