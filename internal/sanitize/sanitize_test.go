package sanitize

import (
	"strings"
	"testing"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "  Oyakodon  ", want: "Oyakodon"},
		{name: "ampersand survives", in: "Curry & Rice", want: "Curry & Rice"},
		{name: "comparison survives", in: "1 < 2", want: "1 < 2"},
		{name: "tags stripped", in: "<b>Chop</b> onions", want: "Chop onions"},
		{name: "script dropped", in: "<script>alert(1)</script>Nap", want: "Nap"},
		{name: "encoded tag", in: "&lt;img src=x onerror=alert(1)&gt;", want: ""},
		{name: "encoded tag with text", in: "cat &lt;b&gt;nap&lt;/b&gt;", want: "cat nap"},
		{name: "double encoded tag", in: "&amp;lt;img src=x onerror=alert(1)&amp;gt;", want: ""},
		{name: "entity decoded", in: "caf&eacute;", want: "café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.in); got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTextNeverReturnsMarkup(t *testing.T) {
	in := "&lt;img src=x&gt;"
	for range 6 {
		in = strings.ReplaceAll(in, "&", "&amp;")
	}
	if got := Text(in); strings.Contains(got, "<img") {
		t.Errorf("Text returned live markup: %q", got)
	}
}
