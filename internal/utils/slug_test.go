package utils

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello-world"},
		{"  Go  и  backend  ", "go-backend"},
		{"UPPER case 2024", "upper-case-2024"},
		{"---", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, ожидалось %q", c.in, got, c.want)
		}
	}
}

func TestBlogID_UniqueSuffix(t *testing.T) {
	a := BlogID("Hello World")
	b := BlogID("Hello World")

	if !strings.HasPrefix(a, "hello-world-") {
		t.Fatalf("ожидался префикс hello-world-, получили %q", a)
	}
	if a == b {
		t.Fatal("одинаковые заголовки должны давать разные идентификаторы")
	}
}

func TestBlogID_EmptySlug(t *testing.T) {
	id := BlogID("!!!")
	if id == "" || strings.HasPrefix(id, "-") {
		t.Fatalf("идентификатор без слага должен быть только суффиксом: %q", id)
	}
}
