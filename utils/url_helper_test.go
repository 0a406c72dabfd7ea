package utils

import "testing"

func TestBuildSearchURL(t *testing.T) {
	cases := []struct {
		base, keyword, category, want string
	}{
		{"https://demandvape.com", "xyz123", "1096",
			"https://demandvape.com/index.php?route=product/search&search=xyz123&category_id=1096"},
		{"https://demandvape.com/", "geek bar", "1096",
			"https://demandvape.com/index.php?route=product/search&search=geek%20bar&category_id=1096"},
		{"https://demandvape.com", "a&b=c+d", "7",
			"https://demandvape.com/index.php?route=product/search&search=a%26b%3Dc%2Bd&category_id=7"},
		{"https://demandvape.com", "10/20 mg #1?", "1096",
			"https://demandvape.com/index.php?route=product/search&search=10/20%20mg%20%231%3F&category_id=1096"},
		{"https://demandvape.com", "Crème brûlée", "1096",
			"https://demandvape.com/index.php?route=product/search&search=Cr%C3%A8me%20br%C3%BBl%C3%A9e&category_id=1096"},
		{"https://demandvape.com", "a-b_c.d~e", "1096",
			"https://demandvape.com/index.php?route=product/search&search=a-b_c.d~e&category_id=1096"},
	}
	for _, c := range cases {
		if got := BuildSearchURL(c.base, c.keyword, c.category); got != c.want {
			t.Errorf("BuildSearchURL(%q) = %q, want %q", c.keyword, got, c.want)
		}
	}
}

func TestResolveURL(t *testing.T) {
	cases := []struct {
		base, ref, want string
	}{
		{"https://demandvape.com/a/b", "/item?id=1", "https://demandvape.com/item?id=1"},
		{"https://demandvape.com/a/b", "c.jpg", "https://demandvape.com/a/c.jpg"},
		{"https://demandvape.com/a/b", "https://cdn.example.com/x.png", "https://cdn.example.com/x.png"},
		{"https://demandvape.com/a/b", "  ", ""},
		{"", "/item", "/item"},
	}
	for _, c := range cases {
		if got := ResolveURL(c.base, c.ref); got != c.want {
			t.Errorf("ResolveURL(%q, %q) = %q, want %q", c.base, c.ref, got, c.want)
		}
	}
}

func TestSameURL(t *testing.T) {
	search := "https://demandvape.com/index.php?route=product/search&search=geek%20bar&category_id=1096"
	cases := []struct {
		other string
		want  bool
	}{
		{search, true},
		{"https://DemandVape.com/index.php?route=product/search&search=geek+bar&category_id=1096", true},
		{"https://demandvape.com/index.php?category_id=1096&route=product/search&search=geek%20bar", true},
		{"https://demandvape.com/index.php?route=product/product&product_id=55", false},
		{"https://demandvape.com/geek-bar-pulse", false},
		{"http://other.com/index.php?route=product/search&search=geek%20bar&category_id=1096", false},
	}
	for _, c := range cases {
		if got := SameURL(search, c.other); got != c.want {
			t.Errorf("SameURL(%q) = %v, want %v", c.other, got, c.want)
		}
	}
}
