package extractor

import (
	"strings"
	"testing"
)

func TestPageMetadata(t *testing.T) {
	story := strings.Repeat("<p>This pie has been in the family for generations, and every autumn "+
		"we bake it together. The trick is to use a mix of tart and sweet apples, "+
		"and to let it rest for an hour before cutting.</p>\n", 8)
	page := []byte(`<html><head>
		<title>Apple Pie | Grandma's Kitchen</title>
		<meta property="og:site_name" content="Grandma's Kitchen">
		<meta property="og:title" content="Apple Pie">
	</head><body><article><h1>Apple Pie</h1>` + story + `</article></body></html>`)

	info := PageMetadata(page, "https://www.kitchen.example.com/pie")
	if info.SiteName != "Grandma's Kitchen" {
		t.Errorf("SiteName = %q", info.SiteName)
	}
	if info.Title != "Apple Pie" {
		t.Errorf("Title = %q, want %q", info.Title, "Apple Pie")
	}
}

func TestPageMetadata_HostFallback(t *testing.T) {
	info := PageMetadata([]byte(`<html><body><p>hi</p></body></html>`), "https://www.kitchen.example.com/pie")
	if info.SiteName != "kitchen.example.com" {
		t.Errorf("SiteName = %q, want host without www", info.SiteName)
	}
}

func TestPageMetadata_InvalidURL(t *testing.T) {
	tests := []string{"", "not a url", "/relative/path"}
	for _, u := range tests {
		t.Run(u, func(t *testing.T) {
			if info := PageMetadata([]byte("<html></html>"), u); info != (PageInfo{}) {
				t.Errorf("PageMetadata(%q) = %+v, want zero", u, info)
			}
		})
	}
}
