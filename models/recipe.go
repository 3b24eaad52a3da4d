package models

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
)

// Recipe is the normalized recipe record. It is built once by the extractor
// and only read afterwards.
type Recipe struct {
	// Title may be empty; renderers emit an empty heading then.
	Title string `json:"title"`

	// Ingredients in page order. Nil when the page has none.
	Ingredients []string `json:"ingredients,omitempty"`

	// Instructions in page order, displayed numbered from 1.
	Instructions []string `json:"instructions,omitempty"`

	// Image is the single normalized image, if any.
	Image Image `json:"image"`

	// Source describes where the recipe was fetched from.
	Source Source `json:"source"`
}

// Source is attribution metadata for the fetched page.
type Source struct {
	URL      string `json:"url,omitempty"`
	SiteName string `json:"site_name,omitempty"`
}

// WithSource returns a copy of r carrying src.
func (r Recipe) WithSource(src Source) Recipe {
	r.Source = src
	return r
}

// ImageKind records which upstream shape an Image was normalized from.
type ImageKind int

const (
	ImageNone ImageKind = iota
	ImageString
	ImageObject
	ImageList
)

func (k ImageKind) String() string {
	switch k {
	case ImageString:
		return "string"
	case ImageObject:
		return "object"
	case ImageList:
		return "list"
	default:
		return "none"
	}
}

// Image is zero-or-one image URL. The shape sniffing of the upstream value
// happens once, in the constructors; everything downstream reads URL().
type Image struct {
	kind ImageKind
	url  string
}

// ImageURL builds an Image from a plain string. Blank strings yield no image.
func ImageURL(s string) Image {
	s = strings.TrimSpace(s)
	if s == "" {
		return Image{}
	}
	return Image{kind: ImageString, url: s}
}

// ImageFromJSON normalizes a schema.org image value:
//
//	"a.jpg"              -> a.jpg
//	{"url": "a.jpg"}     -> a.jpg
//	["b.jpg", "c.jpg"]   -> b.jpg
//	[{"url": "b.jpg"}]   -> b.jpg
//
// Anything else, including null and empty values, yields no image.
func ImageFromJSON(raw json.RawMessage) Image {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Image{}
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Image{}
		}
		return ImageURL(s)

	case '{':
		var obj struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return Image{}
		}
		img := ImageURL(obj.URL)
		if img.Present() {
			img.kind = ImageObject
		}
		return img

	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil || len(list) == 0 {
			return Image{}
		}
		img := ImageFromJSON(list[0])
		if img.Present() {
			img.kind = ImageList
		}
		return img
	}

	return Image{}
}

// Kind reports the upstream shape the image came from.
func (i Image) Kind() ImageKind { return i.kind }

// URL returns the image URL, or "" when there is no image.
func (i Image) URL() string { return i.url }

// Present reports whether the record has an image.
func (i Image) Present() bool { return i.url != "" }

// Resolve returns the image with its URL made absolute against base.
// Unparseable URLs and a nil base leave the image unchanged.
func (i Image) Resolve(base *url.URL) Image {
	if base == nil || !i.Present() {
		return i
	}
	ref, err := url.Parse(i.url)
	if err != nil {
		return i
	}
	i.url = base.ResolveReference(ref).String()
	return i
}

func (i Image) MarshalJSON() ([]byte, error) {
	if !i.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(i.url)
}

func (i *Image) UnmarshalJSON(data []byte) error {
	*i = ImageFromJSON(data)
	return nil
}
