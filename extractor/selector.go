package extractor

import "github.com/andybalholm/cascadia"

// Selectors are compiled once; goquery accepts them through FindMatcher.
var (
	scriptSel      = cascadia.MustCompile("script")
	articleSel     = cascadia.MustCompile("article")
	recipeSel      = cascadia.MustCompile("div.recipe")
	headingSel     = cascadia.MustCompile("h2")
	ingredientsSel = cascadia.MustCompile("div.ingredients")
	instructionSel = cascadia.MustCompile("div.instructions")
	itemSel        = cascadia.MustCompile("li")
	imageSel       = cascadia.MustCompile("img")
)
