package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/use-agent/recipy/models"
)

// recipeSignature finds a Recipe type declaration inside script text, with
// any whitespace around the colon: "@type":"Recipe", "@type": "Recipe",
// "@type": ["Recipe", ...].
var recipeSignature = regexp.MustCompile(`"@type"\s*:\s*(\[[^\]]*)?"Recipe"`)

// JSONLD reads schema.org/Recipe data from the first <script> whose text
// carries a Recipe type declaration.
type JSONLD struct{}

func (JSONLD) Name() string { return "jsonld" }

// recipeObject holds the schema.org fields that map onto models.Recipe.
type recipeObject struct {
	Name               json.RawMessage `json:"name"`
	Image              json.RawMessage `json:"image"`
	RecipeIngredient   json.RawMessage `json:"recipeIngredient"`
	RecipeInstructions json.RawMessage `json:"recipeInstructions"`
}

func (s JSONLD) Extract(doc *goquery.Document) (*models.Recipe, error) {
	var text string
	found := false
	doc.FindMatcher(scriptSel).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		t := sel.Text()
		if recipeSignature.MatchString(t) {
			text, found = t, true
			return false
		}
		return true
	})
	if !found {
		return nil, fmt.Errorf("%w: no script declares a Recipe type", ErrNoMatch)
	}

	// The signature matched; from here on failures are final.
	raw, err := locateRecipe([]byte(text))
	if err != nil {
		return nil, err
	}

	var obj recipeObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, models.NewRecipeError(models.ErrCodeInvalidJSONLD, "malformed recipe object", err)
	}

	return &models.Recipe{
		Title:        cleanText(jsonString(obj.Name)),
		Ingredients:  ingredients(obj.RecipeIngredient),
		Instructions: instructions(obj.RecipeInstructions),
		Image:        models.ImageFromJSON(obj.Image).Resolve(doc.Url),
	}, nil
}

// locateRecipe returns the JSON object to read the recipe from:
//   - a top-level object with "@type" is the recipe itself;
//   - otherwise the first "Recipe" typed object of the "@graph" array or of
//     the top-level array.
func locateRecipe(data []byte) (json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, models.NewRecipeError(models.ErrCodeInvalidJSONLD, "empty script", nil)
	}

	var candidates []json.RawMessage
	switch data[0] {
	case '{':
		var top map[string]json.RawMessage
		if err := json.Unmarshal(data, &top); err != nil {
			return nil, models.NewRecipeError(models.ErrCodeInvalidJSONLD, "script is not valid JSON", err)
		}
		if _, ok := top["@type"]; ok {
			return json.RawMessage(data), nil
		}
		graph, ok := top["@graph"]
		if !ok {
			return nil, models.NewRecipeError(models.ErrCodeNoRecipeObject, "couldn't find recipe dictionary in json", nil)
		}
		if err := json.Unmarshal(graph, &candidates); err != nil {
			return nil, models.NewRecipeError(models.ErrCodeNoRecipeObject, "@graph is not an array", err)
		}
	case '[':
		if err := json.Unmarshal(data, &candidates); err != nil {
			return nil, models.NewRecipeError(models.ErrCodeInvalidJSONLD, "script is not valid JSON", err)
		}
	default:
		return nil, models.NewRecipeError(models.ErrCodeInvalidJSONLD, "script is not a JSON object or array", nil)
	}

	for _, c := range candidates {
		var node struct {
			Type json.RawMessage `json:"@type"`
		}
		if err := json.Unmarshal(c, &node); err != nil {
			continue // not an object
		}
		if isRecipeType(node.Type) {
			return c, nil
		}
	}
	return nil, models.NewRecipeError(models.ErrCodeNoRecipeObject, "couldn't find recipe dictionary in json", nil)
}

// isRecipeType accepts "Recipe" and arrays containing "Recipe".
func isRecipeType(raw json.RawMessage) bool {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single == "Recipe"
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		for _, t := range many {
			if t == "Recipe" {
				return true
			}
		}
	}
	return false
}

// ingredients accepts an array of strings or a single string.
func ingredients(raw json.RawMessage) []string {
	if s, ok := asString(raw); ok {
		if s = cleanText(s); s != "" {
			return []string{s}
		}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := asString(item); ok {
			out = append(out, cleanText(s))
		}
	}
	return out
}

// instructions keeps, in order, the "text" of every element that is an
// object with a string text field. Everything else is dropped.
func instructions(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var out []string
	for _, item := range items {
		var step map[string]json.RawMessage
		if err := json.Unmarshal(item, &step); err != nil {
			continue
		}
		if text, ok := asString(step["text"]); ok {
			out = append(out, cleanText(text))
		}
	}
	return out
}

func asString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func jsonString(raw json.RawMessage) string {
	s, _ := asString(raw)
	return s
}

// cleanText undoes the HTML entity escaping many sites apply inside JSON-LD.
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}
