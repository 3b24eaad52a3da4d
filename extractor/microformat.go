package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/use-agent/recipy/models"
)

// Microformat reads recipes laid out as
//
//	<article>
//	  <div class="recipe">
//	    <h2>Title</h2>
//	    <img src="...">
//	    <div class="ingredients"><ul><li>...</li></ul></div>
//	    <div class="instructions"><ol><li>...</li></ol></div>
//	  </div>
//	</article>
//
// The page must contain exactly one <article>.
type Microformat struct{}

func (Microformat) Name() string { return "microformat" }

func (m Microformat) Extract(doc *goquery.Document) (*models.Recipe, error) {
	articles := doc.FindMatcher(articleSel)
	if n := articles.Length(); n != 1 {
		return nil, fmt.Errorf("%w: %w", ErrNoMatch, models.NewRecipeError(
			models.ErrCodeAmbiguousArticle,
			fmt.Sprintf("found %d <article> elements, want exactly 1", n),
			nil,
		))
	}

	recipe := articles.FindMatcher(recipeSel).First()
	if recipe.Length() == 0 {
		return nil, mismatch("div.recipe")
	}

	heading := recipe.FindMatcher(headingSel).First()
	if heading.Length() == 0 {
		return nil, mismatch("h2")
	}
	title, ok := firstChildText(heading)
	if !ok {
		return nil, mismatch("h2 content")
	}

	ingredients, err := listItems(recipe, ingredientsSel, "div.ingredients")
	if err != nil {
		return nil, err
	}
	instructions, err := listItems(recipe, instructionSel, "div.instructions")
	if err != nil {
		return nil, err
	}

	img := recipe.FindMatcher(imageSel).First()
	if img.Length() == 0 {
		return nil, mismatch("img")
	}
	src, _ := img.Attr("src")

	return &models.Recipe{
		Title:        title,
		Ingredients:  ingredients,
		Instructions: instructions,
		Image:        models.ImageURL(src).Resolve(doc.Url),
	}, nil
}

// listItems returns the trimmed text content of each <li> inside the first
// container matching sel. Empty items are skipped.
func listItems(recipe *goquery.Selection, sel cascadia.Selector, part string) ([]string, error) {
	container := recipe.FindMatcher(sel).First()
	if container.Length() == 0 {
		return nil, mismatch(part)
	}

	var items []string
	container.FindMatcher(itemSel).Each(func(_ int, li *goquery.Selection) {
		if text := strings.TrimSpace(li.Text()); text != "" {
			items = append(items, text)
		}
	})
	return items, nil
}

// firstChildText returns the text of the first child node of a heading, which
// may be a text node or an element (e.g. <h2><a>Title</a></h2>). Whitespace-only
// text nodes left by indentation are not counted as children.
func firstChildText(s *goquery.Selection) (string, bool) {
	children := s.Contents()
	if children.Length() == 0 {
		return "", false
	}
	for i := range children.Nodes {
		if text := strings.TrimSpace(children.Eq(i).Text()); text != "" {
			return text, true
		}
	}
	return "", true
}

func mismatch(part string) *models.RecipeError {
	return models.NewRecipeError(
		models.ErrCodeStructureMismatch,
		"article has no "+part,
		nil,
	)
}
