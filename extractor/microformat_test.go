package extractor

import (
	"errors"
	"strings"
	"testing"

	"github.com/use-agent/recipy/models"
)

const microformatPage = `<html><head><title>Grandma's Kitchen</title></head><body>
<nav><ul><li>Home</li><li>About</li></ul></nav>
<article>
  <div class="recipe">
    <h2>Apple Pie</h2>
    <img src="/img/apple-pie.jpg" alt="pie">
    <div class="ingredients">
      <ul>
        <li>6 apples</li>
        <li>1 cup sugar</li>
        <li>   </li>
        <li>2 crusts</li>
      </ul>
    </div>
    <div class="instructions">
      <ol>
        <li>Peel the apples.</li>
        <li>Fill the crust.</li>
        <li>Bake for 50 minutes.</li>
      </ol>
    </div>
  </div>
</article>
</body></html>`

func TestMicroformat_Extract(t *testing.T) {
	rec, err := Microformat{}.Extract(mustParse(t, microformatPage, "https://kitchen.example.com/pie"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Title != "Apple Pie" {
		t.Errorf("Title = %q, want %q", rec.Title, "Apple Pie")
	}
	if want := []string{"6 apples", "1 cup sugar", "2 crusts"}; !equalStrings(rec.Ingredients, want) {
		t.Errorf("Ingredients = %q, want %q", rec.Ingredients, want)
	}
	if want := []string{"Peel the apples.", "Fill the crust.", "Bake for 50 minutes."}; !equalStrings(rec.Instructions, want) {
		t.Errorf("Instructions = %q, want %q", rec.Instructions, want)
	}
	if got := rec.Image.URL(); got != "https://kitchen.example.com/img/apple-pie.jpg" {
		t.Errorf("Image = %q", got)
	}
}

func TestMicroformat_FirstChildOfHeading(t *testing.T) {
	page := strings.Replace(microformatPage, "<h2>Apple Pie</h2>",
		`<h2><a href="/pie">Apple Pie</a> <small>by Grandma</small></h2>`, 1)

	rec, err := Microformat{}.Extract(mustParse(t, page, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Title != "Apple Pie" {
		t.Errorf("Title = %q, want %q", rec.Title, "Apple Pie")
	}
}

func TestMicroformat_ListItemsUseFullText(t *testing.T) {
	page := strings.Replace(microformatPage, "<li>6 apples</li>", "<li><b>6</b> apples, <em>peeled</em></li>", 1)
	page = strings.Replace(page, "<li>Fill the crust.</li>", "<li><strong>Fill</strong> the crust.</li>", 1)

	rec, err := Microformat{}.Extract(mustParse(t, page, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"6 apples, peeled", "1 cup sugar", "2 crusts"}; !equalStrings(rec.Ingredients, want) {
		t.Errorf("Ingredients = %q, want %q", rec.Ingredients, want)
	}
	if want := []string{"Peel the apples.", "Fill the crust.", "Bake for 50 minutes."}; !equalStrings(rec.Instructions, want) {
		t.Errorf("Instructions = %q, want %q", rec.Instructions, want)
	}
}

func TestMicroformat_ImageWithoutBase(t *testing.T) {
	rec, err := Microformat{}.Extract(mustParse(t, microformatPage, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.Image.URL(); got != "/img/apple-pie.jpg" {
		t.Errorf("Image = %q, want relative src kept", got)
	}
}

func TestMicroformat_ArticleCount(t *testing.T) {
	tests := []struct {
		name string
		page string
	}{
		{"none", `<html><body><div class="recipe"><h2>X</h2></div></body></html>`},
		{"two", strings.Replace(microformatPage, "</body>", "<article><p>Comments</p></article></body>", 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Microformat{}.Extract(mustParse(t, tt.page, ""))
			if !errors.Is(err, ErrNoMatch) {
				t.Fatalf("expected a miss, got %v", err)
			}
			if !models.HasCode(err, models.ErrCodeAmbiguousArticle) {
				t.Errorf("expected AMBIGUOUS_ARTICLE, got %v", err)
			}
		})
	}
}

func TestMicroformat_StructureMismatch(t *testing.T) {
	tests := []struct {
		name   string
		remove string
		part   string
	}{
		{"no recipe div", `class="recipe"`, "div.recipe"},
		{"no heading", "<h2>Apple Pie</h2>", "h2"},
		{"no ingredients", `class="ingredients"`, "div.ingredients"},
		{"no instructions", `class="instructions"`, "div.instructions"},
		{"no image", `<img src="/img/apple-pie.jpg" alt="pie">`, "img"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := strings.Replace(microformatPage, tt.remove, "", 1)
			_, err := Microformat{}.Extract(mustParse(t, page, ""))
			if errors.Is(err, ErrNoMatch) {
				t.Fatalf("must not be a miss: %v", err)
			}
			var re *models.RecipeError
			if !errors.As(err, &re) || re.Code != models.ErrCodeStructureMismatch {
				t.Fatalf("expected STRUCTURE_MISMATCH, got %v", err)
			}
			if !strings.Contains(re.Message, tt.part) {
				t.Errorf("message %q does not name %q", re.Message, tt.part)
			}
		})
	}
}

func TestMicroformat_EmptyHeading(t *testing.T) {
	page := strings.Replace(microformatPage, "<h2>Apple Pie</h2>", "<h2></h2>", 1)

	_, err := Microformat{}.Extract(mustParse(t, page, ""))
	if !models.HasCode(err, models.ErrCodeStructureMismatch) {
		t.Fatalf("expected STRUCTURE_MISMATCH, got %v", err)
	}
}
