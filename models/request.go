package models

// Output formats understood by the renderer.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// ExtractRequest is the payload for POST /api/v1/extract.
type ExtractRequest struct {
	// URL is the recipe page to fetch. Required.
	URL string `json:"url" binding:"required,url"`

	// MaxAge is the maximum cache age in milliseconds a cached recipe may
	// have to be served. 0 uses the server default; negative disables the cache.
	MaxAge int `json:"max_age,omitempty"`
}

// RecipeQuery is the query string of GET /api/v1/recipe.
type RecipeQuery struct {
	// URL is the recipe page to fetch. Required.
	URL string `form:"url" binding:"required,url"`

	// Format is the response format. Default: "html".
	Format string `form:"format" binding:"omitempty,oneof=html markdown json"`

	// MaxAge behaves like ExtractRequest.MaxAge.
	MaxAge int `form:"max_age"`
}

// Defaults applies default values to unset fields.
func (q *RecipeQuery) Defaults() {
	if q.Format == "" {
		q.Format = FormatHTML
	}
}
