// Command recipy-mcp exposes recipe extraction as an MCP tool over stdio.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/use-agent/recipy/config"
	"github.com/use-agent/recipy/engine"
	"github.com/use-agent/recipy/models"
	"github.com/use-agent/recipy/pipeline"
	"github.com/use-agent/recipy/render"
)

func main() {
	cfg := config.Load()

	// stdout carries the MCP protocol.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	eng := engine.NewHTTPEngine(engine.HTTPOptions{
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   cfg.Fetch.Timeout,
	})
	p := pipeline.New(eng, nil, pipeline.WithTimeout(cfg.Fetch.Timeout))

	if err := server.ServeStdio(newServer(p)); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func newServer(p *pipeline.Pipeline) *server.MCPServer {
	s := server.NewMCPServer(
		"recipy",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	extractTool := mcp.NewTool("extract_recipe",
		mcp.WithDescription("Fetch a recipe web page and return only the recipe (title, image, ingredients and numbered instructions), without the surrounding story and ads."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the recipe page"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'markdown' (default), 'html' (standalone page) or 'json'"),
			mcp.Enum(models.FormatMarkdown, models.FormatHTML, models.FormatJSON),
		),
	)
	s.AddTool(extractTool, handleExtractRecipe(p))

	return s
}

func handleExtractRecipe(p *pipeline.Pipeline) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}
		format := request.GetString("format", models.FormatMarkdown)

		rec, err := p.Run(ctx, url)
		if err != nil {
			re := models.AsRecipeError(err)
			return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", re.Code, re.Message)), nil
		}

		out, err := render.Render(rec, format)
		if err != nil {
			re := models.AsRecipeError(err)
			return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", re.Code, re.Message)), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}
