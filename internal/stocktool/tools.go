package stocktool

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	ToolGetStockPrice = "get_stock_price"
	ToolCompareStocks = "compare_stocks"
)

// Registrar is the part of an MCP server the tools need.
type Registrar interface {
	AddTools(tools ...server.ServerTool)
}

// Tools returns the MCP definitions and handlers backed by s.
func (s *Service) Tools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool(ToolGetStockPrice,
				mcp.WithDescription("獲取台灣股票即時價格"),
				mcp.WithString("stock_id",
					mcp.Required(),
					mcp.Description("股票代號 (例如: 2330, 2454, 2303, 2353)"),
				),
			),
			Handler: s.handleGetStockPrice,
		},
		{
			Tool: mcp.NewTool(ToolCompareStocks,
				mcp.WithDescription("比較多檔股票價格"),
				mcp.WithString("stock_ids",
					mcp.Required(),
					mcp.Description("股票代號，用逗號分隔 (例如: 2330,2454,2303,2353)"),
				),
			),
			Handler: s.handleCompareStocks,
		},
	}
}

// Register adds the quote tools to r.
func (s *Service) Register(r Registrar) {
	r.AddTools(s.Tools()...)
}

func (s *Service) handleGetStockPrice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stockID, err := req.RequireString("stock_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.GetStockPrice(ctx, stockID)), nil
}

func (s *Service) handleCompareStocks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stockIDs, err := req.RequireString("stock_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.CompareStocks(ctx, stockIDs)), nil
}
