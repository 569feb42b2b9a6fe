package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/tracemap/internal/config"
)

// toolEntry binds a tool definition to the handler that serves it.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry is the full tool surface; registration filters it against
// the config's disabled list.
var toolRegistry = map[string]toolEntry{
	"trace_create": {
		def:     createToolDef(),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCreate },
	},
	"trace_validate": {
		def:     validateToolDef(),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleValidate },
	},
	"trace_summary": {
		def:     summaryToolDef(),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSummary },
	},
}

func createToolDef() mcp.Tool {
	return mcp.NewTool("trace_create",
		mcp.WithDescription("Normalize and validate a trace-record draft. Fills missing id/timestamp/version, attaches VCS and tool context, and optionally writes the finished record to a file."),
		mcp.WithObject("draft",
			mcp.Required(),
			mcp.Description("Draft trace record; must contain a non-empty files array"),
		),
		mcp.WithString("vcs_type", mcp.Description("VCS type for context: git, jj, hg, or svn")),
		mcp.WithString("revision", mcp.Description("VCS revision the line numbers refer to")),
		mcp.WithString("tool_name", mcp.Description("Name of the record-producing tool")),
		mcp.WithString("tool_version", mcp.Description("Version of the record-producing tool")),
		mcp.WithString("output_path", mcp.Description("Optional file path; the record is written only when validation passes")),
		mcp.WithString("schema_path", mcp.Description("Optional schema profile path; defaults to the bundled schema")),
		mcp.WithBoolean("pretty", mcp.Description("Pretty-print the written record")),
	)
}

func validateToolDef() mcp.Tool {
	return mcp.NewTool("trace_validate",
		mcp.WithDescription("Validate a trace record against the active schema. Read-only; returns every violation with its path, code, and message."),
		mcp.WithObject("record", mcp.Description("Trace record to validate (either this or input_path)")),
		mcp.WithString("input_path", mcp.Description("Path of a record file to validate (either this or record)")),
		mcp.WithString("schema_path", mcp.Description("Optional schema profile path; defaults to the bundled schema")),
	)
}

func summaryToolDef() mcp.Tool {
	return mcp.NewTool("trace_summary",
		mcp.WithDescription("Aggregate a valid trace record: range and line counts per resolved contributor."),
		mcp.WithObject("record", mcp.Required(), mcp.Description("Trace record to summarize")),
	)
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// NewServer creates a new MCP server with tracemap tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"tracemap",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(cfg)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(cfg *config.Config, version string) error {
	s := NewServer(cfg, version)
	return server.ServeStdio(s)
}
