// Package tool defines analytics tools as data and dispatches calls to
// their handlers.
//
// A tool is a Definition: a name, a description, and a typed parameter
// list with defaults and required flags. Definitions are plain data
// validated at registration, so the MCP tools/list surface and the call
// validation both derive from one place instead of being re-encoded as
// code per tool.
//
// # Usage
//
//	d := tool.NewDispatcher()
//	err := d.Register(tool.Definition{
//	    Name:        "execute_sql",
//	    Description: "Run a SQL query",
//	    Params: []tool.Param{
//	        {Name: "sql_query", Type: tool.TypeString, Required: true},
//	        {Name: "store_as_resource", Type: tool.TypeBoolean, Default: true},
//	    },
//	}, handler)
//
//	result, err := d.Dispatch(ctx, "execute_sql", map[string]any{"sql_query": "SELECT 1"})
//
// Dispatch fills parameter defaults, rejects missing required parameters,
// and then invokes the handler.
package tool
