package timeoff

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/hr-agent-mesh/agent/contract"
	ledgerx "github.com/tanpawarit/hr-agent-mesh/agent/ledger"
)

const (
	ToolGetBalance     = "get_timeoff_balance"
	ToolRequestTimeoff = "request_timeoff"
)

// ToolInfos declares the exact tool surface of the timeoff agent. The
// planner may only ever select from these two.
func ToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolGetBalance,
			Desc: "Get the timeoff balance for the employee, given their name",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"employee_name": {Type: schema.String, Desc: "Employee name", Required: true},
			}),
		},
		{
			Name: ToolRequestTimeoff,
			Desc: "File a timeoff request for the employee, given their name, start day and number of days",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"employee_name": {Type: schema.String, Desc: "Employee name", Required: true},
				"start_day":     {Type: schema.String, Desc: "Start day as YYYY-MM-DD", Required: true},
				"days":          {Type: schema.Integer, Desc: "Number of days", Required: true},
			}),
		},
	}
}

// executeTool runs one ledger tool. Ledger constraint violations become
// plain-language tool errors for the planner to explain, never Go errors.
func executeTool(ctx context.Context, store ledgerx.Store, req contractx.ToolRequest) (contractx.ToolResult, error) {
	switch req.Tool {
	case ToolGetBalance:
		name, err := stringArg(req.Args, "employee_name")
		if err != nil {
			return toolError(req.Tool, err.Error()), nil
		}
		balance, err := store.GetBalance(ctx, name)
		if errors.Is(err, ledgerx.ErrEmployeeNotFound) {
			return toolError(req.Tool, fmt.Sprintf("no employee named %s exists", name)), nil
		}
		if err != nil {
			return contractx.ToolResult{}, err
		}
		return contractx.ToolResult{Tool: req.Tool, Result: balance}, nil

	case ToolRequestTimeoff:
		name, err := stringArg(req.Args, "employee_name")
		if err != nil {
			return toolError(req.Tool, err.Error()), nil
		}
		startDay, err := stringArg(req.Args, "start_day")
		if err != nil {
			return toolError(req.Tool, err.Error()), nil
		}
		days, err := intArg(req.Args, "days")
		if err != nil {
			return toolError(req.Tool, err.Error()), nil
		}

		err = store.RequestTimeoff(ctx, name, startDay, days)
		switch {
		case errors.Is(err, ledgerx.ErrEmployeeNotFound):
			return toolError(req.Tool, fmt.Sprintf("no employee named %s exists", name)), nil
		case errors.Is(err, ledgerx.ErrInsufficientBalance):
			return toolError(req.Tool, "not enough timeoff balance for this request"), nil
		case errors.Is(err, ledgerx.ErrInvalidDays):
			return toolError(req.Tool, "days must be a positive whole number"), nil
		case err != nil:
			return contractx.ToolResult{}, err
		}
		return contractx.ToolResult{Tool: req.Tool, Result: "Successfully added timeoff request"}, nil

	default:
		return toolError(req.Tool, fmt.Sprintf("tool %s is not available", req.Tool)), nil
	}
}

func toolError(tool, message string) contractx.ToolResult {
	return contractx.ToolResult{Tool: tool, Error: message}
}

func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%s must be a non-empty string", key)
	}
	return s, nil
}

func intArg(args map[string]any, key string) (int, error) {
	raw, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		// JSON numbers decode as float64; only whole values are acceptable.
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%s must be a whole number", key)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("%s must be an integer", key)
	}
}
