package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/focusflow/pkg/api"
	"tableflip.dev/focusflow/pkg/task"
)

func registerTools(srv *server.MCPServer, svc *api.Service) {
	registerListTasksTool(srv, svc)
	registerCreateTaskTool(srv, svc)
	registerCompleteTaskTool(srv, svc)
	registerDeleteTaskTool(srv, svc)
	registerGetAgendaTool(srv, svc)
	registerFocusTaskTool(srv, svc)
	registerUnfocusTaskTool(srv, svc)
	registerReorderAgendaTool(srv, svc)
	registerStartTimerTool(srv, svc)
	registerStopTimerTool(srv, svc)
	registerTimerStatusTool(srv, svc)
}

func registerListTasksTool(srv *server.MCPServer, svc *api.Service) {
	tool := mcp.NewTool(
		"list_tasks",
		mcp.WithDescription("List tasks, optionally filtered."),
		mcp.WithString("status",
			mcp.Description("Filter by status."),
			mcp.Enum("open", "done", "snoozed"),
		),
		mcp.WithString("category",
			mcp.Description("Filter by category name."),
		),
		mcp.WithString("search",
			mcp.Description("Case-insensitive title substring."),
		),
		mcp.WithBoolean("focus",
			mcp.Description("Only tasks on the agenda."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Status   string `json:"status"`
			Category string `json:"category"`
			Search   string `json:"search"`
			Focus    bool   `json:"focus"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		tasks, err := svc.ListTasks(ctx, api.TaskFilter{
			Status:    args.Status,
			Category:  args.Category,
			Search:    args.Search,
			FocusOnly: args.Focus,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"tasks": tasks, "count": len(tasks)})
	})
}

func registerCreateTaskTool(srv *server.MCPServer, svc *api.Service) {
	tool := mcp.NewTool(
		"create_task",
		mcp.WithDescription("Create a new task."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title."),
		),
		mcp.WithString("description",
			mcp.Description("Longer free-form description."),
		),
		mcp.WithString("priority",
			mcp.Description("Task priority."),
			mcp.Enum("low", "medium", "high"),
		),
		mcp.WithString("category",
			mcp.Description("Category name, created on first use."),
		),
		mcp.WithNumber("estimated_minutes",
			mcp.Description("Estimated effort in minutes."),
		),
		mcp.WithString("due_at",
			mcp.Description("Optional RFC3339 due timestamp."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Title            string  `json:"title"`
			Description      string  `json:"description"`
			Priority         string  `json:"priority"`
			Category         string  `json:"category"`
			EstimatedMinutes float64 `json:"estimated_minutes"`
			DueAt            string  `json:"due_at"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		in := api.CreateTaskInput{
			Title:       args.Title,
			Description: args.Description,
			Priority:    args.Priority,
			Category:    args.Category,
			DueAt:       args.DueAt,
		}
		if args.EstimatedMinutes > 0 {
			est := int(args.EstimatedMinutes)
			in.EstimatedMinutes = &est
		}

		dto, err := svc.CreateTask(ctx, in)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerCompleteTaskTool(srv *server.MCPServer, svc *api.Service) {
	tool := mcp.NewTool(
		"complete_task",
		mcp.WithDescription("Mark a task as done."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier to complete."),
		),
		mcp.WithNumber("actual_minutes",
			mcp.Description("Minutes actually spent, if known."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			ID            string  `json:"id"`
			ActualMinutes float64 `json:"actual_minutes"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.ID == "" {
			return mcp.NewToolResultError("id is required"), nil
		}

		done := task.StatusDone
		patch := task.Patch{Status: &done}
		if args.ActualMinutes > 0 {
			actual := int(args.ActualMinutes)
			patch.ActualMinutes = &actual
		}

		dto, err := svc.UpdateTask(ctx, args.ID, patch)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerDeleteTaskTool(srv *server.MCPServer, svc *api.Service) {
	tool := mcp.NewTool(
		"delete_task",
		mcp.WithDescription("Delete a task entirely."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier to delete."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.DeleteTask(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]string{"status": "deleted", "id": id})
	})
}

func registerGetAgendaTool(srv *server.MCPServer, svc *api.Service) {
	tool := mcp.NewTool(
		"get_agenda",
		mcp.WithDescription("Read the ordered agenda with its time aggregates and next-task suggestion."),
	)

	srv.AddTool(tool, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toJSONResult(svc.Agenda(ctx))
	})
}

func registerFocusTaskTool(srv *server.MCPServer, svc *api.Service) {
	tool := mcp.NewTool(
		"focus_task",
		mcp.WithDescription("Place a task on the agenda at a position. Moving an existing member re-inserts it."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier."),
		),
		mcp.WithNumber("index",
			mcp.Description("Zero-based agenda position; out-of-range clamps to the ends."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			ID    string  `json:"id"`
			Index float64 `json:"index"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.ID == "" {
			return mcp.NewToolResultError("id is required"), nil
		}

		if err := svc.FocusAt(ctx, args.ID, int(args.Index)); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(svc.Agenda(ctx))
	})
}

func registerUnfocusTaskTool(srv *server.MCPServer, svc *api.Service) {
	tool := mcp.NewTool(
		"unfocus_task",
		mcp.WithDescription("Remove a task from the agenda."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.Unfocus(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(svc.Agenda(ctx))
	})
}

func registerReorderAgendaTool(srv *server.MCPServer, svc *api.Service) {
	tool := mcp.NewTool(
		"reorder_agenda",
		mcp.WithDescription("Move the agenda member at one position to another."),
		mcp.WithNumber("from",
			mcp.Required(),
			mcp.Description("Current zero-based position."),
		),
		mcp.WithNumber("to",
			mcp.Required(),
			mcp.Description("Target zero-based position."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			From float64 `json:"from"`
			To   float64 `json:"to"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		changed, err := svc.ReorderAgenda(ctx, int(args.From), int(args.To))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"changed": changed, "agenda": svc.Agenda(ctx)})
	})
}

func registerStartTimerTool(srv *server.MCPServer, svc *api.Service) {
	tool := mcp.NewTool(
		"start_timer",
		mcp.WithDescription("Start the focus timer on a task."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier to time."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		snap, err := svc.StartTimer(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(snap)
	})
}

func registerStopTimerTool(srv *server.MCPServer, svc *api.Service) {
	tool := mcp.NewTool(
		"stop_timer",
		mcp.WithDescription("Stop the focus timer and credit the elapsed minutes to the task."),
	)

	srv.AddTool(tool, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snap, err := svc.StopTimer(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(snap)
	})
}

func registerTimerStatusTool(srv *server.MCPServer, svc *api.Service) {
	tool := mcp.NewTool(
		"timer_status",
		mcp.WithDescription("Read the focus timer state."),
	)

	srv.AddTool(tool, func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toJSONResult(svc.TimerStatus())
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
