package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/focusflow/pkg/api"
)

func registerResources(srv *server.MCPServer, svc *api.Service) {
	registerAgendaResource(srv, svc)
	registerTasksResource(srv, svc)
	registerTaskTemplate(srv, svc)
}

func registerAgendaResource(srv *server.MCPServer, svc *api.Service) {
	resource := mcp.NewResource(
		"focusflow://agenda",
		"Agenda",
		mcp.WithResourceDescription("The ordered focus list with time aggregates."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return encodeResourceJSON(request.Params.URI, svc.Agenda(ctx))
	})
}

func registerTasksResource(srv *server.MCPServer, svc *api.Service) {
	resource := mcp.NewResource(
		"focusflow://tasks",
		"Tasks",
		mcp.WithResourceDescription("Every task, agenda members first."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		tasks, err := svc.ListTasks(ctx, api.TaskFilter{})
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"tasks": tasks,
			"count": len(tasks),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerTaskTemplate(srv *server.MCPServer, svc *api.Service) {
	template := mcp.NewResourceTemplate(
		"focusflow://tasks/{id}",
		"Task Details",
		mcp.WithTemplateDescription("Detailed information about a single task."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id, _ := request.Params.Arguments["id"].(string)
		if id == "" {
			return nil, fmt.Errorf("task id is required")
		}

		dto, err := svc.GetTask(ctx, id)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"task": dto,
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
