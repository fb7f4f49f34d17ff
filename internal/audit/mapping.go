package audit

import "strings"

// ActionResource holds action and resource derived from an HTTP route.
type ActionResource struct {
	Action   string
	Resource string
}

// Route overrides where the HTTP verb does not express the domain action.
var routeOverrides = map[string]ActionResource{
	"GET /connect/:code":           {Action: "resolve", Resource: "show"},
	"GET /tenants/resolve":         {Action: "resolve", Resource: "tenant"},
	"PUT /endpoints/:id/heartbeat": {Action: "heartbeat", Resource: "endpoint"},
	"POST /auth/token":             {Action: "login", Resource: "identity"},
	"POST /auth/refresh":           {Action: "token_refreshed", Resource: "identity"},
	"POST /auth/logout":            {Action: "logout", Resource: "identity"},
}

// ParseRoute returns action and resource for an HTTP method and route pattern
// (e.g. DELETE /shows/:id). Action is a verb: get, create, update, delete, or
// a domain-specific override. Resource is derived from the first path segment
// with its plural trimmed (shows -> show).
func ParseRoute(method, routePath string) ActionResource {
	if ar, ok := routeOverrides[method+" "+routePath]; ok {
		return ar
	}
	resource := "unknown"
	trimmed := strings.TrimPrefix(routePath, "/")
	if seg, _, _ := strings.Cut(trimmed, "/"); seg != "" {
		resource = strings.TrimSuffix(seg, "s")
	}
	return ActionResource{Action: methodToAction(method), Resource: resource}
}

func methodToAction(method string) string {
	switch method {
	case "GET", "HEAD":
		return "get"
	case "POST":
		return "create"
	case "PUT", "PATCH":
		return "update"
	case "DELETE":
		return "delete"
	default:
		return strings.ToLower(method)
	}
}
