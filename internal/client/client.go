package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/taskstar/taskstar/internal/domain"
)

// AgentHeader carries the caller's agent ID.
const AgentHeader = "X-Taskstar-Agent"

// Client is an HTTP client for the Taskstar server API.
type Client struct {
	baseURL string       // http://host:port
	agentID string       // X-Taskstar-Agent header value
	project string       // Project name for URL paths
	http    *http.Client // HTTP client
}

// NewClient creates a new Taskstar API client.
func NewClient(host string, port int, project string, agentID string) *Client {
	return &Client{
		baseURL: fmt.Sprintf("http://%s:%d", host, port),
		agentID: agentID,
		project: project,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// =============================================================================
// System
// =============================================================================

// Health checks if the server is healthy.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/v1/health", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapConnectionError("health check", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrServerUnhealthy
	}

	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return nil, fmt.Errorf("failed to decode health response: %w", err)
	}
	return &h, nil
}

// ListProjects returns a list of all project names.
func (c *Client) ListProjects(ctx context.Context) ([]string, error) {
	var projects []string
	if err := c.do(ctx, "list projects", http.MethodGet, "/v1/projects", nil, http.StatusOK, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// =============================================================================
// Tasks
// =============================================================================

// CreateTask creates a new task. An empty description is omitted.
func (c *Client) CreateTask(ctx context.Context, name string, duration int, description string) (*domain.Task, error) {
	body := createTaskRequest{Name: name, Duration: duration}
	if description != "" {
		body.Description = &description
	}

	var task domain.Task
	if err := c.do(ctx, "create task", http.MethodPost, c.projectPath("/tasks"), body, http.StatusCreated, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask retrieves a task by ID or name.
func (c *Client) GetTask(ctx context.Context, ref string) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, "get task", http.MethodGet, c.taskPath(ref, ""), nil, http.StatusOK, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks lists one page of tasks in creation order.
func (c *Client) ListTasks(ctx context.Context, page, perPage int) (*TaskListResponse, error) {
	path := c.projectPath("/tasks") + "?" + pageQuery(page, perPage).Encode()

	var out TaskListResponse
	if err := c.do(ctx, "list tasks", http.MethodGet, path, nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAllTasks walks every page of the task listing.
func (c *Client) ListAllTasks(ctx context.Context) ([]*domain.Task, error) {
	var all []*domain.Task
	for page := 1; ; page++ {
		resp, err := c.ListTasks(ctx, page, 100)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Data...)
		if page >= resp.Pagination.TotalPages {
			return all, nil
		}
	}
}

// UpdateTask updates the set fields of a task.
func (c *Client) UpdateTask(ctx context.Context, ref string, updates TaskUpdates) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, "update task", http.MethodPatch, c.taskPath(ref, ""), updates, http.StatusOK, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes a task and its dependency edges.
func (c *Client) DeleteTask(ctx context.Context, ref string) error {
	return c.do(ctx, "delete task", http.MethodDelete, c.taskPath(ref, ""), nil, http.StatusNoContent, nil)
}

// =============================================================================
// Dependencies
// =============================================================================

// AddDependency records that child cannot start before parent ends.
func (c *Client) AddDependency(ctx context.Context, child, parent string) (*domain.Dependency, error) {
	var dep domain.Dependency
	body := addDependencyRequest{DependsOn: parent}
	if err := c.do(ctx, "add dependency", http.MethodPost, c.taskPath(child, "/deps"), body, http.StatusCreated, &dep); err != nil {
		return nil, err
	}
	return &dep, nil
}

// RemoveDependency removes a dependency edge.
func (c *Client) RemoveDependency(ctx context.Context, child, parent string) error {
	path := c.taskPath(child, "/deps/"+url.PathEscape(parent))
	return c.do(ctx, "remove dependency", http.MethodDelete, path, nil, http.StatusNoContent, nil)
}

// ListDependencies lists the dependencies of a task.
func (c *Client) ListDependencies(ctx context.Context, ref string) ([]domain.Dependency, error) {
	var deps []domain.Dependency
	if err := c.do(ctx, "list dependencies", http.MethodGet, c.taskPath(ref, "/deps"), nil, http.StatusOK, &deps); err != nil {
		return nil, err
	}
	return deps, nil
}

// =============================================================================
// Schedules
// =============================================================================

// RunSchedule schedules the project's tasks and stores the run.
func (c *Client) RunSchedule(ctx context.Context, opts ScheduleOptions) (*domain.ScheduleRun, error) {
	var run domain.ScheduleRun
	if err := c.do(ctx, "run schedule", http.MethodPost, c.projectPath("/schedules"), opts, http.StatusCreated, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// GetSchedule retrieves a stored run with its entries.
func (c *Client) GetSchedule(ctx context.Context, id string) (*domain.ScheduleRun, error) {
	var run domain.ScheduleRun
	if err := c.do(ctx, "get schedule", http.MethodGet, c.schedulePath(id, ""), nil, http.StatusOK, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListSchedules lists stored runs, newest first.
func (c *Client) ListSchedules(ctx context.Context, page, perPage int) (*ScheduleListResponse, error) {
	path := c.projectPath("/schedules") + "?" + pageQuery(page, perPage).Encode()

	var out ScheduleListResponse
	if err := c.do(ctx, "list schedules", http.MethodGet, path, nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Gantt fetches a rendered chart for a stored run.
func (c *Client) Gantt(ctx context.Context, id, format string) ([]byte, error) {
	path := c.schedulePath(id, "/gantt")
	if format != "" {
		path += "?" + url.Values{"format": {format}}.Encode()
	}

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapConnectionError("gantt", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp)
	}
	return io.ReadAll(resp.Body)
}

// Compare runs several algorithms on the project without storing them.
func (c *Client) Compare(ctx context.Context, opts CompareOptions) (*domain.Comparison, error) {
	var cmp domain.Comparison
	if err := c.do(ctx, "compare", http.MethodPost, c.projectPath("/compare"), opts, http.StatusOK, &cmp); err != nil {
		return nil, err
	}
	return &cmp, nil
}

// =============================================================================
// Audit
// =============================================================================

// GetTaskHistory retrieves the audit history of a task.
func (c *Client) GetTaskHistory(ctx context.Context, ref string) ([]domain.AuditEntry, error) {
	var entries []domain.AuditEntry
	if err := c.do(ctx, "get task history", http.MethodGet, c.taskPath(ref, "/history"), nil, http.StatusOK, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetScheduleHistory retrieves the audit entries of a schedule run.
func (c *Client) GetScheduleHistory(ctx context.Context, id string) ([]domain.AuditEntry, error) {
	var entries []domain.AuditEntry
	if err := c.do(ctx, "get schedule history", http.MethodGet, c.schedulePath(id, "/history"), nil, http.StatusOK, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// QueryAudit queries the project audit log.
func (c *Client) QueryAudit(ctx context.Context, q AuditQuery) (*AuditListResponse, error) {
	params := pageQuery(q.Page, q.PerPage)
	if q.Action != "" {
		params.Set("action", q.Action)
	}
	if q.Agent != "" {
		params.Set("agent", q.Agent)
	}

	var out AuditListResponse
	if err := c.do(ctx, "query audit log", http.MethodGet, c.projectPath("/audit")+"?"+params.Encode(), nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// Helper Methods
// =============================================================================

// do sends a request with an optional JSON body and decodes a JSON response
// into out when the server answers with want.
func (c *Client) do(ctx context.Context, op, method, path string, body any, want int, out any) error {
	var (
		req *http.Request
		err error
	)
	if body != nil {
		req, err = c.newJSONRequest(ctx, method, path, body)
	} else {
		req, err = c.newRequest(ctx, method, path, nil)
	}
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapConnectionError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return parseErrorResponse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}

// projectPath constructs a URL path with the project prefix.
func (c *Client) projectPath(path string) string {
	return "/v1/projects/" + url.PathEscape(c.project) + path
}

func (c *Client) taskPath(ref, suffix string) string {
	return c.projectPath("/tasks/" + url.PathEscape(ref) + suffix)
}

func (c *Client) schedulePath(id, suffix string) string {
	return c.projectPath("/schedules/" + url.PathEscape(id) + suffix)
}

func pageQuery(page, perPage int) url.Values {
	params := url.Values{}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		params.Set("per_page", strconv.Itoa(perPage))
	}
	return params
}

// newRequest creates a new HTTP request with common headers.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(AgentHeader, c.agentID)

	return req, nil
}

// newJSONRequest creates a new HTTP request with JSON body.
func (c *Client) newJSONRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, &buf)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	return req, nil
}
