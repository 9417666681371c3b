// Package clickupapi provides a hand-written ClickUp REST v2 client
// together with the request models, validation and payload builders
// that bridge the gateway's camelCase tool surface to ClickUp's
// snake_case wire format.
package clickupapi

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

	"github.com/go-faster/errors"
)

const defaultBaseURL = "https://api.clickup.com/api/v2"

// Client talks to the ClickUp REST API with a static personal token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = h }
}

// NewClient creates a ClickUp API client with the given token.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs one API call and decodes the response object. Numeric
// values survive as json.Number so ClickUp's large IDs never lose
// precision. A body of nil sends no payload; DELETE responses with an
// empty body decode to an empty object.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body map[string]any) (map[string]any, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encode request body")
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Authorization", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiErrorFrom(resp.StatusCode, data)
	}
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	raw, err := DecodeObject(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode response body")
	}
	return raw, nil
}

// apiErrorFrom builds an APIError from an upstream failure response.
// ClickUp error bodies carry {"err": "...", "ECODE": "..."}; anything
// else degrades to the bare status.
func apiErrorFrom(status int, body []byte) error {
	apiErr := &APIError{Status: status}
	if raw, err := DecodeObject(body); err == nil {
		apiErr.Message = strField(raw, "err")
		apiErr.Code = strField(raw, "ECODE")
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// queryFrom converts a builder params map into URL query values.
// String slices repeat their key (ClickUp's array notation keys end in
// "[]"); other non-scalar values are carried as JSON.
func queryFrom(params map[string]any) url.Values {
	q := url.Values{}
	for k, v := range params {
		switch val := v.(type) {
		case string:
			q.Set(k, val)
		case bool:
			q.Set(k, strconv.FormatBool(val))
		case int:
			q.Set(k, strconv.Itoa(val))
		case int64:
			q.Set(k, strconv.FormatInt(val, 10))
		case []string:
			for _, item := range val {
				q.Add(k, item)
			}
		default:
			b, err := json.Marshal(v)
			if err != nil {
				continue
			}
			q.Set(k, string(b))
		}
	}
	return q
}

// =============================================================================
// User and team
// =============================================================================

// GetUser fetches the user behind the configured token.
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	raw, err := c.do(ctx, http.MethodGet, "/user", nil, nil)
	if err != nil {
		return nil, err
	}
	if user := mapField(raw, "user"); user != nil {
		return ExtractUser(user), nil
	}
	return ExtractUser(raw), nil
}

// GetTeams lists the teams (workspaces) visible to the token.
func (c *Client) GetTeams(ctx context.Context) ([]*Team, error) {
	raw, err := c.do(ctx, http.MethodGet, "/team", nil, nil)
	if err != nil {
		return nil, err
	}
	return ExtractTeams(raw), nil
}

// GetTeamMembers lists the members of one team. The v2 API exposes
// members only on the team listing, so this filters that response.
func (c *Client) GetTeamMembers(ctx context.Context, r *TeamMembersRequest) ([]*User, error) {
	teams, err := c.GetTeams(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range teams {
		if t.ID == r.TeamID {
			return t.Members, nil
		}
	}
	return nil, &APIError{Status: http.StatusNotFound, Message: fmt.Sprintf("team %s not found", r.TeamID)}
}

// =============================================================================
// Spaces
// =============================================================================

// GetSpaces lists the spaces of a team.
func (c *Client) GetSpaces(ctx context.Context, r *SpacesRequest) ([]*Space, error) {
	q := url.Values{"archived": {strconv.FormatBool(r.Archived)}}
	raw, err := c.do(ctx, http.MethodGet, "/team/"+url.PathEscape(r.TeamID)+"/space", q, nil)
	if err != nil {
		return nil, err
	}
	return ExtractSpaces(raw), nil
}

// GetSpace fetches one space.
func (c *Client) GetSpace(ctx context.Context, r *SpaceRequest) (*Space, error) {
	raw, err := c.do(ctx, http.MethodGet, "/space/"+url.PathEscape(r.SpaceID), nil, nil)
	if err != nil {
		return nil, err
	}
	return ExtractSpace(raw), nil
}

// CreateSpace creates a space in a team.
func (c *Client) CreateSpace(ctx context.Context, r *CreateSpaceRequest) (*Space, error) {
	raw, err := c.do(ctx, http.MethodPost, "/team/"+url.PathEscape(r.TeamID)+"/space", nil, ExtractCreateSpaceData(r))
	if err != nil {
		return nil, err
	}
	return ExtractSpace(raw), nil
}

// UpdateSpace applies a partial update to a space.
func (c *Client) UpdateSpace(ctx context.Context, r *UpdateSpaceRequest) (*Space, error) {
	raw, err := c.do(ctx, http.MethodPut, "/space/"+url.PathEscape(r.SpaceID), nil, ExtractUpdateSpaceData(r))
	if err != nil {
		return nil, err
	}
	return ExtractSpace(raw), nil
}

// DeleteSpace deletes a space.
func (c *Client) DeleteSpace(ctx context.Context, r *SpaceRequest) error {
	_, err := c.do(ctx, http.MethodDelete, "/space/"+url.PathEscape(r.SpaceID), nil, nil)
	return err
}

// =============================================================================
// Folders
// =============================================================================

// GetFolders lists the folders of a space.
func (c *Client) GetFolders(ctx context.Context, r *FoldersRequest) ([]*Folder, error) {
	q := url.Values{"archived": {strconv.FormatBool(r.Archived)}}
	raw, err := c.do(ctx, http.MethodGet, "/space/"+url.PathEscape(r.SpaceID)+"/folder", q, nil)
	if err != nil {
		return nil, err
	}
	return ExtractFolders(raw), nil
}

// GetFolder fetches one folder.
func (c *Client) GetFolder(ctx context.Context, r *FolderRequest) (*Folder, error) {
	raw, err := c.do(ctx, http.MethodGet, "/folder/"+url.PathEscape(r.FolderID), nil, nil)
	if err != nil {
		return nil, err
	}
	return ExtractFolder(raw), nil
}

// CreateFolder creates a folder in a space.
func (c *Client) CreateFolder(ctx context.Context, r *CreateFolderRequest) (*Folder, error) {
	raw, err := c.do(ctx, http.MethodPost, "/space/"+url.PathEscape(r.SpaceID)+"/folder", nil, ExtractCreateFolderData(r))
	if err != nil {
		return nil, err
	}
	return ExtractFolder(raw), nil
}

// UpdateFolder applies a partial update to a folder.
func (c *Client) UpdateFolder(ctx context.Context, r *UpdateFolderRequest) (*Folder, error) {
	raw, err := c.do(ctx, http.MethodPut, "/folder/"+url.PathEscape(r.FolderID), nil, ExtractUpdateFolderData(r))
	if err != nil {
		return nil, err
	}
	return ExtractFolder(raw), nil
}

// DeleteFolder deletes a folder.
func (c *Client) DeleteFolder(ctx context.Context, r *FolderRequest) error {
	_, err := c.do(ctx, http.MethodDelete, "/folder/"+url.PathEscape(r.FolderID), nil, nil)
	return err
}

// =============================================================================
// Lists
// =============================================================================

// GetLists enumerates the lists of a folder, or the folderless lists
// of a space when no folder is given.
func (c *Client) GetLists(ctx context.Context, r *ListsRequest) ([]*List, error) {
	path := "/space/" + url.PathEscape(r.SpaceID) + "/list"
	if r.FolderID != "" {
		path = "/folder/" + url.PathEscape(r.FolderID) + "/list"
	}
	q := url.Values{"archived": {strconv.FormatBool(r.Archived)}}
	raw, err := c.do(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return nil, err
	}
	return ExtractLists(raw), nil
}

// GetList fetches one list.
func (c *Client) GetList(ctx context.Context, r *ListRequest) (*List, error) {
	raw, err := c.do(ctx, http.MethodGet, "/list/"+url.PathEscape(r.ListID), nil, nil)
	if err != nil {
		return nil, err
	}
	return ExtractList(raw), nil
}

// CreateList creates a list in a folder, or folderless in a space.
func (c *Client) CreateList(ctx context.Context, r *CreateListRequest) (*List, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	path := "/space/" + url.PathEscape(r.SpaceID) + "/list"
	if r.FolderID != "" {
		path = "/folder/" + url.PathEscape(r.FolderID) + "/list"
	}
	raw, err := c.do(ctx, http.MethodPost, path, nil, ExtractCreateListData(r))
	if err != nil {
		return nil, err
	}
	return ExtractList(raw), nil
}

// UpdateList applies a partial update to a list.
func (c *Client) UpdateList(ctx context.Context, r *UpdateListRequest) (*List, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	raw, err := c.do(ctx, http.MethodPut, "/list/"+url.PathEscape(r.ListID), nil, ExtractUpdateListData(r))
	if err != nil {
		return nil, err
	}
	return ExtractList(raw), nil
}

// DeleteList deletes a list.
func (c *Client) DeleteList(ctx context.Context, r *ListRequest) error {
	_, err := c.do(ctx, http.MethodDelete, "/list/"+url.PathEscape(r.ListID), nil, nil)
	return err
}

// =============================================================================
// Tasks
// =============================================================================

// GetTasks lists the tasks of a list with the request's filters.
func (c *Client) GetTasks(ctx context.Context, r *TasksRequest) ([]*Task, error) {
	q := queryFrom(ExtractTasksParams(r))
	raw, err := c.do(ctx, http.MethodGet, "/list/"+url.PathEscape(r.ListID)+"/task", q, nil)
	if err != nil {
		return nil, err
	}
	return ExtractTasks(raw), nil
}

// GetTask fetches one task.
func (c *Client) GetTask(ctx context.Context, r *TaskRequest) (*Task, error) {
	raw, err := c.do(ctx, http.MethodGet, "/task/"+url.PathEscape(r.TaskID), taskIDQuery(r), nil)
	if err != nil {
		return nil, err
	}
	return ExtractTask(raw), nil
}

// CreateTask creates a task in a list.
func (c *Client) CreateTask(ctx context.Context, r *CreateTaskRequest) (*Task, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	raw, err := c.do(ctx, http.MethodPost, "/list/"+url.PathEscape(r.ListID)+"/task", nil, ExtractCreateTaskData(r))
	if err != nil {
		return nil, err
	}
	return ExtractTask(raw), nil
}

// UpdateTask applies a partial update to a task.
func (c *Client) UpdateTask(ctx context.Context, r *UpdateTaskRequest) (*Task, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	raw, err := c.do(ctx, http.MethodPut, "/task/"+url.PathEscape(r.TaskID), nil, ExtractUpdateTaskData(r))
	if err != nil {
		return nil, err
	}
	return ExtractTask(raw), nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, r *TaskRequest) error {
	_, err := c.do(ctx, http.MethodDelete, "/task/"+url.PathEscape(r.TaskID), taskIDQuery(r), nil)
	return err
}

// SetCustomField writes one custom field value on a task. The body is
// always {"value": ...}; the value type depends on the field type.
func (c *Client) SetCustomField(ctx context.Context, r *CustomFieldRequest) error {
	path := "/task/" + url.PathEscape(r.TaskID) + "/field/" + url.PathEscape(r.FieldID)
	_, err := c.do(ctx, http.MethodPost, path, nil, map[string]any{"value": r.Value})
	return err
}

// ClearCustomField removes a custom field value from a task.
func (c *Client) ClearCustomField(ctx context.Context, r *CustomFieldRequest) error {
	path := "/task/" + url.PathEscape(r.TaskID) + "/field/" + url.PathEscape(r.FieldID)
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// AddDependency links a task to the task it depends on.
func (c *Client) AddDependency(ctx context.Context, r *DependencyRequest) error {
	body := map[string]any{
		"depends_on":      r.DependsOn,
		"dependency_type": r.DependencyType,
	}
	_, err := c.do(ctx, http.MethodPost, "/task/"+url.PathEscape(r.TaskID)+"/dependency", nil, body)
	return err
}

func taskIDQuery(r *TaskRequest) url.Values {
	if !r.CustomTaskIDs {
		return nil
	}
	return url.Values{
		"custom_task_ids": {"true"},
		"team_id":         {r.TeamID},
	}
}

// =============================================================================
// Comments and tags
// =============================================================================

// GetComments lists the comments on a task.
func (c *Client) GetComments(ctx context.Context, r *CommentsRequest) ([]*Comment, error) {
	raw, err := c.do(ctx, http.MethodGet, "/task/"+url.PathEscape(r.TaskID)+"/comment", nil, nil)
	if err != nil {
		return nil, err
	}
	return ExtractComments(raw), nil
}

// CreateComment adds a comment to a task.
func (c *Client) CreateComment(ctx context.Context, r *CreateCommentRequest) (*Comment, error) {
	raw, err := c.do(ctx, http.MethodPost, "/task/"+url.PathEscape(r.TaskID)+"/comment", nil, ExtractCreateCommentData(r))
	if err != nil {
		return nil, err
	}
	return ExtractComment(raw), nil
}

// UpdateComment replaces the text of a comment. The updated comment
// may arrive bare or wrapped in a "comment" envelope; both shapes are
// accepted.
func (c *Client) UpdateComment(ctx context.Context, r *UpdateCommentRequest) (*Comment, error) {
	path := "/task/" + url.PathEscape(r.TaskID) + "/comment/" + url.PathEscape(r.CommentID)
	raw, err := c.do(ctx, http.MethodPut, path, nil, map[string]any{"comment_text": r.CommentText})
	if err != nil {
		return nil, err
	}
	if m := mapField(raw, "comment"); m != nil {
		return ExtractComment(m), nil
	}
	return ExtractComment(raw), nil
}

// DeleteComment removes a comment from a task.
func (c *Client) DeleteComment(ctx context.Context, r *CommentRequest) error {
	path := "/task/" + url.PathEscape(r.TaskID) + "/comment/" + url.PathEscape(r.CommentID)
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// AddTag attaches a tag to a task.
func (c *Client) AddTag(ctx context.Context, r *TagRequest) error {
	_, err := c.do(ctx, http.MethodPost, "/task/"+url.PathEscape(r.TaskID)+"/tag/"+url.PathEscape(r.TagName), nil, nil)
	return err
}

// GetTaskTags lists the tag names on a task. Entries arrive either as
// bare strings or as tag objects; both are reduced to the name.
func (c *Client) GetTaskTags(ctx context.Context, r *TaskTagsRequest) ([]string, error) {
	raw, err := c.do(ctx, http.MethodGet, "/task/"+url.PathEscape(r.TaskID)+"/tag", nil, nil)
	if err != nil {
		return nil, err
	}
	items := sliceField(raw, "tags")
	names := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			names = append(names, v)
		case map[string]any:
			if name := strField(v, "name"); name != "" {
				names = append(names, name)
			}
		}
	}
	return names, nil
}

// RemoveTag detaches a tag from a task.
func (c *Client) RemoveTag(ctx context.Context, r *TagRequest) error {
	_, err := c.do(ctx, http.MethodDelete, "/task/"+url.PathEscape(r.TaskID)+"/tag/"+url.PathEscape(r.TagName), nil, nil)
	return err
}
