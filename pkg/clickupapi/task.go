package clickupapi

// =============================================================================
// Requests
// =============================================================================

// TaskRequest identifies a single task for get/delete style operations.
// CustomTaskIDs switches the task_id interpretation to externally
// assigned custom IDs, which requires TeamID for routing.
type TaskRequest struct {
	TaskID        string
	CustomTaskIDs bool
	TeamID        string
}

// NewTaskRequest builds a get/delete request for a task.
func NewTaskRequest(taskID string) (*TaskRequest, error) {
	if taskID == "" {
		return nil, validationErr("task_id", "task_id is required")
	}
	return &TaskRequest{TaskID: taskID}, nil
}

// TasksRequest lists tasks in a list with pagination and filters.
type TasksRequest struct {
	ListID        string
	Page          int
	OrderBy       string
	Reverse       bool
	Subtasks      bool
	IncludeClosed bool
	Statuses      []string
	Assignees     []string
	Tags          []string
	DueDateGT     Opt[int64]
	DueDateLT     Opt[int64]
	DateCreatedGT Opt[int64]
	DateCreatedLT Opt[int64]
	DateUpdatedGT Opt[int64]
	DateUpdatedLT Opt[int64]
	CustomFields  []map[string]any
}

// NewTasksRequest builds a task listing request with the documented
// defaults: page 0, ordered by creation date ascending, subtasks and
// closed tasks excluded.
func NewTasksRequest(listID string) (*TasksRequest, error) {
	if listID == "" {
		return nil, validationErr("list_id", "list_id is required")
	}
	return &TasksRequest{ListID: listID, OrderBy: "created"}, nil
}

// CreateTaskRequest carries the fields for POST /list/{list_id}/task.
//
// NotifyAll and CheckRequiredCustomFields default to an explicitly set
// true: these are the only two fields ClickUp expects on every create
// payload even when the caller says nothing.
type CreateTaskRequest struct {
	ListID                    string
	Name                      string
	Description               Opt[string]
	Assignees                 Opt[[]string]
	Tags                      Opt[[]string]
	Status                    Opt[string]
	Priority                  Opt[int]
	DueDate                   Opt[int64]
	DueDateTime               Opt[bool]
	TimeEstimate              Opt[int64]
	StartDate                 Opt[int64]
	StartDateTime             Opt[bool]
	NotifyAll                 Opt[bool]
	Parent                    Opt[string]
	LinksTo                   Opt[string]
	CheckRequiredCustomFields Opt[bool]
	CustomFields              []CustomField
}

// NewCreateTaskRequest builds a task creation request.
func NewCreateTaskRequest(listID, name string) (*CreateTaskRequest, error) {
	if listID == "" {
		return nil, validationErr("list_id", "list_id is required when creating a task")
	}
	if name == "" {
		return nil, validationErr("name", "name is required when creating a task")
	}
	return &CreateTaskRequest{
		ListID:                    listID,
		Name:                      name,
		NotifyAll:                 NewOpt(true),
		CheckRequiredCustomFields: NewOpt(true),
	}, nil
}

// Validate checks the priority domain. Priority 0 is valid and means
// "no priority"; it still round-trips in the payload.
func (r *CreateTaskRequest) Validate() error {
	if p, ok := r.Priority.Get(); ok {
		return validatePriority(p)
	}
	return nil
}

// UpdateTaskRequest carries a partial update for PUT /task/{task_id}.
// Only explicitly set fields are transmitted; see ExtractUpdateTaskData.
type UpdateTaskRequest struct {
	TaskID        string
	Name          Opt[string]
	Description   Opt[string]
	Assignees     Opt[[]string]
	Tags          Opt[[]string]
	Status        Opt[string]
	Priority      Opt[int]
	DueDate       Opt[int64]
	DueDateTime   Opt[bool]
	TimeEstimate  Opt[int64]
	StartDate     Opt[int64]
	StartDateTime Opt[bool]
	Parent        Opt[string]
	CustomFields  []CustomField
}

// NewUpdateTaskRequest builds a task update request with no changes.
func NewUpdateTaskRequest(taskID string) (*UpdateTaskRequest, error) {
	if taskID == "" {
		return nil, validationErr("task_id", "task_id is required")
	}
	return &UpdateTaskRequest{TaskID: taskID}, nil
}

// Validate checks the priority domain.
func (r *UpdateTaskRequest) Validate() error {
	if p, ok := r.Priority.Get(); ok {
		return validatePriority(p)
	}
	return nil
}

func validatePriority(p int) error {
	if p < 0 || p > 4 {
		return validationErr("priority", "priority must be between 0 (no priority) and 4 (low)")
	}
	return nil
}

// CustomFieldRequest identifies one custom field on a task for
// set/clear operations. Set sends {"value": ...} as the body; clear is
// body-less.
type CustomFieldRequest struct {
	TaskID  string
	FieldID string
	Value   any
}

func NewCustomFieldRequest(taskID, fieldID string) (*CustomFieldRequest, error) {
	if taskID == "" {
		return nil, validationErr("task_id", "task_id is required")
	}
	if fieldID == "" {
		return nil, validationErr("field_id", "field_id is required")
	}
	return &CustomFieldRequest{TaskID: taskID, FieldID: fieldID}, nil
}

// DependencyRequest links a task to the task it waits on, for
// POST /task/{task_id}/dependency.
type DependencyRequest struct {
	TaskID         string
	DependsOn      string
	DependencyType string
}

// NewDependencyRequest builds a dependency request with the default
// "waiting_on" relation.
func NewDependencyRequest(taskID, dependsOn string) (*DependencyRequest, error) {
	if taskID == "" {
		return nil, validationErr("task_id", "task_id is required")
	}
	if dependsOn == "" {
		return nil, validationErr("depends_on", "depends_on is required when adding a dependency")
	}
	return &DependencyRequest{TaskID: taskID, DependsOn: dependsOn, DependencyType: "waiting_on"}, nil
}

// =============================================================================
// Response model
// =============================================================================

// CustomField is the normalized shape of a custom field value: a
// structured {id, name, type, value} tuple.
type CustomField struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Type  string `json:"type,omitempty"`
	Value any    `json:"value,omitempty"`
}

// Task is the flattened view of a ClickUp task: scalar fields copied,
// identifier fields stringified, the status object lifted to its label
// and assignee objects projected to their IDs. Collections the gateway
// does not act on (watchers, checklists, dependencies) pass through
// loosely typed; unknown upstream fields are retained in Extra.
type Task struct {
	ID            string        `json:"id"`
	CustomID      string        `json:"customId,omitempty"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	Status        string        `json:"status,omitempty"`
	Priority      int           `json:"priority,omitempty"`
	ListID        string        `json:"listId,omitempty"`
	FolderID      string        `json:"folderId,omitempty"`
	SpaceID       string        `json:"spaceId,omitempty"`
	TeamID        string        `json:"teamId,omitempty"`
	Parent        string        `json:"parent,omitempty"`
	Assignees     []string      `json:"assignees,omitempty"`
	Tags          []string      `json:"tags,omitempty"`
	DueDate       int64         `json:"dueDate,omitempty"`
	DueDateTime   bool          `json:"dueDateTime,omitempty"`
	StartDate     int64         `json:"startDate,omitempty"`
	StartDateTime bool          `json:"startDateTime,omitempty"`
	TimeEstimate  int64         `json:"timeEstimate,omitempty"`
	TimeSpent     int64         `json:"timeSpent,omitempty"`
	DateCreated   int64         `json:"dateCreated,omitempty"`
	DateUpdated   int64         `json:"dateUpdated,omitempty"`
	DateClosed    int64         `json:"dateClosed,omitempty"`
	Archived      bool          `json:"archived,omitempty"`
	URL           string        `json:"url,omitempty"`
	CustomFields  []CustomField `json:"customFields,omitempty"`
	Watchers      []any         `json:"watchers,omitempty"`
	Checklists    []any         `json:"checklists,omitempty"`
	Dependencies  []any         `json:"dependencies,omitempty"`
	Extra         RawFields     `json:"-"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	type plain Task
	return marshalWithExtra(plain(t), t.Extra)
}

var taskKnownFields = keySet(
	"id", "custom_id", "name", "description", "text_content", "status",
	"priority", "list", "folder", "space", "project", "team_id", "parent",
	"assignees", "tags", "due_date", "due_date_time", "start_date",
	"start_date_time", "time_estimate", "time_spent", "date_created",
	"date_updated", "date_closed", "archived", "url", "custom_fields",
	"watchers", "checklists", "dependencies",
)

// ExtractTask flattens a raw task payload into a Task. Missing fields
// become zero values; the extractor never fails on shape drift.
func ExtractTask(raw map[string]any) *Task {
	t := &Task{
		ID:            idField(raw, "id"),
		CustomID:      strField(raw, "custom_id"),
		Name:          strField(raw, "name"),
		Description:   strField(raw, "description"),
		Priority:      priorityFromObject(mapField(raw, "priority")),
		TeamID:        idField(raw, "team_id"),
		Parent:        strField(raw, "parent"),
		DueDate:       int64Field(raw, "due_date"),
		DueDateTime:   boolField(raw, "due_date_time"),
		StartDate:     int64Field(raw, "start_date"),
		StartDateTime: boolField(raw, "start_date_time"),
		TimeEstimate:  int64Field(raw, "time_estimate"),
		TimeSpent:     int64Field(raw, "time_spent"),
		DateCreated:   int64Field(raw, "date_created"),
		DateUpdated:   int64Field(raw, "date_updated"),
		DateClosed:    int64Field(raw, "date_closed"),
		Archived:      boolField(raw, "archived"),
		URL:           strField(raw, "url"),
		Extra:         extraFields(raw, taskKnownFields),
	}
	if t.Description == "" {
		t.Description = strField(raw, "text_content")
	}
	if status := mapField(raw, "status"); status != nil {
		t.Status = strField(status, "status")
	}
	if list := mapField(raw, "list"); list != nil {
		t.ListID = idField(list, "id")
	}
	if folder := mapField(raw, "folder"); folder != nil {
		t.FolderID = idField(folder, "id")
	}
	if space := mapField(raw, "space"); space != nil {
		t.SpaceID = idField(space, "id")
	}
	for _, a := range sliceField(raw, "assignees") {
		if am, ok := a.(map[string]any); ok {
			t.Assignees = append(t.Assignees, idField(am, "id"))
		}
	}
	for _, tg := range sliceField(raw, "tags") {
		if tm, ok := tg.(map[string]any); ok {
			t.Tags = append(t.Tags, strField(tm, "name"))
		}
	}
	for _, cf := range sliceField(raw, "custom_fields") {
		cm, ok := cf.(map[string]any)
		if !ok {
			continue
		}
		id := idField(cm, "id")
		if id == "" {
			// Entries without an identifier cannot be addressed and
			// are silently skipped.
			continue
		}
		t.CustomFields = append(t.CustomFields, CustomField{
			ID:    id,
			Name:  strField(cm, "name"),
			Type:  strField(cm, "type"),
			Value: cm["value"],
		})
	}
	t.Watchers = sliceField(raw, "watchers")
	t.Checklists = sliceField(raw, "checklists")
	t.Dependencies = sliceField(raw, "dependencies")
	return t
}

// priorityFromObject lifts the numeric level out of ClickUp's priority
// object ({"id": "2", "priority": "high", ...}). Absent object means
// no priority (0).
func priorityFromObject(obj map[string]any) int {
	if obj == nil {
		return 0
	}
	if p := intField(obj, "id"); p != 0 {
		return p
	}
	return intField(obj, "priority")
}

// ExtractTasks flattens the "tasks" collection of a listing response.
// Output order matches the upstream listing order.
func ExtractTasks(raw map[string]any) []*Task {
	items := sliceField(raw, "tasks")
	tasks := make([]*Task, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		tasks = append(tasks, ExtractTask(m))
	}
	return tasks
}

// =============================================================================
// Payload builders
// =============================================================================

// ExtractCreateTaskData builds the POST body for task creation. Only
// explicitly set fields appear; an explicit false or 0 is transmitted.
func ExtractCreateTaskData(r *CreateTaskRequest) map[string]any {
	data := map[string]any{"name": r.Name}
	if v, ok := r.Description.Get(); ok {
		data["description"] = v
	}
	if v, ok := r.Assignees.Get(); ok {
		data["assignees"] = v
	}
	if v, ok := r.Tags.Get(); ok {
		data["tags"] = v
	}
	if v, ok := r.Status.Get(); ok {
		data["status"] = v
	}
	if v, ok := r.Priority.Get(); ok {
		data["priority"] = v
	}
	if v, ok := r.DueDate.Get(); ok {
		data["due_date"] = v
		if t, ok := r.DueDateTime.Get(); ok {
			data["due_date_time"] = t
		}
	}
	if v, ok := r.TimeEstimate.Get(); ok {
		data["time_estimate"] = v
	}
	if v, ok := r.StartDate.Get(); ok {
		data["start_date"] = v
		if t, ok := r.StartDateTime.Get(); ok {
			data["start_date_time"] = t
		}
	}
	if v, ok := r.NotifyAll.Get(); ok {
		data["notify_all"] = v
	}
	if v, ok := r.Parent.Get(); ok {
		data["parent"] = v
	}
	if v, ok := r.LinksTo.Get(); ok {
		data["links_to"] = v
	}
	if v, ok := r.CheckRequiredCustomFields.Get(); ok {
		data["check_required_custom_fields"] = v
	}
	if len(r.CustomFields) > 0 {
		data["custom_fields"] = customFieldValues(r.CustomFields)
	}
	return data
}

// ExtractUpdateTaskData builds the PUT body for a partial task update.
// A request with nothing set yields an empty payload.
func ExtractUpdateTaskData(r *UpdateTaskRequest) map[string]any {
	data := map[string]any{}
	if v, ok := r.Name.Get(); ok {
		data["name"] = v
	}
	if v, ok := r.Description.Get(); ok {
		data["description"] = v
	}
	if v, ok := r.Assignees.Get(); ok {
		data["assignees"] = v
	}
	if v, ok := r.Tags.Get(); ok {
		data["tags"] = v
	}
	if v, ok := r.Status.Get(); ok {
		data["status"] = v
	}
	if v, ok := r.Priority.Get(); ok {
		data["priority"] = v
	}
	if v, ok := r.DueDate.Get(); ok {
		data["due_date"] = v
		if t, ok := r.DueDateTime.Get(); ok {
			data["due_date_time"] = t
		}
	}
	if v, ok := r.TimeEstimate.Get(); ok {
		data["time_estimate"] = v
	}
	if v, ok := r.StartDate.Get(); ok {
		data["start_date"] = v
		if t, ok := r.StartDateTime.Get(); ok {
			data["start_date_time"] = t
		}
	}
	if v, ok := r.Parent.Get(); ok {
		data["parent"] = v
	}
	if len(r.CustomFields) > 0 {
		data["custom_fields"] = customFieldValues(r.CustomFields)
	}
	return data
}

// customFieldValues normalizes custom field entries to the two-key
// {field_id, value} shape the write endpoints expect.
func customFieldValues(fields []CustomField) []map[string]any {
	out := make([]map[string]any, 0, len(fields))
	for _, f := range fields {
		out = append(out, map[string]any{"field_id": f.ID, "value": f.Value})
	}
	return out
}

// ExtractTasksParams builds the query parameters for task listing.
// The five paging/ordering fields always appear (their defaults are
// meaningful); filters appear only when set. Collection filters use
// ClickUp's array notation ("statuses[]").
func ExtractTasksParams(r *TasksRequest) map[string]any {
	params := map[string]any{
		"page":           r.Page,
		"order_by":       r.OrderBy,
		"reverse":        r.Reverse,
		"subtasks":       r.Subtasks,
		"include_closed": r.IncludeClosed,
	}
	if len(r.Statuses) > 0 {
		params["statuses[]"] = r.Statuses
	}
	if len(r.Assignees) > 0 {
		params["assignees[]"] = r.Assignees
	}
	if len(r.Tags) > 0 {
		params["tags[]"] = r.Tags
	}
	if v, ok := r.DueDateGT.Get(); ok {
		params["due_date_gt"] = v
	}
	if v, ok := r.DueDateLT.Get(); ok {
		params["due_date_lt"] = v
	}
	if v, ok := r.DateCreatedGT.Get(); ok {
		params["date_created_gt"] = v
	}
	if v, ok := r.DateCreatedLT.Get(); ok {
		params["date_created_lt"] = v
	}
	if v, ok := r.DateUpdatedGT.Get(); ok {
		params["date_updated_gt"] = v
	}
	if v, ok := r.DateUpdatedLT.Get(); ok {
		params["date_updated_lt"] = v
	}
	if len(r.CustomFields) > 0 {
		params["custom_fields"] = r.CustomFields
	}
	return params
}
