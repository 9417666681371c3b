package clickupapi

// ListRequest identifies a single list.
type ListRequest struct {
	ListID string
}

func NewListRequest(listID string) (*ListRequest, error) {
	if listID == "" {
		return nil, validationErr("list_id", "list_id is required")
	}
	return &ListRequest{ListID: listID}, nil
}

// ListsRequest enumerates the lists of a container: either the lists
// inside a folder, or the folderless lists directly under a space.
// Exactly one container may drive the request; folder wins when both
// are given.
type ListsRequest struct {
	FolderID string
	SpaceID  string
	Archived bool
}

func NewListsRequest(folderID, spaceID string) (*ListsRequest, error) {
	if folderID == "" && spaceID == "" {
		return nil, validationErr("folder_id", "either folder_id or space_id must be provided")
	}
	return &ListsRequest{FolderID: folderID, SpaceID: spaceID}, nil
}

// CreateListRequest carries the fields for folder or space list
// creation. Like ListsRequest, folder takes precedence as container.
type CreateListRequest struct {
	FolderID    string
	SpaceID     string
	Name        string
	Content     Opt[string]
	DueDate     Opt[int64]
	DueDateTime Opt[bool]
	Priority    Opt[int]
	Assignee    Opt[string]
	Status      Opt[string]
}

func NewCreateListRequest(folderID, spaceID, name string) (*CreateListRequest, error) {
	if folderID == "" && spaceID == "" {
		return nil, validationErr("folder_id", "either folder_id or space_id must be provided")
	}
	if name == "" {
		return nil, validationErr("name", "name is required when creating a list")
	}
	return &CreateListRequest{FolderID: folderID, SpaceID: spaceID, Name: name}, nil
}

// Validate checks the priority domain.
func (r *CreateListRequest) Validate() error {
	if p, ok := r.Priority.Get(); ok {
		return validatePriority(p)
	}
	return nil
}

// UpdateListRequest carries a partial update for PUT /list/{list_id}.
// UnsetStatus clears the list status upstream instead of setting one.
type UpdateListRequest struct {
	ListID      string
	Name        Opt[string]
	Content     Opt[string]
	DueDate     Opt[int64]
	DueDateTime Opt[bool]
	Priority    Opt[int]
	Assignee    Opt[string]
	Status      Opt[string]
	UnsetStatus Opt[bool]
}

func NewUpdateListRequest(listID string) (*UpdateListRequest, error) {
	if listID == "" {
		return nil, validationErr("list_id", "list_id is required")
	}
	return &UpdateListRequest{ListID: listID}, nil
}

// Validate checks the priority domain.
func (r *UpdateListRequest) Validate() error {
	if p, ok := r.Priority.Get(); ok {
		return validatePriority(p)
	}
	return nil
}

// List is the flattened view of a ClickUp list. The status and
// priority objects are lifted to their labels and the assignee object
// to its ID.
type List struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	OrderIndex       int       `json:"orderindex,omitempty"`
	Content          string    `json:"content,omitempty"`
	Status           string    `json:"status,omitempty"`
	Priority         int       `json:"priority,omitempty"`
	Assignee         string    `json:"assignee,omitempty"`
	TaskCount        int       `json:"taskCount,omitempty"`
	DueDate          int64     `json:"dueDate,omitempty"`
	DueDateTime      bool      `json:"dueDateTime,omitempty"`
	StartDate        int64     `json:"startDate,omitempty"`
	StartDateTime    bool      `json:"startDateTime,omitempty"`
	FolderID         string    `json:"folderId,omitempty"`
	SpaceID          string    `json:"spaceId,omitempty"`
	Archived         bool      `json:"archived,omitempty"`
	OverrideStatuses bool      `json:"overrideStatuses,omitempty"`
	Statuses         []any     `json:"statuses,omitempty"`
	Extra            RawFields `json:"-"`
}

func (l List) MarshalJSON() ([]byte, error) {
	type plain List
	return marshalWithExtra(plain(l), l.Extra)
}

var listKnownFields = keySet(
	"id", "name", "orderindex", "content", "status", "priority",
	"assignee", "task_count", "due_date", "due_date_time", "start_date",
	"start_date_time", "folder", "space", "archived",
	"override_statuses", "statuses",
)

// ExtractList flattens a raw list payload.
func ExtractList(raw map[string]any) *List {
	l := &List{
		ID:               idField(raw, "id"),
		Name:             strField(raw, "name"),
		OrderIndex:       intField(raw, "orderindex"),
		Content:          strField(raw, "content"),
		TaskCount:        intField(raw, "task_count"),
		DueDate:          int64Field(raw, "due_date"),
		DueDateTime:      boolField(raw, "due_date_time"),
		StartDate:        int64Field(raw, "start_date"),
		StartDateTime:    boolField(raw, "start_date_time"),
		Archived:         boolField(raw, "archived"),
		OverrideStatuses: boolField(raw, "override_statuses"),
		Statuses:         sliceField(raw, "statuses"),
		Extra:            extraFields(raw, listKnownFields),
	}
	if status := mapField(raw, "status"); status != nil {
		l.Status = strField(status, "status")
	}
	l.Priority = priorityFromObject(mapField(raw, "priority"))
	if assignee := mapField(raw, "assignee"); assignee != nil {
		l.Assignee = idField(assignee, "id")
	}
	if folder := mapField(raw, "folder"); folder != nil {
		l.FolderID = idField(folder, "id")
	}
	if space := mapField(raw, "space"); space != nil {
		l.SpaceID = idField(space, "id")
	}
	return l
}

// ExtractLists flattens the "lists" collection of a listing response.
func ExtractLists(raw map[string]any) []*List {
	items := sliceField(raw, "lists")
	lists := make([]*List, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		lists = append(lists, ExtractList(m))
	}
	return lists
}

// ExtractCreateListData builds the POST body for list creation. The
// container IDs route the request and never appear here.
func ExtractCreateListData(r *CreateListRequest) map[string]any {
	data := map[string]any{"name": r.Name}
	if v, ok := r.Content.Get(); ok {
		data["content"] = v
	}
	if v, ok := r.DueDate.Get(); ok {
		data["due_date"] = v
		if t, ok := r.DueDateTime.Get(); ok {
			data["due_date_time"] = t
		}
	}
	if v, ok := r.Priority.Get(); ok {
		data["priority"] = v
	}
	if v, ok := r.Assignee.Get(); ok {
		data["assignee"] = v
	}
	if v, ok := r.Status.Get(); ok {
		data["status"] = v
	}
	return data
}

// ExtractUpdateListData builds the PUT body for a partial list update.
func ExtractUpdateListData(r *UpdateListRequest) map[string]any {
	data := map[string]any{}
	if v, ok := r.Name.Get(); ok {
		data["name"] = v
	}
	if v, ok := r.Content.Get(); ok {
		data["content"] = v
	}
	if v, ok := r.DueDate.Get(); ok {
		data["due_date"] = v
		if t, ok := r.DueDateTime.Get(); ok {
			data["due_date_time"] = t
		}
	}
	if v, ok := r.Priority.Get(); ok {
		data["priority"] = v
	}
	if v, ok := r.Assignee.Get(); ok {
		data["assignee"] = v
	}
	if v, ok := r.Status.Get(); ok {
		data["status"] = v
	}
	if v, ok := r.UnsetStatus.Get(); ok {
		data["unset_status"] = v
	}
	return data
}
